// Package transfer реализует HTTP-обработчик передачи прав администратора.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nasifhossain/DAO-Hall/internal/http/middlewarectx"
	"github.com/nasifhossain/DAO-Hall/internal/http/response"
	"github.com/nasifhossain/DAO-Hall/internal/lib/sl"
	"github.com/nasifhossain/DAO-Hall/internal/models"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
)

// Request — входные данные передачи прав администратора
type Request struct {
	Email  string `json:"email" validate:"required,email"`
	Wallet string `json:"wallet" validate:"required"`
	By     string `json:"by" validate:"required"`
}

// Service описывает интерфейс бизнес-логики передачи прав.
type Service interface {
	Transfer(ctx context.Context, actorID, newEmail, newWallet, by string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы передачи прав администратора.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Передача прав администратора
// @Description Снимает флаг администратора с вызывающего и ставит его кандидату в одной транзакции. Вызывается после transferOwnership в контракте. Доступно только администраторам.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Email и кошелёк нового администратора, инициатор"
// @Success 200 {object} response.Response "Права переданы"
// @Failure 400 {object} response.ErrorResponse "Кошелёк кандидата не совпадает"
// @Failure 403 {object} response.ErrorResponse "Доступ только для администраторов"
// @Failure 404 {object} response.ErrorResponse "Пользователь или прежний администратор не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/transfer [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.transfer"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	isAdmin, ok := r.Context().Value(middlewarectx.IsAdmin).(bool)
	if !ok || !isAdmin {
		log.Info("non-admin tried to transfer admin rights")
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied: admins only"))
		return
	}

	actorID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || actorID == "" {
		log.Error("missing user id in token context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	newAdmin, err := h.service.Transfer(r.Context(), actorID, req.Email, req.Wallet, req.By)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			log.Info("transfer candidate not found", slog.String("email", req.Email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, userservice.ErrOldAdminNotFound):
			log.Info("old admin not found", slog.String("actor_id", actorID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("old admin not found"))
		case errors.Is(err, userservice.ErrWalletMismatch):
			log.Info("transfer candidate wallet mismatch", slog.String("email", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("wallet address does not match"))
		default:
			log.Error("admin transfer failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error"))
		}
		return
	}

	log.Info("admin rights transferred",
		slog.String("new_admin", newAdmin.Email),
		slog.String("by", req.By),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": fmt.Sprintf("Ownership transferred to %s (%s) by %s", req.Email, req.Wallet, req.By),
	}))
}
