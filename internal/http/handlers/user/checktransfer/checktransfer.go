// Package checktransfer реализует HTTP-обработчик проверки готовности передачи прав администратора.
package checktransfer

import (
	"context"
	"encoding/json"
	"errors"
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

// Request — входные данные проверки кандидата на роль администратора
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает интерфейс бизнес-логики проверки передачи прав.
type Service interface {
	CheckTransfer(ctx context.Context, email string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы проверки кандидата на передачу прав.
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
// @Summary Проверка передачи прав администратора
// @Description Проверяет, что кандидат существует и привязал кошелёк. Состояние не меняется. Доступно только администраторам.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Email кандидата"
// @Success 200 {object} response.Response "Кандидат готов к передаче прав"
// @Failure 400 {object} response.ErrorResponse "У кандидата не привязан кошелёк"
// @Failure 403 {object} response.ErrorResponse "Доступ только для администраторов"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/checktransfer [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.checktransfer"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	isAdmin, ok := r.Context().Value(middlewarectx.IsAdmin).(bool)
	if !ok || !isAdmin {
		log.Info("non-admin tried to check admin transfer")
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied: admins only"))
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

	u, err := h.service.CheckTransfer(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			log.Info("transfer candidate not found", slog.String("email", req.Email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, userservice.ErrNoWallet):
			log.Info("transfer candidate has no wallet", slog.String("email", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("new admin wallet address not set"))
		default:
			log.Error("transfer check failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error"))
		}
		return
	}

	log.Info("transfer candidate verified", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "new admin verified",
		"newAdmin": map[string]any{
			"email":         u.Email,
			"walletAddress": u.WalletAddress,
		},
	}))
}
