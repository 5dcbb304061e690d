// Package wallet реализует HTTP-обработчик привязки адреса кошелька.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/nasifhossain/DAO-Hall/internal/http/response"
	"github.com/nasifhossain/DAO-Hall/internal/lib/sl"
	"github.com/nasifhossain/DAO-Hall/internal/models"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
)

// Request — входные данные для привязки кошелька
type Request struct {
	Email         string `json:"email" validate:"required,email"`
	WalletAddress string `json:"walletAddress" validate:"required"`
}

// Service описывает интерфейс бизнес-логики привязки кошелька.
type Service interface {
	BindWallet(ctx context.Context, email, wallet string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы привязки кошелька.
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
// @Summary Привязка адреса кошелька
// @Description Привязывает адрес кошелька к пользователю с указанным email. Адрес, занятый другим пользователем, отклоняется.
// @Tags User
// @Accept json
// @Produce json
// @Param request body Request true "Email и адрес кошелька"
// @Success 200 {object} response.Response "Кошелёк привязан"
// @Failure 400 {object} response.ErrorResponse "Кошелёк уже используется"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/wallet [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.wallet"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	u, err := h.service.BindWallet(r.Context(), req.Email, req.WalletAddress)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrWalletInUse):
			log.Info("wallet bind rejected, wallet in use", slog.String("wallet", req.WalletAddress))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("wallet already in use"))
		case errors.Is(err, userservice.ErrNotFound):
			log.Info("wallet bind rejected, user not found", slog.String("email", req.Email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("wallet update failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error"))
		}
		return
	}

	log.Info("wallet updated", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "wallet updated",
		"user":    u,
	}))
}
