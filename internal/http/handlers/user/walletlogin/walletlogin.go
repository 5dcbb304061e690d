// Package walletlogin реализует HTTP-обработчик входа по адресу кошелька.
//
// Пароль не запрашивается: предъявление адреса само по себе аутентифицирует.
package walletlogin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nasifhossain/DAO-Hall/internal/http/response"
	"github.com/nasifhossain/DAO-Hall/internal/lib/sl"
	"github.com/nasifhossain/DAO-Hall/internal/models"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
)

// Service описывает интерфейс бизнес-логики входа по кошельку.
type Service interface {
	LoginByWallet(ctx context.Context, wallet string) (string, *models.User, error)
}

// Handler обрабатывает HTTP-запросы входа по кошельку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вход по адресу кошелька
// @Description Выдаёт JWT пользователю, к которому привязан указанный адрес кошелька.
// @Tags User
// @Produce json
// @Param wallet path string true "Адрес кошелька"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Адрес не указан"
// @Failure 403 {object} response.ErrorResponse "Пользователь не одобрен администратором"
// @Failure 404 {object} response.ErrorResponse "Кошелёк не привязан ни к одному пользователю"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/by-wallet/{wallet} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.walletlogin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	wallet := chi.URLParam(r, "wallet")
	if wallet == "" {
		log.Error("wallet address missing")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("wallet address required"))
		return
	}

	token, u, err := h.service.LoginByWallet(r.Context(), wallet)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			log.Info("wallet login rejected, wallet unknown", slog.String("wallet", wallet))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, userservice.ErrNotApproved):
			log.Info("wallet login rejected, user not approved", slog.String("wallet", wallet))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("not approved by admin yet"))
		default:
			log.Error("wallet login failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error"))
		}
		return
	}

	log.Info("wallet login success", slog.String("wallet", wallet))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  u.Public(),
	}))
}
