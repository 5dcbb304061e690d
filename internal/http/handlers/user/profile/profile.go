// Package profile реализует HTTP-обработчик получения профиля пользователя.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nasifhossain/DAO-Hall/internal/http/response"
	"github.com/nasifhossain/DAO-Hall/internal/lib/sl"
	"github.com/nasifhossain/DAO-Hall/internal/models"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
)

// Service описывает интерфейс бизнес-логики получения профиля.
type Service interface {
	Profile(ctx context.Context, email string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы чтения профиля.
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
// @Summary Профиль пользователя
// @Description Возвращает публичный профиль пользователя по email без хеша пароля.
// @Tags User
// @Produce json
// @Param email query string true "Email пользователя"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 400 {object} response.ErrorResponse "Не указан email"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		log.Info("profile request without email")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("email is required"))
		return
	}

	u, err := h.service.Profile(r.Context(), email)
	if err != nil {
		if errors.Is(err, userservice.ErrNotFound) {
			log.Info("user not found", slog.String("email", email))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to load profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	log.Info("profile loaded", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": u,
	}))
}
