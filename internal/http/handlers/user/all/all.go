// Package all реализует HTTP-обработчик списка одобренных пользователей.
package all

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/nasifhossain/DAO-Hall/internal/http/middlewarectx"
	"github.com/nasifhossain/DAO-Hall/internal/http/response"
	"github.com/nasifhossain/DAO-Hall/internal/lib/sl"
	"github.com/nasifhossain/DAO-Hall/internal/models"
)

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListApproved(ctx context.Context) ([]*models.User, error)
}

// Handler обрабатывает HTTP-запросы списка одобренных пользователей.
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
// @Summary Список одобренных пользователей
// @Description Возвращает всех одобренных пользователей. Доступно только администраторам.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список пользователей"
// @Failure 403 {object} response.ErrorResponse "Доступ только для администраторов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.all"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	isAdmin, ok := r.Context().Value(middlewarectx.IsAdmin).(bool)
	if !ok || !isAdmin {
		log.Info("non-admin tried to list users")
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied: admins only"))
		return
	}

	users, err := h.service.ListApproved(r.Context())
	if err != nil {
		log.Error("failed to list approved users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	log.Info("approved users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": users,
	}))
}
