// Package approve реализует HTTP-обработчик одобрения пользователя администратором.
package approve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/nasifhossain/DAO-Hall/internal/http/middlewarectx"
	"github.com/nasifhossain/DAO-Hall/internal/http/response"
	"github.com/nasifhossain/DAO-Hall/internal/lib/sl"
	"github.com/nasifhossain/DAO-Hall/internal/models"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"
)

// Service описывает интерфейс бизнес-логики одобрения.
type Service interface {
	Approve(ctx context.Context, actorID, targetID string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы одобрения.
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
// @Summary Одобрение пользователя
// @Description Выставляет isApproved=true пользователю с указанным id. Только для администратора.
// @Tags Admin
// @Produce json
// @Param id path string true "Идентификатор пользователя"
// @Success 200 {object} response.Response "Пользователь одобрен"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 403 {object} response.ErrorResponse "Доступ только администратору"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /user/approve/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.approve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	isAdmin, ok := r.Context().Value(middlewarectx.IsAdmin).(bool)
	if !ok || !isAdmin {
		log.Info("approve rejected, caller is not admin")
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied: admins only"))
		return
	}
	actorID, _ := r.Context().Value(middlewarectx.UserID).(string)

	targetID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(targetID); err != nil {
		log.Error("invalid user id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	u, err := h.service.Approve(r.Context(), actorID, targetID)
	if err != nil {
		if errors.Is(err, userservice.ErrNotFound) {
			log.Info("approve rejected, user not found", slog.String("user_id", targetID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("approval failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	log.Info("user approved", slog.String("user_id", u.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user approved",
		"user":    u,
	}))
}
