package hallchain

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/all"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/approve"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/checktransfer"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/health"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/login"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/profile"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/register"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/requests"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/transfer"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/wallet"
	"github.com/nasifhossain/DAO-Hall/internal/http/handlers/user/walletlogin"
	"github.com/nasifhossain/DAO-Hall/internal/http/middlewarectx"
	"github.com/nasifhossain/DAO-Hall/internal/lib/jwt"
	userservice "github.com/nasifhossain/DAO-Hall/internal/services/user"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *userservice.Service, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/user", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, userService).ServeHTTP)
		r.Post("/login", login.New(logger, userService).ServeHTTP)
		r.Get("/by-wallet/{wallet}", walletlogin.New(logger, userService).ServeHTTP)
		r.Get("/profile", profile.New(logger, userService).ServeHTTP)
		r.Put("/wallet", wallet.New(logger, userService).ServeHTTP)

		// Группа с JWT аутентификацией, только административные операции
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Put("/approve/{id}", approve.New(logger, userService).ServeHTTP)
			r.Get("/requests", requests.New(logger, userService).ServeHTTP)
			r.Get("/all", all.New(logger, userService).ServeHTTP)
			r.Post("/checktransfer", checktransfer.New(logger, userService).ServeHTTP)
			r.Post("/transfer", transfer.New(logger, userService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
