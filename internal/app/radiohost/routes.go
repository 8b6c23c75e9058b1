// Package radiohost предоставляет маршруты для основного приложения.
package radiohost

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/auth/confirm"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/auth/login"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/auth/signup"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/health"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/station/account"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/station/checkname"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/station/discover"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/station/react"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/station/update"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/station/view"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/tier/change"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/tier/checkout"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/handlers/tier/confirmpayment"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/middlewarectx"
	authservice "github.com/magabrotheeeer/radio-hosting/internal/services/auth"
	stationservice "github.com/magabrotheeeer/radio-hosting/internal/services/station"
	subscriptionservice "github.com/magabrotheeeer/radio-hosting/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Маршрут станции /{stationName} объявляется последним: chi сопоставляет
// статические пути раньше параметризованных, поэтому служебные ручки
// никогда не перехватываются именем станции.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	stationService *stationservice.StationService,
	subscriptionService *subscriptionservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/signup", signup.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)
	r.Get("/confirm", confirm.New(logger, authService).ServeHTTP)
	r.Get("/discover", discover.New(logger, stationService).ServeHTTP)
	r.Get("/payment-success", confirmpayment.New(logger, subscriptionService).ServeHTTP)
	r.Get("/health", health.New(logger).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger, 1, 3))
		r.Post("/update-station", update.New(logger, stationService).ServeHTTP)
		r.Post("/check-station-name", checkname.New(logger, stationService).ServeHTTP)
		r.Get("/account", account.New(logger, stationService).ServeHTTP)
		r.Post("/update-tier", change.New(logger, subscriptionService).ServeHTTP)
		r.Post("/create-checkout-session", checkout.New(logger, subscriptionService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Публичные страницы станций. Реакции анонимны, поэтому лимит
	// на них самый жёсткий: 5 запросов за 10 секунд.
	r.Get("/{stationName}", view.New(logger, stationService).ServeHTTP)
	r.With(middlewarectx.RateLimitMiddleware(logger, rate.Every(2*time.Second), 5)).
		Post("/{stationName}/react", react.New(logger, stationService).ServeHTTP)
}
