// Package change реализует HTTP-обработчик смены тарифа. Прямо через эту
// ручку доступен только переход на Free: платные тарифы оформляются через
// сессию оплаты.
package change

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/middlewarectx"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/services/subscription"
)

// Handler обрабатывает HTTP-запросы смены тарифа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс смены тарифа.
type Service interface {
	ChangeTier(ctx context.Context, email, tier string) error
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
// @Summary Смена тарифа
// @Description Переводит аккаунт на бесплатный тариф. Платные тарифы оформляются через checkout.
// @Tags Tier
// @Accept  json
// @Produce  json
// @Param request body models.DummyTierChange true "Целевой тариф"
// @Success 200 {object} map[string]any "Тариф изменён"
// @Failure 400 {object} response.ErrorResponse "Платный тариф требует оплаты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /update-tier [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tier.change"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	var req models.DummyTierChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.ChangeTier(r.Context(), email, req.Tier); err != nil {
		switch {
		case errors.Is(err, subscription.ErrPaymentRequired):
			log.Info("paid tier requires checkout", slog.String("tier", req.Tier))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("paid tier requires checkout, use /create-checkout-session"))
		case errors.Is(err, subscription.ErrUnknownTier):
			log.Info("unknown tier", slog.String("tier", req.Tier))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown tier"))
		case errors.Is(err, subscription.ErrUserNotFound):
			log.Error("user not found", slog.String("email", email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to change tier", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to change tier"))
		}
		return
	}

	log.Info("tier changed", slog.String("email", email), slog.String("tier", req.Tier))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"tier": req.Tier,
	}))
}
