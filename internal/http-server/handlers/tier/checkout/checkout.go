// Package checkout реализует HTTP-обработчик создания сессии оплаты
// платного тарифа. Возвращает URL hosted-страницы платёжного провайдера.
package checkout

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

// Handler обрабатывает HTTP-запросы создания сессии оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс оформления платного тарифа.
type Service interface {
	Checkout(ctx context.Context, email, tier string) (string, error)
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
// @Summary Создание сессии оплаты
// @Description Создаёт сессию оплаты платного тарифа и возвращает URL страницы оплаты.
// @Tags Tier
// @Accept  json
// @Produce  json
// @Param request body models.DummyTierChange true "Оплачиваемый тариф"
// @Success 200 {object} map[string]any "URL страницы оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Тариф не оплачивается"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /create-checkout-session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tier.checkout"

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

	url, err := h.service.Checkout(r.Context(), email, req.Tier)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrUnknownTier):
			log.Info("tier is not purchasable", slog.String("tier", req.Tier))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("tier is not purchasable"))
		case errors.Is(err, subscription.ErrUserNotFound):
			log.Error("user not found", slog.String("email", email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to create checkout session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create checkout session"))
		}
		return
	}

	log.Info("checkout session created", slog.String("email", email), slog.String("tier", req.Tier))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"url": url,
	}))
}
