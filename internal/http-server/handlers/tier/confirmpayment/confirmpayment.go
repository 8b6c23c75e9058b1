// Package confirmpayment реализует HTTP-обработчик возврата со страницы
// оплаты. Сервер сам перепроверяет статус сессии у провайдера: редиректу
// браузера доверять нельзя.
package confirmpayment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/services/subscription"
)

// Handler обрабатывает HTTP-запросы подтверждения оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подтверждения оплаты тарифа.
type Service interface {
	ConfirmPayment(ctx context.Context, sessionID string) (*models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтверждение оплаты тарифа
// @Description Проверяет оплату сессии у провайдера и активирует оплаченный тариф.
// @Tags Tier
// @Produce  json
// @Param session_id query string true "Идентификатор сессии оплаты"
// @Success 200 {object} map[string]any "Тариф активирован"
// @Failure 400 {object} response.ErrorResponse "Идентификатор сессии отсутствует"
// @Failure 402 {object} response.ErrorResponse "Оплата не завершена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payment-success [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tier.confirmpayment"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		log.Error("session_id is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("session_id is missing"))
		return
	}

	user, err := h.service.ConfirmPayment(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, subscription.ErrPaymentNotCompleted) {
			log.Info("payment not completed", slog.String("session", sessionID))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("payment not completed"))
			return
		}
		log.Error("failed to confirm payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm payment"))
		return
	}

	log.Info("subscription activated",
		slog.String("email", user.Email), slog.String("tier", user.Tier))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"tier":                user.Tier,
		"subscriptionEndDate": user.SubscriptionEndDate,
	}))
}
