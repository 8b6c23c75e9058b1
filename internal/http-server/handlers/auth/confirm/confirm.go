// Package confirm реализует HTTP-обработчик подтверждения email по ссылке
// из письма. Токен подтверждения передаётся в query-параметре token.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы подтверждения аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения.
type Service interface {
	Confirm(ctx context.Context, token string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтверждение email
// @Description Активирует аккаунт по токену из письма подтверждения.
// @Tags Auth
// @Produce  json
// @Param token query string true "Токен подтверждения"
// @Success 200 {object} map[string]any "Аккаунт подтверждён"
// @Failure 400 {object} response.ErrorResponse "Токен отсутствует"
// @Failure 401 {object} response.ErrorResponse "Недействительный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /confirm [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.confirm"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("confirmation token is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("confirmation token is missing"))
		return
	}

	email, err := h.service.Confirm(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("invalid confirmation token")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid or expired confirmation token"))
			return
		}
		log.Error("confirmation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm account"))
		return
	}

	log.Info("account confirmed", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"email":   email,
		"message": "account confirmed, you can now log in",
	}))
}
