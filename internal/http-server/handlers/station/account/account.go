// Package account реализует HTTP-обработчик личного кабинета: данные
// пользователя, его станция и остаток суточных обновлений.
package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/middlewarectx"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/services/station"
)

// Handler обрабатывает HTTP-запросы личного кабинета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения данных кабинета.
type Service interface {
	Account(ctx context.Context, email string) (*station.AccountSummary, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Личный кабинет
// @Description Возвращает данные пользователя, его станцию и остаток обновлений за сутки.
// @Tags Account
// @Produce  json
// @Success 200 {object} map[string]any "Данные кабинета"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.station.account"

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

	summary, err := h.service.Account(r.Context(), email)
	if err != nil {
		if errors.Is(err, station.ErrUserNotFound) {
			log.Error("user not found", slog.String("email", email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to load account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load account"))
		return
	}

	render.JSON(w, r, response.OKWithData(summary))
}
