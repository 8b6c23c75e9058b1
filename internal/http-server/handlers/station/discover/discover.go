// Package discover реализует HTTP-обработчик каталога станций в эфире.
// Список отсортирован по лайкам и отдаётся из кэша, когда он свежий.
package discover

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
)

// Handler обрабатывает HTTP-запросы каталога станций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения каталога станций.
type Service interface {
	Discover(ctx context.Context) ([]*models.Station, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Каталог станций в эфире
// @Description Возвращает все станции с загруженным миксом, отсортированные по лайкам.
// @Tags Station
// @Produce  json
// @Success 200 {object} map[string]any "Список станций"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /discover [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.station.discover"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stations, err := h.service.Discover(r.Context())
	if err != nil {
		log.Error("failed to list live stations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list stations"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"stations": stations,
		"count":    len(stations),
	}))
}
