// Package view реализует HTTP-обработчик публичной страницы станции.
// Каждый показ страницы засчитывается в счётчик прослушиваний.
package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/services/station"
)

// Handler обрабатывает HTTP-запросы страницы станции.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения данных страницы станции.
type Service interface {
	RecordView(ctx context.Context, name string) (*station.LandingData, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Страница станции
// @Description Возвращает данные страницы станции и засчитывает прослушивание.
// @Tags Station
// @Produce  json
// @Param stationName path string true "Имя станции"
// @Success 200 {object} map[string]any "Данные станции"
// @Failure 404 {object} response.ErrorResponse "Станция не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /{stationName} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.station.view"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	name := chi.URLParam(r, "stationName")
	if name == "" {
		log.Error("station name is missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("station name is missing"))
		return
	}

	data, err := h.service.RecordView(r.Context(), name)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			log.Info("station not found", slog.String("name", name))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("station not found"))
			return
		}
		log.Error("failed to load station page", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load station page"))
		return
	}

	render.JSON(w, r, response.OKWithData(data))
}
