// Package react реализует HTTP-обработчик реакций слушателей на станцию:
// лайков и жалоб. Реакции анонимны и не требуют авторизации.
package react

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/services/station"
	"github.com/magabrotheeeer/radio-hosting/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы реакций.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс учёта реакций.
type Service interface {
	React(ctx context.Context, name string, req models.DummyReaction) (*repository.ReactionCounts, error)
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
// @Summary Реакция на станцию
// @Description Ставит или снимает лайк либо жалобу и возвращает актуальные счётчики.
// @Tags Station
// @Accept  json
// @Produce  json
// @Param stationName path string true "Имя станции"
// @Param request body models.DummyReaction true "Тип реакции и направление"
// @Success 200 {object} map[string]any "Актуальные счётчики"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Станция не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /{stationName}/react [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.station.react"

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

	var req models.DummyReaction
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

	counts, err := h.service.React(r.Context(), name, req)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			log.Info("station not found", slog.String("name", name))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("station not found"))
			return
		}
		log.Error("failed to record reaction", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to record reaction"))
		return
	}

	render.JSON(w, r, response.OKWithData(counts))
}
