// Package checkname реализует HTTP-обработчик интерактивной проверки
// доступности имени станции из формы публикации. Проверка подсказывающая:
// окончательное решение принимается при сохранении станции.
package checkname

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/middlewarectx"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
)

// Handler обрабатывает HTTP-запросы проверки имени.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс проверки имени станции.
type Service interface {
	CheckName(ctx context.Context, email, rawName string) (bool, string, error)
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
// @Summary Проверка доступности имени станции
// @Description Сообщает, можно ли опубликовать станцию под указанным именем.
// @Tags Station
// @Accept  json
// @Produce  json
// @Param request body models.DummyCheckName true "Проверяемое имя"
// @Success 200 {object} map[string]any "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /check-station-name [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.station.checkname"

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

	var req models.DummyCheckName
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

	available, reason, err := h.service.CheckName(r.Context(), email, req.Name)
	if err != nil {
		log.Error("failed to check station name", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check station name"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"available": available,
		"reason":    reason,
	}))
}
