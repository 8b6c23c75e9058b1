// Package update реализует HTTP-обработчик публикации и обновления станции.
//
// Запрос приходит multipart-формой: текстовые поля страницы и, опционально,
// новый аудиофайл микса. Нарушение тарифных ограничений или политики имён
// приводит к блокировке аккаунта на уровне сервиса; обработчик лишь
// транслирует результат в HTTP-статусы.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/radio-hosting/internal/http-server/middlewarectx"
	"github.com/magabrotheeeer/radio-hosting/internal/http-server/response"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/services/station"
	"github.com/magabrotheeeer/radio-hosting/internal/storage/repository"
)

// Верхняя граница памяти на разбор multipart-формы: крупные миксы
// уходят во временные файлы, а не в кучу.
const maxFormMemory = 32 << 20

// Request — текстовые поля формы публикации.
type Request struct {
	Name       string `validate:"required"`
	YoutubeURL string
	SocialLink string
}

// Handler обрабатывает HTTP-запросы публикации станции.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики публикации станции.
type Service interface {
	Publish(ctx context.Context, email string, req station.PublishRequest) (*models.Station, error)
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
// @Summary Публикация или обновление станции
// @Description Принимает multipart-форму с полями страницы станции и, опционально, новым миксом.
// @Tags Station
// @Accept  mpfd
// @Produce  json
// @Param name formData string true "Имя станции"
// @Param youtubeUrl formData string false "Ссылка на видео"
// @Param socialLink formData string false "Ссылка на соцсеть"
// @Param duration formData int false "Длительность микса в секундах"
// @Param mix formData file false "Аудиофайл микса"
// @Success 200 {object} map[string]any "Станция опубликована"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Аккаунт заблокирован"
// @Failure 409 {object} response.ErrorResponse "Имя станции занято"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /update-station [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.station.update"

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

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	req := Request{
		Name:       r.FormValue("name"),
		YoutubeURL: r.FormValue("youtubeUrl"),
		SocialLink: r.FormValue("socialLink"),
	}
	log.Info("form decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	publishReq := station.PublishRequest{
		RawName:    req.Name,
		YoutubeURL: req.YoutubeURL,
		SocialLink: req.SocialLink,
	}

	file, header, err := r.FormFile("mix")
	switch {
	case err == nil:
		defer func() {
			if err := file.Close(); err != nil {
				log.Error("failed to close uploaded file", sl.Err(err))
			}
		}()
		duration, _ := strconv.Atoi(r.FormValue("duration"))
		publishReq.Mix = &station.MixUpload{
			File:            file,
			SizeBytes:       header.Size,
			Filename:        header.Filename,
			ContentType:     header.Header.Get("Content-Type"),
			DurationSeconds: duration,
		}
		log.Info("mix attached",
			slog.String("filename", header.Filename),
			slog.Int64("size_bytes", header.Size))
	case errors.Is(err, http.ErrMissingFile):
		// Форма без файла: обновляются только текстовые поля.
	default:
		log.Error("failed to read mix file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid mix file"))
		return
	}

	result, err := h.service.Publish(r.Context(), email, publishReq)
	if err != nil {
		switch {
		case errors.Is(err, station.ErrAccountDisabled):
			log.Info("account disabled", slog.String("email", email))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("account disabled, please contact support"))
		case errors.Is(err, station.ErrPolicyViolation):
			log.Warn("policy violation, account disabled", slog.String("email", email), sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("account disabled for violating publishing rules"))
		case errors.Is(err, repository.ErrNameTaken):
			log.Info("station name taken", slog.String("name", req.Name))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("station name already taken"))
		case errors.Is(err, station.ErrUserNotFound):
			log.Error("user not found", slog.String("email", email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to publish station", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to publish station"))
		}
		return
	}

	log.Info("station published", slog.String("name", result.Name))
	render.JSON(w, r, response.OKWithData(result))
}
