// Package station реализует рабочий процесс публикации радиостанции:
// проверку ограничений тарифа, политику имён, загрузку микса и обновление
// записи станции, а также просмотр, реакции и витрину discover.
package station

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/services/namepolicy"
	"github.com/magabrotheeeer/radio-hosting/internal/storage/mixstore"
	"github.com/magabrotheeeer/radio-hosting/internal/storage/repository"
	"github.com/magabrotheeeer/radio-hosting/internal/tiers"
)

// Ошибки бизнес-уровня публикации.
var (
	// ErrAccountDisabled — аккаунт заблокирован, операции недоступны.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrPolicyViolation — запрос нарушил ограничения тарифа или политику
	// имён; аккаунт нарушителя блокируется.
	ErrPolicyViolation = errors.New("policy violation")
	// ErrStationNotFound — станции с таким именем нет.
	ErrStationNotFound = errors.New("station not found")
	// ErrUserNotFound — пользователь отсутствует в хранилище.
	ErrUserNotFound = errors.New("user not found")
)

// discoverCacheKey — ключ кэша витрины станций в эфире.
const discoverCacheKey = "stations:live"

// discoverCacheTTL короткий: витрина быстро устаревает из-за лайков.
const discoverCacheTTL = time.Minute

// UserRepository описывает работу с пользователями.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

// StationRepository описывает работу со станциями.
type StationRepository interface {
	GetStationByName(ctx context.Context, name string) (*models.Station, error)
	GetStationByEmail(ctx context.Context, email string) (*models.Station, error)
	UpsertStation(ctx context.Context, st models.Station) error
	RemoveStationsOfOwnerExcept(ctx context.Context, email, keepName string) (int64, error)
	IncrementListenerCount(ctx context.Context, name string) (int, error)
	UpdateReaction(ctx context.Context, name, reactionType string, delta int) (*repository.ReactionCounts, error)
	ListLiveStations(ctx context.Context) ([]*models.Station, error)
}

// NamePolicy проверяет допустимость имени станции.
type NamePolicy interface {
	Validate(ctx context.Context, raw, requestingEmail string) (string, namepolicy.Reason, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// MixUpload — загружаемый аудиофайл микса.
type MixUpload struct {
	File            io.Reader
	SizeBytes       int64
	Filename        string
	ContentType     string
	DurationSeconds int
}

// PublishRequest — данные формы публикации станции.
type PublishRequest struct {
	RawName    string
	YoutubeURL string
	SocialLink string
	Mix        *MixUpload // nil — микс не меняется
}

// LandingData — данные страницы станции.
type LandingData struct {
	Station   *models.Station `json:"station"`
	OwnerTier string          `json:"ownerTier"`
}

// AccountView — публичная часть пользователя для личного кабинета.
// Хэш пароля и служебные поля наружу не отдаются.
type AccountView struct {
	Email               string     `json:"email"`
	Tier                string     `json:"tier"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`
}

// AccountSummary — данные личного кабинета.
type AccountSummary struct {
	User             AccountView     `json:"user"`
	Station          *models.Station `json:"station,omitempty"`
	UpdatesRemaining int             `json:"updatesRemaining"`
	MaxMixSizeKB     int             `json:"maxMixSizeKb"`
	Live             bool            `json:"live"`
}

// StationService реализует бизнес-логику станций.
type StationService struct {
	users     UserRepository
	stations  StationRepository
	mixes     mixstore.MixStore
	policy    NamePolicy
	cache     Cache
	cdnDomain string
	log       *slog.Logger
	now       func() time.Time
}

// NewStationService создает новый экземпляр StationService.
func NewStationService(users UserRepository, stations StationRepository,
	mixes mixstore.MixStore, policy NamePolicy, cache Cache,
	cdnDomain string, log *slog.Logger) *StationService {
	return &StationService{
		users:     users,
		stations:  stations,
		mixes:     mixes,
		policy:    policy,
		cache:     cache,
		cdnDomain: cdnDomain,
		log:       log,
		now:       time.Now,
	}
}

// violate блокирует аккаунт и возвращает ошибку с причиной.
// Блокировка — осознанно жёсткая реакция: обход клиентской валидации
// означает, что запрос собран вручную.
func (s *StationService) violate(ctx context.Context, user *models.User, msg string) error {
	user.Disabled = true
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		s.log.Error("failed to disable account", sl.Err(err))
	}
	s.log.Warn("account disabled for policy violation",
		slog.String("email", user.Email), slog.String("reason", msg))
	return fmt.Errorf("%w: %s", ErrPolicyViolation, msg)
}

// Publish выполняет создание или обновление станции.
//
// Порядок проверок фиксирован: размер файла, тип файла, суточная квота,
// политика имени. Квота проверяется только для обновлений — первое
// создание станции квотой не ограничено. Любая несработавшая на клиенте
// проверка блокирует аккаунт. Конфликт имени на коммите (гонка двух
// публикаций) аккаунт не блокирует и возвращает repository.ErrNameTaken.
func (s *StationService) Publish(ctx context.Context, email string, req PublishRequest) (*models.Station, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Disabled {
		return nil, ErrAccountDisabled
	}

	existing, err := s.stations.GetStationByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if req.Mix != nil {
		// Сравнение в байтах: превышение лимита даже на один байт
		// считается нарушением.
		if req.Mix.SizeBytes > int64(tiers.MaxFilesizeKB(user.Tier))*1024 {
			return nil, s.violate(ctx, user, "mix file exceeds tier size limit")
		}
		if !strings.HasSuffix(strings.ToLower(req.Mix.Filename), ".mp3") ||
			(req.Mix.ContentType != "audio/mpeg" && req.Mix.ContentType != "audio/mp3") {
			return nil, s.violate(ctx, user, "only mp3 uploads are accepted")
		}
	}
	if existing != nil && tiers.Remaining(user.Tier, user.UpdatesUsed) == 0 {
		return nil, s.violate(ctx, user, "daily update limit reached")
	}

	name, reason, err := s.policy.Validate(ctx, req.RawName, email)
	if err != nil {
		return nil, err
	}
	if reason != namepolicy.ReasonOK {
		return nil, s.violate(ctx, user, reason.Message())
	}

	st := models.Station{
		Name:       name,
		Email:      email,
		YoutubeURL: req.YoutubeURL,
		SocialLink: req.SocialLink,
	}
	if existing != nil {
		// Счётчики переживают обновление и переименование.
		st.MixURL = existing.MixURL
		st.OriginalFilename = existing.OriginalFilename
		st.AudioDuration = existing.AudioDuration
		st.ListenerCount = existing.ListenerCount
		st.Likes = existing.Likes
		st.Flags = existing.Flags
	}

	var uploadedKey, staleKey string
	switch {
	case req.Mix != nil && existing != nil && existing.MixURL != "" &&
		existing.OriginalFilename == req.Mix.Filename:
		// Повторная отправка того же файла: хранимый микс остаётся,
		// загрузка не выполняется.
		st.AudioDuration = req.Mix.DurationSeconds
	case req.Mix != nil:
		uploadedKey = mixstore.BuildKey(email, req.Mix.Filename, s.now())
		mixURL, err := s.mixes.Put(ctx, uploadedKey, req.Mix.File, req.Mix.SizeBytes, req.Mix.ContentType)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.MixURL != "" {
			staleKey = s.mixes.KeyFromURL(existing.MixURL)
		}
		st.MixURL = mixURL
		st.OriginalFilename = req.Mix.Filename
		st.AudioDuration = req.Mix.DurationSeconds
	}

	if err := s.stations.UpsertStation(ctx, st); err != nil {
		if uploadedKey != "" {
			if delErr := s.mixes.Delete(ctx, uploadedKey); delErr != nil {
				s.log.Error("failed to remove orphaned mix", sl.Err(delErr))
			}
		}
		return nil, err
	}

	if existing != nil && existing.Name != st.Name {
		if _, err := s.stations.RemoveStationsOfOwnerExcept(ctx, email, st.Name); err != nil {
			s.log.Error("failed to release old station name", sl.Err(err))
		}
	}

	if existing != nil {
		user.UpdatesUsed++
		if err := s.users.UpdateUser(ctx, *user); err != nil {
			s.log.Error("failed to consume update quota", sl.Err(err))
		}
	}

	// Старый микс больше не нужен; его потеря не критична, поэтому
	// ошибка удаления только логируется.
	if staleKey != "" {
		if err := s.mixes.Delete(ctx, staleKey); err != nil {
			s.log.Error("failed to remove replaced mix", sl.Err(err))
		}
	}

	if err := s.cache.Invalidate(discoverCacheKey); err != nil {
		s.log.Warn("failed to invalidate discover cache", sl.Err(err))
	}

	s.log.Info("station published",
		slog.String("name", st.Name), slog.String("email", email))
	return &st, nil
}

// CheckName отвечает на интерактивную проверку доступности имени.
func (s *StationService) CheckName(ctx context.Context, email, rawName string) (bool, string, error) {
	_, reason, err := s.policy.Validate(ctx, rawName, email)
	if err != nil {
		return false, "", err
	}
	return reason == namepolicy.ReasonOK, reason.Message(), nil
}

// RecordView регистрирует просмотр страницы станции: увеличивает счётчик
// прослушиваний и возвращает данные с переписанным на CDN адресом микса.
// Отсутствующий владелец не ломает страницу — тариф считается Free.
func (s *StationService) RecordView(ctx context.Context, name string) (*LandingData, error) {
	st, err := s.stations.GetStationByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrStationNotFound
	}

	count, err := s.stations.IncrementListenerCount(ctx, name)
	if err != nil {
		return nil, err
	}
	st.ListenerCount = count
	st.MixURL = s.rewriteCDN(st.MixURL)

	ownerTier := tiers.Free
	owner, err := s.users.GetUserByEmail(ctx, st.Email)
	if err != nil {
		s.log.Warn("failed to load station owner", sl.Err(err))
	}
	if owner != nil {
		ownerTier = owner.Tier
	}

	return &LandingData{Station: st, OwnerTier: ownerTier}, nil
}

// React применяет лайк или жалобу и возвращает актуальные счётчики.
func (s *StationService) React(ctx context.Context, name string, req models.DummyReaction) (*repository.ReactionCounts, error) {
	st, err := s.stations.GetStationByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrStationNotFound
	}

	delta := -1
	if *req.Increment {
		delta = 1
	}
	counts, err := s.stations.UpdateReaction(ctx, name, req.ReactionType, delta)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(discoverCacheKey); err != nil {
		s.log.Warn("failed to invalidate discover cache", sl.Err(err))
	}
	return counts, nil
}

// Discover возвращает витрину станций в эфире, отсортированную по лайкам.
// Результат кэшируется на минуту.
func (s *StationService) Discover(ctx context.Context) ([]*models.Station, error) {
	var cached []*models.Station
	found, err := s.cache.Get(discoverCacheKey, &cached)
	if err != nil {
		s.log.Warn("discover cache read failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	stations, err := s.stations.ListLiveStations(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range stations {
		st.MixURL = s.rewriteCDN(st.MixURL)
	}

	if err := s.cache.Set(discoverCacheKey, stations, discoverCacheTTL); err != nil {
		s.log.Warn("failed to cache discover listing", sl.Err(err))
	}
	return stations, nil
}

// Account возвращает данные личного кабинета владельца.
func (s *StationService) Account(ctx context.Context, email string) (*AccountSummary, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	st, err := s.stations.GetStationByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	summary := &AccountSummary{
		User: AccountView{
			Email:               user.Email,
			Tier:                user.Tier,
			SubscriptionEndDate: user.SubscriptionEndDate,
		},
		Station:          st,
		UpdatesRemaining: tiers.Remaining(user.Tier, user.UpdatesUsed),
		MaxMixSizeKB:     tiers.MaxFilesizeKB(user.Tier),
	}
	if st != nil {
		summary.Live = st.Live()
	}
	return summary, nil
}

// rewriteCDN заменяет адрес хранилища на CDN-домен. Пустой CDN-домен
// оставляет URL как есть (режим разработки).
func (s *StationService) rewriteCDN(mixURL string) string {
	if s.cdnDomain == "" || mixURL == "" {
		return mixURL
	}
	key := s.mixes.KeyFromURL(mixURL)
	if key == "" {
		return mixURL
	}
	return s.cdnDomain + "/" + key
}
