// Package auth содержит логику регистрации, подтверждения и входа пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/radio-hosting/internal/lib/jwt"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/password"
	"github.com/magabrotheeeer/radio-hosting/internal/lib/sl"
	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/tiers"
)

// Ошибки бизнес-уровня, по которым обработчики выбирают код и текст ответа.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfirmed       = errors.New("account not confirmed")
	ErrAccountDisabled    = errors.New("account disabled")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя.
	RegisterUser(ctx context.Context, user models.User) error

	// GetUserByEmail возвращает пользователя или nil, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUser заменяет запись пользователя.
	UpdateUser(ctx context.Context, user models.User) error
}

// ConfirmationPublisher публикует сообщение для письма с подтверждением.
type ConfirmationPublisher interface {
	PublishConfirmation(msg models.ConfirmationMessage) error
}

// AuthService отвечает за регистрацию, подтверждение email и вход.
type AuthService struct {
	users         UserRepository
	jwtMaker      jwt.Maker
	publisher     ConfirmationPublisher
	publicBaseURL string
	log           *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker,
	publisher ConfirmationPublisher, publicBaseURL string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:         users,
		jwtMaker:      jwtMaker,
		publisher:     publisher,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// Register создает нового пользователя на тарифе Free и ставит в очередь
// письмо со ссылкой подтверждения. Аккаунт остаётся неактивным до перехода
// по ссылке.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string) error {
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hashed,
		Confirmed:    false,
		Tier:         tiers.Free,
	}
	if err := s.users.RegisterUser(ctx, user); err != nil {
		return err
	}

	token, err := s.jwtMaker.GenerateToken(email)
	if err != nil {
		return err
	}
	msg := models.ConfirmationMessage{
		Email:           email,
		ConfirmationURL: fmt.Sprintf("%s/confirm?token=%s", s.publicBaseURL, token),
	}
	if err := s.publisher.PublishConfirmation(msg); err != nil {
		// Пользователь уже создан, письмо можно переотправить позже.
		s.log.Error("failed to publish confirmation message", sl.Err(err))
	}
	return nil
}

// Confirm активирует аккаунт по токену из письма.
func (s *AuthService) Confirm(ctx context.Context, token string) (string, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if user.Confirmed {
		return user.Email, nil
	}
	user.Confirmed = true
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return "", err
	}
	return user.Email, nil
}

// Login проверяет пароль и выдаёт JWT сессии. Заблокированный и
// неподтверждённый аккаунты в систему не пускаются, их причины отказа
// различимы для обработчика.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	if user.Disabled {
		return "", ErrAccountDisabled
	}
	if !user.Confirmed {
		return "", ErrNotConfirmed
	}
	return s.jwtMaker.GenerateToken(user.Email)
}

// ValidateToken проверяет JWT и возвращает email пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (string, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
