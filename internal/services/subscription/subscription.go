// Package subscription управляет тарифами: оформление платной подписки
// через hosted-страницу оплаты, подтверждение оплаты и переход на Free.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/paymentprovider"
	"github.com/magabrotheeeer/radio-hosting/internal/tiers"
)

// Ошибки бизнес-уровня подписок.
var (
	ErrUnknownTier         = errors.New("unknown tier")
	ErrPaymentRequired     = errors.New("paid tier requires checkout")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrUserNotFound        = errors.New("user not found")
)

// UserRepository описывает работу с пользователями.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

// PaymentClient описывает клиент платёжного провайдера.
type PaymentClient interface {
	CreateSession(req paymentprovider.CreateSessionRequest) (*paymentprovider.Session, error)
	RetrieveSession(sessionID string) (*paymentprovider.Session, error)
}

// SubscriptionService реализует смену тарифов и оплату.
type SubscriptionService struct {
	users         UserRepository
	payments      PaymentClient
	publicBaseURL string
	log           *slog.Logger
	now           func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(users UserRepository, payments PaymentClient,
	publicBaseURL string, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		users:         users,
		payments:      payments,
		publicBaseURL: publicBaseURL,
		log:           log,
		now:           time.Now,
	}
}

// ChangeTier переводит пользователя на бесплатный тариф. Платные тарифы
// оформляются только через Checkout, прямой переход запрещён.
func (s *SubscriptionService) ChangeTier(ctx context.Context, email, tier string) error {
	if !tiers.IsKnown(tier) {
		return ErrUnknownTier
	}
	if tiers.IsPaid(tier) {
		return ErrPaymentRequired
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.Tier = tiers.Free
	user.SubscriptionEndDate = nil
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return err
	}
	s.log.Info("tier downgraded to free", slog.String("email", email))
	return nil
}

// Checkout создаёт сессию оплаты платного тарифа и возвращает URL
// hosted-страницы. Email и тариф кладутся в метаданные сессии: после
// возврата пользователя только они связывают оплату с аккаунтом.
func (s *SubscriptionService) Checkout(ctx context.Context, email, tier string) (string, error) {
	if !tiers.IsKnown(tier) {
		return "", ErrUnknownTier
	}
	if !tiers.IsPaid(tier) {
		return "", ErrUnknownTier
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	session, err := s.payments.CreateSession(paymentprovider.CreateSessionRequest{
		AmountCents: tiers.PriceCents(tier),
		Currency:    "usd",
		Description: fmt.Sprintf("%s subscription - What The Radio?", tier),
		SuccessURL:  s.publicBaseURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   s.publicBaseURL + "/manage-tier",
		Metadata: map[string]string{
			"email": email,
			"tier":  tier,
		},
	})
	if err != nil {
		return "", err
	}

	s.log.Info("checkout session created",
		slog.String("email", email), slog.String("tier", tier), slog.String("session", session.ID))
	return session.URL, nil
}

// ConfirmPayment проверяет оплату сессии у провайдера и применяет тариф.
//
// Продление того же тарифа до истечения срока складывается: новый месяц
// отсчитывается от прежней даты окончания. Переход на другой тариф или
// оплата после истечения отсчитывают месяц от текущего момента.
func (s *SubscriptionService) ConfirmPayment(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := s.payments.RetrieveSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Paid() {
		return nil, ErrPaymentNotCompleted
	}

	email := session.Metadata["email"]
	tier := session.Metadata["tier"]
	if email == "" || !tiers.IsKnown(tier) {
		return nil, fmt.Errorf("checkout session %s has invalid metadata", sessionID)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := s.now()
	base := now
	if user.Tier == tier && user.SubscriptionEndDate != nil && user.SubscriptionEndDate.After(now) {
		base = *user.SubscriptionEndDate
	}
	endDate := base.AddDate(0, 1, 0)

	user.Tier = tier
	user.SubscriptionEndDate = &endDate
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}

	s.log.Info("subscription activated",
		slog.String("email", email), slog.String("tier", tier),
		slog.Time("end_date", endDate))
	return user, nil
}
