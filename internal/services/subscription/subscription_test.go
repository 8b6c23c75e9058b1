package subscription

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/paymentprovider"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type PaymentMock struct{ mock.Mock }

func (m *PaymentMock) CreateSession(req paymentprovider.CreateSessionRequest) (*paymentprovider.Session, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Session), args.Error(1)
}

func (m *PaymentMock) RetrieveSession(sessionID string) (*paymentprovider.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Session), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var testNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func newTestService(users *UserRepoMock, payments *PaymentMock) *SubscriptionService {
	service := NewSubscriptionService(users, payments, "https://radio.example.com", newNoopLogger())
	service.now = func() time.Time { return testNow }
	return service
}

func TestSubscriptionService_ChangeTier(t *testing.T) {
	t.Run("downgrade to free clears end date", func(t *testing.T) {
		endDate := testNow.AddDate(0, 0, 10)
		users := new(UserRepoMock)
		users.On("GetUserByEmail", mock.Anything, "dj@example.com").
			Return(&models.User{Email: "dj@example.com", Tier: "Silver", SubscriptionEndDate: &endDate}, nil).Once()
		users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Tier == "Free" && u.SubscriptionEndDate == nil
		})).Return(nil).Once()

		service := newTestService(users, new(PaymentMock))
		err := service.ChangeTier(context.Background(), "dj@example.com", "Free")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("paid tier requires checkout", func(t *testing.T) {
		service := newTestService(new(UserRepoMock), new(PaymentMock))
		err := service.ChangeTier(context.Background(), "dj@example.com", "Gold")
		assert.ErrorIs(t, err, ErrPaymentRequired)
	})

	t.Run("unknown tier", func(t *testing.T) {
		service := newTestService(new(UserRepoMock), new(PaymentMock))
		err := service.ChangeTier(context.Background(), "dj@example.com", "Platinum")
		assert.ErrorIs(t, err, ErrUnknownTier)
	})
}

func TestSubscriptionService_Checkout(t *testing.T) {
	t.Run("creates session with tier price and metadata", func(t *testing.T) {
		users := new(UserRepoMock)
		payments := new(PaymentMock)
		users.On("GetUserByEmail", mock.Anything, "dj@example.com").
			Return(&models.User{Email: "dj@example.com", Tier: "Free"}, nil).Once()
		payments.On("CreateSession", mock.MatchedBy(func(req paymentprovider.CreateSessionRequest) bool {
			return req.AmountCents == 300 &&
				req.Metadata["email"] == "dj@example.com" &&
				req.Metadata["tier"] == "Silver"
		})).Return(&paymentprovider.Session{
			ID:  "sess_123",
			URL: "https://pay.example.com/sess_123",
		}, nil).Once()

		service := newTestService(users, payments)
		url, err := service.Checkout(context.Background(), "dj@example.com", "Silver")
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/sess_123", url)
		users.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("free tier is not purchasable", func(t *testing.T) {
		service := newTestService(new(UserRepoMock), new(PaymentMock))
		_, err := service.Checkout(context.Background(), "dj@example.com", "Free")
		assert.ErrorIs(t, err, ErrUnknownTier)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, nil).Once()

		service := newTestService(users, new(PaymentMock))
		_, err := service.Checkout(context.Background(), "ghost@example.com", "Gold")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSubscriptionService_ConfirmPayment(t *testing.T) {
	paidSession := func(tier string) *paymentprovider.Session {
		return &paymentprovider.Session{
			ID:     "sess_123",
			Status: "paid",
			Metadata: map[string]string{
				"email": "dj@example.com",
				"tier":  tier,
			},
		}
	}

	t.Run("first purchase runs one month from today", func(t *testing.T) {
		users := new(UserRepoMock)
		payments := new(PaymentMock)
		payments.On("RetrieveSession", "sess_123").Return(paidSession("Silver"), nil).Once()
		users.On("GetUserByEmail", mock.Anything, "dj@example.com").
			Return(&models.User{Email: "dj@example.com", Tier: "Free"}, nil).Once()
		users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Tier == "Silver" && u.SubscriptionEndDate != nil &&
				u.SubscriptionEndDate.Equal(testNow.AddDate(0, 1, 0))
		})).Return(nil).Once()

		service := newTestService(users, payments)
		user, err := service.ConfirmPayment(context.Background(), "sess_123")
		require.NoError(t, err)
		assert.Equal(t, "Silver", user.Tier)
		users.AssertExpectations(t)
		payments.AssertExpectations(t)
	})

	t.Run("renewal stacks on top of current end date", func(t *testing.T) {
		currentEnd := testNow.AddDate(0, 0, 10)
		users := new(UserRepoMock)
		payments := new(PaymentMock)
		payments.On("RetrieveSession", "sess_123").Return(paidSession("Silver"), nil).Once()
		users.On("GetUserByEmail", mock.Anything, "dj@example.com").
			Return(&models.User{Email: "dj@example.com", Tier: "Silver", SubscriptionEndDate: &currentEnd}, nil).Once()
		users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.SubscriptionEndDate.Equal(currentEnd.AddDate(0, 1, 0))
		})).Return(nil).Once()

		service := newTestService(users, payments)
		_, err := service.ConfirmPayment(context.Background(), "sess_123")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("tier switch runs one month from today", func(t *testing.T) {
		currentEnd := testNow.AddDate(0, 0, 10)
		users := new(UserRepoMock)
		payments := new(PaymentMock)
		payments.On("RetrieveSession", "sess_123").Return(paidSession("Gold"), nil).Once()
		users.On("GetUserByEmail", mock.Anything, "dj@example.com").
			Return(&models.User{Email: "dj@example.com", Tier: "Silver", SubscriptionEndDate: &currentEnd}, nil).Once()
		users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Tier == "Gold" && u.SubscriptionEndDate.Equal(testNow.AddDate(0, 1, 0))
		})).Return(nil).Once()

		service := newTestService(users, payments)
		_, err := service.ConfirmPayment(context.Background(), "sess_123")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("expired subscription renews from today", func(t *testing.T) {
		expired := testNow.AddDate(0, 0, -5)
		users := new(UserRepoMock)
		payments := new(PaymentMock)
		payments.On("RetrieveSession", "sess_123").Return(paidSession("Silver"), nil).Once()
		users.On("GetUserByEmail", mock.Anything, "dj@example.com").
			Return(&models.User{Email: "dj@example.com", Tier: "Silver", SubscriptionEndDate: &expired}, nil).Once()
		users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.SubscriptionEndDate.Equal(testNow.AddDate(0, 1, 0))
		})).Return(nil).Once()

		service := newTestService(users, payments)
		_, err := service.ConfirmPayment(context.Background(), "sess_123")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("unpaid session is rejected", func(t *testing.T) {
		payments := new(PaymentMock)
		payments.On("RetrieveSession", "sess_123").
			Return(&paymentprovider.Session{ID: "sess_123", Status: "open"}, nil).Once()

		service := newTestService(new(UserRepoMock), payments)
		_, err := service.ConfirmPayment(context.Background(), "sess_123")
		assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	})

	t.Run("invalid metadata", func(t *testing.T) {
		payments := new(PaymentMock)
		payments.On("RetrieveSession", "sess_123").
			Return(&paymentprovider.Session{ID: "sess_123", Status: "paid",
				Metadata: map[string]string{"tier": "Platinum"}}, nil).Once()

		service := newTestService(new(UserRepoMock), payments)
		_, err := service.ConfirmPayment(context.Background(), "sess_123")
		assert.Error(t, err)
	})
}
