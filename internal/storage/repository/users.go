package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/radio-hosting/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) error {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, password_hash, confirmed, tier,
			      subscription_end_date, updates_used, disabled)
			  VALUES ($1, $2, $3, $4, $5, $6, $7);`
	if _, err := s.DB.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.Confirmed, user.Tier,
		user.SubscriptionEndDate, user.UpdatesUsed, user.Disabled); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email.
// Если пользователя нет, возвращает (nil, nil): отсутствие записи —
// штатная ситуация для вызывающего кода, не ошибка хранилища.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, password_hash, confirmed, tier,
			      subscription_end_date, updates_used, disabled
			  FROM users
			  WHERE email = $1;`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var subscriptionEndDate sql.NullTime
	if err := row.Scan(&u.Email, &u.PasswordHash, &u.Confirmed, &u.Tier,
		&subscriptionEndDate, &u.UpdatesUsed, &u.Disabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if subscriptionEndDate.Valid {
		u.SubscriptionEndDate = &subscriptionEndDate.Time
	}
	return u, nil
}

// UpdateUser полностью заменяет запись пользователя по email.
func (s *Storage) UpdateUser(ctx context.Context, user models.User) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $2, confirmed = $3, tier = $4,
			      subscription_end_date = $5, updates_used = $6, disabled = $7
			  WHERE email = $1;`
	res, err := s.DB.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.Confirmed, user.Tier,
		user.SubscriptionEndDate, user.UpdatesUsed, user.Disabled)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: user %s not found", op, user.Email)
	}
	return nil
}

// ResetDailyUpdateCounters обнуляет суточные счётчики обновлений у всех
// пользователей. Вызывается планировщиком квот раз в сутки (полночь UTC).
func (s *Storage) ResetDailyUpdateCounters(ctx context.Context) (int64, error) {
	const op = "storage.ResetDailyUpdateCounters"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET updates_used = 0 WHERE updates_used <> 0;`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
