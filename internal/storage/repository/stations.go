package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/radio-hosting/internal/models"
)

// scanStation читает одну строку stations в доменную модель.
func scanStation(row interface{ Scan(dest ...any) error }) (*models.Station, error) {
	st := &models.Station{}
	err := row.Scan(&st.Name, &st.Email, &st.YoutubeURL, &st.SocialLink,
		&st.MixURL, &st.OriginalFilename, &st.AudioDuration,
		&st.ListenerCount, &st.Likes, &st.Flags)
	if err != nil {
		return nil, err
	}
	return st, nil
}

const stationColumns = `name, email, youtube_url, social_link, mix_url,
			      original_filename, audio_duration, listener_count, likes, flags`

// GetStationByName возвращает станцию по её слагу.
// Если станции нет, возвращает (nil, nil).
func (s *Storage) GetStationByName(ctx context.Context, name string) (*models.Station, error) {
	const op = "storage.GetStationByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + stationColumns + `
			  FROM stations
			  WHERE name = $1;`
	st, err := scanStation(s.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// GetStationByEmail возвращает станцию владельца.
// Если станции нет, возвращает (nil, nil).
func (s *Storage) GetStationByEmail(ctx context.Context, email string) (*models.Station, error) {
	const op = "storage.GetStationByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + stationColumns + `
			  FROM stations
			  WHERE email = $1
			  ORDER BY name
			  LIMIT 1;`
	st, err := scanStation(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// UpsertStation вставляет станцию или обновляет её по имени.
// Конфликт по имени разрешается только в пользу того же владельца:
// предикат в DO UPDATE не даёт перезаписать чужую станцию, и тогда
// запрос не возвращает строк — это и есть сигнал ErrNameTaken.
// Два конкурентных захвата одного имени разрешает сама база:
// ровно один коммит проходит, второй получает ErrNameTaken.
func (s *Storage) UpsertStation(ctx context.Context, st models.Station) error {
	const op = "storage.UpsertStation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO stations (name, email, youtube_url, social_link, mix_url,
			      original_filename, audio_duration, listener_count, likes, flags)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (name) DO UPDATE SET
			      youtube_url = excluded.youtube_url,
			      social_link = excluded.social_link,
			      mix_url = excluded.mix_url,
			      original_filename = excluded.original_filename,
			      audio_duration = excluded.audio_duration,
			      listener_count = excluded.listener_count
			  WHERE stations.email = excluded.email
			  RETURNING name;`
	var committedName string
	err := s.DB.QueryRowContext(ctx, query,
		st.Name, st.Email, st.YoutubeURL, st.SocialLink, st.MixURL,
		st.OriginalFilename, st.AudioDuration, st.ListenerCount, st.Likes, st.Flags,
	).Scan(&committedName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, ErrNameTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveStationsOfOwnerExcept удаляет станции владельца, кроме указанной.
// Используется после переименования, чтобы старый слаг освободился,
// а не остался брошенной строкой.
func (s *Storage) RemoveStationsOfOwnerExcept(ctx context.Context, email, keepName string) (int64, error) {
	const op = "storage.RemoveStationsOfOwnerExcept"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM stations WHERE email = $1 AND name <> $2;`, email, keepName)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// IncrementListenerCount атомарно увеличивает счётчик прослушиваний
// и возвращает новое значение.
func (s *Storage) IncrementListenerCount(ctx context.Context, name string) (int, error) {
	const op = "storage.IncrementListenerCount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`UPDATE stations SET listener_count = listener_count + 1
		 WHERE name = $1
		 RETURNING listener_count;`, name).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: station %s not found", op, name)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ReactionCounts — актуальные счётчики реакций станции.
type ReactionCounts struct {
	Likes int `json:"likes"`
	Flags int `json:"flags"`
}

// UpdateReaction атомарно сдвигает счётчик лайков или жалоб на delta
// с floor'ом на нуле и возвращает оба счётчика. Имя колонки подставляется
// только из белого списка.
func (s *Storage) UpdateReaction(ctx context.Context, name, reactionType string, delta int) (*ReactionCounts, error) {
	const op = "storage.UpdateReaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var column string
	switch reactionType {
	case "likes":
		column = "likes"
	case "flags":
		column = "flags"
	default:
		return nil, fmt.Errorf("%s: unknown reaction type %q", op, reactionType)
	}

	query := fmt.Sprintf(
		`UPDATE stations SET %s = GREATEST(0, %s + $1)
		 WHERE name = $2
		 RETURNING likes, flags;`, column, column)
	counts := &ReactionCounts{}
	err := s.DB.QueryRowContext(ctx, query, delta, name).Scan(&counts.Likes, &counts.Flags)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: station %s not found", op, name)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return counts, nil
}

// ListLiveStations возвращает станции в эфире (есть микс и видео-ссылка),
// отсортированные по лайкам по убыванию — порядок витрины discover.
func (s *Storage) ListLiveStations(ctx context.Context) ([]*models.Station, error) {
	const op = "storage.ListLiveStations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + stationColumns + `
			  FROM stations
			  WHERE mix_url <> '' AND youtube_url <> ''
			  ORDER BY likes DESC;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
