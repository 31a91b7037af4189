package storage

import (
	"context"
	"time"

	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

// CreateEntry сохраняет запись журнала и возвращает её ID.
func (s *Storage) CreateEntry(ctx context.Context, entry models.Entry) (int, error) {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return 0, wrapErr(op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO focus_logs (
			      username, date, time_block, activity, productivity, mood, energy, notes, timestamp
			  )
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		entry.Username, entry.Date, entry.TimeBlock, entry.Activity, entry.Productivity,
		entry.Mood, entry.Energy, entry.Notes, entry.Timestamp,
	).Scan(&id); err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

// ListEntries возвращает последние limit записей пользователя, новые первыми.
func (s *Storage) ListEntries(ctx context.Context, username string, limit int) ([]*models.Entry, error) {
	const op = "storage.ListEntries"
	select {
	case <-ctx.Done():
		return nil, wrapErr(op, ctx.Err())
	default:
	}

	query := `SELECT id, username, date, time_block, activity, productivity, mood, energy, notes, timestamp
			  FROM focus_logs
			  WHERE username = $1
			  ORDER BY timestamp DESC, id DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		var (
			e    models.Entry
			date time.Time
		)
		if err = rows.Scan(&e.ID, &e.Username, &date, &e.TimeBlock, &e.Activity,
			&e.Productivity, &e.Mood, &e.Energy, &e.Notes, &e.Timestamp); err != nil {
			return nil, wrapErr(op, err)
		}
		e.Date = date.Format(models.DateLayout)
		e.Timestamp = e.Timestamp.UTC()
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}
