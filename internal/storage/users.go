package storage

import (
	"context"

	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его UID.
// Уникальность username обеспечивается ограничением таблицы: при конфликте
// возвращается ErrDuplicateKey.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", wrapErr(op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (username, display_name, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.DisplayName, user.PasswordHash).Scan(&newID); err != nil {
		return "", wrapErr(op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username (точное совпадение).
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, wrapErr(op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, display_name, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(
		&u.UUID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}
