// Package auth реализует регистрацию, вход и выход пользователей.
//
// AuthService единственный обращается к хранилищу учётных записей. Сессия не
// хранится на сервере: клиент получает подписанный токен, а при выходе
// идентификатор сессии заносится в список отозванных до истечения срока токена.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/focus-tracker/internal/lib/password"
	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/metrics"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
	"github.com/magabrotheeeer/focus-tracker/internal/storage"
)

const (
	revokedKeyPrefix = "session:revoked:"
	// bcrypt учитывает только первые 72 байта пароля.
	maxPasswordBytes = 72
)

// UserRepository описывает контракт хранилища учётных записей.
type UserRepository interface {
	// RegisterUser атомарно сохраняет пользователя; при конфликте имени возвращает storage.ErrDuplicateKey.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя или storage.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenMaker выпускает и разбирает токены сессии.
type TokenMaker interface {
	GenerateToken(session models.Session) (string, error)
	ParseToken(token string) (*models.Session, error)
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	GetHash(password string) (string, error)
	CompareHash(hash, password string) error
	CompareDummy(password string) error
}

// RevocationStore хранит идентификаторы отозванных сессий.
type RevocationStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Options параметры AuthService.
type Options struct {
	// StorageTimeout ограничивает каждое обращение к хранилищу и списку отзыва.
	StorageTimeout time.Duration
	// SessionTTL время жизни сессии.
	SessionTTL time.Duration
}

// AuthService отвечает за регистрацию, вход, выход и проверку сессий.
type AuthService struct {
	users       UserRepository
	tokens      TokenMaker
	hasher      PasswordHasher
	revocations RevocationStore
	events      EventPublisher
	log         *slog.Logger
	validate    *validator.Validate
	opts        Options

	now   func() time.Time
	newID func() string
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(
	users UserRepository,
	tokens TokenMaker,
	hasher PasswordHasher,
	revocations RevocationStore,
	events EventPublisher,
	log *slog.Logger,
	opts Options,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		hasher:      hasher,
		revocations: revocations,
		events:      events,
		log:         log,
		validate:    validator.New(),
		opts:        opts,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// NormalizeName приводит имя пользователя или отображаемое имя к сохраняемому виду.
// Регистрация и вход используют одно и то же правило.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

type registerInput struct {
	Username    string `validate:"required,max=64"`
	DisplayName string `validate:"required,max=128"`
	Password    string `validate:"required"`
}

// Register создаёт учётную запись. Пользователь не входит в систему автоматически.
func (s *AuthService) Register(ctx context.Context, username, displayName, rawPassword string) error {
	const op = "auth.Register"
	log := s.log.With(slog.String("op", op))

	in := registerInput{
		Username:    NormalizeName(username),
		DisplayName: NormalizeName(displayName),
		Password:    rawPassword,
	}
	if err := s.validate.Struct(in); err != nil {
		metrics.RecordAuthAttempt("register", metrics.ResultInvalid)
		return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	}
	if len(in.Password) > maxPasswordBytes {
		metrics.RecordAuthAttempt("register", metrics.ResultInvalid)
		return fmt.Errorf("%s: %w: password longer than %d bytes", op, ErrValidation, maxPasswordBytes)
	}

	_, err := s.getUser(ctx, in.Username)
	switch {
	case err == nil:
		metrics.RecordAuthAttempt("register", metrics.ResultDuplicate)
		return fmt.Errorf("%s: %w", op, ErrDuplicateUser)
	case !errors.Is(err, storage.ErrNotFound):
		log.Error("failed to look up user", sl.Err(err))
		metrics.RecordAuthAttempt("register", metrics.ResultUnavailable)
		return fmt.Errorf("%s: %w", op, ErrServiceUnavailable)
	}

	hash, err := s.hasher.GetHash(in.Password)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	insertCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	uid, err := s.users.RegisterUser(insertCtx, models.User{
		Username:     in.Username,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			metrics.RecordAuthAttempt("register", metrics.ResultDuplicate)
			return fmt.Errorf("%s: %w", op, ErrDuplicateUser)
		}
		log.Error("failed to register user", sl.Err(err))
		metrics.RecordAuthAttempt("register", metrics.ResultUnavailable)
		return fmt.Errorf("%s: %w", op, ErrServiceUnavailable)
	}

	metrics.RecordAuthAttempt("register", metrics.ResultSuccess)
	log.Info("user registered", slog.String("username", in.Username), slog.String("uid", uid))
	s.publish(ctx, models.Event{
		Type:       models.EventUserRegistered,
		Username:   in.Username,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

// Login проверяет пароль и открывает сессию. Для неизвестного пользователя и
// неверного пароля возвращается одна и та же ошибка ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.Session, string, error) {
	const op = "auth.Login"
	log := s.log.With(slog.String("op", op))

	user, err := s.getUser(ctx, NormalizeName(username))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("failed to look up user", sl.Err(err))
			metrics.RecordAuthAttempt("login", metrics.ResultUnavailable)
			return nil, "", fmt.Errorf("%s: %w", op, ErrServiceUnavailable)
		}
		_ = s.hasher.CompareDummy(rawPassword)
		metrics.RecordAuthAttempt("login", metrics.ResultInvalidCredentials)
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err = s.hasher.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			log.Error("stored password hash is unusable", slog.String("username", user.Username), sl.Err(err))
		}
		metrics.RecordAuthAttempt("login", metrics.ResultInvalidCredentials)
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := s.now().UTC().Truncate(time.Second)
	session := models.Session{
		ID:          s.newID(),
		Username:    user.Username,
		DisplayName: user.DisplayName,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.opts.SessionTTL),
	}
	token, err := s.tokens.GenerateToken(session)
	if err != nil {
		log.Error("failed to sign session token", sl.Err(err))
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordAuthAttempt("login", metrics.ResultSuccess)
	log.Info("user logged in", slog.String("username", user.Username))
	return &session, token, nil
}

// Logout отзывает сессию. Пустой, недействительный или уже отозванный токен
// не считается ошибкой.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"
	if token == "" {
		return nil
	}
	session, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	ttl := session.TTL(s.now())
	if ttl <= 0 {
		return nil
	}

	revokeCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err = s.revocations.Set(revokeCtx, revokedKeyPrefix+session.ID, true, ttl); err != nil {
		s.log.Error("failed to revoke session", slog.String("op", op), sl.Err(err))
		metrics.RecordAuthAttempt("logout", metrics.ResultUnavailable)
		return fmt.Errorf("%s: %w", op, ErrServiceUnavailable)
	}
	metrics.RecordAuthAttempt("logout", metrics.ResultSuccess)
	return nil
}

// CurrentSession возвращает сессию, соответствующую токену, или nil для
// анонимного пользователя. Состояние не изменяется.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*models.Session, error) {
	const op = "auth.CurrentSession"
	if token == "" {
		return nil, nil
	}
	session, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, nil
	}

	lookupCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	revoked, err := s.revocations.Exists(lookupCtx, revokedKeyPrefix+session.ID)
	if err != nil {
		s.log.Error("failed to check session revocation", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrServiceUnavailable)
	}
	if revoked {
		return nil, nil
	}
	return session, nil
}

func (s *AuthService) getUser(ctx context.Context, username string) (*models.User, error) {
	lookupCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.users.GetUserByUsername(lookupCtx, username)
}

func (s *AuthService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.StorageTimeout)
}

// publish отправляет событие; ошибка публикации на результат операции не влияет.
func (s *AuthService) publish(ctx context.Context, event models.Event) {
	if err := s.events.Publish(ctx, event.Type, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", event.Type), sl.Err(err))
	}
}
