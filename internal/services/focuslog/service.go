// Package focuslog реализует журнал фокус-сессий: запись самооценок
// пользователя, список последних записей и панель статистики.
//
// Все операции принимают явную сессию; имя пользователя берётся только из неё.
package focuslog

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/focus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/focus-tracker/internal/metrics"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

const (
	// DefaultRecentLimit количество записей по умолчанию в списке последних.
	DefaultRecentLimit = 10
	// MaxRecentLimit максимальное количество записей, по которому строится статистика.
	MaxRecentLimit = 100

	recentCacheTTL    = 5 * time.Minute
	recentCachePrefix = "focuslog:recent:"

	// Строки кешируются под ключом с версией списка; каждая новая запись меняет версию.
	versionCachePrefix = "focuslog:version:"
	versionCacheTTL    = 24 * time.Hour
	initialVersion     = "0"
)

// Repository описывает хранилище записей журнала.
type Repository interface {
	CreateEntry(ctx context.Context, entry models.Entry) (int, error)
	ListEntries(ctx context.Context, username string, limit int) ([]*models.Entry, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service реализует бизнес-логику журнала, включая кеширование последних записей.
type Service struct {
	repo     Repository
	cache    Cache
	events   EventPublisher
	log      *slog.Logger
	validate *validator.Validate
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
}

// NewService создает новый экземпляр Service. timeout ограничивает каждое обращение к хранилищу.
func NewService(repo Repository, cache Cache, events EventPublisher, log *slog.Logger, timeout time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		events:   events,
		log:      log,
		validate: newValidator(),
		timeout:  timeout,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Create проверяет и сохраняет запись журнала от имени пользователя сессии.
func (s *Service) Create(ctx context.Context, session *models.Session, req models.DummyEntry) (int, error) {
	const op = "focuslog.Create"
	if session == nil {
		return 0, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	req.Date = strings.TrimSpace(req.Date)
	req.TimeBlock = strings.TrimSpace(req.TimeBlock)
	req.Activity = strings.TrimSpace(req.Activity)
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return 0, fmt.Errorf("%s: %w: date must be in YYYY-MM-DD format", op, ErrValidation)
	}

	entry := models.Entry{
		Username:     session.Username,
		Date:         req.Date,
		TimeBlock:    req.TimeBlock,
		Activity:     req.Activity,
		Productivity: req.Productivity,
		Mood:         req.Mood,
		Energy:       req.Energy,
		Notes:        req.Notes,
		Timestamp:    s.now().UTC(),
	}

	storeCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	id, err := s.repo.CreateEntry(storeCtx, entry)
	if err != nil {
		s.log.Error("failed to create entry", slog.String("op", op), sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, ErrServiceUnavailable)
	}

	metrics.RecordFocusLogEntry()
	s.log.Info("created focus log entry", slog.Int("id", id), slog.String("username", session.Username))

	s.bumpVersion(ctx, session.Username)
	event := models.Event{
		Type:       models.EventFocusLogCreated,
		Username:   session.Username,
		OccurredAt: entry.Timestamp,
		EntryID:    id,
	}
	if err := s.events.Publish(ctx, event.Type, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", event.Type), sl.Err(err))
	}
	return id, nil
}

// Recent возвращает последние записи пользователя, новые первыми.
// limit <= 0 заменяется на DefaultRecentLimit, больше MaxRecentLimit урезается.
func (s *Service) Recent(ctx context.Context, session *models.Session, limit int) ([]*models.Entry, error) {
	const op = "focuslog.Recent"
	if session == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	entries, err := s.recentEntries(ctx, session.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Dashboard строит статистику по последним MaxRecentLimit записям пользователя.
func (s *Service) Dashboard(ctx context.Context, session *models.Session, filter models.DashboardFilter) (*models.Dashboard, error) {
	const op = "focuslog.Dashboard"
	if session == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if err := validateFilter(filter); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries, err := s.recentEntries(ctx, session.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dashboard := BuildDashboard(entries, filter)
	return &dashboard, nil
}

// recentEntries возвращает последние MaxRecentLimit записей пользователя из кеша или хранилища.
func (s *Service) recentEntries(ctx context.Context, username string) ([]*models.Entry, error) {
	cacheKey := recentCacheKey(username, s.currentVersion(ctx, username))

	var cached []*models.Entry
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	storeCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	entries, err := s.repo.ListEntries(storeCtx, username, MaxRecentLimit)
	if err != nil {
		s.log.Error("failed to list entries", slog.String("username", username), sl.Err(err))
		return nil, ErrServiceUnavailable
	}

	if err := s.cache.Set(ctx, cacheKey, entries, recentCacheTTL); err != nil {
		s.log.Warn("failed to cache entries", slog.String("key", cacheKey), sl.Err(err))
	}
	return entries, nil
}

// currentVersion возвращает версию списка записей пользователя.
func (s *Service) currentVersion(ctx context.Context, username string) string {
	var version string
	found, err := s.cache.Get(ctx, versionCachePrefix+username, &version)
	if err != nil {
		s.log.Warn("failed to read cache version", slog.String("username", username), sl.Err(err))
	}
	if !found || version == "" {
		return initialVersion
	}
	return version
}

// bumpVersion переводит пользователя на новую версию кеша и удаляет строки прежней.
func (s *Service) bumpVersion(ctx context.Context, username string) {
	previous := recentCacheKey(username, s.currentVersion(ctx, username))
	if err := s.cache.Set(ctx, versionCachePrefix+username, s.newID(), versionCacheTTL); err != nil {
		s.log.Warn("failed to bump cache version", slog.String("username", username), sl.Err(err))
	}
	if err := s.cache.Invalidate(ctx, previous); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", previous), sl.Err(err))
	}
}

func recentCacheKey(username, version string) string {
	return recentCachePrefix + username + ":" + version
}

// newValidator возвращает валидатор, который называет поля по их JSON-тегам.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func validateFilter(filter models.DashboardFilter) error {
	for _, p := range filter.Productivity {
		if !slices.Contains(productivityLevels, p) {
			return fmt.Errorf("%w: unknown productivity %q", ErrValidation, p)
		}
	}
	moods := []string{models.MoodLow, models.MoodOkay, models.MoodGood, models.MoodGreat}
	for _, m := range filter.Mood {
		if !slices.Contains(moods, m) {
			return fmt.Errorf("%w: unknown mood %q", ErrValidation, m)
		}
	}
	return nil
}
