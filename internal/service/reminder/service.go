package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/reminder-notifier/internal/model"
	"github.com/aliskhannn/reminder-notifier/internal/rabbitmq/queue"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/reminder/mock.go -package=mocks

type reminderRepository interface {
	CreateReminder(context.Context, model.Reminder) (model.Reminder, error)
	GetAllReminders(context.Context) ([]model.Reminder, error)
	GetRemindersByStatus(context.Context, model.Status) ([]model.Reminder, error)
	GetDueReminders(context.Context, model.Status, time.Time) ([]model.Reminder, error)
	GetReminderByID(context.Context, uuid.UUID) (model.Reminder, error)
	MarkSent(context.Context, uuid.UUID) (model.Reminder, error)
}

// Cache stores reminder statuses keyed by reminder id.
type Cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Publisher announces reminders that reached SENT.
type Publisher interface {
	Publish(msg queue.ReminderSentMessage, strategy retry.Strategy) error
}

// Service implements the reminder use cases on top of the repository.
//
// cache and publisher are optional; a nil value disables the feature.
type Service struct {
	repo      reminderRepository
	cache     Cache
	publisher Publisher
}

// NewService creates a new reminder service.
func NewService(repo reminderRepository, cache Cache, publisher Publisher) *Service {
	return &Service{repo: repo, cache: cache, publisher: publisher}
}

// CreateReminder persists a new reminder. The status is always PENDING whatever the caller set.
func (s *Service) CreateReminder(ctx context.Context, strategy retry.Strategy, reminder model.Reminder) (model.Reminder, error) {
	reminder.Status = model.StatusPending

	created, err := s.repo.CreateReminder(ctx, reminder)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("create reminder: %w", err)
	}

	s.cacheStatus(ctx, strategy, created.ID, created.Status)

	zlog.Logger.Info().Str("id", created.ID.String()).Time("due_at", created.DueAt).Msg("reminder created")

	return created, nil
}

// GetAllReminders returns every reminder.
func (s *Service) GetAllReminders(ctx context.Context) ([]model.Reminder, error) {
	reminders, err := s.repo.GetAllReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all reminders: %w", err)
	}

	return reminders, nil
}

// GetPendingReminders returns PENDING reminders ordered by due time, due or not.
func (s *Service) GetPendingReminders(ctx context.Context) ([]model.Reminder, error) {
	reminders, err := s.repo.GetRemindersByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("get pending reminders: %w", err)
	}

	return reminders, nil
}

// GetDueReminders returns PENDING reminders whose due time is at or before now, earliest first.
func (s *Service) GetDueReminders(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	reminders, err := s.repo.GetDueReminders(ctx, model.StatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("get due reminders: %w", err)
	}

	return reminders, nil
}

// GetReminderStatusByID returns the status of a reminder, reading through the cache when enabled.
func (s *Service) GetReminderStatusByID(ctx context.Context, strategy retry.Strategy, id uuid.UUID) (model.Status, error) {
	if s.cache != nil {
		status, err := s.cache.GetWithRetry(ctx, strategy, id.String())
		if err == nil {
			return model.Status(status), nil
		}

		if !errors.Is(err, redis.Nil) {
			zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get reminder status from cache")
		}
	}

	reminder, err := s.repo.GetReminderByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get reminder status: %w", err)
	}

	s.cacheStatus(ctx, strategy, id, reminder.Status)

	return reminder.Status, nil
}

// MarkSent moves a delivered reminder to SENT, then refreshes the cache and publishes the event.
//
// Only the store transition can fail the call; cache and publish errors are logged.
func (s *Service) MarkSent(ctx context.Context, strategy retry.Strategy, reminder model.Reminder) (model.Reminder, error) {
	sent, err := s.repo.MarkSent(ctx, reminder.ID)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("mark reminder sent: %w", err)
	}

	s.cacheStatus(ctx, strategy, sent.ID, sent.Status)

	if s.publisher != nil {
		if err := s.publisher.Publish(queue.NewReminderSentMessage(sent), strategy); err != nil {
			zlog.Logger.Error().Err(err).Str("id", sent.ID.String()).Msg("failed to publish reminder sent event")
		}
	}

	return sent, nil
}

func (s *Service) cacheStatus(ctx context.Context, strategy retry.Strategy, id uuid.UUID, status model.Status) {
	if s.cache == nil {
		return
	}

	if err := s.cache.SetWithRetry(ctx, strategy, id.String(), string(status)); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to cache reminder status")
	}
}
