package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/reminder-notifier/internal/model"
)

var (
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrReminderNotPending = errors.New("reminder is not pending")
)

const (
	createReminderQuery = `
		INSERT INTO reminders (due_at, message, method, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;
	`

	getAllRemindersQuery = `
		SELECT id, due_at, message, method, status, created_at, updated_at
		FROM reminders
		ORDER BY created_at, id;
	`

	getRemindersByStatusQuery = `
		SELECT id, due_at, message, method, status, created_at, updated_at
		FROM reminders
		WHERE status = $1
		ORDER BY due_at, id;
	`

	getDueRemindersQuery = `
		SELECT id, due_at, message, method, status, created_at, updated_at
		FROM reminders
		WHERE status = $1 AND due_at <= $2
		ORDER BY due_at, id;
	`

	getReminderByIDQuery = `
		SELECT id, due_at, message, method, status, created_at, updated_at
		FROM reminders
		WHERE id = $1;
	`

	markSentQuery = `
		UPDATE reminders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING id, due_at, message, method, status, created_at, updated_at;
	`
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Repository provides methods to interact with the reminders table.
//
// Writes and the due scan go to the master so the delivery engine always sees its own
// transitions; listings may be served by a replica.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new reminder repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (model.Reminder, error) {
	var r model.Reminder
	err := s.Scan(&r.ID, &r.DueAt, &r.Message, &r.Method, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// CreateReminder inserts a new reminder and returns it with the id and timestamps assigned by the database.
func (r *Repository) CreateReminder(ctx context.Context, reminder model.Reminder) (model.Reminder, error) {
	err := r.db.Master.QueryRowContext(
		ctx, createReminderQuery, reminder.DueAt, reminder.Message, reminder.Method, reminder.Status,
	).Scan(&reminder.ID, &reminder.CreatedAt, &reminder.UpdatedAt)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to create reminder: %w", err)
	}

	return reminder, nil
}

// GetAllReminders retrieves every reminder in creation order.
func (r *Repository) GetAllReminders(ctx context.Context) ([]model.Reminder, error) {
	return r.list(ctx, r.db, getAllRemindersQuery)
}

// GetRemindersByStatus retrieves reminders with the given status ordered by due time ascending.
func (r *Repository) GetRemindersByStatus(ctx context.Context, status model.Status) ([]model.Reminder, error) {
	return r.list(ctx, r.db, getRemindersByStatusQuery, status)
}

// GetDueReminders retrieves reminders with the given status whose due time is at or before the given
// instant, earliest first.
func (r *Repository) GetDueReminders(ctx context.Context, status model.Status, before time.Time) ([]model.Reminder, error) {
	return r.list(ctx, r.db.Master, getDueRemindersQuery, status, before)
}

// GetReminderByID retrieves a single reminder.
func (r *Repository) GetReminderByID(ctx context.Context, id uuid.UUID) (model.Reminder, error) {
	reminders, err := r.list(ctx, r.db, getReminderByIDQuery, id)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}

	if len(reminders) == 0 {
		return model.Reminder{}, ErrReminderNotFound
	}

	return reminders[0], nil
}

// MarkSent moves a pending reminder to SENT and returns the updated row.
//
// The update only matches PENDING rows, so a reminder is transitioned at most once.
// ErrReminderNotPending is returned when the row is missing or already SENT.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) (model.Reminder, error) {
	reminder, err := scanReminder(
		r.db.Master.QueryRowContext(ctx, markSentQuery, model.StatusSent, id, model.StatusPending),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, ErrReminderNotPending
		}

		return model.Reminder{}, fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	return reminder, nil
}

func (r *Repository) list(ctx context.Context, q queryer, query string, args ...any) ([]model.Reminder, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]model.Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}
