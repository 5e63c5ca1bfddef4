package reminder

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/reminder-notifier/internal/model"
)

var reminderColumns = []string{"id", "due_at", "message", "method", "status", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

func addReminderRow(rows *sqlmock.Rows, r model.Reminder) *sqlmock.Rows {
	return rows.AddRow(r.ID.String(), r.DueAt, r.Message, string(r.Method), string(r.Status), r.CreatedAt, r.UpdatedAt)
}

func TestCreateReminder(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	now := time.Now().UTC()
	r := model.Reminder{
		DueAt:   now.Add(time.Hour),
		Message: "Call mom",
		Method:  model.MethodEmail,
		Status:  model.StatusPending,
	}

	mock.ExpectQuery(regexp.QuoteMeta(createReminderQuery)).
		WithArgs(r.DueAt, r.Message, r.Method, r.Status).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

	created, err := repo.CreateReminder(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, "Call mom", created.Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReminder_Error(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(createReminderQuery)).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.CreateReminder(context.Background(), model.Reminder{Status: model.StatusPending})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllReminders(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now().UTC()
	r1 := model.Reminder{ID: uuid.New(), DueAt: now, Message: "a", Method: model.MethodSMS, Status: model.StatusSent, CreatedAt: now, UpdatedAt: now}
	r2 := model.Reminder{ID: uuid.New(), DueAt: now, Message: "b", Method: model.MethodPush, Status: model.StatusPending, CreatedAt: now, UpdatedAt: now}

	rows := sqlmock.NewRows(reminderColumns)
	addReminderRow(rows, r1)
	addReminderRow(rows, r2)

	mock.ExpectQuery(regexp.QuoteMeta(getAllRemindersQuery)).WillReturnRows(rows)

	list, err := repo.GetAllReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Reminder{r1, r2}, list)

	mock.ExpectQuery(regexp.QuoteMeta(getAllRemindersQuery)).WillReturnRows(sqlmock.NewRows(reminderColumns))

	list, err = repo.GetAllReminders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRemindersByStatus(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now().UTC()
	early := model.Reminder{ID: uuid.New(), DueAt: now, Message: "early", Method: model.MethodEmail, Status: model.StatusPending, CreatedAt: now, UpdatedAt: now}
	late := model.Reminder{ID: uuid.New(), DueAt: now.AddDate(1000, 0, 0), Message: "late", Method: model.MethodEmail, Status: model.StatusPending, CreatedAt: now, UpdatedAt: now}

	rows := sqlmock.NewRows(reminderColumns)
	addReminderRow(rows, early)
	addReminderRow(rows, late)

	mock.ExpectQuery(regexp.QuoteMeta(getRemindersByStatusQuery)).
		WithArgs(model.StatusPending).
		WillReturnRows(rows)

	list, err := repo.GetRemindersByStatus(context.Background(), model.StatusPending)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].Message)
	assert.Equal(t, "late", list[1].Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDueReminders(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now().UTC()
	due := model.Reminder{ID: uuid.New(), DueAt: now.Add(-time.Second), Message: "due", Method: model.MethodEmail, Status: model.StatusPending, CreatedAt: now, UpdatedAt: now}

	rows := sqlmock.NewRows(reminderColumns)
	addReminderRow(rows, due)

	mock.ExpectQuery(regexp.QuoteMeta(getDueRemindersQuery)).
		WithArgs(model.StatusPending, now).
		WillReturnRows(rows)

	list, err := repo.GetDueReminders(context.Background(), model.StatusPending, now)
	require.NoError(t, err)
	assert.Equal(t, []model.Reminder{due}, list)

	mock.ExpectQuery(regexp.QuoteMeta(getDueRemindersQuery)).
		WithArgs(model.StatusPending, now).
		WillReturnError(errors.New("timeout"))

	_, err = repo.GetDueReminders(context.Background(), model.StatusPending, now)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReminderByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now().UTC()
	r := model.Reminder{ID: uuid.New(), DueAt: now, Message: "m", Method: model.MethodSMS, Status: model.StatusPending, CreatedAt: now, UpdatedAt: now}

	rows := sqlmock.NewRows(reminderColumns)
	addReminderRow(rows, r)

	mock.ExpectQuery(regexp.QuoteMeta(getReminderByIDQuery)).WithArgs(r.ID).WillReturnRows(rows)

	got, err := repo.GetReminderByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	mock.ExpectQuery(regexp.QuoteMeta(getReminderByIDQuery)).WithArgs(r.ID).WillReturnRows(sqlmock.NewRows(reminderColumns))

	_, err = repo.GetReminderByID(context.Background(), r.ID)
	assert.ErrorIs(t, err, ErrReminderNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(getReminderByIDQuery)).WithArgs(r.ID).WillReturnError(sql.ErrConnDone)

	_, err = repo.GetReminderByID(context.Background(), r.ID)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrReminderNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSent(t *testing.T) {
	repo, mock := setupMockDB(t)

	now := time.Now().UTC()
	sent := model.Reminder{ID: uuid.New(), DueAt: now, Message: "m", Method: model.MethodEmail, Status: model.StatusSent, CreatedAt: now, UpdatedAt: now}

	rows := sqlmock.NewRows(reminderColumns)
	addReminderRow(rows, sent)

	mock.ExpectQuery(regexp.QuoteMeta(markSentQuery)).
		WithArgs(model.StatusSent, sent.ID, model.StatusPending).
		WillReturnRows(rows)

	got, err := repo.MarkSent(context.Background(), sent.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, got.Status)

	// a second transition matches no PENDING row
	mock.ExpectQuery(regexp.QuoteMeta(markSentQuery)).
		WithArgs(model.StatusSent, sent.ID, model.StatusPending).
		WillReturnRows(sqlmock.NewRows(reminderColumns))

	_, err = repo.MarkSent(context.Background(), sent.ID)
	assert.ErrorIs(t, err, ErrReminderNotPending)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWritesAndDueScanUseMaster(t *testing.T) {
	master, masterMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = master.Close() })

	replica, replicaMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = replica.Close() })

	repo := NewRepository(&dbpg.DB{Master: master, Slaves: []*sql.DB{replica}})

	now := time.Now().UTC()
	r := model.Reminder{
		ID:        uuid.New(),
		DueAt:     now,
		Message:   "Call mom",
		Method:    model.MethodPush,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	masterMock.ExpectQuery(regexp.QuoteMeta(createReminderQuery)).
		WithArgs(r.DueAt, r.Message, r.Method, model.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(r.ID.String(), now, now))

	dueRows := sqlmock.NewRows(reminderColumns)
	addReminderRow(dueRows, r)
	masterMock.ExpectQuery(regexp.QuoteMeta(getDueRemindersQuery)).
		WithArgs(model.StatusPending, now).
		WillReturnRows(dueRows)

	sent := r
	sent.Status = model.StatusSent
	sentRows := sqlmock.NewRows(reminderColumns)
	addReminderRow(sentRows, sent)
	masterMock.ExpectQuery(regexp.QuoteMeta(markSentQuery)).
		WithArgs(model.StatusSent, r.ID, model.StatusPending).
		WillReturnRows(sentRows)

	// After the transition the next scan on the master no longer sees the reminder.
	masterMock.ExpectQuery(regexp.QuoteMeta(getDueRemindersQuery)).
		WithArgs(model.StatusPending, now).
		WillReturnRows(sqlmock.NewRows(reminderColumns))

	ctx := context.Background()

	_, err = repo.CreateReminder(ctx, model.Reminder{DueAt: r.DueAt, Message: r.Message, Method: r.Method, Status: model.StatusPending})
	require.NoError(t, err)

	due, err := repo.GetDueReminders(ctx, model.StatusPending, now)
	require.NoError(t, err)
	require.Len(t, due, 1)

	got, err := repo.MarkSent(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, got.Status)

	due, err = repo.GetDueReminders(ctx, model.StatusPending, now)
	require.NoError(t, err)
	assert.Empty(t, due)

	assert.NoError(t, masterMock.ExpectationsWereMet())
	assert.NoError(t, replicaMock.ExpectationsWereMet())
}

func TestInitSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS reminders")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, InitSchema(context.Background(), &dbpg.DB{Master: db}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
