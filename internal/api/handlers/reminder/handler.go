package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/reminder-notifier/internal/api/dto"
	"github.com/aliskhannn/reminder-notifier/internal/api/respond"
	"github.com/aliskhannn/reminder-notifier/internal/api/validation"
	"github.com/aliskhannn/reminder-notifier/internal/config"
	"github.com/aliskhannn/reminder-notifier/internal/model"
	"github.com/aliskhannn/reminder-notifier/internal/repository/reminder"
	"github.com/aliskhannn/reminder-notifier/internal/subscriber"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/reminder/mock.go -package=mocks

type reminderService interface {
	CreateReminder(context.Context, retry.Strategy, model.Reminder) (model.Reminder, error)
	GetAllReminders(context.Context) ([]model.Reminder, error)
	GetPendingReminders(context.Context) ([]model.Reminder, error)
	GetReminderStatusByID(context.Context, retry.Strategy, uuid.UUID) (model.Status, error)
}

type subscriberRegistry interface {
	Register(ctx context.Context, s *subscriber.Subscriber) error
	Unregister(s *subscriber.Subscriber) bool
}

type Handler struct {
	service   reminderService
	registry  subscriberRegistry
	validator *validator.Validate
	cfg       *config.Config
}

func NewHandler(
	s reminderService,
	r subscriberRegistry,
	v *validator.Validate,
	cfg *config.Config,
) *Handler {
	return &Handler{service: s, registry: r, validator: v, cfg: cfg}
}

func (h *Handler) Create(c *ginext.Context) {
	var req dto.CreateRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		fields := validation.FieldErrors(err)
		if fields == nil {
			zlog.Logger.Error().Err(err).Msg("failed to validate request body")
			respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
			return
		}

		zlog.Logger.Warn().Interface("fields", fields).Msg("invalid reminder request")
		respond.ValidationFail(c.Writer, fields)
		return
	}

	// Validated above.
	dueAt, _ := time.Parse(time.RFC3339, req.DueAt)

	rem := model.Reminder{
		DueAt:   dueAt,
		Message: req.Message,
		Method:  model.Method(req.Method),
		Status:  model.StatusPending,
	}

	created, err := h.service.CreateReminder(c.Request.Context(), h.cfg.Retry, rem)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("method", req.Method).Msg("failed to create reminder")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Created(c.Writer, model.ToResponse(created))
}

func (h *Handler) GetAll(c *ginext.Context) {
	reminders, err := h.service.GetAllReminders(c.Request.Context())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to get reminders")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, model.ToResponses(reminders))
}

func (h *Handler) GetPending(c *ginext.Context) {
	reminders, err := h.service.GetPendingReminders(c.Request.Context())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to get pending reminders")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, model.ToResponses(reminders))
}

func (h *Handler) GetStatus(c *ginext.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("id", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}

	if id == uuid.Nil {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	status, err := h.service.GetReminderStatusByID(c.Request.Context(), h.cfg.Retry, id)
	if err != nil {
		if errors.Is(err, reminder.ErrReminderNotFound) {
			zlog.Logger.Warn().Str("id", id.String()).Msg("reminder not found")
			respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("reminder not found"))
			return
		}

		zlog.Logger.Error().Err(err).Str("id", id.String()).Msg("failed to get reminder status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, status)
}

// Stream keeps the connection open and relays the events queued for this client.
// It returns when the client goes away, the stream times out or the subscriber is dropped.
func (h *Handler) Stream(c *ginext.Context) {
	ctx := c.Request.Context()
	if timeout := h.cfg.Delivery.StreamTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sub := subscriber.New(h.cfg.Delivery.BufferSize)

	if err := h.registry.Register(ctx, sub); err != nil {
		if errors.Is(err, subscriber.ErrRegistryClosed) {
			zlog.Logger.Warn().Msg("stream rejected, shutting down")
			respond.Fail(c.Writer, http.StatusServiceUnavailable, fmt.Errorf("service is shutting down"))
			return
		}

		zlog.Logger.Error().Err(err).Msg("failed to register subscriber")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}
	defer h.registry.Unregister(sub)

	subID := sub.ID().String()
	zlog.Logger.Info().Str("subscriber", subID).Msg("stream opened")

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	var heartbeat <-chan time.Time
	if h.cfg.Delivery.Heartbeat > 0 {
		ticker := time.NewTicker(h.cfg.Delivery.Heartbeat)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		select {
		case ev := <-sub.Events():
			err := sse.Encode(c.Writer, sse.Event{Id: ev.ID, Event: ev.Name, Data: ev.Data})
			if err != nil {
				zlog.Logger.Warn().Str("subscriber", subID).Err(err).Str("event", ev.Name).Msg("failed to write event")
				return
			}
			c.Writer.Flush()

		case <-heartbeat:
			if _, err := c.Writer.WriteString(": keep-alive\n\n"); err != nil {
				zlog.Logger.Warn().Str("subscriber", subID).Err(err).Msg("failed to write heartbeat")
				return
			}
			c.Writer.Flush()

		case <-sub.Done():
			zlog.Logger.Info().Str("subscriber", subID).Msg("stream closed by server")
			return

		case <-ctx.Done():
			zlog.Logger.Info().Str("subscriber", subID).Err(ctx.Err()).Msg("stream closed")
			return
		}
	}
}
