package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/reminder-notifier/internal/model"
	"github.com/aliskhannn/reminder-notifier/internal/subscriber"
)

type reminderService interface {
	GetDueReminders(ctx context.Context, now time.Time) ([]model.Reminder, error)
	MarkSent(ctx context.Context, strategy retry.Strategy, reminder model.Reminder) (model.Reminder, error)
}

type subscriberRegistry interface {
	Snapshot() []*subscriber.Subscriber
	Unregister(s *subscriber.Subscriber) bool
}

// TickResult summarises one delivery pass.
type TickResult struct {
	Skipped    bool // no subscribers, or another tick was still running
	Due        int  // due reminders found
	Sent       int  // reminders moved to SENT
	Deliveries int  // events queued to subscribers
	Dropped    int  // subscribers removed after a failed send
}

// Notifier periodically pushes due reminders to every live subscriber and marks them SENT.
type Notifier struct {
	service     reminderService
	registry    subscriberRegistry
	clock       clock.Clock
	sendTimeout time.Duration

	running sync.Mutex
}

// NewNotifier creates a Notifier. sendTimeout bounds how long a single subscriber may hold up a tick.
func NewNotifier(s reminderService, r subscriberRegistry, clk clock.Clock, sendTimeout time.Duration) *Notifier {
	return &Notifier{
		service:     s,
		registry:    r,
		clock:       clk,
		sendTimeout: sendTimeout,
	}
}

// Run ticks immediately and then every interval until ctx is done.
// Ticks run one after another on the calling goroutine and never overlap.
func (n *Notifier) Run(ctx context.Context, strategy retry.Strategy, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	zlog.Logger.Info().Dur("interval", interval).Msg("notifier started")

	for {
		if _, err := n.Tick(ctx, strategy); err != nil && ctx.Err() == nil {
			zlog.Logger.Error().Err(err).Msg("delivery tick failed")
		}

		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("notifier stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick runs one delivery pass.
//
// Nothing is read or written when no subscriber is connected. Otherwise every due reminder,
// earliest first, is offered to each live subscriber; a subscriber whose send fails is
// unregistered and the pass goes on. The reminder is marked SENT after the attempt, whatever
// the individual outcomes were.
func (n *Notifier) Tick(ctx context.Context, strategy retry.Strategy) (TickResult, error) {
	var res TickResult

	if !n.running.TryLock() {
		zlog.Logger.Warn().Msg("previous tick still running, skipping")
		res.Skipped = true
		return res, nil
	}
	defer n.running.Unlock()

	if len(n.registry.Snapshot()) == 0 {
		res.Skipped = true
		return res, nil
	}

	now := n.clock.Now()
	due, err := n.service.GetDueReminders(ctx, now)
	if err != nil {
		return res, fmt.Errorf("get due reminders: %w", err)
	}

	res.Due = len(due)
	if res.Due > 0 {
		zlog.Logger.Info().Int("count", res.Due).Time("now", now).Msg("found due reminders")
	}

	for _, reminder := range due {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if !reminder.IsDue(now) {
			continue
		}

		delivered, dropped, err := n.deliver(ctx, reminder)
		res.Deliveries += delivered
		res.Dropped += dropped
		if err != nil {
			return res, err
		}

		if _, err := n.service.MarkSent(ctx, strategy, reminder); err != nil {
			zlog.Logger.Error().Err(err).Str("id", reminder.ID.String()).Msg("failed to mark reminder sent")
			continue
		}

		res.Sent++
		zlog.Logger.Info().Str("id", reminder.ID.String()).Int("subscribers", delivered).Msg("reminder sent")
	}

	return res, nil
}

// deliver offers one reminder to the current subscribers. It only returns an error when ctx is done.
func (n *Notifier) deliver(ctx context.Context, reminder model.Reminder) (delivered, dropped int, err error) {
	ev := subscriber.Event{
		ID:   reminder.ID.String(),
		Name: subscriber.EventReminderDue,
		Data: model.ToResponse(reminder),
	}

	for _, s := range n.registry.Snapshot() {
		if sendErr := s.Send(ctx, ev, n.sendTimeout); sendErr != nil {
			if ctx.Err() != nil {
				return delivered, dropped, ctx.Err()
			}

			zlog.Logger.Warn().Err(sendErr).
				Str("id", reminder.ID.String()).
				Str("subscriber", s.ID().String()).
				Msg("failed to send reminder, dropping subscriber")

			if n.registry.Unregister(s) {
				dropped++
			}
			continue
		}

		delivered++
	}

	return delivered, dropped, nil
}
