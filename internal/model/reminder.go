package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a reminder.
type Status string

const (
	StatusPending Status = "PENDING" // scheduled, not delivered yet
	StatusSent    Status = "SENT"    // pushed to the live subscribers of some tick
	StatusFailed  Status = "FAILED"  // reserved, never entered by the delivery engine
)

// Method is the delivery method requested by the client.
//
// It is stored and echoed back but never dispatched.
type Method string

const (
	MethodEmail Method = "EMAIL"
	MethodSMS   Method = "SMS"
	MethodPush  Method = "PUSH"
)

// Methods lists every accepted delivery method.
var Methods = []Method{MethodEmail, MethodSMS, MethodPush}

// Reminder represents a reminder entity in the system.
type Reminder struct {
	ID        uuid.UUID `json:"id"`         // assigned by the store
	DueAt     time.Time `json:"due_at"`     // point in time the reminder should fire
	Message   string    `json:"message"`    // 1..500 characters
	Method    Method    `json:"method"`     // pass-through delivery method
	Status    Status    `json:"status"`     // PENDING or SENT
	CreatedAt time.Time `json:"created_at"` // set by the store on insert
	UpdatedAt time.Time `json:"updated_at"` // set by the store on insert and on every update
}

// IsDue reports whether the reminder is pending and its due time has passed at now.
func (r Reminder) IsDue(now time.Time) bool {
	return r.Status == StatusPending && !r.DueAt.After(now)
}

// Response is the outward-facing representation of a reminder.
//
// It is a value copy, so pushing it to subscribers never shares state with the entity.
type Response struct {
	ID        string `json:"id"`
	DueAt     string `json:"due_at"`
	Message   string `json:"message"`
	Method    Method `json:"method"`
	Status    Status `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToResponse converts a reminder to its JSON representation (timestamps in RFC3339 with sub-second precision).
func ToResponse(r Reminder) Response {
	return Response{
		ID:        r.ID.String(),
		DueAt:     r.DueAt.Format(time.RFC3339Nano),
		Message:   r.Message,
		Method:    r.Method,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// ToResponses converts a slice of reminders, never returning nil.
func ToResponses(reminders []Reminder) []Response {
	responses := make([]Response, 0, len(reminders))
	for _, r := range reminders {
		responses = append(responses, ToResponse(r))
	}
	return responses
}
