package dto

// CreateRequest is the body of POST /api/reminders.
type CreateRequest struct {
	DueAt   string `json:"due_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00,present_or_future"`
	Message string `json:"message" validate:"notblank,max=500"`
	Method  string `json:"method" validate:"required,oneof=EMAIL SMS PUSH"`
}
