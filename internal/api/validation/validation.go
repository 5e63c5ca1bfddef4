// Package validation builds the request validator and turns its errors into per-field messages.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/jmhodges/clock"
)

// TagPresentOrFuture rejects RFC3339 timestamps earlier than now minus the grace window.
const TagPresentOrFuture = "present_or_future"

// New returns a validator that reports fields by their json names and knows the
// present_or_future and notblank tags.
func New(clk clock.Clock, grace time.Duration) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation(TagPresentOrFuture, presentOrFuture(clk, grace))

	return v
}

func presentOrFuture(clk clock.Clock, grace time.Duration) validator.Func {
	return func(fl validator.FieldLevel) bool {
		t, err := time.Parse(time.RFC3339, fl.Field().String())
		if err != nil {
			// The datetime tag reports the format problem.
			return true
		}

		return !t.Before(clk.Now().Add(-grace))
	}
}

var messages = map[string]map[string]string{
	"due_at": {
		"required":         "Reminder date and time cannot be null",
		"datetime":         "Reminder date and time must be an RFC3339 timestamp",
		TagPresentOrFuture: "Reminder date and time must be in the present or future",
	},
	"message": {
		"notblank": "Message cannot be blank",
		"required": "Message cannot be blank",
		"max":      "Message must be between 1 and 500 characters",
	},
	"method": {
		"required": "Reminder method cannot be null",
		"oneof":    "Reminder method must be one of EMAIL, SMS, PUSH",
	},
}

// FieldErrors maps each failing field to a human readable message.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}

		if msg, ok := messages[fe.Field()][fe.Tag()]; ok {
			fields[fe.Field()] = msg
			continue
		}

		fields[fe.Field()] = fe.Field() + " failed on " + fe.Tag()
	}

	return fields
}
