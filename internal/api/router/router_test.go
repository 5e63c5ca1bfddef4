package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/reminder-notifier/internal/api/handlers/reminder"
	"github.com/aliskhannn/reminder-notifier/internal/api/validation"
	"github.com/aliskhannn/reminder-notifier/internal/config"
	mocks "github.com/aliskhannn/reminder-notifier/internal/mocks/api/handlers/reminder"
	"github.com/aliskhannn/reminder-notifier/internal/model"
)

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	service := mocks.NewMockreminderService(ctrl)
	registry := mocks.NewMocksubscriberRegistry(ctrl)

	cfg := &config.Config{}
	h := reminder.NewHandler(service, registry, validation.New(clock.NewFake(), time.Second), cfg)
	e := New(h, []string{"http://localhost:3000"})

	service.EXPECT().GetAllReminders(gomock.Any()).Return([]model.Reminder{}, nil)
	service.EXPECT().GetPendingReminders(gomock.Any()).Return([]model.Reminder{}, nil)

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/reminders", http.StatusOK},
		{http.MethodGet, "/api/reminders/pending", http.StatusOK},
		{http.MethodGet, "/api/reminders/not-a-uuid/status", http.StatusBadRequest},
		{http.MethodOptions, "/api/reminders", http.StatusNoContent},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Origin", "http://localhost:3000")

			e.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}
