package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
	"github.com/magabrotheeeer/focus-tracker/internal/services/focuslog"
)

type FocusLogServiceMock struct {
	mock.Mock
}

func (m *FocusLogServiceMock) Create(ctx context.Context, session *models.Session, req models.DummyEntry) (int, error) {
	args := m.Called(ctx, session, req)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	session := &models.Session{ID: "sid-1", Username: "alice", DisplayName: "Alice"}
	entry := models.DummyEntry{
		Date:         "2026-10-19",
		TimeBlock:    "10:00 - 10:30",
		Activity:     "Deep work",
		Productivity: models.ProductivityProductive,
		Mood:         models.MoodGood,
		Energy:       7,
	}
	energyErr := validator.New().Struct(struct {
		Energy int `validate:"max=10"`
	}{Energy: 11})
	require.Error(t, energyErr)

	tests := []struct {
		name           string
		body           any
		callService    bool
		mockID         int
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "created",
			body:           entry,
			callService:    true,
			mockID:         42,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           "{",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "unauthenticated",
			body:           entry,
			callService:    true,
			mockErr:        fmt.Errorf("focuslog.Create: %w", focuslog.ErrUnauthenticated),
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "field validation",
			body:           entry,
			callService:    true,
			mockErr:        fmt.Errorf("focuslog.Create: %w: %w", focuslog.ErrValidation, energyErr),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Energy must be at most 10",
		},
		{
			name:           "bad date",
			body:           entry,
			callService:    true,
			mockErr:        fmt.Errorf("focuslog.Create: %w: date must be in YYYY-MM-DD format", focuslog.ErrValidation),
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "date must be in YYYY-MM-DD format",
		},
		{
			name:           "storage unavailable",
			body:           entry,
			callService:    true,
			mockErr:        fmt.Errorf("focuslog.Create: %w", focuslog.ErrServiceUnavailable),
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      "service unavailable",
		},
		{
			name:           "unexpected error",
			body:           entry,
			callService:    true,
			mockErr:        errors.New("boom"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to create entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(FocusLogServiceMock)
			handler := New(newNoopLogger(), svc)
			if tt.callService {
				svc.On("Create", mock.Anything, session, entry).Return(tt.mockID, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.body.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			req = req.WithContext(middlewarectx.WithSession(ctx, session))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.InDelta(t, float64(tt.mockID), data["id"], 0)
			}

			svc.AssertExpectations(t)
		})
	}
}
