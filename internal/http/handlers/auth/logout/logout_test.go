package logout

import (
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	cookie := middlewarectx.CookieConfig{Name: "ft_session"}

	tests := []struct {
		name           string
		prepare        func(r *http.Request)
		wantToken      string
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name: "token from cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "ft_session", Value: "cookie-token"})
			},
			wantToken:      "cookie-token",
			wantStatusCode: http.StatusOK,
		},
		{
			name: "token from header",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
			},
			wantToken:      "header-token",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "anonymous request",
			prepare:        func(*http.Request) {},
			wantToken:      "",
			wantStatusCode: http.StatusOK,
		},
		{
			name: "revocation store down",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "ft_session", Value: "cookie-token"})
			},
			wantToken:      "cookie-token",
			mockErr:        fmt.Errorf("auth.Logout: %w", auth.ErrServiceUnavailable),
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      "service unavailable",
		},
		{
			name: "unexpected error",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "ft_session", Value: "cookie-token"})
			},
			wantToken:      "cookie-token",
			mockErr:        errors.New("boom"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to log out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			svc.On("Logout", mock.Anything, tt.wantToken).Return(tt.mockErr).Once()
			handler := New(newNoopLogger(), svc, cookie)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			tt.prepare(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "logged out", data["message"])
			}

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "ft_session", cookies[0].Name)
			assert.Empty(t, cookies[0].Value)
			assert.Less(t, cookies[0].MaxAge, 0)

			svc.AssertExpectations(t)
		})
	}
}
