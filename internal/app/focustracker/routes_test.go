package focustracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/focus-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

var errRevocationDown = errors.New("redis down")

type fakeAuth struct{}

func (fakeAuth) Register(context.Context, string, string, string) error { return nil }

func (fakeAuth) Login(_ context.Context, username, _ string) (*models.Session, string, error) {
	return &models.Session{ID: "sid", Username: username, ExpiresAt: time.Now().Add(time.Hour)}, "good", nil
}

func (fakeAuth) Logout(context.Context, string) error { return nil }

func (fakeAuth) CurrentSession(_ context.Context, token string) (*models.Session, error) {
	switch token {
	case "good":
		return &models.Session{ID: "sid", Username: "alice", DisplayName: "Alice"}, nil
	case "broken":
		return nil, errRevocationDown
	default:
		return nil, nil
	}
}

type fakeFocusLog struct{}

func (fakeFocusLog) Create(context.Context, *models.Session, models.DummyEntry) (int, error) {
	return 1, nil
}

func (fakeFocusLog) Recent(_ context.Context, session *models.Session, _ int) ([]*models.Entry, error) {
	return []*models.Entry{{ID: 1, Username: session.Username}}, nil
}

func (fakeFocusLog) Dashboard(context.Context, *models.Session, models.DashboardFilter) (*models.Dashboard, error) {
	return &models.Dashboard{Empty: true}, nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestRouter(burst int) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, newNoopLogger(), RouteDeps{
		Auth:     fakeAuth{},
		FocusLog: fakeFocusLog{},
		Health: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		Limiter: middlewarectx.NewClientRateLimiter(0.001, burst),
		Cookie:  middlewarectx.CookieConfig{Name: "ft_session"},
	})
	return r
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(10)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{name: "anonymous session", method: http.MethodGet, path: "/api/v1/session", wantStatus: http.StatusOK},
		{name: "logs require session", method: http.MethodGet, path: "/api/v1/logs", wantStatus: http.StatusUnauthorized},
		{name: "dashboard requires session", method: http.MethodGet, path: "/api/v1/dashboard", wantStatus: http.StatusUnauthorized},
		{name: "create requires session", method: http.MethodPost, path: "/api/v1/logs", body: "{}", wantStatus: http.StatusUnauthorized},
		{name: "unknown token is anonymous", method: http.MethodGet, path: "/api/v1/logs", token: "stale", wantStatus: http.StatusUnauthorized},
		{name: "logs with session", method: http.MethodGet, path: "/api/v1/logs", token: "good", wantStatus: http.StatusOK},
		{name: "dashboard with session", method: http.MethodGet, path: "/api/v1/dashboard", token: "good", wantStatus: http.StatusOK},
		{name: "create with session", method: http.MethodPost, path: "/api/v1/logs", token: "good", body: "{}", wantStatus: http.StatusCreated},
		{name: "revocation store down", method: http.MethodGet, path: "/api/v1/logs", token: "broken", wantStatus: http.StatusServiceUnavailable},
		{name: "logout without session", method: http.MethodPost, path: "/api/v1/logout", wantStatus: http.StatusOK},
		{name: "register", method: http.MethodPost, path: "/api/v1/register", body: `{"username":"alice"}`, wantStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRoutes_SessionFromCookie(t *testing.T) {
	router := newTestRouter(10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(&http.Cookie{Name: "ft_session", Value: "good"})
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, true, got.Data["authenticated"])
	assert.Equal(t, "alice", got.Data["username"])
}

func TestRoutes_LoginRateLimited(t *testing.T) {
	router := newTestRouter(2)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(`{"username":"alice","password":"x"}`))
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Ограничение не распространяется на другие маршруты.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_AuthEndpointsWithBrokenRevocationStore(t *testing.T) {
	router := newTestRouter(10)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "logout", path: "/api/v1/logout"},
		{name: "login", path: "/api/v1/login", body: `{"username":"alice","password":"x"}`},
		{name: "register", path: "/api/v1/register", body: `{"username":"alice","display_name":"Alice","password":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.AddCookie(&http.Cookie{Name: "ft_session", Value: "broken"})
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	t.Run("logout clears cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
		req.AddCookie(&http.Cookie{Name: "ft_session", Value: "broken"})
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "ft_session", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)
	})

	t.Run("session lookup still reports outage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		req.AddCookie(&http.Cookie{Name: "ft_session", Value: "broken"})
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRoutes_LoginRateLimitIgnoresForwardedFor(t *testing.T) {
	router := newTestRouter(1)

	codes := make([]int, 0, 5)
	for i := range 5 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(`{"username":"alice","password":"x"}`))
		req.RemoteAddr = "198.51.100.20:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i+1))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	for i, code := range codes[1:] {
		assert.Equal(t, http.StatusTooManyRequests, code, "attempt %d", i+1)
	}
}

// Каждый @Router в документации обработчиков соответствует зарегистрированному маршруту.
func TestRoutes_MatchHandlerDocs(t *testing.T) {
	router := chi.NewRouter()
	RegisterRoutes(router, newNoopLogger(), RouteDeps{
		Auth:     fakeAuth{},
		FocusLog: fakeFocusLog{},
		Health:   http.NotFoundHandler(),
		Limiter:  middlewarectx.NewClientRateLimiter(1, 1),
		Cookie:   middlewarectx.CookieConfig{Name: "ft_session"},
	})

	registered := make(map[string]bool)
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	files, err := filepath.Glob("../../http/handlers/*/*/*.go")
	require.NoError(t, err)
	health, err := filepath.Glob("../../http/handlers/*/*.go")
	require.NoError(t, err)
	files = append(files, health...)

	documented := 0
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		parsed, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ParseComments)
		require.NoError(t, err)

		for _, decl := range parsed.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "ServeHTTP" {
				continue
			}
			require.NotNil(t, fn.Doc, "%s: ServeHTTP has no doc comment", file)

			var path, method string
			for _, line := range strings.Split(fn.Doc.Text(), "\n") {
				if fields := strings.Fields(line); len(fields) == 3 && fields[0] == "@Router" {
					path = fields[1]
					method = strings.ToUpper(strings.Trim(fields[2], "[]"))
				}
			}
			require.NotEmpty(t, path, "%s: ServeHTTP has no @Router annotation", file)
			if path != "/health" {
				path = "/api/v1" + path
			}
			assert.True(t, registered[method+" "+path], "%s documents %s %s which is not routed", file, method, path)
			documented++
		}
	}
	assert.Equal(t, 8, documented)
}
