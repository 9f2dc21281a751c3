package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/shared"
	"golang.org/x/oauth2"
)

// pingHandler is a minimal Handler for router tests.
type pingHandler struct {
	hit func()
}

func (p pingHandler) Routes() []string { return []string{"/ping"} }

func (p pingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.hit()
	w.WriteHeader(http.StatusOK)
}

func newDebugLogger(w io.Writer) *log.Logger {
	logger := shared.NewLogger(w)
	shared.SetLogLevel(logger, log.DebugLevel)
	return logger
}

// fakeTokenEndpoint stands in for Google's token URL during Exchange.
func fakeTokenEndpoint(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "test-access",
			"refresh_token": "test-refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T, state string) *OAuthHandler {
	t.Helper()

	endpoint := fakeTokenEndpoint(t)
	config := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: endpoint.URL},
		RedirectURL:  "http://127.0.0.1:3000/callback",
	}
	return NewOAuthHandler(config, state)
}

func awaitResult(t *testing.T, h *OAuthHandler) OAuthResult {
	t.Helper()

	select {
	case result := <-h.Result():
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
		return OAuthResult{}
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("successful callback exchanges the code", func(t *testing.T) {
		h := newTestHandler(t, "state-123")

		req := httptest.NewRequest("GET", "/callback?state=state-123&code=auth-code", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Errorf("missing success page: %s", rec.Body.String())
		}

		result := awaitResult(t, h)
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "test-access" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
		if result.Token.RefreshToken != "test-refresh" {
			t.Errorf("refresh token not captured: %+v", result.Token)
		}
	})

	t.Run("state mismatch is rejected", func(t *testing.T) {
		h := newTestHandler(t, "state-123")

		req := httptest.NewRequest("GET", "/callback?state=wrong&code=auth-code", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := awaitResult(t, h)
		if !errors.Is(result.Error(), shared.ErrStateMismatch) {
			t.Errorf("expected ErrStateMismatch, got %v", result.Error())
		}
	})

	t.Run("denied consent surfaces the provider error", func(t *testing.T) {
		h := newTestHandler(t, "state-123")

		req := httptest.NewRequest("GET", "/callback?state=state-123&error=access_denied&error_description=user+denied", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := awaitResult(t, h)
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
		if !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("provider error code missing: %v", result.Error())
		}
	})

	t.Run("second callback is ignored", func(t *testing.T) {
		h := newTestHandler(t, "state-123")

		first := httptest.NewRequest("GET", "/callback?state=state-123&code=auth-code", nil)
		h.ServeHTTP(httptest.NewRecorder(), first)
		awaitResult(t, h)

		second := httptest.NewRequest("GET", "/callback?state=state-123&code=other-code", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("routes from the handler are registered", func(t *testing.T) {
		router := NewBasicRouter()
		h := newTestHandler(t, "s")
		router.Handler(h)

		req := httptest.NewRequest("GET", "/callback?state=s&code=c", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("middleware wraps handlers in order", func(t *testing.T) {
		router := NewBasicRouter()
		var order []string
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "outer")
				next.ServeHTTP(w, r)
			})
		})
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "inner")
				next.ServeHTTP(w, r)
			})
		})
		router.Handler(pingHandler{hit: func() { order = append(order, "handler") }})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ping", nil))

		want := []string{"outer", "inner", "handler"}
		for i, step := range want {
			if i >= len(order) || order[i] != step {
				t.Fatalf("expected order %v, got %v", want, order)
			}
		}
	})

	t.Run("request logging middleware passes requests through", func(t *testing.T) {
		var logs bytes.Buffer
		router := NewBasicRouter()
		router.Use(LogRequests(newDebugLogger(&logs)))

		hit := false
		router.Handler(pingHandler{hit: func() { hit = true }})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ping", nil))

		if !hit {
			t.Error("handler not reached through logging middleware")
		}
		if !strings.Contains(logs.String(), "/ping") {
			t.Errorf("request path not logged: %s", logs.String())
		}
	})
}
