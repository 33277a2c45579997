package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/mindflow/backend/pkg/config"
	"github.com/mindflow/backend/pkg/logger"
)

// newTestStore returns a cookie store; RequireAuth only sees sessions.Store.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// requestWithSessionValue builds a request whose cookie carries value under
// the user_id key. A nil value leaves the session empty.
func requestWithSessionValue(t *testing.T, store sessions.Store, value any) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/board", nil)

	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if value != nil {
		session.Values[sessionUserIDKey] = value
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/board", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	owner := uuid.New()

	var captured uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = OwnerIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	RequireAuth(store, newTestLogger())(next).ServeHTTP(w, requestWithSessionValue(t, store, owner.String()))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured != owner {
		t.Fatalf("expected owner %v in context, got %v", owner, captured)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	store := newTestStore()

	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"missing cookie", func(*testing.T) *http.Request {
			return httptest.NewRequest(http.MethodGet, "/api/board", nil)
		}},
		{"session without user_id", func(t *testing.T) *http.Request {
			return requestWithSessionValue(t, store, nil)
		}},
		{"malformed user_id", func(t *testing.T) *http.Request {
			return requestWithSessionValue(t, store, "not-a-valid-uuid")
		}},
		{"user_id of wrong type", func(t *testing.T) *http.Request {
			return requestWithSessionValue(t, store, 42)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("next handler should not be called")
			})

			w := httptest.NewRecorder()
			RequireAuth(store, newTestLogger())(next).ServeHTTP(w, tt.req(t))

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}
