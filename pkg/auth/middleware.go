package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/mindflow/backend/pkg/httpx"
	"github.com/mindflow/backend/pkg/logger"
)

const (
	sessionName       = "mindflow_session"
	sessionUserIDKey  = "user_id"
	errAuthRequired   = "authentication required"
	errInvalidSession = "invalid session data"
)

// RequireAuth resolves the owner from the session cookie and stores it in the
// request context. Requests without a session holding a valid user_id get 401.
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, errAuthRequired)
				return
			}

			raw, ok := session.Values[sessionUserIDKey].(string)
			if !ok || raw == "" {
				log.WarnContext(r.Context(), "session missing user_id")
				httpx.JSONError(w, http.StatusUnauthorized, errAuthRequired)
				return
			}

			ownerID, err := uuid.Parse(raw)
			if err != nil {
				log.WarnContext(r.Context(), "invalid user_id in session", "user_id", raw, "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, errInvalidSession)
				return
			}

			logger.TagOwner(r.Context(), ownerID.String())
			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}
