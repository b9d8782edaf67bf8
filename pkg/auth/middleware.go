package auth

import (
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/shelfaware/pkg/httpx"
	"github.com/ghuser/shelfaware/pkg/logger"
)

// SessionName is the cookie the external sign-in service writes.
const SessionName = "shelfaware_session"

const sessionUserIDKey = "user_id"

func init() {
	gob.Register(uuid.UUID{})
}

var (
	// ErrNoSession means the request carries no usable session.
	ErrNoSession = errors.New("authentication required")
	// ErrBadSession means the session exists but its user_id is unusable.
	ErrBadSession = errors.New("invalid session data")
)

// SessionUser reads the household member from the request's session. The
// user_id value may be stored as a uuid.UUID or its string form.
func SessionUser(store sessions.Store, r *http.Request) (uuid.UUID, error) {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	switch v := session.Values[sessionUserIDKey].(type) {
	case uuid.UUID:
		if v == uuid.Nil {
			return uuid.Nil, ErrBadSession
		}
		return v, nil
	case string:
		if v == "" {
			return uuid.Nil, ErrNoSession
		}
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrBadSession, err)
		}
		return id, nil
	default:
		return uuid.Nil, ErrNoSession
	}
}

// RequireAuth rejects requests without a valid session with a JSON 401 and
// stores the member id in the context for UserIDFromCtx.
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := SessionUser(store, r)
			if err != nil {
				log.WarnContext(r.Context(), "rejected unauthenticated request", "path", r.URL.Path, "error", err)
				msg := ErrNoSession.Error()
				if errors.Is(err, ErrBadSession) {
					msg = ErrBadSession.Error()
				}
				httpx.JSONError(w, http.StatusUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
