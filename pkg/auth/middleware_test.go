package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/shelfaware/pkg/logger"
)

// newTestStore returns the cookie-backed store used when Redis is disabled.
func newTestStore() sessions.Store {
	return NewSessionStore(nil, SessionOptions{
		AuthKey:       []byte("test-auth-key-must-be-32-bytes!!"),
		EncryptionKey: []byte("test-enc-key-must-be-32-bytes!!!"),
	})
}

// cookieFor saves a session holding values and returns a POST /api/events
// request that carries its cookie. nil values means no cookie at all.
func cookieFor(t *testing.T, store sessions.Store, values map[any]any) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/events", http.NoBody)
	if values == nil {
		return req
	}

	w := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodPost, "/api/events", http.NoBody)
	session, err := store.Get(seed, SessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(seed, w); err != nil {
		t.Fatalf("save session: %v", err)
	}
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		values     map[any]any
		wantStatus int
		wantBody   string
	}{
		{"valid session", map[any]any{sessionUserIDKey: userID.String()}, http.StatusOK, ""},
		{"no cookie", nil, http.StatusUnauthorized, "authentication required"},
		{"session without user", map[any]any{"other": "x"}, http.StatusUnauthorized, "authentication required"},
		{"malformed user id", map[any]any{sessionUserIDKey: "not-a-uuid"}, http.StatusUnauthorized, "invalid session data"},
		{"user id of wrong type", map[any]any{sessionUserIDKey: 42}, http.StatusUnauthorized, "authentication required"},
		{"empty user id", map[any]any{sessionUserIDKey: ""}, http.StatusUnauthorized, "authentication required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()

			var got uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.wantStatus != http.StatusOK {
					t.Fatal("next handler must not run")
				}
				got, _ = UserIDFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			RequireAuth(store, logger.Nop())(next).ServeHTTP(w, cookieFor(t, store, tt.values))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Fatalf("expected %q in body, got %s", tt.wantBody, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK && got != userID {
				t.Fatalf("expected user %v in context, got %v", userID, got)
			}
		})
	}
}

func TestSessionUser_ErrorKinds(t *testing.T) {
	store := newTestStore()
	member := uuid.New()

	tests := []struct {
		name    string
		values  map[any]any
		want    uuid.UUID
		wantErr error
	}{
		{"string id", map[any]any{sessionUserIDKey: member.String()}, member, nil},
		{"no cookie", nil, uuid.Nil, ErrNoSession},
		{"garbage id", map[any]any{sessionUserIDKey: "zzz"}, uuid.Nil, ErrBadSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SessionUser(store, cookieFor(t, store, tt.values))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
