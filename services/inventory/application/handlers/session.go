package handlers

import (
	"net/http"

	"github.com/ghuser/shelfaware/pkg/auth"
	"github.com/ghuser/shelfaware/pkg/httpx"
)

// SessionResponse identifies the signed-in household member.
type SessionResponse struct {
	UserID string `json:"user_id" example:"0b6f0b9e-3c4c-4f0e-9a53-3f1d7f8a2c11"`
} // @name Session

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler { return &SessionHandler{} }

// Whoami echoes the member RequireAuth placed in the context.
//
//	@Summary	Current session
//	@Tags		session
//	@Produce	json
//	@Success	200	{object}	SessionResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/session [get]
func (h *SessionHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	id, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, auth.ErrNoSession.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, SessionResponse{UserID: id.String()})
}
