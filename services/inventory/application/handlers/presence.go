package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/shelfaware/pkg/errhttp"
	"github.com/ghuser/shelfaware/pkg/httpx"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// PresenceResponse lists what was in storage at a point in time.
type PresenceResponse struct {
	At    int64          `json:"at"    example:"1735600000000"`
	Items []ItemResponse `json:"items"`
} // @name Presence

type PresenceHandler struct {
	svc  *appsvcs.Services
	prod bool
	now  func() time.Time
}

func NewPresenceHandler(svc *appsvcs.Services, prod bool) *PresenceHandler {
	return &PresenceHandler{svc: svc, prod: prod, now: time.Now}
}

// At replays the event log up to (not including) at.
//
//	@Summary	Items present at a time
//	@Tags		presence
//	@Produce	json
//	@Param		at	query		int	false	"Milliseconds since epoch (default now)"
//	@Success	200	{object}	PresenceResponse
//	@Failure	422	{object}	ValidationErrorResponse
//	@Router		/presence [get]
func (h *PresenceHandler) At(w http.ResponseWriter, r *http.Request) {
	atMs, err := queryInt64(r, "at")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	at := h.now()
	if atMs != nil {
		at = models.FromMillis(*atMs)
	}

	items, err := h.svc.Presence.PresentItemsAt(r.Context(), at)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, PresenceResponse{At: models.ToMillis(at), Items: toItemResponses(items)})
}
