package handlers

import (
	"net/http"

	"github.com/ghuser/shelfaware/pkg/errhttp"
	"github.com/ghuser/shelfaware/pkg/httpx"
	pkgvalidator "github.com/ghuser/shelfaware/pkg/validator"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// RecordEventRequest is the request body for POST /events.
type RecordEventRequest struct {
	ItemID    int64    `json:"item_id"   validate:"required,gt=0"          example:"5"`
	Type      string   `json:"type"      validate:"required,oneof=in out moved" example:"in"`
	Timestamp *int64   `json:"timestamp" example:"1735600000000"`
	Weight    *float64 `json:"weight"    example:"120"`
	Plate     *int32   `json:"plate"`
	Row       *int32   `json:"row"`
	Col       *int32   `json:"col"`
	ImageID   *int64   `json:"image_id"  validate:"omitempty,gt=0"`
} // @name RecordEventRequest

// EventFeedResponse is one page of the event feed. Pass NextAfter as after
// to get the next page; an empty page means the client is caught up.
type EventFeedResponse struct {
	Events    []EventResponse `json:"events"`
	NextAfter int64           `json:"next_after" example:"42"`
} // @name EventFeed

// EventHandler serves /events.
type EventHandler struct {
	svc  *appsvcs.Services
	prod bool
}

func NewEventHandler(svc *appsvcs.Services, prod bool) *EventHandler {
	return &EventHandler{svc: svc, prod: prod}
}

// Record appends an item event and updates the item's presence, weight and
// position. Negative weights are stored as unknown.
//
//	@Summary	Record event
//	@Tags		events
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		request	body		RecordEventRequest	true	"Event"
//	@Success	201		{object}	EventResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/events [post]
func (h *EventHandler) Record(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[RecordEventRequest](w, r)
	if !ok {
		return
	}

	evt, err := h.svc.Events.Record(r.Context(), nil, appsvcs.RecordEventInput{
		ItemID:    req.ItemID,
		Type:      models.EventType(req.Type),
		Timestamp: models.TimePtr(req.Timestamp),
		Weight:    req.Weight,
		Position:  models.Position{Plate: req.Plate, Row: req.Row, Col: req.Col},
		ImageID:   req.ImageID,
	})
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusCreated, toEventResponse(evt))
}

// Feed replays events after a watermark, in id order.
//
//	@Summary	Event feed
//	@Tags		events
//	@Produce	json
//	@Param		after	query		int	false	"Last event id the client has seen"
//	@Param		limit	query		int	false	"Page size (default 100, max 500)"
//	@Success	200		{object}	EventFeedResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/events [get]
func (h *EventHandler) Feed(w http.ResponseWriter, r *http.Request) {
	after, err := queryInt64(r, "after")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	limit, err := queryInt64(r, "limit")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	var afterID int64
	if after != nil {
		afterID = *after
	}
	var n int
	if limit != nil {
		n = int(*limit)
	}

	evts, err := h.svc.Feed.Since(r.Context(), afterID, n)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	next := afterID
	if len(evts) > 0 {
		next = evts[len(evts)-1].ID
	}
	httpx.JSON(w, http.StatusOK, EventFeedResponse{Events: toEventResponses(evts), NextAfter: next})
}
