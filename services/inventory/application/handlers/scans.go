package handlers

import (
	"net/http"

	"github.com/ghuser/shelfaware/pkg/errhttp"
	"github.com/ghuser/shelfaware/pkg/httpx"
	pkgvalidator "github.com/ghuser/shelfaware/pkg/validator"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// ScanRequest is one reader observation.
type ScanRequest struct {
	UID       string   `json:"uid"       validate:"required,max=64"            example:"04A2B9C1"`
	Type      string   `json:"type"      validate:"required,oneof=in out moved" example:"in"`
	Timestamp *int64   `json:"timestamp"`
	Weight    *float64 `json:"weight"`
	Plate     *int32   `json:"plate"`
	Row       *int32   `json:"row"`
	Col       *int32   `json:"col"`
} // @name ScanRequest

// ScanResponse reports the tag and, when the tag is on an item, the event.
type ScanResponse struct {
	Tag        TagResponse    `json:"tag"`
	Event      *EventResponse `json:"event,omitempty"`
	Registered bool           `json:"registered"`
} // @name ScanResult

type ScanHandler struct {
	svc  *appsvcs.Services
	prod bool
}

func NewScanHandler(svc *appsvcs.Services, prod bool) *ScanHandler {
	return &ScanHandler{svc: svc, prod: prod}
}

// Ingest resolves a scanned uid. Unknown uids register a new unattached tag
// (201); known tags return 200, with an event when the tag is on an item.
//
//	@Summary	Ingest scan
//	@Tags		scans
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		request	body		ScanRequest	true	"Scan"
//	@Success	200		{object}	ScanResponse
//	@Success	201		{object}	ScanResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/scans [post]
func (h *ScanHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[ScanRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Scans.Ingest(r.Context(), appsvcs.ScanInput{
		UID:       req.UID,
		Type:      models.EventType(req.Type),
		Timestamp: models.TimePtr(req.Timestamp),
		Weight:    req.Weight,
		Position:  models.Position{Plate: req.Plate, Row: req.Row, Col: req.Col},
	})
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}

	out := ScanResponse{Tag: toTagResponse(res.Tag), Registered: res.Created}
	if res.Event != nil {
		e := toEventResponse(res.Event)
		out.Event = &e
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, out)
}
