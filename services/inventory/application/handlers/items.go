package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/shelfaware/pkg/errhttp"
	"github.com/ghuser/shelfaware/pkg/httpx"
	pkgvalidator "github.com/ghuser/shelfaware/pkg/validator"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	"github.com/ghuser/shelfaware/services/inventory/domain/repositories"
)

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	Name           string   `json:"name"            validate:"required,min=1,max=255" example:"Whole milk"`
	TypeID         *int64   `json:"type_id"         validate:"omitempty,gt=0"`
	Description    string   `json:"description"     validate:"max=2000"`
	ExpiresAt      *int64   `json:"expires_at"      example:"1735689600000"`
	OriginalWeight *float64 `json:"original_weight" example:"1030"`
	CurrentWeight  *float64 `json:"current_weight"`
	ImageID        *int64   `json:"image_id"        validate:"omitempty,gt=0"`
} // @name CreateItemRequest

// UpdateItemRequest is the request body for PATCH /items/{id}. Absent
// fields are left unchanged.
type UpdateItemRequest struct {
	Name           *string  `json:"name"            validate:"omitempty,min=1,max=255"`
	TypeID         *int64   `json:"type_id"         validate:"omitempty,gt=0"`
	ClearType      bool     `json:"clear_type"`
	Description    *string  `json:"description"     validate:"omitempty,max=2000"`
	ExpiresAt      *int64   `json:"expires_at"`
	ClearExpiry    bool     `json:"clear_expiry"`
	OriginalWeight *float64 `json:"original_weight"`
	ImageID        *int64   `json:"image_id"        validate:"omitempty,gt=0"`
	ClearImage     bool     `json:"clear_image"`
} // @name UpdateItemRequest

// ItemHandler serves /items.
type ItemHandler struct {
	svc  *appsvcs.Services
	prod bool
}

// NewItemHandler returns an ItemHandler backed by the given services.
func NewItemHandler(svc *appsvcs.Services, prod bool) *ItemHandler {
	return &ItemHandler{svc: svc, prod: prod}
}

// Create creates an item. New items start absent.
//
//	@Summary		Create item
//	@Tags			items
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Router			/items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Items.Create(r.Context(), nil, appsvcs.CreateItemInput{
		Name:           req.Name,
		TypeID:         req.TypeID,
		Description:    req.Description,
		ExpiresAt:      models.TimePtr(req.ExpiresAt),
		OriginalWeight: req.OriginalWeight,
		CurrentWeight:  req.CurrentWeight,
		ImageID:        req.ImageID,
	})
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.Created(w, "/api/items/"+strconv.FormatInt(item.ID, 10), toItemResponse(item))
}

// List returns live items ordered by last update.
//
//	@Summary	List items
//	@Tags		items
//	@Produce	json
//	@Param		present_only	query		bool	false	"Only items currently in storage"
//	@Param		type_id			query		int		false	"Filter by item type"
//	@Param		limit			query		int		false	"Page size"
//	@Param		offset			query		int		false	"Page offset"
//	@Success	200				{array}		ItemResponse
//	@Failure	422				{object}	ValidationErrorResponse
//	@Router		/items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var f repositories.ItemFilter
	var err error
	if f.PresentOnly, err = queryBool(r, "present_only"); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if f.TypeID, err = queryInt64(r, "type_id"); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		v, err := queryInt64(r, name)
		if err != nil {
			errhttp.WriteError(w, err)
			return
		}
		if v != nil && *v > 0 {
			*dst = int(*v)
		}
	}

	items, err := h.svc.Items.List(r.Context(), f)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponses(items))
}

// Get returns one item.
//
//	@Summary	Get item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	ItemResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id} [get]
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	item, err := h.svc.Items.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// Update edits user-facing fields. Presence, weight and position follow
// events and cannot be set here.
//
//	@Summary	Update item
//	@Tags		items
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		id		path		int					true	"Item ID"
//	@Param		request	body		UpdateItemRequest	true	"Changes"
//	@Success	200		{object}	ItemResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/items/{id} [patch]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Items.Update(r.Context(), nil, id, appsvcs.UpdateItemInput{
		Name:           req.Name,
		TypeID:         req.TypeID,
		ClearType:      req.ClearType,
		Description:    req.Description,
		ExpiresAt:      models.TimePtr(req.ExpiresAt),
		ClearExpiry:    req.ClearExpiry,
		OriginalWeight: req.OriginalWeight,
		ImageID:        req.ImageID,
		ClearImage:     req.ClearImage,
	})
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

// Delete soft-deletes an item.
//
//	@Summary	Delete item
//	@Tags		items
//	@Param		id	path	int	true	"Item ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.svc.Items.Delete(r.Context(), nil, id); err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.NoContent(w)
}

// Events returns the item's events ordered by timestamp.
//
//	@Summary	Item history
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{array}		EventResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id}/events [get]
func (h *ItemHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	evts, err := h.svc.Items.History(r.Context(), id)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toEventResponses(evts))
}

// State returns the cached presence state of an item.
//
//	@Summary	Item state
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	ItemStateResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/items/{id}/state [get]
func (h *ItemHandler) State(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	st, err := h.svc.Items.State(r.Context(), id)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemStateResponse(st))
}
