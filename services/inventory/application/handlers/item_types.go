package handlers

import (
	"net/http"

	"github.com/ghuser/shelfaware/pkg/errhttp"
	"github.com/ghuser/shelfaware/pkg/httpx"
	pkgvalidator "github.com/ghuser/shelfaware/pkg/validator"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
)

// ItemTypeRequest is the body for POST and PATCH /item-types.
type ItemTypeRequest struct {
	Name        *string `json:"name"         validate:"omitempty,min=1,max=255" example:"Dairy"`
	Description *string `json:"description"  validate:"omitempty,max=2000"`
	ParentID    *int64  `json:"parent_id"    validate:"omitempty,gt=0"`
	ClearParent bool    `json:"clear_parent"`
} // @name ItemTypeRequest

func (r *ItemTypeRequest) input() appsvcs.ItemTypeInput {
	return appsvcs.ItemTypeInput{
		Name:        r.Name,
		Description: r.Description,
		ParentID:    r.ParentID,
		ClearParent: r.ClearParent,
	}
}

type ItemTypeHandler struct {
	svc  *appsvcs.Services
	prod bool
}

func NewItemTypeHandler(svc *appsvcs.Services, prod bool) *ItemTypeHandler {
	return &ItemTypeHandler{svc: svc, prod: prod}
}

//	@Summary	Create item type
//	@Tags		item-types
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		request	body		ItemTypeRequest	true	"Item type"
//	@Success	201		{object}	ItemTypeResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/item-types [post]
func (h *ItemTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[ItemTypeRequest](w, r)
	if !ok {
		return
	}
	t, err := h.svc.ItemTypes.Create(r.Context(), nil, req.input())
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemTypeResponse(t))
}

//	@Summary	List item types
//	@Tags		item-types
//	@Produce	json
//	@Success	200	{array}	ItemTypeResponse
//	@Router		/item-types [get]
func (h *ItemTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ItemTypes.List(r.Context())
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	out := make([]ItemTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, toItemTypeResponse(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Tree returns the type hierarchy. A stored parent cycle is reported as 422.
//
//	@Summary	Item type tree
//	@Tags		item-types
//	@Produce	json
//	@Success	200	{array}		ItemTypeNodeResponse
//	@Failure	422	{object}	ErrorResponse
//	@Router		/item-types/tree [get]
func (h *ItemTypeHandler) Tree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.svc.ItemTypes.Tree(r.Context())
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemTypeTree(roots))
}

// Update renames or re-parents a type. Re-parenting under a descendant is
// rejected.
//
//	@Summary	Update item type
//	@Tags		item-types
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		id		path		int				true	"Item type ID"
//	@Param		request	body		ItemTypeRequest	true	"Changes"
//	@Success	200		{object}	ItemTypeResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/item-types/{id} [patch]
func (h *ItemTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ItemTypeRequest](w, r)
	if !ok {
		return
	}
	t, err := h.svc.ItemTypes.Update(r.Context(), nil, id, req.input())
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemTypeResponse(t))
}
