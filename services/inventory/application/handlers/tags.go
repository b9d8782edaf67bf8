package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/shelfaware/pkg/errhttp"
	"github.com/ghuser/shelfaware/pkg/httpx"
	pkgvalidator "github.com/ghuser/shelfaware/pkg/validator"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
)

// CreateTagRequest is the request body for POST /tags.
type CreateTagRequest struct {
	Name   string `json:"name"    validate:"max=255"           example:"fridge tag 1"`
	UID    string `json:"uid"     validate:"required,max=64"   example:"04a2b9c1"`
	ItemID *int64 `json:"item_id" validate:"omitempty,gt=0"`
} // @name CreateTagRequest

// SetTagItemRequest updates a tag named by exactly one of tag_id or uid.
// item_id attaches it and clear_item detaches it; a request carrying only a
// name keeps the current attachment.
type SetTagItemRequest struct {
	TagID     *int64  `json:"tag_id"     validate:"omitempty,gt=0"`
	UID       *string `json:"uid"        validate:"omitempty,max=64"`
	ItemID    *int64  `json:"item_id"    validate:"omitempty,gt=0"`
	ClearItem bool    `json:"clear_item"`
	Name      *string `json:"name"       validate:"omitempty,min=1,max=255"`
} // @name SetTagItemRequest

type TagHandler struct {
	svc  *appsvcs.Services
	prod bool
}

func NewTagHandler(svc *appsvcs.Services, prod bool) *TagHandler {
	return &TagHandler{svc: svc, prod: prod}
}

// Create registers a tag, optionally bound to an item.
//
//	@Summary	Create tag
//	@Tags		tags
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		request	body		CreateTagRequest	true	"Tag"
//	@Success	201		{object}	TagResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/tags [post]
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateTagRequest](w, r)
	if !ok {
		return
	}
	tag, err := h.svc.Tags.Create(r.Context(), nil, appsvcs.CreateTagInput{
		Name:   req.Name,
		UID:    req.UID,
		ItemID: req.ItemID,
	})
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.Created(w, "/api/tags/"+strconv.FormatInt(tag.ID, 10), toTagResponse(tag))
}

//	@Summary	List tags
//	@Tags		tags
//	@Produce	json
//	@Success	200	{array}	TagResponse
//	@Router		/tags [get]
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags.List(r.Context())
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagResponse(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}

//	@Summary	Get tag
//	@Tags		tags
//	@Produce	json
//	@Param		id	path		int	true	"Tag ID"
//	@Success	200	{object}	TagResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/tags/{id} [get]
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	tag, err := h.svc.Tags.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toTagResponse(tag))
}

// SetItem moves a tag to an item, detaches it, or renames it. A tag already
// on the target item is detached.
//
//	@Summary	Attach or detach tag
//	@Tags		tags
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		request	body		SetTagItemRequest	true	"Attachment"
//	@Success	200		{object}	TagResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/tags/attachment [put]
func (h *TagHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SetTagItemRequest](w, r)
	if !ok {
		return
	}
	tag, err := h.svc.Tags.Change(r.Context(), nil,
		appsvcs.TagRef{ID: req.TagID, UID: req.UID},
		appsvcs.TagChangeInput{ItemID: req.ItemID, ClearItem: req.ClearItem, Name: req.Name})
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusOK, toTagResponse(tag))
}
