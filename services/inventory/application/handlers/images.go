package handlers

import (
	"net/http"

	"github.com/ghuser/shelfaware/pkg/errhttp"
	"github.com/ghuser/shelfaware/pkg/httpx"
	pkgvalidator "github.com/ghuser/shelfaware/pkg/validator"
	appsvcs "github.com/ghuser/shelfaware/services/inventory/application/services"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

// ImageRequest describes an image already uploaded to object storage.
type ImageRequest struct {
	StorageKey  string `json:"storage_key" validate:"required,max=512" example:"images/7.jpg"`
	Title       string `json:"title"       validate:"max=255"`
	Description string `json:"description" validate:"max=2000"`
	MimeType    string `json:"mime_type"   validate:"required,max=127" example:"image/jpeg"`
} // @name ImageRequest

func (r *ImageRequest) params() models.NewImageParams {
	return models.NewImageParams{
		StorageKey:  r.StorageKey,
		Title:       r.Title,
		Description: r.Description,
		MimeType:    r.MimeType,
	}
}

type ImageHandler struct {
	svc  *appsvcs.Services
	prod bool
}

func NewImageHandler(svc *appsvcs.Services, prod bool) *ImageHandler {
	return &ImageHandler{svc: svc, prod: prod}
}

// Create registers the first version of an image.
//
//	@Summary	Create image
//	@Tags		images
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		request	body		ImageRequest	true	"Image metadata"
//	@Success	201		{object}	ImageResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/images [post]
func (h *ImageHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[ImageRequest](w, r)
	if !ok {
		return
	}
	img, err := h.svc.Images.Create(r.Context(), nil, req.params())
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusCreated, toImageResponse(img))
}

// Replace creates a new version and moves every item and event reference to
// it.
//
//	@Summary	Replace image
//	@Tags		images
//	@Accept		json,x-www-form-urlencoded
//	@Produce	json
//	@Param		id		path		int				true	"Image ID being replaced"
//	@Param		request	body		ImageRequest	true	"New version"
//	@Success	201		{object}	ImageResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Failure	422		{object}	ValidationErrorResponse
//	@Router		/images/{id}/replace [post]
func (h *ImageHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ImageRequest](w, r)
	if !ok {
		return
	}
	img, err := h.svc.Images.Replace(r.Context(), nil, id, req.params())
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	httpx.JSON(w, http.StatusCreated, toImageResponse(img))
}

// History returns the version chain ending at id, oldest first.
//
//	@Summary	Image history
//	@Tags		images
//	@Produce	json
//	@Param		id	path	int	true	"Image ID"
//	@Success	200	{array}	ImageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/images/{id}/history [get]
func (h *ImageHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	chain, err := h.svc.Images.History(r.Context(), id)
	if err != nil {
		errhttp.WriteSafeError(w, err, h.prod)
		return
	}
	out := make([]ImageResponse, 0, len(chain))
	for _, img := range chain {
		out = append(out, toImageResponse(img))
	}
	httpx.JSON(w, http.StatusOK, out)
}
