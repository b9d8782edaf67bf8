package handlers

import (
	"github.com/ghuser/shelfaware/pkg/cache"
	"github.com/ghuser/shelfaware/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/shelfaware/services/inventory/domain/services"
)

// Timestamps cross the API as milliseconds since the Unix epoch.

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// ValidationErrorResponse is returned with 422.
type ValidationErrorResponse struct {
	Error  string            `json:"error" example:"Validation failed"`
	Fields map[string]string `json:"fields"`
} // @name ValidationErrorResponse

// PositionDTO is an optional grid slot.
type PositionDTO struct {
	Plate *int32 `json:"plate,omitempty" example:"1"`
	Row   *int32 `json:"row,omitempty"   example:"2"`
	Col   *int32 `json:"col,omitempty"   example:"3"`
} // @name Position

type ItemResponse struct {
	ID             int64       `json:"id"              example:"5"`
	Name           string      `json:"name"            example:"Whole milk"`
	TypeID         *int64      `json:"type_id"`
	Description    string      `json:"description"`
	ExpiresAt      *int64      `json:"expires_at"      example:"1735689600000"`
	OriginalWeight *float64    `json:"original_weight" example:"1030"`
	CurrentWeight  *float64    `json:"current_weight"  example:"512.5"`
	ImageID        *int64      `json:"image_id"`
	IsPresent      bool        `json:"is_present"`
	Position       PositionDTO `json:"position"`
	CreatedAt      int64       `json:"created_at"      example:"1735600000000"`
	UpdatedAt      int64       `json:"updated_at"      example:"1735600000000"`
} // @name Item

type EventResponse struct {
	ID        int64       `json:"id"        example:"42"`
	ItemID    int64       `json:"item_id"   example:"5"`
	Type      string      `json:"type"      example:"in"`
	Timestamp int64       `json:"timestamp" example:"1735600000000"`
	Weight    *float64    `json:"weight"    example:"120"`
	Position  PositionDTO `json:"position"`
	ImageID   *int64      `json:"image_id"`
} // @name ItemEvent

type TagResponse struct {
	ID         int64  `json:"id"          example:"3"`
	Name       string `json:"name"        example:"fridge tag 1"`
	UID        string `json:"uid"         example:"04a2b9c1"`
	ItemID     *int64 `json:"item_id"`
	AttachedAt *int64 `json:"attached_at"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
} // @name Tag

type ImageResponse struct {
	ID           int64  `json:"id"             example:"7"`
	StorageKey   string `json:"storage_key"    example:"images/7.jpg"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	MimeType     string `json:"mime_type"      example:"image/jpeg"`
	ReplacedByID *int64 `json:"replaced_by_id"`
	ReplacedAt   *int64 `json:"replaced_at"`
	CreatedAt    int64  `json:"created_at"`
} // @name Image

type ItemTypeResponse struct {
	ID          int64  `json:"id"          example:"2"`
	Name        string `json:"name"        example:"Dairy"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
} // @name ItemType

type ItemTypeNodeResponse struct {
	ItemTypeResponse
	Children []ItemTypeNodeResponse `json:"children"`
} // @name ItemTypeNode

// ItemStateResponse is the cached presence read model of one item.
type ItemStateResponse struct {
	ItemID        int64       `json:"item_id"`
	Name          string      `json:"name"`
	IsPresent     bool        `json:"is_present"`
	CurrentWeight *float64    `json:"current_weight"`
	Position      PositionDTO `json:"position"`
	LastEventID   int64       `json:"last_event_id"`
	UpdatedAt     int64       `json:"updated_at"`
} // @name ItemState

func positionDTO(p models.Position) PositionDTO {
	return PositionDTO{Plate: p.Plate, Row: p.Row, Col: p.Col}
}

func toItemResponse(i *models.Item) ItemResponse {
	return ItemResponse{
		ID:             i.ID,
		Name:           i.Name.String(),
		TypeID:         i.TypeID,
		Description:    i.Description,
		ExpiresAt:      models.MillisPtr(i.ExpiresAt),
		OriginalWeight: i.OriginalWeight,
		CurrentWeight:  i.CurrentWeight,
		ImageID:        i.ImageID,
		IsPresent:      i.IsPresent,
		Position:       positionDTO(i.Position),
		CreatedAt:      models.ToMillis(i.CreatedAt),
		UpdatedAt:      models.ToMillis(i.UpdatedAt),
	}
}

func toItemResponses(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return out
}

func toEventResponse(e *models.ItemEvent) EventResponse {
	return EventResponse{
		ID:        e.ID,
		ItemID:    e.ItemID,
		Type:      e.Type.String(),
		Timestamp: models.ToMillis(e.Timestamp),
		Weight:    e.Weight,
		Position:  positionDTO(e.Position),
		ImageID:   e.ImageID,
	}
}

func toEventResponses(evts []*models.ItemEvent) []EventResponse {
	out := make([]EventResponse, 0, len(evts))
	for _, e := range evts {
		out = append(out, toEventResponse(e))
	}
	return out
}

func toTagResponse(t *models.Tag) TagResponse {
	return TagResponse{
		ID:         t.ID,
		Name:       t.Name,
		UID:        t.UID.String(),
		ItemID:     t.ItemID,
		AttachedAt: models.MillisPtr(t.AttachedAt),
		CreatedAt:  models.ToMillis(t.CreatedAt),
		UpdatedAt:  models.ToMillis(t.UpdatedAt),
	}
}

func toImageResponse(i *models.Image) ImageResponse {
	return ImageResponse{
		ID:           i.ID,
		StorageKey:   i.StorageKey,
		Title:        i.Title,
		Description:  i.Description,
		MimeType:     i.MimeType,
		ReplacedByID: i.ReplacedByID,
		ReplacedAt:   models.MillisPtr(i.ReplacedAt),
		CreatedAt:    models.ToMillis(i.CreatedAt),
	}
}

func toItemTypeResponse(t *models.ItemType) ItemTypeResponse {
	return ItemTypeResponse{
		ID:          t.ID,
		Name:        t.Name.String(),
		Description: t.Description,
		ParentID:    t.ParentID,
		CreatedAt:   models.ToMillis(t.CreatedAt),
		UpdatedAt:   models.ToMillis(t.UpdatedAt),
	}
}

func toItemTypeTree(nodes []*domainsvcs.ItemTypeNode) []ItemTypeNodeResponse {
	out := make([]ItemTypeNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ItemTypeNodeResponse{
			ItemTypeResponse: toItemTypeResponse(n.Type),
			Children:         toItemTypeTree(n.Children),
		})
	}
	return out
}

func toItemStateResponse(st *cache.ItemState) ItemStateResponse {
	return ItemStateResponse{
		ItemID:        st.ItemID,
		Name:          st.Name,
		IsPresent:     st.IsPresent,
		CurrentWeight: st.CurrentWeight,
		Position:      PositionDTO{Plate: st.Plate, Row: st.Row, Col: st.Col},
		LastEventID:   st.LastEventID,
		UpdatedAt:     st.UpdatedAtMs,
	}
}
