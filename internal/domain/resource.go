package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResourceType enumerates the kinds of shared resources.
type ResourceType string

const (
	ResourceTypeDocument ResourceType = "document"
	ResourceTypeImage    ResourceType = "image"
	ResourceTypeVideo    ResourceType = "video"
	ResourceTypeLink     ResourceType = "link"
	ResourceTypeOther    ResourceType = "other"
)

func (t *ResourceType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch ResourceType(raw) {
	case ResourceTypeDocument, ResourceTypeImage, ResourceTypeVideo, ResourceTypeLink, ResourceTypeOther:
		*t = ResourceType(raw)
		return nil
	}
	return fmt.Errorf("unknown resource type %q", raw)
}

// Resource is a shared organizational asset. Read-mostly in this layer.
type Resource struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	FileURL     *string      `json:"file_url"`
	Type        ResourceType `json:"type" validate:"required"`
	CreatedByID uuid.UUID    `json:"created_by_id" validate:"required"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at"`
}

func (r Resource) Validate() error {
	if r.ID == uuid.Nil {
		return errors.New("resource: missing id")
	}
	if r.Title == "" {
		return errors.New("resource: missing title")
	}
	if r.Type == "" {
		return errors.New("resource: missing type")
	}
	if r.CreatedByID == uuid.Nil {
		return errors.New("resource: missing created_by_id")
	}
	if r.CreatedAt.IsZero() {
		return errors.New("resource: missing created_at")
	}
	return nil
}
