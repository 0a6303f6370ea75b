package catalog

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Entity is one catalog record. Both subsystems (artists, actors) share
// this shape; per-subsystem differences live in Config, not the type.
type Entity struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Bio            string             `json:"bio,omitempty"`
	Caption        string             `json:"caption,omitempty"`
	Website        string             `json:"website,omitempty"`
	Images         []string           `json:"images"`
	MainPhoto      string             `json:"main_photo,omitempty"`
	Representative map[string]*string `json:"representativeImages,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// PublicEntity is the public list projection: the record without the
// bookkeeping timestamps.
type PublicEntity struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Bio            string             `json:"bio,omitempty"`
	Caption        string             `json:"caption,omitempty"`
	Website        string             `json:"website,omitempty"`
	Images         []string           `json:"images"`
	MainPhoto      string             `json:"main_photo,omitempty"`
	Representative map[string]*string `json:"representativeImages,omitempty"`
}

func (e Entity) public() PublicEntity {
	return PublicEntity{
		ID:             e.ID,
		Name:           e.Name,
		Bio:            e.Bio,
		Caption:        e.Caption,
		Website:        e.Website,
		Images:         e.Images,
		MainPhoto:      e.MainPhoto,
		Representative: e.Representative,
	}
}

// EntityInput carries the fields of a create/update submission.
// Pointer fields distinguish "not supplied" from "set to empty":
// update merges supplied fields over the existing record.
type EntityInput struct {
	ID             *string            `json:"id"`
	Name           *string            `json:"name"`
	Bio            *string            `json:"bio"`
	Caption        *string            `json:"caption"`
	Website        *string            `json:"website"`
	Representative map[string]*string `json:"representativeImages"`
}

func (in EntityInput) validateCreate(generateID bool) error {
	fields := []*validation.FieldRules{
		validation.Field(&in.Name, validation.Required),
	}
	if !generateID {
		fields = append(fields, validation.Field(&in.ID, validation.Required))
	}
	return validation.ValidateStruct(&in, fields...)
}

// applyTo merges the supplied fields over e. The id is handled separately
// by the service (it drives blob relocation).
func (in EntityInput) applyTo(e *Entity, allowedRoles []string) {
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Bio != nil {
		e.Bio = *in.Bio
	}
	if in.Caption != nil {
		e.Caption = *in.Caption
	}
	if in.Website != nil {
		e.Website = *in.Website
	}
	if len(allowedRoles) == 0 || in.Representative == nil {
		return
	}
	if e.Representative == nil {
		e.Representative = emptyRoles(allowedRoles)
	}
	for _, role := range allowedRoles {
		if ref, ok := in.Representative[role]; ok {
			e.Representative[role] = ref
		}
	}
}

func emptyRoles(roles []string) map[string]*string {
	m := make(map[string]*string, len(roles))
	for _, role := range roles {
		m[role] = nil
	}
	return m
}

// Upload is one image file received in a multipart submission.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
