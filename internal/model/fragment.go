package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YoonkyungKim/fragments/internal/mediatype"
)

// ErrValidation marks construction or mutation input the caller can fix.
// All validation failures wrap it.
var ErrValidation = errors.New("validation error")

// Fragment is an owner-scoped piece of content: a metadata record paired with
// a binary payload stored separately. This is a pure domain model with no
// persistence dependencies; the service layer keeps Size consistent with the
// stored payload.
type Fragment struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"ownerId"`
	Type    string    `json:"type"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// NewParams holds construction input for a Fragment. ID, Created, and Updated
// are optional so records loaded from the backend keep their original values;
// Now supplies the timestamp used when they are absent.
type NewParams struct {
	ID      string
	OwnerID string
	Type    string
	Size    int64
	Created time.Time
	Updated time.Time
	Now     time.Time
}

// New validates params and constructs a Fragment. It never returns a
// partially built entity: any invalid field fails with ErrValidation.
func New(p NewParams) (*Fragment, error) {
	if p.OwnerID == "" {
		return nil, fmt.Errorf("%w: ownerId is required", ErrValidation)
	}
	if p.Type == "" {
		return nil, fmt.Errorf("%w: type is required", ErrValidation)
	}
	if p.Size < 0 {
		return nil, fmt.Errorf("%w: size cannot be negative", ErrValidation)
	}
	if !mediatype.IsSupported(p.Type) {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrValidation, p.Type)
	}

	f := &Fragment{
		ID:      p.ID,
		OwnerID: p.OwnerID,
		Type:    p.Type,
		Size:    p.Size,
		Created: p.Created,
		Updated: p.Updated,
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Created.IsZero() {
		f.Created = p.Now
	}
	if f.Updated.IsZero() {
		f.Updated = p.Now
	}
	return f, nil
}

// MediaType returns the fragment's type with any parameters stripped:
// "text/html; charset=utf-8" -> "text/html".
func (f *Fragment) MediaType() string {
	return mediatype.Parse(f.Type)
}

// IsText reports whether the fragment holds a text/* media type.
func (f *Fragment) IsText() bool {
	return strings.HasPrefix(f.MediaType(), "text/")
}

// Formats returns the media types this fragment can be served as.
func (f *Fragment) Formats() []string {
	return mediatype.Formats(f.MediaType())
}

// ReplaceData records a payload replacement: Size tracks the new byte length
// and Updated is refreshed. The caller persists metadata and payload as one
// logical operation.
func (f *Fragment) ReplaceData(data []byte, now time.Time) error {
	if data == nil {
		return fmt.Errorf("%w: data is required", ErrValidation)
	}
	f.Size = int64(len(data))
	f.Updated = now
	return nil
}
