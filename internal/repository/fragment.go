package repository

import (
	"context"

	"github.com/YoonkyungKim/fragments/internal/model"
)

// FragmentRepository defines metadata persistence for fragments, keyed by
// (ownerID, id). No business logic here, strictly persistence operations.
// Implementations live in subpackages (e.g., postgres).
type FragmentRepository interface {
	// Create inserts a new fragment record and returns the stored record.
	Create(ctx context.Context, f *model.Fragment) (*model.Fragment, error)

	// FindByID returns the fragment with the given id belonging to ownerID.
	// A missing row surfaces as sql.ErrNoRows.
	FindByID(ctx context.Context, ownerID, id string) (*model.Fragment, error)

	// ListByOwner returns all fragment records for ownerID in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Fragment, error)

	// Update replaces the mutable columns (size, updated) of an existing
	// record and returns the stored record. A missing row surfaces as
	// sql.ErrNoRows.
	Update(ctx context.Context, f *model.Fragment) (*model.Fragment, error)

	// Delete removes the record. It returns nil if the row was deleted or did
	// not exist; existence checks belong to the caller.
	Delete(ctx context.Context, ownerID, id string) error
}
