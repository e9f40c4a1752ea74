package postgres

import (
	"context"
	"database/sql"

	"github.com/YoonkyungKim/fragments/internal/model"
	"github.com/YoonkyungKim/fragments/internal/repository"
)

// FragmentPostgres is a PostgreSQL implementation of
// repository.FragmentRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type FragmentPostgres struct {
	db *sql.DB
}

// NewFragmentPostgres creates a new FragmentPostgres repository.
func NewFragmentPostgres(db *sql.DB) *FragmentPostgres {
	return &FragmentPostgres{db: db}
}

var _ repository.FragmentRepository = (*FragmentPostgres)(nil)

// Create inserts a new fragment row and returns the stored record.
func (r *FragmentPostgres) Create(ctx context.Context, f *model.Fragment) (*model.Fragment, error) {
	const q = `
		INSERT INTO fragments (id, owner_id, type, size, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, type, size, created, updated
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.OwnerID,
		f.Type,
		f.Size,
		f.Created,
		f.Updated,
	)
	return scanFragment(row)
}

// FindByID fetches a single fragment scoped to its owner.
func (r *FragmentPostgres) FindByID(ctx context.Context, ownerID, id string) (*model.Fragment, error) {
	const q = `
		SELECT id, owner_id, type, size, created, updated
		FROM fragments
		WHERE owner_id = $1 AND id = $2
	`
	return scanFragment(r.db.QueryRowContext(ctx, q, ownerID, id))
}

// ListByOwner returns all of an owner's fragments ordered by creation, which
// tracks the backend's insertion order.
func (r *FragmentPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.Fragment, error) {
	const q = `
		SELECT id, owner_id, type, size, created, updated
		FROM fragments
		WHERE owner_id = $1
		ORDER BY created ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Fragment, 0)
	for rows.Next() {
		var f model.Fragment
		if err := rows.Scan(
			&f.ID,
			&f.OwnerID,
			&f.Type,
			&f.Size,
			&f.Created,
			&f.Updated,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces the mutable columns of an existing row. Identity columns
// (id, owner_id, type, created) are never touched.
func (r *FragmentPostgres) Update(ctx context.Context, f *model.Fragment) (*model.Fragment, error) {
	const q = `
		UPDATE fragments
		SET size = $3, updated = $4
		WHERE owner_id = $1 AND id = $2
		RETURNING id, owner_id, type, size, created, updated
	`
	row := r.db.QueryRowContext(ctx, q, f.OwnerID, f.ID, f.Size, f.Updated)
	return scanFragment(row)
}

// Delete removes a fragment row. It does not report whether a row existed.
func (r *FragmentPostgres) Delete(ctx context.Context, ownerID, id string) error {
	const q = `DELETE FROM fragments WHERE owner_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, q, ownerID, id)
	return err
}

func scanFragment(row *sql.Row) (*model.Fragment, error) {
	var f model.Fragment
	if err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Type,
		&f.Size,
		&f.Created,
		&f.Updated,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
