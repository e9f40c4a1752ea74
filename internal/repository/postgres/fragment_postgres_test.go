package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/YoonkyungKim/fragments/internal/model"
)

var fragmentCols = []string{"id", "owner_id", "type", "size", "created", "updated"}

func TestFragmentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFragmentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	frag := &model.Fragment{
		ID:      "frag-1",
		OwnerID: "owner-a",
		Type:    "text/plain",
		Size:    11,
		Created: now,
		Updated: now,
	}

	rows := sqlmock.NewRows(fragmentCols).
		AddRow(frag.ID, frag.OwnerID, frag.Type, frag.Size, frag.Created, frag.Updated)

	mock.ExpectQuery("INSERT INTO fragments").
		WithArgs(frag.ID, frag.OwnerID, frag.Type, frag.Size, frag.Created, frag.Updated).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, frag)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, frag.ID, result.ID)
	assert.Equal(t, frag.OwnerID, result.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFragmentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFragmentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(fragmentCols).
			AddRow("frag-1", "owner-a", "text/markdown", 100, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM fragments WHERE owner_id = (.+) AND id = ?").
			WithArgs("owner-a", "frag-1").
			WillReturnRows(rows)

		frag, err := repo.FindByID(ctx, "owner-a", "frag-1")

		assert.NoError(t, err)
		assert.NotNil(t, frag)
		assert.Equal(t, "frag-1", frag.ID)
		assert.Equal(t, "text/markdown", frag.Type)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM fragments WHERE owner_id = (.+) AND id = ?").
			WithArgs("owner-a", "missing").
			WillReturnError(sql.ErrNoRows)

		frag, err := repo.FindByID(ctx, "owner-a", "missing")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, frag)
	})
}

func TestFragmentPostgres_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFragmentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(fragmentCols).
			AddRow("frag-1", "owner-a", "text/plain", 5, time.Now(), time.Now()).
			AddRow("frag-2", "owner-a", "image/png", 2048, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM fragments WHERE owner_id = (.+) ORDER BY created ASC").
			WithArgs("owner-a").
			WillReturnRows(rows)

		items, err := repo.ListByOwner(ctx, "owner-a")

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "frag-1", items[0].ID)
		assert.Equal(t, "frag-2", items[1].ID)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM fragments WHERE owner_id = (.+) ORDER BY created ASC").
			WithArgs("owner-b").
			WillReturnRows(sqlmock.NewRows(fragmentCols))

		items, err := repo.ListByOwner(ctx, "owner-b")

		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Len(t, items, 0)
	})
}

func TestFragmentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFragmentPostgres(db)
	ctx := context.Background()

	created := time.Now().Add(-time.Hour).UTC()
	updated := time.Now().UTC()
	frag := &model.Fragment{
		ID:      "frag-1",
		OwnerID: "owner-a",
		Type:    "text/plain",
		Size:    20,
		Created: created,
		Updated: updated,
	}

	rows := sqlmock.NewRows(fragmentCols).
		AddRow(frag.ID, frag.OwnerID, frag.Type, frag.Size, created, updated)

	mock.ExpectQuery("UPDATE fragments SET size = (.+) WHERE owner_id = (.+) AND id = ?").
		WithArgs(frag.OwnerID, frag.ID, frag.Size, frag.Updated).
		WillReturnRows(rows)

	result, err := repo.Update(ctx, frag)

	assert.NoError(t, err)
	assert.Equal(t, int64(20), result.Size)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFragmentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFragmentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM fragments WHERE owner_id = (.+) AND id = ?").
		WithArgs("owner-a", "frag-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "owner-a", "frag-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
