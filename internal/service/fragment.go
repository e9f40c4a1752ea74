package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/YoonkyungKim/fragments/internal/convert"
	"github.com/YoonkyungKim/fragments/internal/mediatype"
	"github.com/YoonkyungKim/fragments/internal/model"
	"github.com/YoonkyungKim/fragments/internal/repository"
	"github.com/YoonkyungKim/fragments/internal/storage"
)

var (
	// ErrNotFound reports that no fragment with the given id exists for this
	// owner.
	ErrNotFound = errors.New("fragment not found")

	// ErrTypeMismatch reports an update whose content type differs from the
	// fragment's immutable type.
	ErrTypeMismatch = errors.New("content type does not match the existing fragment's type")

	// ErrStorage reports a backend I/O failure, including a failed rollback
	// of a partial create.
	ErrStorage = errors.New("storage error")
)

// FragmentListResult holds an owner's fragment listing: ids only, or full
// records when expanded.
type FragmentListResult struct {
	IDs       []string
	Fragments []model.Fragment
}

// FragmentService is the only component that talks to the metadata and
// payload backends. It enforces the fragment entity's invariants around every
// persistence boundary.
type FragmentService interface {
	// Create validates and persists a new fragment: metadata first, payload
	// second. If the payload write fails the metadata record is rolled back.
	Create(ctx context.Context, ownerID, contentType string, data []byte) (*model.Fragment, error)

	// Get returns a fragment's metadata.
	Get(ctx context.Context, ownerID, id string) (*model.Fragment, error)

	// GetData returns a fragment's payload, converted to the representation
	// named by the extension when one is given. The returned string is the
	// content type actually served.
	GetData(ctx context.Context, ownerID, id, ext string) ([]byte, string, error)

	// List returns the owner's fragments in insertion order: ids only, or
	// full records when expand is set.
	List(ctx context.Context, ownerID string, expand bool) (*FragmentListResult, error)

	// Update replaces a fragment's payload. The fragment's type is immutable;
	// a request with a different media type fails with ErrTypeMismatch.
	Update(ctx context.Context, ownerID, id, contentType string, data []byte) (*model.Fragment, error)

	// Delete removes metadata and payload together.
	Delete(ctx context.Context, ownerID, id string) error
}

// fragmentService is a concrete implementation of FragmentService.
type fragmentService struct {
	store storage.Storage
	repo  repository.FragmentRepository
	locks *keyedMutex
	now   func() time.Time
}

// Option configures a fragmentService.
type Option func(*fragmentService)

// WithClock overrides the timestamp source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *fragmentService) { s.now = now }
}

// NewFragmentService constructs a new FragmentService.
func NewFragmentService(store storage.Storage, repo repository.FragmentRepository, opts ...Option) FragmentService {
	s := &fragmentService{
		store: store,
		repo:  repo,
		locks: newKeyedMutex(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// objectKey is the payload backend key for a fragment. The owner prefix keeps
// payloads partitioned per owner.
func objectKey(ownerID, id string) string {
	return ownerID + "/" + id
}

func (s *fragmentService) Create(ctx context.Context, ownerID, contentType string, data []byte) (*model.Fragment, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: data is required", model.ErrValidation)
	}

	frag, err := model.New(model.NewParams{
		OwnerID: ownerID,
		Type:    contentType,
		Size:    int64(len(data)),
		Now:     s.now(),
	})
	if err != nil {
		return nil, err
	}

	key := objectKey(frag.OwnerID, frag.ID)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	stored, err := s.repo.Create(ctx, frag)
	if err != nil {
		return nil, fmt.Errorf("%w: save metadata: %v", ErrStorage, err)
	}

	_, err = s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        frag.Size,
		ContentType: frag.MediaType(),
	})
	if err != nil {
		// Roll back the metadata row so no zero-byte orphan record survives.
		if delErr := s.repo.Delete(ctx, frag.OwnerID, frag.ID); delErr != nil {
			return nil, fmt.Errorf("%w: write payload: %v; metadata rollback failed: %v", ErrStorage, err, delErr)
		}
		return nil, fmt.Errorf("%w: write payload: %v", ErrStorage, err)
	}

	return stored, nil
}

func (s *fragmentService) Get(ctx context.Context, ownerID, id string) (*model.Fragment, error) {
	frag, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read metadata: %v", ErrStorage, err)
	}
	return frag, nil
}

func (s *fragmentService) GetData(ctx context.Context, ownerID, id, ext string) ([]byte, string, error) {
	frag, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, "", err
	}

	// Resolve and admit the target type before touching the payload backend,
	// so rejected requests never cost a round-trip.
	var target string
	if ext != "" {
		t, ok := mediatype.FromExtension(ext)
		if !ok {
			return nil, "", fmt.Errorf("%w: unknown extension %q", convert.ErrUnsupportedConversion, ext)
		}
		if !slices.Contains(frag.Formats(), t) {
			return nil, "", fmt.Errorf("%w: %s to %s", convert.ErrUnsupportedConversion, frag.MediaType(), t)
		}
		target = t
	}

	rc, _, err := s.store.Get(ctx, objectKey(ownerID, id))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read payload: %v", ErrStorage, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read payload: %v", ErrStorage, err)
	}

	if ext == "" {
		return data, frag.Type, nil
	}

	out, err := convert.Convert(frag.MediaType(), target, data)
	if err != nil {
		return nil, "", err
	}
	return out, target, nil
}

func (s *fragmentService) List(ctx context.Context, ownerID string, expand bool) (*FragmentListResult, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list metadata: %v", ErrStorage, err)
	}
	if expand {
		return &FragmentListResult{Fragments: items}, nil
	}
	ids := make([]string, len(items))
	for i, f := range items {
		ids[i] = f.ID
	}
	return &FragmentListResult{IDs: ids}, nil
}

func (s *fragmentService) Update(ctx context.Context, ownerID, id, contentType string, data []byte) (*model.Fragment, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: data is required", model.ErrValidation)
	}

	key := objectKey(ownerID, id)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	frag, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if mediatype.Parse(contentType) != frag.MediaType() {
		return nil, ErrTypeMismatch
	}

	if err := frag.ReplaceData(data, s.now()); err != nil {
		return nil, err
	}

	stored, err := s.repo.Update(ctx, frag)
	if err != nil {
		return nil, fmt.Errorf("%w: save metadata: %v", ErrStorage, err)
	}

	_, err = s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        frag.Size,
		ContentType: frag.MediaType(),
	})
	if err != nil {
		// The metadata row now describes a payload that was never written.
		// This is fatal and surfaced; the caller must not treat the fragment
		// as updated.
		return nil, fmt.Errorf("%w: write payload: %v", ErrStorage, err)
	}

	return stored, nil
}

func (s *fragmentService) Delete(ctx context.Context, ownerID, id string) error {
	key := objectKey(ownerID, id)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete payload: %v", ErrStorage, err)
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("%w: payload removed but metadata delete failed: %v", ErrStorage, err)
	}
	return nil
}
