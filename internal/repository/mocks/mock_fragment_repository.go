package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/YoonkyungKim/fragments/internal/model"
)

type MockFragmentRepository struct {
	mock.Mock
}

func (m *MockFragmentRepository) Create(ctx context.Context, f *model.Fragment) (*model.Fragment, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Fragment), args.Error(1)
}

func (m *MockFragmentRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Fragment, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Fragment), args.Error(1)
}

func (m *MockFragmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Fragment, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Fragment), args.Error(1)
}

func (m *MockFragmentRepository) Update(ctx context.Context, f *model.Fragment) (*model.Fragment, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Fragment), args.Error(1)
}

func (m *MockFragmentRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
