package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/YoonkyungKim/fragments/internal/model"
	"github.com/YoonkyungKim/fragments/internal/service"
)

type MockFragmentService struct {
	mock.Mock
}

func (m *MockFragmentService) Create(ctx context.Context, ownerID, contentType string, data []byte) (*model.Fragment, error) {
	args := m.Called(ctx, ownerID, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Fragment), args.Error(1)
}

func (m *MockFragmentService) Get(ctx context.Context, ownerID, id string) (*model.Fragment, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Fragment), args.Error(1)
}

func (m *MockFragmentService) GetData(ctx context.Context, ownerID, id, ext string) ([]byte, string, error) {
	args := m.Called(ctx, ownerID, id, ext)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockFragmentService) List(ctx context.Context, ownerID string, expand bool) (*service.FragmentListResult, error) {
	args := m.Called(ctx, ownerID, expand)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FragmentListResult), args.Error(1)
}

func (m *MockFragmentService) Update(ctx context.Context, ownerID, id, contentType string, data []byte) (*model.Fragment, error) {
	args := m.Called(ctx, ownerID, id, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Fragment), args.Error(1)
}

func (m *MockFragmentService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
