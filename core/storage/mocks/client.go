package mocks

import (
	"context"

	"catalog-sync/core/storage"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) ListFolder(ctx context.Context, path string, recursive bool) (*storage.ListResult, error) {
	args := m.Called(ctx, path, recursive)
	if res, ok := args.Get(0).(*storage.ListResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListFolderContinue(ctx context.Context, cursor string) (*storage.ListResult, error) {
	args := m.Called(ctx, cursor)
	if res, ok := args.Get(0).(*storage.ListResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateSharedLink(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}
