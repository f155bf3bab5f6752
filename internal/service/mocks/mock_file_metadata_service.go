package mocks

import (
	"context"

	"filemeta/internal/model"
	"filemeta/internal/upload"
	"github.com/stretchr/testify/mock"
)

type MockFileMetadataService struct {
	mock.Mock
}

func (m *MockFileMetadataService) Analyse(ctx context.Context, f *upload.File) (*model.FileMetadata, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileMetadata), args.Error(1)
}
