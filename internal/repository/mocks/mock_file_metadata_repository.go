package mocks

import (
	"context"

	"filemeta/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockFileMetadataRepository struct {
	mock.Mock
}

func (m *MockFileMetadataRepository) Insert(ctx context.Context, rec model.FileMetadata) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}
