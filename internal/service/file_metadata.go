package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"filemeta/internal/model"
	"filemeta/internal/repository"
	"filemeta/internal/upload"
)

// ErrMissingFile is returned when the request carried no file to analyse.
var ErrMissingFile = errors.New("file is required")

// PersistenceError reports that the record could not be written to the store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persist file metadata: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FileMetadataService defines the use case behind the analyse endpoint.
type FileMetadataService interface {
	// Analyse records the metadata of an uploaded file and returns it.
	// A nil file yields ErrMissingFile; a failed insert yields *PersistenceError.
	Analyse(ctx context.Context, f *upload.File) (*model.FileMetadata, error)
}

type fileMetadataService struct {
	repo repository.FileMetadataRepository
}

// NewFileMetadataService constructs a new FileMetadataService.
func NewFileMetadataService(repo repository.FileMetadataRepository) FileMetadataService {
	return &fileMetadataService{repo: repo}
}

func (s *fileMetadataService) Analyse(ctx context.Context, f *upload.File) (*model.FileMetadata, error) {
	if f == nil {
		return nil, ErrMissingFile
	}

	rec := model.FileMetadata{
		Name: f.OriginalName,
		Type: f.MimeType,
		Size: f.Size,
	}

	// Single attempt; the caller decides what a failure means for the request.
	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	zerolog.Ctx(ctx).Info().
		Str("record_id", id).
		Str("name", rec.Name).
		Int64("size", rec.Size).
		Msg("file metadata stored")

	return &rec, nil
}
