package repository

import (
	"context"

	"filemeta/internal/model"
)

// Package repository contains data access abstractions for file metadata.
// Implementations live in subpackages (mongo, postgres) inside this directory.

// FileMetadataRepository persists file metadata records.
// Records are write-once: there is no read, update or delete path.
type FileMetadataRepository interface {
	// Insert stores a new record and returns the identifier assigned by the store.
	// Identical records are stored as distinct documents.
	Insert(ctx context.Context, rec model.FileMetadata) (string, error)
}
