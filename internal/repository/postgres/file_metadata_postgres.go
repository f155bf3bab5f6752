package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"filemeta/internal/model"
	"filemeta/internal/repository"
)

// FileMetadataPostgres stores file metadata as JSONB documents in PostgreSQL.
// It uses database/sql with parameterized queries and contains no business logic.
type FileMetadataPostgres struct {
	db *sql.DB
}

// NewFileMetadataPostgres creates a new FileMetadataPostgres repository.
func NewFileMetadataPostgres(db *sql.DB) *FileMetadataPostgres {
	return &FileMetadataPostgres{db: db}
}

var _ repository.FileMetadataRepository = (*FileMetadataPostgres)(nil)

// Insert writes one row whose document column holds {name, type, size}.
func (r *FileMetadataPostgres) Insert(ctx context.Context, rec model.FileMetadata) (string, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode file metadata: %w", err)
	}

	const q = `
		INSERT INTO files (id, document)
		VALUES ($1, $2::jsonb)
		RETURNING id
	`
	var id string
	if err := r.db.QueryRowContext(ctx, q, uuid.NewString(), string(doc)).Scan(&id); err != nil {
		return "", fmt.Errorf("insert file metadata: %w", err)
	}
	return id, nil
}
