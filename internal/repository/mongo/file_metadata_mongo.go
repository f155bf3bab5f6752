package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"filemeta/internal/model"
	"filemeta/internal/repository"
)

// fileMetadataDocument is the stored shape of a record.
type fileMetadataDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Type string             `bson:"type"`
	Size int64              `bson:"size"`
}

// FileMetadataMongo is a MongoDB implementation of repository.FileMetadataRepository.
// It performs single-document inserts and contains no business logic.
type FileMetadataMongo struct {
	coll *mongo.Collection
}

// NewFileMetadataMongo creates a repository writing into coll.
func NewFileMetadataMongo(coll *mongo.Collection) *FileMetadataMongo {
	return &FileMetadataMongo{coll: coll}
}

var _ repository.FileMetadataRepository = (*FileMetadataMongo)(nil)

// Insert writes one document and returns its hex ObjectID.
func (r *FileMetadataMongo) Insert(ctx context.Context, rec model.FileMetadata) (string, error) {
	doc := fileMetadataDocument{
		ID:   primitive.NewObjectID(),
		Name: rec.Name,
		Type: rec.Type,
		Size: rec.Size,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert file metadata: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}
