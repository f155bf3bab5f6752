package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"filemeta/internal/model"
)

func TestFileMetadataMongo_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := NewFileMetadataMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Insert(context.Background(), model.FileMetadata{Name: "a.txt", Type: "text/plain", Size: 12})

		require.NoError(t, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(t, err)

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "insert", started.CommandName)

		docs, err := started.Command.LookupErr("documents")
		require.NoError(t, err)
		arr, ok := docs.ArrayOK()
		require.True(t, ok)
		values, err := arr.Values()
		require.NoError(t, err)
		require.Len(t, values, 1)

		var stored bson.M
		require.NoError(t, bson.Unmarshal(values[0].Document(), &stored))
		assert.Equal(t, "a.txt", stored["name"])
		assert.Equal(t, "text/plain", stored["type"])
		assert.EqualValues(t, 12, stored["size"])
	})

	mt.Run("distinct ids for identical records", func(mt *mtest.T) {
		repo := NewFileMetadataMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		rec := model.FileMetadata{Name: "a.txt", Type: "text/plain", Size: 12}
		first, err := repo.Insert(context.Background(), rec)
		require.NoError(t, err)
		second, err := repo.Insert(context.Background(), rec)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	mt.Run("write error", func(mt *mtest.T) {
		repo := NewFileMetadataMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "document failed validation",
		}))

		id, err := repo.Insert(context.Background(), model.FileMetadata{Name: "a.txt"})

		assert.Error(t, err)
		assert.Empty(t, id)
		assert.Contains(t, err.Error(), "insert file metadata")
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := NewFileMetadataMongo(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		_, err := repo.Insert(context.Background(), model.FileMetadata{Name: "a.txt"})
		assert.Error(t, err)
	})
}
