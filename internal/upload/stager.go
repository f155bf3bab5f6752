package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"filemeta/internal/storage"
)

// StageOptions carries what is known about a file before its bytes are read.
type StageOptions struct {
	Filename    string
	ContentType string
	// Size is the declared size, -1 if unknown.
	Size int64
}

// Staged is the result of staging: where the bytes went and how many there were.
type Staged struct {
	Location string
	Size     int64
}

// Stager holds upload bytes for the lifetime of one request.
type Stager interface {
	Stage(ctx context.Context, r io.Reader, opt StageOptions) (Staged, error)
	Release(ctx context.Context, location string) error
}

// DiskStager writes uploads to temp files under Dir.
type DiskStager struct {
	Dir string
}

// NewDiskStager returns a DiskStager; an empty dir means os.TempDir().
func NewDiskStager(dir string) *DiskStager {
	return &DiskStager{Dir: dir}
}

// Stage copies r into a fresh temp file. The file is removed if the copy fails.
func (s *DiskStager) Stage(ctx context.Context, r io.Reader, _ StageOptions) (Staged, error) {
	if err := ctx.Err(); err != nil {
		return Staged{}, err
	}
	f, err := os.CreateTemp(s.Dir, "upfile-*")
	if err != nil {
		return Staged{}, fmt.Errorf("create temp file: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(f.Name())
		return Staged{}, fmt.Errorf("write temp file: %w", err)
	}
	return Staged{Location: f.Name(), Size: n}, nil
}

// Release deletes the temp file. A file that is already gone is not an error.
func (s *DiskStager) Release(_ context.Context, location string) error {
	if err := os.Remove(location); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove temp file: %w", err)
	}
	return nil
}

// ObjectStager stages uploads as objects under Prefix in an S3-compatible store.
type ObjectStager struct {
	Store  storage.Storage
	Prefix string
}

// NewObjectStager returns an ObjectStager writing under "staging/".
func NewObjectStager(store storage.Storage) *ObjectStager {
	return &ObjectStager{Store: store, Prefix: "staging"}
}

// Stage uploads r as a uniquely named object keeping the original extension.
func (s *ObjectStager) Stage(ctx context.Context, r io.Reader, opt StageOptions) (Staged, error) {
	key := path.Join(s.Prefix, uuid.NewString()+filepath.Ext(opt.Filename))
	size := opt.Size
	if size <= 0 {
		size = -1
	}
	info, err := s.Store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: opt.ContentType,
		Metadata: map[string]string{
			"original-filename": opt.Filename,
		},
	})
	if err != nil {
		return Staged{}, fmt.Errorf("put staging object: %w", err)
	}
	return Staged{Location: info.Key, Size: info.Size}, nil
}

// Release deletes the staging object.
func (s *ObjectStager) Release(ctx context.Context, location string) error {
	if err := s.Store.Delete(ctx, location); err != nil {
		return fmt.Errorf("delete staging object: %w", err)
	}
	return nil
}
