package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// DefaultContentType is reported when a file part carries no Content-Type.
const DefaultContentType = "application/octet-stream"

var (
	// ErrTooManyFiles is returned when the field holds more than one file.
	ErrTooManyFiles = errors.New("only one file may be uploaded")
	// ErrFileTooLarge is returned when the file exceeds the configured limit.
	ErrFileTooLarge = errors.New("uploaded file is too large")
)

// File describes one received upload whose bytes are currently staged.
// Release must be called once the request is done with it.
type File struct {
	OriginalName string
	MimeType     string
	// Size is the number of bytes actually staged, not the declared size.
	Size int64
	// Location is where the stager put the bytes (temp path or object key).
	Location string

	once    sync.Once
	release func(ctx context.Context) error
	err     error
}

// Release discards the staged bytes. Only the first call does any work.
func (f *File) Release(ctx context.Context) error {
	if f == nil || f.release == nil {
		return nil
	}
	f.once.Do(func() {
		f.err = f.release(ctx)
	})
	return f.err
}

// Receiver pulls a single file out of a parsed multipart form and stages it.
type Receiver struct {
	field    string
	maxBytes int64
	stager   Stager
}

// NewReceiver returns a Receiver reading the given form field.
func NewReceiver(field string, maxBytes int64, stager Stager) *Receiver {
	return &Receiver{field: field, maxBytes: maxBytes, stager: stager}
}

// Field is the form field name files are read from.
func (r *Receiver) Field() string { return r.field }

// Receive stages the file sent under the receiver's field.
// It returns (nil, nil) when the field holds no file.
func (r *Receiver) Receive(ctx context.Context, form *multipart.Form) (*File, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[r.field]
	switch {
	case len(headers) == 0:
		return nil, nil
	case len(headers) > 1:
		return nil, ErrTooManyFiles
	}

	fh := headers[0]
	if fh.Size > r.maxBytes {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = DefaultContentType
	}

	staged, err := r.stager.Stage(ctx, io.LimitReader(src, r.maxBytes+1), StageOptions{
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	f := &File{
		OriginalName: fh.Filename,
		MimeType:     ct,
		Size:         staged.Size,
		Location:     staged.Location,
		release: func(ctx context.Context) error {
			return r.stager.Release(ctx, staged.Location)
		},
	}

	if f.Size > r.maxBytes {
		if err := f.Release(ctx); err != nil {
			return nil, errors.Join(ErrFileTooLarge, err)
		}
		return nil, ErrFileTooLarge
	}
	return f, nil
}
