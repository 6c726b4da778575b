// Package forms serves the registration form spreadsheet teams download
// before entering their athletes.
package forms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/hankerbiao/Registration-System/internal/model"
)

const (
	// FileName is the name the form is offered under
	FileName = "运动员报名表.xlsx"
	// ContentType is the media type of the form
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Form is an open registration form; callers must close Body
type Form struct {
	Body    io.ReadCloser
	Size    int64 // -1 when unknown
	ModTime time.Time
}

// Store locates the current registration form
type Store interface {
	// Open returns model.ErrFormNotFound when no form is published
	Open(ctx context.Context) (*Form, error)
}

// FileStore reads the form from the local filesystem
type FileStore struct {
	Path string
}

// NewFileStore creates a store for the form at path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) Open(ctx context.Context) (*Form, error) {
	if s.Path == "" {
		return nil, model.ErrFormNotFound
	}
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open registration form: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat registration form: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, model.ErrFormNotFound
	}
	return &Form{Body: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}
