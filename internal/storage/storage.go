package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"
)

// Kind groups stored files by what owns them.
type Kind string

const (
	KindUsers        Kind = "users"
	KindPublications Kind = "publications"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidName    = errors.New("invalid object name")
)

type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// FileStore persists uploaded images. Names are flat file names; the kind
// selects the folder or key prefix.
type FileStore interface {
	Put(ctx context.Context, kind Kind, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, kind Kind, name string) (io.ReadCloser, ObjectInfo, error)
	Remove(ctx context.Context, kind Kind, name string) error
	List(ctx context.Context, kind Kind) ([]ObjectInfo, error)
}

// CheckName rejects names that would escape the kind's folder.
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." || path.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

func objectKey(kind Kind, name string) string {
	return string(kind) + "/" + name
}
