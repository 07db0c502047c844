package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"socialnet/internal/media/sniffer"
	"socialnet/internal/metrics"
	"socialnet/internal/storage"
)

type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// MediaService validates and stores uploaded images and serves them back.
type MediaService struct {
	store    storage.FileStore
	maxBytes int64
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

func NewMediaService(store storage.FileStore, maxBytes int64, m *metrics.Metrics, log zerolog.Logger) *MediaService {
	return &MediaService{
		store:    store,
		maxBytes: maxBytes,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Store checks the extension, the declared size and the sniffed content, then
// writes the file as <ownerID>-<unix millis>.<ext> and returns that name.
func (s *MediaService) Store(ctx context.Context, kind storage.Kind, ownerID string, upload Upload) (string, error) {
	name, err := s.put(ctx, kind, ownerID, upload)
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrUnsupportedFile):
		result = "unsupported"
	case errors.Is(err, ErrFileTooLarge):
		result = "too_large"
	case errors.Is(err, ErrNoFile):
		result = "missing"
	default:
		result = "error"
	}
	s.metrics.Upload(string(kind), result)
	return name, err
}

func (s *MediaService) put(ctx context.Context, kind storage.Kind, ownerID string, upload Upload) (string, error) {
	if upload.Content == nil || upload.Filename == "" {
		return "", ErrNoFile
	}

	ext, ok := sniffer.Extension(upload.Filename)
	if !ok {
		return "", ErrUnsupportedFile
	}
	if upload.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	detected, head, err := sniffer.Detect(upload.Content)
	if err != nil {
		if errors.Is(err, sniffer.ErrUnknownType) {
			return "", ErrUnsupportedFile
		}
		return "", fmt.Errorf("read upload: %w", err)
	}
	if !sniffer.Matches(ext, detected) {
		return "", ErrUnsupportedFile
	}

	name := fmt.Sprintf("%s-%d.%s", ownerID, s.now().UnixMilli(), ext)
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(head), upload.Content), remaining: s.maxBytes}
	if err := s.store.Put(ctx, kind, name, body, upload.Size, detected.MIME); err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return "", ErrFileTooLarge
		}
		return "", fmt.Errorf("store %s: %w", name, err)
	}

	s.log.Debug().Str("kind", string(kind)).Str("file", name).Msg("upload stored")
	return name, nil
}

// Open streams a stored file. Unknown or invalid names yield ErrFileNotFound.
func (s *MediaService) Open(ctx context.Context, kind storage.Kind, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.Get(ctx, kind, name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return nil, storage.ObjectInfo{}, ErrFileNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("open %s: %w", name, err)
	}
	return rc, info, nil
}

// Discard removes a stored file after a failed follow-up write. Failures are
// logged; the orphan sweep collects whatever is left.
func (s *MediaService) Discard(ctx context.Context, kind storage.Kind, name string) {
	if err := s.store.Remove(context.WithoutCancel(ctx), kind, name); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn().Err(err).Str("kind", string(kind)).Str("file", name).Msg("discard upload failed")
	}
}

// limitedReader fails with ErrFileTooLarge once more than remaining bytes
// have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
