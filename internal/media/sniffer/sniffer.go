// Package sniffer classifies uploaded image bytes and checks them against
// the file extension.
package sniffer

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
)

const headSize = 512

var ErrUnknownType = errors.New("unknown media type")

var supported = map[string]MediaType{
	"image/jpeg": TypeJPEG,
	"image/png":  TypePNG,
	"image/gif":  TypeGIF,
}

var extensions = map[string]MediaType{
	"png":  TypePNG,
	"jpg":  TypeJPEG,
	"jpeg": TypeJPEG,
	"gif":  TypeGIF,
}

type Result struct {
	Type MediaType
	MIME string
}

// Detect reads up to 512 bytes from r and classifies them. The bytes read are
// returned so the caller can replay them.
func Detect(r io.Reader) (Result, []byte, error) {
	head := make([]byte, headSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, nil, err
	}
	head = head[:n]

	result, err := DetectHead(head)
	return result, head, err
}

func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	mime := NormalizeMIME(mimetype.Detect(head).String())
	t, ok := supported[mime]
	if !ok {
		return Result{}, ErrUnknownType
	}
	return Result{Type: t, MIME: mime}, nil
}

// Extension returns the lower-cased extension of name without the dot and
// whether it is one of the accepted image extensions.
func Extension(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	_, ok := extensions[ext]
	return ext, ok
}

// Matches reports whether the sniffed content agrees with the extension.
func Matches(ext string, result Result) bool {
	return extensions[strings.ToLower(ext)] == result.Type
}

func NormalizeMIME(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		return strings.TrimSpace(normalized[:idx])
	}
	return normalized
}
