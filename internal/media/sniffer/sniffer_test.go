package sniffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pngHead = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	gifHead = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	jpgHead = []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0}
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want MediaType
	}{
		{"png", pngHead, TypePNG},
		{"gif", gifHead, TypeGIF},
		{"jpeg", jpgHead, TypeJPEG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DetectHead(tt.head)
			require.NoError(t, err)
			require.Equal(t, tt.want, result.Type)
		})
	}

	_, err := DetectHead([]byte("just some text"))
	require.ErrorIs(t, err, ErrUnknownType)
	_, err = DetectHead(nil)
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestDetectReturnsHead(t *testing.T) {
	result, head, err := Detect(bytes.NewReader(pngHead))
	require.NoError(t, err)
	require.Equal(t, "image/png", result.MIME)
	require.Equal(t, pngHead, head)
}

func TestExtension(t *testing.T) {
	ext, ok := Extension("Avatar.JPG")
	require.True(t, ok)
	require.Equal(t, "jpg", ext)

	_, ok = Extension("notes.txt")
	require.False(t, ok)
	_, ok = Extension("noext")
	require.False(t, ok)
}

func TestMatches(t *testing.T) {
	require.True(t, Matches("jpg", Result{Type: TypeJPEG}))
	require.True(t, Matches("jpeg", Result{Type: TypeJPEG}))
	require.False(t, Matches("png", Result{Type: TypeGIF}))
}
