package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	dir := t.TempDir()
	frames := filepath.Join(dir, "frames")
	require.NoError(t, os.Mkdir(frames, 0o755))

	tests := []struct {
		path string
		want mediaKind
	}{
		{"photo.PNG", kindImage},
		{"scan.tiff", kindImage},
		{"song.mp3", kindAudio},
		{"take.flac", kindAudio},
		{"clip.mkv", kindVideo},
		{frames, kindVideo},
		{"notes.txt", kindUnknown},
		{"noext", kindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, detectKind(tt.path))
		})
	}
}

func TestVideoKey(t *testing.T) {
	key := videoKey("alpha", 0, 0)
	assert.Equal(t, watermark.GenerateKey("alpha"), key)

	key = videoKey("alpha", 1, 40)
	assert.Equal(t, int64(9918), key.Seed)
	assert.Equal(t, 1.0, key.Strength)
	assert.Equal(t, 40.0, key.Alpha)
}
