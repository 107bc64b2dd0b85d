//go:build !opencv

package videomark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainersNeedOpenCV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really"), 0o644))

	_, err := Open(path)
	assert.ErrorIs(t, err, mark.ErrInvalidInput)

	_, err = Create(filepath.Join(t.TempDir(), "out.mp4"), 30, 64, 64)
	assert.ErrorIs(t, err, mark.ErrInvalidInput)
}
