//go:build !opencv

package videomark

import (
	"fmt"
	"path/filepath"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
)

// Open reads frames from a directory. Video containers need the opencv tag.
func Open(path string) (Source, error) {
	if isDir(path) {
		return NewDirSource(path)
	}
	return nil, fmt.Errorf("%w: %s is not a frame directory (build with -tags opencv for video files)", mark.ErrInvalidInput, path)
}

// Create writes frames to a directory. fps and size are only used by
// container sinks.
func Create(path string, fps float64, width, height int) (Sink, error) {
	if isDir(path) || filepath.Ext(path) == "" {
		return NewDirSink(path)
	}
	return nil, fmt.Errorf("%w: cannot write %s without -tags opencv", mark.ErrInvalidInput, path)
}
