package videomark

import (
	"io"
	"os"
)

// Source is a FrameSource that owns an underlying resource.
type Source interface {
	FrameSource
	io.Closer
}

// Sink is a FrameSink that must be closed to flush its output.
type Sink interface {
	FrameSink
	io.Closer
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
