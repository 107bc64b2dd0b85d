package videomark

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
)

// framePattern names frames written by DirSink; lexical order is frame order.
const framePattern = "frame_%06d.png"

var frameExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// DirSource reads a directory of still images as frames, sorted by file name.
type DirSource struct {
	paths []string
	next  int
}

func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !frameExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no frames in %s", mark.ErrInvalidInput, dir)
	}
	sort.Strings(paths)
	return &DirSource{paths: paths}, nil
}

func (s *DirSource) Next(ctx context.Context) (image.Image, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.paths[s.next]
	s.next++

	img, err := watermark.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", mark.ErrCorruptContainer, filepath.Base(path), err)
	}
	return img, nil
}

func (s *DirSource) Len() int { return len(s.paths) }

func (s *DirSource) Close() error { return nil }

// DirSink writes frames as numbered PNGs into a directory.
type DirSink struct {
	dir   string
	count int
}

func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) WriteFrame(img image.Image) error {
	path := filepath.Join(s.dir, fmt.Sprintf(framePattern, s.count))
	if err := watermark.SavePNG(path, img); err != nil {
		return err
	}
	s.count++
	return nil
}

// Count is the number of frames written so far.
func (s *DirSink) Count() int { return s.count }

func (s *DirSink) Close() error { return nil }
