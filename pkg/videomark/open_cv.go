//go:build opencv

package videomark

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"gocv.io/x/gocv"
)

// DefaultCodec is a lossless FourCC; lossy codecs destroy the embedded bits.
const DefaultCodec = "FFV1"

// Open reads frames from a directory or any container OpenCV can decode.
func Open(path string) (Source, error) {
	if isDir(path) {
		return NewDirSource(path)
	}
	return OpenVideo(path)
}

// Create writes frames to a directory, or to a container when path has an
// extension.
func Create(path string, fps float64, width, height int) (Sink, error) {
	if isDir(path) || filepath.Ext(path) == "" {
		return NewDirSink(path)
	}
	return CreateVideo(path, DefaultCodec, fps, width, height)
}

// Capture decodes a video file with OpenCV.
type Capture struct {
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

func OpenVideo(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mark.ErrCorruptContainer, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: cannot open %s", mark.ErrCorruptContainer, path)
	}
	return &Capture{vc: vc, mat: gocv.NewMat()}, nil
}

func (c *Capture) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, io.EOF
	}
	return c.mat.ToImage()
}

func (c *Capture) Len() int {
	n := int(c.vc.Get(gocv.VideoCaptureFrameCount))
	if n <= 0 {
		return -1
	}
	return n
}

func (c *Capture) FPS() float64 {
	return c.vc.Get(gocv.VideoCaptureFPS)
}

func (c *Capture) Size() (width, height int) {
	return int(c.vc.Get(gocv.VideoCaptureFrameWidth)), int(c.vc.Get(gocv.VideoCaptureFrameHeight))
}

func (c *Capture) Close() error {
	c.mat.Close()
	return c.vc.Close()
}

// Writer encodes frames into a video container with OpenCV.
type Writer struct {
	vw *gocv.VideoWriter
}

func CreateVideo(path, codec string, fps float64, width, height int) (*Writer, error) {
	vw, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, err
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("cannot open %s for writing with codec %s", path, codec)
	}
	return &Writer{vw: vw}, nil
}

func (w *Writer) WriteFrame(img image.Image) error {
	frame, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return err
	}
	defer frame.Close()
	return w.vw.Write(frame)
}

func (w *Writer) Close() error {
	return w.vw.Close()
}
