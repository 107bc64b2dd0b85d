package videomark

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// FrameSource yields decoded frames in presentation order and io.EOF at the end.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	// Len is the total number of frames, or -1 when unknown.
	Len() int
}

// FrameSink receives frames in presentation order.
type FrameSink interface {
	WriteFrame(img image.Image) error
}

// Result is the outcome of video detection.
type Result struct {
	IsWatermarked      bool      `json:"isWatermarked"`
	Confidence         float64   `json:"confidence"`
	PerFrameConfidence []float64 `json:"perFrameConfidence"`
}

// Embed copies src to dst, watermarking every Cycle-th frame and repeating it
// on the following Repeats frames. onProgress may be nil.
func Embed(ctx context.Context, src FrameSource, dst FrameSink, key watermark.Key, onProgress func(done, total int)) error {
	scheduler := NewScheduler(key)
	total := src.Len()
	done := 0
	embedded := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read frame %d: %w", done, err)
		}

		out, action, err := scheduler.Process(frame)
		if err != nil {
			return fmt.Errorf("frame %d: %w", done, err)
		}
		if action == ActionEmbed {
			embedded++
		}
		if err := dst.WriteFrame(out); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", done, err)
		}

		done++
		if onProgress != nil {
			onProgress(done, total)
		}
	}

	if done == 0 {
		return fmt.Errorf("%w: video has no frames", mark.ErrInvalidInput)
	}
	log.Debug().Int("frames", done).Int("embedded", embedded).Msg("Embedded video watermark")
	return nil
}

// Extract runs image detection on every Cycle-th frame and averages the
// confidences. Repeated frames are not consulted.
func Extract(ctx context.Context, src FrameSource, key watermark.Key) (Result, error) {
	var confidences []float64
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("failed to read frame %d: %w", index, err)
		}
		if index%Cycle != 0 {
			continue
		}

		res, err := watermark.Extract(frame, key)
		if err != nil {
			return Result{}, fmt.Errorf("frame %d: %w", index, err)
		}
		confidences = append(confidences, res.Confidence)
	}

	if len(confidences) == 0 {
		return Result{}, fmt.Errorf("%w: video has no frames", mark.ErrInvalidInput)
	}
	mean := stat.Mean(confidences, nil)
	return Result{
		IsWatermarked:      mean > Threshold,
		Confidence:         mean,
		PerFrameConfidence: confidences,
	}, nil
}
