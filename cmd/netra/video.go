package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Madmax729/netra-digital-ownership/pkg/videomark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/schollz/progressbar/v3"
)

// videoGeometry is implemented by container sources that know their frame rate.
type videoGeometry interface {
	FPS() float64
	Size() (width, height int)
}

func videoKey(passphrase string, strength, alpha float64) watermark.Key {
	key := watermark.GenerateKey(passphrase)
	if strength > 0 {
		key.Strength = strength
	}
	if alpha > 0 {
		key.Alpha = alpha
	}
	return key
}

func newFrameBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// embedVideo defaults the output to "<input>_watermarked" (a frame directory)
// or "<name>.watermarked.avi" for containers.
func embedVideo(ctx context.Context, input string, output *string, key watermark.Key) error {
	src, err := videomark.Open(input)
	if err != nil {
		return err
	}
	defer src.Close()

	if *output == "" {
		if info, err := os.Stat(input); err == nil && info.IsDir() {
			*output = filepath.Clean(input) + "_watermarked"
		} else {
			*output = strings.TrimSuffix(input, filepath.Ext(input)) + ".watermarked.avi"
		}
	}

	fps, width, height := 30.0, 0, 0
	if geo, ok := src.(videoGeometry); ok {
		fps = geo.FPS()
		width, height = geo.Size()
	}
	dst, err := videomark.Create(*output, fps, width, height)
	if err != nil {
		return err
	}

	bar := newFrameBar(src.Len(), " 🎞️  Embedding")
	err = videomark.Embed(ctx, src, dst, key, func(done, total int) {
		bar.Add(1)
	})
	bar.Finish()
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return err
}

func verifyVideo(ctx context.Context, input string, key watermark.Key) (videomark.Result, error) {
	src, err := videomark.Open(input)
	if err != nil {
		return videomark.Result{}, err
	}
	defer src.Close()
	return videomark.Extract(ctx, src, key)
}

func printVideoResult(result any) {
	r, ok := result.(videomark.Result)
	if !ok {
		return
	}
	fmt.Println(verdict(r.IsWatermarked))
	fmt.Printf("Confidence:       %.2f%% (threshold %.0f%%)\n", r.Confidence*100, videomark.Threshold*100)
	fmt.Printf("Sampled Frames:   %d (every %d frames)\n", len(r.PerFrameConfidence), videomark.Cycle)
	for i, c := range r.PerFrameConfidence {
		fmt.Printf("  frame %-8d %.2f\n", i*videomark.Cycle, c)
	}
}
