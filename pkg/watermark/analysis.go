package watermark

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/schollz/progressbar/v3"
)

type AnalyzeArgs struct {
	OriginalPath *string
	MarkedPath   *string
	HeatmapPath  *string
	Progress     io.Writer // nil disables the progress bar
}

// AnalysisResult holds fidelity metrics between an original and a marked image.
type AnalysisResult struct {
	MSE           float64 // over R, G and B
	PSNR          float64 // dB, +Inf for identical images
	ChangedPixels int
	MaxDelta      int // largest per-channel absolute change
}

// Analyze compares two images of equal size and writes a heatmap of the
// per-pixel change when HeatmapPath is set.
func Analyze(args *AnalyzeArgs) (*AnalysisResult, error) {
	origRaw, err := LoadImage(*args.OriginalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load original: %w", err)
	}
	markedRaw, err := LoadImage(*args.MarkedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load marked image: %w", err)
	}

	result, heatmap, err := Compare(origRaw, markedRaw, args.Progress)
	if err != nil {
		return nil, err
	}

	if args.HeatmapPath != nil && *args.HeatmapPath != "" {
		if err := SavePNG(*args.HeatmapPath, heatmap); err != nil {
			return nil, fmt.Errorf("failed to write heatmap: %w", err)
		}
	}
	return result, nil
}

// Compare computes the metrics of Analyze on in-memory images.
func Compare(original, marked image.Image, progress io.Writer) (*AnalysisResult, *image.NRGBA, error) {
	img1 := asNRGBA(original)
	img2 := asNRGBA(marked)
	if img1.Rect != img2.Rect {
		return nil, nil, fmt.Errorf("image dimensions do not match: %v vs %v", img1.Rect, img2.Rect)
	}

	width, height := img1.Rect.Dx(), img1.Rect.Dy()
	if width*height == 0 {
		return nil, nil, fmt.Errorf("cannot analyze an empty image")
	}

	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(
		height,
		progressbar.OptionSetDescription(" 📊 Analyzing"),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
	)

	var sumSquaredError float64
	heatmap := image.NewNRGBA(img1.Rect)
	result := &AnalysisResult{}

	for y := 0; y < height; y++ {
		bar.Add(1)
		for x := 0; x < width; x++ {
			p1 := img1.PixOffset(x, y)
			p2 := img2.PixOffset(x, y)

			diffSum := 0.0
			for i := 0; i < 3; i++ {
				diff := float64(img1.Pix[p1+i]) - float64(img2.Pix[p2+i])
				sumSquaredError += diff * diff
				d := math.Abs(diff)
				diffSum += d
				result.MaxDelta = max(result.MaxDelta, int(d))
			}

			// Black is untouched, green to red grows with the change.
			if diffSum > 0 {
				result.ChangedPixels++
				intensity := uint8(math.Min(255, diffSum*50))
				heatmap.SetNRGBA(x, y, color.NRGBA{R: intensity, G: 255 - intensity, A: 255})
			} else {
				heatmap.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	bar.Finish()

	result.MSE = sumSquaredError / float64(width*height*3)
	result.PSNR = 10 * math.Log10((255*255)/result.MSE)
	return result, heatmap, nil
}
