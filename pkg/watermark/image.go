package watermark

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Result is the outcome of a detection pass.
type Result struct {
	IsWatermarked bool    `json:"isWatermarked"`
	Confidence    float64 `json:"confidence"`
}

// lumaMatrix samples (R+G+B)/3 at the top-left pixel of every 8×8 block.
func lumaMatrix(img *image.NRGBA) (*mat.Dense, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty image", mark.ErrInvalidInput)
	}
	rows, cols := blockDims(w, h)
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			off := img.PixOffset(c*blockSize, r*blockSize)
			px := img.Pix[off : off+3]
			m.Set(r, c, (float64(px[0])+float64(px[1])+float64(px[2]))/3)
		}
	}
	return m, nil
}

func checkCapacity(rows, cols int) error {
	if coefficientCapacity(rows, cols) == 0 {
		return fmt.Errorf("%w: image too small, block matrix %dx%d has no mid-frequency coefficients", mark.ErrInvalidInput, rows, cols)
	}
	return nil
}

// Embed returns a watermarked copy of img. The input is not modified.
func Embed(img image.Image, key Key) (*image.NRGBA, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	out := ToNRGBA(img)
	luma, err := lumaMatrix(out)
	if err != nil {
		return nil, err
	}
	rows, cols := luma.Dims()
	if err := checkCapacity(rows, cols); err != nil {
		return nil, err
	}

	payload := GeneratePayload(key, payloadLength(rows, cols))
	coeffs, err := DCT2D(luma)
	if err != nil {
		return nil, err
	}
	n := embedQIM(coeffs, payload, key.Alpha)
	marked, err := IDCT2D(coeffs)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("rows", rows).
		Int("cols", cols).
		Int("payload", len(payload)).
		Int("embedded", n).
		Msg("Embedded watermark into block matrix")

	spreadBlocks(out, luma, marked, key.Strength)
	return out, nil
}

// spreadBlocks adds strength*(clamp(marked)-original) to R, G and B of every
// pixel in each block. Rows of blocks touch disjoint pixels and run in parallel.
func spreadBlocks(img *image.NRGBA, original, marked *mat.Dense, strength float64) {
	rows, _ := original.Dims()
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for r := 0; r < rows; r++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(r int) {
			defer wg.Done()
			defer func() { <-sem }()
			spreadRow(img, original, marked, r, strength)
		}(r)
	}
	wg.Wait()
}

func spreadRow(img *image.NRGBA, original, marked *mat.Dense, r int, strength float64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	_, cols := original.Dims()
	for c := 0; c < cols; c++ {
		value := min(255, max(0, marked.At(r, c)))
		delta := (value - original.At(r, c)) * strength
		if delta == 0 {
			continue
		}
		for y := r * blockSize; y < min(h, (r+1)*blockSize); y++ {
			for x := c * blockSize; x < min(w, (c+1)*blockSize); x++ {
				off := img.PixOffset(x, y)
				for ch := 0; ch < 3; ch++ {
					img.Pix[off+ch] = clampChannel(float64(img.Pix[off+ch]) + delta)
				}
			}
		}
	}
}

// Extract recomputes the payload from key and measures how well the image
// agrees with it. An unmarked image is not an error.
func Extract(img image.Image, key Key) (Result, error) {
	if err := key.validate(); err != nil {
		return Result{}, err
	}
	luma, err := lumaMatrix(asNRGBA(img))
	if err != nil {
		return Result{}, err
	}
	rows, cols := luma.Dims()
	if err := checkCapacity(rows, cols); err != nil {
		return Result{}, err
	}
	coeffs, err := DCT2D(luma)
	if err != nil {
		return Result{}, err
	}

	length := payloadLength(rows, cols)
	observed := extractQIM(coeffs, length, key.Alpha)
	expected := GeneratePayload(key, length)
	confidence, ber := mark.Similarity(expected, observed)

	log.Debug().
		Int("compared", min(len(expected), len(observed))).
		Float64("confidence", confidence).
		Float64("ber", ber).
		Msg("Extracted watermark")

	return Result{
		IsWatermarked: confidence > Threshold,
		Confidence:    confidence,
	}, nil
}
