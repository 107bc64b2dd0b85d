package audiomark

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// AnalysisResult compares an original and a marked buffer on channel 0.
type AnalysisResult struct {
	MSE  float64 `json:"mse"`
	PSNR float64 `json:"psnr"` // dB relative to full scale
	SNR  float64 `json:"snr"`  // dB, original signal power over embedding noise power
}

// Analyze measures how much the watermark disturbs the signal.
func Analyze(original, marked *Buffer) (*AnalysisResult, error) {
	if err := original.validate(); err != nil {
		return nil, err
	}
	if err := marked.validate(); err != nil {
		return nil, err
	}
	if original.Frames() != marked.Frames() {
		return nil, fmt.Errorf("buffer lengths do not match: %d vs %d frames", original.Frames(), marked.Frames())
	}

	a := toFloat64(original.Channel(0))
	b := toFloat64(marked.Channel(0))
	noise := make([]float64, len(a))
	floats.SubTo(noise, b, a)

	n := float64(len(a))
	noisePower := floats.Dot(noise, noise) / n
	signalPower := floats.Dot(a, a) / n

	return &AnalysisResult{
		MSE:  noisePower,
		PSNR: 10 * math.Log10(1/noisePower),
		SNR:  10 * math.Log10(signalPower/noisePower),
	}, nil
}

func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
