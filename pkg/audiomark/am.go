package audiomark

import (
	"math"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
)

// embedAM scales each block by 1+strength for a 1 bit and 1-strength for a 0.
// Samples past the last full block pass through.
func embedAM(x []float32, payload mark.Bits, strength float64) []float32 {
	out := append([]float32(nil), x...)
	size := len(x) / len(payload)
	for b, bit := range payload {
		factor := 1 - strength
		if bit == 1 {
			factor = 1 + strength
		}
		for j := b * size; j < min((b+1)*size, len(x)); j++ {
			out[j] = float32(float64(x[j]) * factor)
		}
	}
	return out
}

// extractAM compares each block's mean absolute amplitude against a fixed
// reference rather than the unmodulated level, which is unknown here.
func extractAM(x []float64, length int) mark.Bits {
	bits := make(mark.Bits, length)
	size := len(x) / length
	for b := range bits {
		start, end := b*size, min((b+1)*size, len(x))
		if end <= start {
			continue
		}
		sum := 0.0
		for _, v := range x[start:end] {
			sum += math.Abs(v)
		}
		if sum/float64(end-start) > amReference {
			bits[b] = 1
		}
	}
	return bits
}
