package audiomark

import (
	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"gonum.org/v1/gonum/floats"
)

// embedEcho adds an attenuated copy of each block delayed by delay samples
// for a 1 bit or 2*delay for a 0 bit. Echoes falling past the end are dropped.
func embedEcho(x []float32, payload mark.Bits, delay int, strength float64) []float32 {
	out := append([]float32(nil), x...)
	size := len(x) / len(payload)
	for b, bit := range payload {
		d := 2 * delay
		if bit == 1 {
			d = delay
		}
		for j := b * size; j < min((b+1)*size, len(x)); j++ {
			k := j + d
			if k >= len(x) {
				break
			}
			out[k] = float32(float64(out[k]) + float64(x[j])*strength)
		}
	}
	return out
}

// extractEcho decides per block whether the autocorrelation at delay beats
// the one at 2*delay.
func extractEcho(x []float64, length, delay int) mark.Bits {
	bits := make(mark.Bits, length)
	size := len(x) / length
	for b := range bits {
		start, end := b*size, min((b+1)*size, len(x))
		if lagCorrelation(x, start, end, delay) > lagCorrelation(x, start, end, 2*delay) {
			bits[b] = 1
		}
	}
	return bits
}

// lagCorrelation is the sum of x[j]*x[j+lag] for j in [start, end) with j+lag in range.
func lagCorrelation(x []float64, start, end, lag int) float64 {
	end = min(end, len(x)-lag)
	if end <= start {
		return 0
	}
	return floats.Dot(x[start:end], x[start+lag:end+lag])
}
