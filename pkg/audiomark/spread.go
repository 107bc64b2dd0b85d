package audiomark

import (
	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"gonum.org/v1/gonum/floats"
)

// embedSpreadSpectrum adds ±strength times the spreading code to each chip
// window, the sign following the payload bit.
func embedSpreadSpectrum(x []float32, payload mark.Bits, key Key) []float32 {
	out := append([]float32(nil), x...)
	chipRate := len(x) / len(payload)
	code := SpreadingCode(key, chipRate)
	for b, bit := range payload {
		sign := -1.0
		if bit == 1 {
			sign = 1
		}
		start := b * chipRate
		for c, chip := range code {
			i := start + c
			out[i] = float32(float64(out[i]) + sign*chip*key.Strength)
		}
	}
	return out
}

func extractSpreadSpectrum(x []float64, length int, key Key) mark.Bits {
	bits := make(mark.Bits, length)
	chipRate := len(x) / length
	code := SpreadingCode(key, chipRate)
	for b := range bits {
		start, end := b*chipRate, min((b+1)*chipRate, len(x))
		if end <= start {
			continue
		}
		if floats.Dot(x[start:end], code[:end-start]) > 0 {
			bits[b] = 1
		}
	}
	return bits
}
