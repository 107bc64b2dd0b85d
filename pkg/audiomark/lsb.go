package audiomark

import "github.com/Madmax729/netra-digital-ownership/pkg/mark"

const pcmScale = 32768

// embedLSB forces the 16-bit LSB of the first sample of each interval to the
// payload bit and writes the correction back scaled by strength.
func embedLSB(x []float32, payload mark.Bits, strength float64) []float32 {
	out := append([]float32(nil), x...)
	interval := len(x) / len(payload)
	for b, bit := range payload {
		i := b * interval
		s16 := int64(mark.Round(float64(x[i]) * pcmScale))
		modified := (s16 &^ 1) | int64(bit)
		out[i] = float32(float64(x[i]) + float64(modified-s16)/pcmScale*strength)
	}
	return out
}

func extractLSB(x []float32, length int) mark.Bits {
	bits := make(mark.Bits, 0, length)
	interval := len(x) / length
	for b := 0; b < length; b++ {
		i := b * interval
		if i >= len(x) {
			break
		}
		s16 := int64(mark.Round(float64(x[i]) * pcmScale))
		bits = append(bits, uint8(s16&1))
	}
	return bits
}
