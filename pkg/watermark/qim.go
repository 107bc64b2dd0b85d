package watermark

import (
	"math"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"gonum.org/v1/gonum/mat"
)

// embedQIM moves one mid-frequency coefficient per payload bit to
// round(c/alpha)*alpha ± alpha/4. Coefficients outside the window are untouched.
func embedQIM(coeffs *mat.Dense, payload mark.Bits, alpha float64) int {
	rows, cols := coeffs.Dims()
	stepper := newCoefficientStepper(rows, cols)
	embedded := 0
	for _, bit := range payload {
		i, j, ok := stepper.next()
		if !ok {
			break
		}
		q := mark.Round(coeffs.At(i, j)/alpha) * alpha
		if bit == 1 {
			q += alpha / 4
		} else {
			q -= alpha / 4
		}
		coeffs.Set(i, j, q)
		embedded++
	}
	return embedded
}

// extractQIM reads up to length bits back using the nearest of the two
// lattice offsets alpha/4 (bit 1) and 3*alpha/4 (bit 0).
func extractQIM(coeffs mat.Matrix, length int, alpha float64) mark.Bits {
	rows, cols := coeffs.Dims()
	stepper := newCoefficientStepper(rows, cols)
	bits := make(mark.Bits, 0, max(0, min(length, coefficientCapacity(rows, cols))))
	for len(bits) < length {
		i, j, ok := stepper.next()
		if !ok {
			break
		}
		mod := math.Mod(math.Mod(coeffs.At(i, j), alpha)+alpha, alpha)
		if math.Abs(mod-alpha/4) <= math.Abs(mod-3*alpha/4) {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
	}
	return bits
}
