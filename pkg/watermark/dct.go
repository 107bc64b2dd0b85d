package watermark

import (
	"fmt"
	"math"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"gonum.org/v1/gonum/mat"
)

// dctBasis returns the n×n orthonormal DCT-II matrix C with
// C[k][i] = s_k cos(pi k (2i+1) / 2n), s_0 = sqrt(1/n), s_k = sqrt(2/n).
func dctBasis(n int) *mat.Dense {
	c := mat.NewDense(n, n, nil)
	s0 := math.Sqrt(1 / float64(n))
	sk := math.Sqrt(2 / float64(n))
	for k := 0; k < n; k++ {
		s := sk
		if k == 0 {
			s = s0
		}
		for i := 0; i < n; i++ {
			c.Set(k, i, s*math.Cos(math.Pi*float64(k)*float64(2*i+1)/float64(2*n)))
		}
	}
	return c
}

// DCT2D computes the separable type-II DCT of m as C_N · m · C_Mᵀ.
func DCT2D(m *mat.Dense) (*mat.Dense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: empty matrix", mark.ErrInvalidInput)
	}
	rows, cols := m.Dims()
	var out mat.Dense
	out.Product(dctBasis(rows), m, dctBasis(cols).T())
	return &out, nil
}

// IDCT2D is the type-III inverse of DCT2D, C_Nᵀ · m · C_M.
func IDCT2D(m *mat.Dense) (*mat.Dense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%w: empty matrix", mark.ErrInvalidInput)
	}
	rows, cols := m.Dims()
	var out mat.Dense
	out.Product(dctBasis(rows).T(), m, dctBasis(cols))
	return &out, nil
}
