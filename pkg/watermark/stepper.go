package watermark

// window bounds the mid-frequency region visited by QIM.
const window = 8

// coefficientStepper walks the mid-frequency coefficients (i, j) with
// 1 <= i < min(window, rows) and 1 <= j < min(window, cols) in row-major order.
type coefficientStepper struct {
	i    int
	j    int
	rows int
	cols int
}

func newCoefficientStepper(rows, cols int) *coefficientStepper {
	return &coefficientStepper{
		i:    1,
		j:    1,
		rows: min(window, rows),
		cols: min(window, cols),
	}
}

func (s *coefficientStepper) next() (int, int, bool) {
	if s.i >= s.rows || s.j >= s.cols {
		return 0, 0, false
	}
	i, j := s.i, s.j
	s.j++
	if s.j >= s.cols {
		s.j = 1
		s.i++
	}
	return i, j, true
}

// coefficientCapacity is the number of coefficients the stepper visits.
func coefficientCapacity(rows, cols int) int {
	r := min(window, rows) - 1
	c := min(window, cols) - 1
	if r <= 0 || c <= 0 {
		return 0
	}
	return r * c
}
