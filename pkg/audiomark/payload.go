package audiomark

import "github.com/Madmax729/netra-digital-ownership/pkg/mark"

const (
	spreadMultiplier = 1103515245
	spreadIncrement  = 12345
	spreadModulus    = 1 << 31
)

// GeneratePayload seeds the shared LCG with the position-weighted sum of the
// pass-phrase code units; a bit is 1 when the normalised state exceeds 0.5.
func GeneratePayload(key Key, length int) mark.Bits {
	if length <= 0 {
		return mark.Bits{}
	}
	var seed int64
	for i, cu := range mark.CodeUnits(key.Seed) {
		seed += int64(cu) * int64(i+1)
	}
	seed %= mark.LCGModulus
	bits := make(mark.Bits, length)
	for i := range bits {
		seed = mark.NextSeed(seed)
		if float64(seed)/mark.LCGModulus > 0.5 {
			bits[i] = 1
		}
	}
	return bits
}

// SpreadingCode returns length chips in [-1, 1) from an LCG mod 2^31 seeded
// with the plain sum of the pass-phrase code units.
func SpreadingCode(key Key, length int) []float64 {
	if length <= 0 {
		return nil
	}
	var seed int64
	for _, cu := range mark.CodeUnits(key.Seed) {
		seed += int64(cu)
	}
	seed %= spreadModulus
	code := make([]float64, length)
	for i := range code {
		seed = (seed*spreadMultiplier + spreadIncrement) % spreadModulus
		code[i] = float64(seed)/spreadModulus*2 - 1
	}
	return code
}

// payloadLength clips the nominal payload so every bit owns at least one sample.
func payloadLength(n int) int {
	return min(PayloadLength, n)
}
