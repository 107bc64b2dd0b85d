package watermark

import "github.com/Madmax729/netra-digital-ownership/pkg/mark"

// GeneratePayload expands the key seed into length pseudo-random bits.
func GeneratePayload(key Key, length int) mark.Bits {
	if length <= 0 {
		return mark.Bits{}
	}
	bits := make(mark.Bits, length)
	seed := key.Seed
	for i := range bits {
		seed = mark.NextSeed(seed)
		bits[i] = uint8(seed % 2)
	}
	return bits
}

// payloadLength clips the nominal payload to the block matrix area.
func payloadLength(rows, cols int) int {
	return min(PayloadLength, rows*cols)
}
