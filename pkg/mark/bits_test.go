package mark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		expected Bits
		observed Bits
		corr     float64
		ber      float64
	}{
		{"identical", Bits{1, 0, 1, 1}, Bits{1, 0, 1, 1}, 1, 0},
		{"inverted", Bits{1, 0, 1, 1}, Bits{0, 1, 0, 0}, 0, 1},
		{"half", Bits{1, 1, 0, 0}, Bits{1, 0, 0, 1}, 0.5, 0.5},
		{"shorter observed", Bits{1, 1, 1, 1}, Bits{1, 0}, 0.5, 0.5},
		{"empty", Bits{1, 0}, nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corr, ber := Similarity(tt.expected, tt.observed)
			assert.InDelta(t, tt.corr, corr, 1e-12)
			assert.InDelta(t, tt.ber, ber, 1e-12)
		})
	}
}

func TestBitsPacking(t *testing.T) {
	b := Bits{1, 0, 1, 0, 1, 0, 1, 0, 1, 1}
	assert.Equal(t, []byte{0xAA, 0xC0}, b.Bytes())
	assert.Equal(t, "aac0", b.Hex())
	assert.Equal(t, "1010101011", b.String())
}

func TestNextSeed(t *testing.T) {
	// 9918*9301+49297 = 92296615, which is 151015 mod 233280
	assert.Equal(t, int64(151015), NextSeed(9918))
	assert.Equal(t, int64(49297), NextSeed(0))
}

func TestCodeUnits(t *testing.T) {
	assert.Equal(t, []uint16{'a', 'b'}, CodeUnits("ab"))
	// Astral code points are split into a surrogate pair.
	assert.Equal(t, []uint16{0xD83C, 0xDFB5}, CodeUnits("🎵"))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.0, Round(2.5))
	assert.Equal(t, -2.0, Round(-2.5))
	assert.Equal(t, -3.0, Round(-2.6))
}
