package mark

import (
	"bytes"
	"encoding/hex"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/icza/bitio"
)

// Bits is a watermark payload, one 0/1 value per element.
type Bits []uint8

// Compare counts agreeing positions over the shorter of the two sequences.
func Compare(expected, observed Bits) (matches, length int) {
	length = min(len(expected), len(observed))
	for i := 0; i < length; i++ {
		if expected[i] == observed[i] {
			matches++
		}
	}
	return matches, length
}

// Similarity returns the fraction of agreeing bits and the bit error rate.
// Both are zero when there is nothing to compare.
func Similarity(expected, observed Bits) (correlation, ber float64) {
	matches, length := Compare(expected, observed)
	if length == 0 {
		return 0, 0
	}
	correlation = float64(matches) / float64(length)
	ber = float64(length-matches) / float64(length)
	return correlation, ber
}

// Bytes packs the payload MSB first, zero padding the final byte.
func (b Bits) Bytes() []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for _, bit := range b {
		if err := w.WriteBool(bit != 0); err != nil {
			return nil
		}
	}
	if err := w.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

func (b Bits) Hex() string {
	return hex.EncodeToString(b.Bytes())
}

func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		if bit != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// CodeUnits returns the UTF-16 code units of s. Pass-phrases are folded into
// seeds unit by unit so that keys derived in a browser match ours.
func CodeUnits(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Linear congruential recurrence shared by both payload generators.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	LCGModulus    = 233280
)

func NextSeed(seed int64) int64 {
	return (seed*lcgMultiplier + lcgIncrement) % LCGModulus
}

// Round rounds halves towards +Inf, i.e. floor(v+0.5).
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}
