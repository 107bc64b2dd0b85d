package watermark

import (
	"fmt"
	"math"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
)

const (
	DefaultStrength = 0.35
	DefaultAlpha    = 8.0

	// PayloadLength is the nominal number of payload bits.
	PayloadLength = 64

	// Threshold is the confidence above which an image is considered marked.
	Threshold = 0.7

	seedRange = 100000
)

// Key parameterises the image codec. Seed is derived from a pass-phrase;
// Strength scales the spatial correction and Alpha is the QIM step.
type Key struct {
	Seed     int64   `json:"seed"`
	Strength float64 `json:"strength"`
	Alpha    float64 `json:"alpha"`
}

// GenerateKey derives a key from a pass-phrase using a 31-multiplier rolling
// hash over UTF-16 code units, wrapped to a signed 32-bit integer.
func GenerateKey(passphrase string) Key {
	var hash int32
	for _, cu := range mark.CodeUnits(passphrase) {
		hash = hash*31 + int32(cu)
	}
	seed := int64(hash)
	if seed < 0 {
		seed = -seed
	}
	return Key{
		Seed:     seed % seedRange,
		Strength: DefaultStrength,
		Alpha:    DefaultAlpha,
	}
}

func (k Key) validate() error {
	if k.Seed < 0 {
		return fmt.Errorf("%w: negative seed %d", mark.ErrInvalidInput, k.Seed)
	}
	if !(k.Strength > 0 && k.Strength <= 1) {
		return fmt.Errorf("%w: strength %v outside (0,1]", mark.ErrInvalidInput, k.Strength)
	}
	if !(k.Alpha > 0) || math.IsInf(k.Alpha, 0) {
		return fmt.Errorf("%w: alpha must be positive, got %v", mark.ErrInvalidInput, k.Alpha)
	}
	return nil
}
