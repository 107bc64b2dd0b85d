package audiomark

import (
	"fmt"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
)

const (
	DefaultStrength     = 0.08
	DefaultDelay        = 100
	DefaultSpreadFactor = 2.0

	// PayloadLength is the nominal number of payload bits.
	PayloadLength = 64

	// Threshold is the fused correlation above which audio is considered marked.
	Threshold = 0.65

	// lsbScale scales Strength for the LSB stage.
	lsbScale = 0.5
	// amReference is the block amplitude AM extraction compares against.
	amReference = 0.1
)

// Key parameterises the audio codec. The pass-phrase is kept verbatim since
// the payload and the spreading code fold it into different seeds.
type Key struct {
	Seed         string  `json:"seed"`
	Strength     float64 `json:"strength"`
	Delay        int     `json:"delay"`
	SpreadFactor float64 `json:"spreadFactor"`
}

func GenerateKey(passphrase string) Key {
	return Key{
		Seed:         passphrase,
		Strength:     DefaultStrength,
		Delay:        DefaultDelay,
		SpreadFactor: DefaultSpreadFactor,
	}
}

func (k Key) validate() error {
	if !(k.Strength > 0 && k.Strength <= 1) {
		return fmt.Errorf("%w: strength %v outside (0,1]", mark.ErrInvalidInput, k.Strength)
	}
	if k.Delay < 1 {
		return fmt.Errorf("%w: echo delay must be at least one sample, got %d", mark.ErrInvalidInput, k.Delay)
	}
	return nil
}
