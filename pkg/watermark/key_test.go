package watermark

import (
	"errors"
	"testing"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		passphrase string
		seed       int64
	}{
		{"alpha", 9918},
		{"beta", 20272},
		{"gamma", 20615},
		{"a", 97},
		{"", 0},
		{"🎵", 73305},
	}
	for _, tt := range tests {
		t.Run(tt.passphrase, func(t *testing.T) {
			key := GenerateKey(tt.passphrase)
			assert.Equal(t, tt.seed, key.Seed)
			assert.Equal(t, DefaultStrength, key.Strength)
			assert.Equal(t, DefaultAlpha, key.Alpha)
			assert.Equal(t, key, GenerateKey(tt.passphrase))
		})
	}
}

func TestGeneratePayload(t *testing.T) {
	a := GeneratePayload(GenerateKey("alpha"), 64)
	assert.Len(t, a, 64)
	assert.Equal(t, a, GeneratePayload(GenerateKey("alpha"), 64))
	assert.Equal(t, mark.Bits{1, 0, 1, 0, 1, 0, 1, 0}, a[:8])

	// A shorter request is a prefix of a longer one.
	assert.Equal(t, a[:10], GeneratePayload(GenerateKey("alpha"), 10))

	// The recurrence alternates parity, so the payload only depends on
	// whether the seed is odd or even.
	assert.Equal(t, mark.Bits{0, 1, 0, 1, 0, 1, 0, 1}, GeneratePayload(GenerateKey("gamma"), 8))
	assert.Equal(t, a, GeneratePayload(GenerateKey("beta"), 64))

	assert.Empty(t, GeneratePayload(GenerateKey("alpha"), 0))
}

func TestKeyValidate(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		ok   bool
	}{
		{"default", GenerateKey("x"), true},
		{"full strength", Key{Seed: 1, Strength: 1, Alpha: 40}, true},
		{"zero strength", Key{Seed: 1, Strength: 0, Alpha: 8}, false},
		{"strength above one", Key{Seed: 1, Strength: 1.5, Alpha: 8}, false},
		{"zero alpha", Key{Seed: 1, Strength: 0.3, Alpha: 0}, false},
		{"negative seed", Key{Seed: -1, Strength: 0.3, Alpha: 8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, mark.ErrInvalidInput), "got %v", err)
			}
		})
	}
}
