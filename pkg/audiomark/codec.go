package audiomark

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// Buffer is interleaved float PCM in [-1, 1].
type Buffer struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames is the number of samples per channel.
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Channel returns a de-interleaved copy of channel c.
func (b *Buffer) Channel(c int) []float32 {
	out := make([]float32, b.Frames())
	for i := range out {
		out[i] = b.Samples[i*b.Channels+c]
	}
	return out
}

func (b *Buffer) setChannel(c int, data []float32) {
	for i, v := range data {
		b.Samples[i*b.Channels+c] = v
	}
}

func (b *Buffer) validate() error {
	if b == nil || len(b.Samples) == 0 {
		return fmt.Errorf("%w: empty sample buffer", mark.ErrInvalidInput)
	}
	if b.Channels < 1 {
		return fmt.Errorf("%w: %d channels", mark.ErrUnsupportedChannels, b.Channels)
	}
	if len(b.Samples)%b.Channels != 0 {
		return fmt.Errorf("%w: %d samples do not divide into %d channels", mark.ErrInvalidInput, len(b.Samples), b.Channels)
	}
	return nil
}

// Scores holds the per-algorithm correlation with the expected payload.
type Scores struct {
	LSB            float64 `json:"lsb"`
	AM             float64 `json:"am"`
	Echo           float64 `json:"echo"`
	SpreadSpectrum float64 `json:"spreadSpectrum"`
}

// VerificationResult is the fused detection outcome.
type VerificationResult struct {
	IsWatermarked   bool    `json:"isWatermarked"`
	Confidence      float64 `json:"confidence"`
	BER             float64 `json:"ber"`
	Correlation     float64 `json:"correlation"`
	SNR             float64 `json:"snr"` // -Inf for silence
	AlgorithmScores Scores  `json:"algorithmScores"`
}

// MarshalJSON encodes a non-finite SNR as null.
func (r VerificationResult) MarshalJSON() ([]byte, error) {
	type plain VerificationResult
	out := struct {
		plain
		SNR *float64 `json:"snr"`
	}{plain: plain(r)}
	if !math.IsInf(r.SNR, 0) && !math.IsNaN(r.SNR) {
		out.SNR = &r.SNR
	}
	return json.Marshal(out)
}

// EmbedMono runs LSB, AM, echo and spread spectrum in sequence, each stage
// consuming the previous stage's output.
func EmbedMono(samples []float32, key Key) ([]float32, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample buffer", mark.ErrInvalidInput)
	}
	if err := key.validate(); err != nil {
		return nil, err
	}

	payload := GeneratePayload(key, payloadLength(len(samples)))
	out := embedLSB(samples, payload, key.Strength*lsbScale)
	out = embedAM(out, payload, key.Strength)
	out = embedEcho(out, payload, key.Delay, key.Strength)
	out = embedSpreadSpectrum(out, payload, key)

	log.Debug().
		Int("samples", len(samples)).
		Int("payload", len(payload)).
		Int("block", len(samples)/len(payload)).
		Msg("Embedded audio watermark")
	return out, nil
}

// Embed watermarks channel 0 of buf. Other channels are copied unchanged.
func Embed(buf *Buffer, key Key) (*Buffer, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}
	marked, err := EmbedMono(buf.Channel(0), key)
	if err != nil {
		return nil, err
	}
	out := &Buffer{
		Samples:    append([]float32(nil), buf.Samples...),
		SampleRate: buf.SampleRate,
		Channels:   buf.Channels,
	}
	out.setChannel(0, marked)
	return out, nil
}

// Extract runs all four detectors on a mono signal and fuses their scores.
func Extract(samples []float32, key Key) (VerificationResult, error) {
	if len(samples) == 0 {
		return VerificationResult{}, fmt.Errorf("%w: empty sample buffer", mark.ErrInvalidInput)
	}
	if err := key.validate(); err != nil {
		return VerificationResult{}, err
	}

	x := toFloat64(samples)
	length := payloadLength(len(x))
	expected := GeneratePayload(key, length)

	var scores Scores
	var bers [4]float64
	scores.LSB, bers[0] = mark.Similarity(expected, extractLSB(samples, length))
	scores.AM, bers[1] = mark.Similarity(expected, extractAM(x, length))
	scores.Echo, bers[2] = mark.Similarity(expected, extractEcho(x, length, key.Delay))
	scores.SpreadSpectrum, bers[3] = mark.Similarity(expected, extractSpreadSpectrum(x, length, key))

	snr := SNR(x, key.Strength)

	log.Debug().
		Float64("lsb", scores.LSB).
		Float64("am", scores.AM).
		Float64("echo", scores.Echo).
		Float64("ss", scores.SpreadSpectrum).
		Float64("snr", snr).
		Msg("Extracted audio watermark")

	return fuse(scores, bers, snr), nil
}

// fuse averages the per-algorithm correlations and bit error rates.
func fuse(scores Scores, bers [4]float64, snr float64) VerificationResult {
	correlation := (scores.LSB + scores.AM + scores.Echo + scores.SpreadSpectrum) / 4
	return VerificationResult{
		IsWatermarked:   correlation > Threshold,
		Confidence:      correlation,
		BER:             floats.Sum(bers[:]) / 4,
		Correlation:     correlation,
		SNR:             snr,
		AlgorithmScores: scores,
	}
}

// Verify runs Extract on channel 0 of buf.
func Verify(buf *Buffer, key Key) (VerificationResult, error) {
	if err := buf.validate(); err != nil {
		return VerificationResult{}, err
	}
	return Extract(buf.Channel(0), key)
}

// SNR estimates 10*log10(mean square / noiseLevel²) in dB.
func SNR(x []float64, noiseLevel float64) float64 {
	if len(x) == 0 {
		return math.Inf(-1)
	}
	power := floats.Dot(x, x) / float64(len(x))
	return 10 * math.Log10(power/(noiseLevel*noiseLevel))
}
