package audiomark

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Logger = log.Output(io.Discard)
}

const testFrames = 64 * 4096

func TestEmbedExtractRoundTrip(t *testing.T) {
	x := binarySignal(1, testFrames, 0.1)
	key := GenerateKey("alpha")

	marked, err := EmbedMono(x, key)
	require.NoError(t, err)
	require.Len(t, marked, len(x))

	res, err := Extract(marked, key)
	require.NoError(t, err)
	assert.True(t, res.IsWatermarked)
	assert.Greater(t, res.Confidence, Threshold)
	assert.Equal(t, res.Confidence, res.Correlation)
	assert.InDelta(t, 1-res.Correlation, res.BER, 1e-12)
	assert.Equal(t, 1.0, res.AlgorithmScores.AM)
	assert.Equal(t, 1.0, res.AlgorithmScores.SpreadSpectrum)
	assert.GreaterOrEqual(t, res.AlgorithmScores.Echo, 0.9)
	assert.False(t, math.IsInf(res.SNR, 0))

	wrong, err := Extract(marked, GenerateKey("gamma"))
	require.NoError(t, err)
	assert.Less(t, wrong.Confidence, res.Confidence)
	assert.False(t, wrong.IsWatermarked)

	plain, err := Extract(x, key)
	require.NoError(t, err)
	assert.False(t, plain.IsWatermarked)
}

func TestEmbedDoesNotModifyInput(t *testing.T) {
	x := binarySignal(2, 64*64, 0.1)
	before := append([]float32(nil), x...)
	_, err := EmbedMono(x, GenerateKey("alpha"))
	require.NoError(t, err)
	assert.Equal(t, before, x)
}

func TestEmbedStereoKeepsSecondChannel(t *testing.T) {
	left := binarySignal(3, testFrames, 0.1)
	right := binarySignal(4, testFrames, 0.2)
	buf := &Buffer{Samples: make([]float32, 2*testFrames), SampleRate: 44100, Channels: 2}
	for i := range left {
		buf.Samples[2*i] = left[i]
		buf.Samples[2*i+1] = right[i]
	}
	key := GenerateKey("stereo")

	marked, err := Embed(buf, key)
	require.NoError(t, err)
	assert.Equal(t, 2, marked.Channels)
	assert.Equal(t, 44100, marked.SampleRate)
	assert.Equal(t, right, marked.Channel(1))
	assert.NotEqual(t, left, marked.Channel(0))
	assert.Equal(t, left, buf.Channel(0))

	res, err := Verify(marked, key)
	require.NoError(t, err)
	assert.True(t, res.IsWatermarked)
}

func TestShortBufferClipsPayload(t *testing.T) {
	x := binarySignal(5, 10, 0.5)
	key := GenerateKey("short")
	marked, err := EmbedMono(x, key)
	require.NoError(t, err)

	res, err := Extract(marked, key)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Confidence, 0.0)
	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.Equal(t, 10, GetInfo(&Buffer{Samples: x, SampleRate: 8000, Channels: 1}).PayloadLength)
}

func TestSilence(t *testing.T) {
	res, err := Extract(make([]float32, 4096), GenerateKey("alpha"))
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.SNR, -1))

	data, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["snr"])
	assert.Contains(t, decoded, "algorithmScores")
	assert.Contains(t, decoded, "isWatermarked")
}

func TestResultJSONKeepsFiniteSNR(t *testing.T) {
	data, err := json.Marshal(VerificationResult{SNR: 12.5, Confidence: 0.7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"isWatermarked":false,"confidence":0.7,"ber":0,"correlation":0,"snr":12.5,
		"algorithmScores":{"lsb":0,"am":0,"echo":0,"spreadSpectrum":0}}`, string(data))
}

func TestInvalidInput(t *testing.T) {
	key := GenerateKey("alpha")

	_, err := EmbedMono(nil, key)
	assert.True(t, errors.Is(err, mark.ErrInvalidInput))

	_, err = Extract([]float32{}, key)
	assert.True(t, errors.Is(err, mark.ErrInvalidInput))

	_, err = Embed(&Buffer{Samples: []float32{0, 0, 0}, Channels: 2}, key)
	assert.True(t, errors.Is(err, mark.ErrInvalidInput))

	_, err = Embed(&Buffer{Samples: []float32{0, 0}, Channels: 0}, key)
	assert.True(t, errors.Is(err, mark.ErrUnsupportedChannels))

	_, err = EmbedMono([]float32{0.1, 0.2}, Key{Seed: "x", Strength: 0, Delay: 100})
	assert.True(t, errors.Is(err, mark.ErrInvalidInput))

	_, err = Extract([]float32{0.1, 0.2}, Key{Seed: "x", Strength: 0.1, Delay: 0})
	assert.True(t, errors.Is(err, mark.ErrInvalidInput))
}

func TestAnalyze(t *testing.T) {
	x := binarySignal(8, 64*512, 0.1)
	orig := &Buffer{Samples: x, SampleRate: 8000, Channels: 1}

	same, err := Analyze(orig, orig)
	require.NoError(t, err)
	assert.Zero(t, same.MSE)
	assert.True(t, math.IsInf(same.PSNR, 1))

	marked, err := Embed(orig, GenerateKey("alpha"))
	require.NoError(t, err)
	res, err := Analyze(orig, marked)
	require.NoError(t, err)
	assert.Greater(t, res.MSE, 0.0)
	assert.Greater(t, res.PSNR, 0.0)
	assert.False(t, math.IsInf(res.SNR, 0))

	_, err = Analyze(orig, &Buffer{Samples: x[:10], SampleRate: 8000, Channels: 1})
	assert.Error(t, err)
}

func TestFusedThresholdIsStrict(t *testing.T) {
	assert.Equal(t, 0.65, Threshold)

	tests := []struct {
		name   string
		scores Scores
		marked bool
	}{
		{"below", Scores{LSB: 0.5, AM: 0.8, Echo: 0.5, SpreadSpectrum: 0.7}, false},
		{"exactly at threshold", Scores{LSB: 0.5, AM: 0.8, Echo: 0.5, SpreadSpectrum: 0.8}, false},
		{"above", Scores{LSB: 0.5, AM: 0.8, Echo: 0.5, SpreadSpectrum: 0.9}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bers := [4]float64{1 - tt.scores.LSB, 1 - tt.scores.AM, 1 - tt.scores.Echo, 1 - tt.scores.SpreadSpectrum}
			res := fuse(tt.scores, bers, 20)
			assert.Equal(t, tt.marked, res.IsWatermarked)
			assert.Equal(t, res.Confidence, res.Correlation)
			assert.InDelta(t, 1-res.Confidence, res.BER, 1e-12)
		})
	}

	res := fuse(tests[1].scores, [4]float64{}, 20)
	assert.Equal(t, Threshold, res.Confidence)
}
