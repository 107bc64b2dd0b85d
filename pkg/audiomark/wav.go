package audiomark

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavFormatPCM = 1
)

// sampleToInt16 clamps to [-1, 1] and scales negatives by 0x8000 and
// positives by 0x7FFF, truncating toward zero.
func sampleToInt16(s float32) int {
	v := min(1, max(-1, float64(s)))
	if v < 0 {
		return int(v * 0x8000)
	}
	return int(v * 0x7FFF)
}

// int16ToSample maps q to the centre of the interval that sampleToInt16
// sends back to q, so decoding and re-encoding is lossless.
func int16ToSample(q int) float32 {
	var v float64
	if q < 0 {
		v = (float64(q) - 0.5) / 0x8000
	} else {
		v = (float64(q) + 0.5) / 0x7FFF
	}
	return float32(min(1, max(-1, v)))
}

// EncodeWAV writes buf as a canonical 44-byte-header 16-bit PCM WAVE file.
func EncodeWAV(w io.WriteSeeker, buf *Buffer) error {
	if err := buf.validate(); err != nil {
		return err
	}
	if buf.Channels > 2 {
		return fmt.Errorf("%w: WAVE output supports mono or stereo, got %d channels", mark.ErrUnsupportedChannels, buf.Channels)
	}
	if buf.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", mark.ErrInvalidInput, buf.SampleRate)
	}

	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		data[i] = sampleToInt16(s)
	}

	encoder := wav.NewEncoder(w, buf.SampleRate, wavBitDepth, buf.Channels, wavFormatPCM)
	intBuf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: buf.Channels,
			SampleRate:  buf.SampleRate,
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}
	if err := encoder.Write(intBuf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// WAVBytes encodes buf through a temporary file, since the encoder needs to
// seek back and patch chunk sizes.
func WAVBytes(buf *Buffer) ([]byte, error) {
	tempFile, err := os.CreateTemp("", "netra-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if err := EncodeWAV(tempFile, buf); err != nil {
		return nil, err
	}
	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek temp file: %w", err)
	}
	return io.ReadAll(tempFile)
}

// DecodeWAV reads a PCM WAVE stream into a float buffer.
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAVE file", mark.ErrCorruptContainer)
	}
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mark.ErrCorruptContainer, err)
	}

	channels := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", mark.ErrUnsupportedChannels, channels)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", mark.ErrCorruptContainer, bitDepth)
	}

	samples := make([]float32, len(pcm.Data))
	for i, q := range pcm.Data {
		samples[i] = pcmToSample(q, bitDepth)
	}
	return &Buffer{
		Samples:    samples,
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
	}, nil
}

// DecodeWAVBytes is DecodeWAV over an in-memory file.
func DecodeWAVBytes(data []byte) (*Buffer, error) {
	return DecodeWAV(bytes.NewReader(data))
}

// pcmToSample normalises a WAVE sample of the given depth. 8-bit WAVE is unsigned.
func pcmToSample(q, bitDepth int) float32 {
	if bitDepth == 8 {
		return float32(q-128) / 128
	}
	return signedToSample(q, bitDepth)
}

func signedToSample(q, bitDepth int) float32 {
	if bitDepth == 16 {
		return int16ToSample(q)
	}
	return float32(float64(q) / float64(int64(1)<<(bitDepth-1)))
}
