package audiomark

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Madmax729/netra-digital-ownership/pkg/mark"
	"github.com/mewkiz/flac"
	"github.com/tosone/minimp3"
)

// Decode reads a WAV, MP3 or FLAC stream. The container is chosen from the
// file extension, falling back to the leading magic bytes.
func Decode(r io.Reader, name string) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio file", mark.ErrInvalidInput)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return DecodeWAVBytes(data)
	case ".mp3":
		return DecodeMP3(data)
	case ".flac":
		return DecodeFLAC(bytes.NewReader(data))
	}

	switch {
	case bytes.HasPrefix(data, []byte("RIFF")):
		return DecodeWAVBytes(data)
	case bytes.HasPrefix(data, []byte("fLaC")):
		return DecodeFLAC(bytes.NewReader(data))
	case bytes.HasPrefix(data, []byte("ID3")), len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return DecodeMP3(data)
	}
	return nil, fmt.Errorf("%w: unrecognised audio container", mark.ErrCorruptContainer)
}

// DecodeMP3 decodes a whole MP3 file to interleaved 16-bit PCM.
func DecodeMP3(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty MP3", mark.ErrInvalidInput)
	}
	decoder, pcm, err := minimp3.DecodeFull(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode MP3: %v", mark.ErrCorruptContainer, err)
	}
	defer decoder.Close()

	if decoder.Channels < 1 || len(pcm) < 2 {
		return nil, fmt.Errorf("%w: MP3 contains no audio frames", mark.ErrCorruptContainer)
	}

	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		q := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		samples[i] = int16ToSample(int(q))
	}
	samples = samples[:len(samples)-len(samples)%decoder.Channels]
	return &Buffer{
		Samples:    samples,
		SampleRate: decoder.SampleRate,
		Channels:   decoder.Channels,
	}, nil
}

// DecodeFLAC decodes every frame of a FLAC stream.
func DecodeFLAC(r io.Reader) (*Buffer, error) {
	stream, err := flac.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse FLAC: %v", mark.ErrCorruptContainer, err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", mark.ErrUnsupportedChannels, channels)
	}
	if bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", mark.ErrCorruptContainer, bitDepth)
	}

	var samples []float32
	if stream.Info.NSamples > 0 {
		samples = make([]float32, 0, int(stream.Info.NSamples)*channels)
	}
	for {
		frame, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read FLAC frame: %v", mark.ErrCorruptContainer, err)
		}
		if err := frame.Parse(); err != nil {
			return nil, fmt.Errorf("%w: failed to parse FLAC frame: %v", mark.ErrCorruptContainer, err)
		}
		for i := 0; i < int(frame.BlockSize); i++ {
			for _, subframe := range frame.Subframes {
				samples = append(samples, signedToSample(int(subframe.Samples[i]), bitDepth))
			}
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: FLAC contains no samples", mark.ErrCorruptContainer)
	}

	return &Buffer{
		Samples:    samples,
		SampleRate: int(stream.Info.SampleRate),
		Channels:   channels,
	}, nil
}
