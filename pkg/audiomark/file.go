package audiomark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

type EmbedArgs struct {
	AudioPath  *string
	Passphrase *string
	Output     *string
	Strength   *float64
	Delay      *int
}

type VerifyArgs struct {
	AudioPath  *string
	Passphrase *string
	Strength   *float64
	Delay      *int
}

func keyFromArgs(passphrase *string, strength *float64, delay *int) Key {
	var p string
	if passphrase != nil {
		p = *passphrase
	}
	key := GenerateKey(p)
	if strength != nil && *strength > 0 {
		key.Strength = *strength
	}
	if delay != nil && *delay > 0 {
		key.Delay = *delay
	}
	return key
}

// LoadAudio decodes the WAV, MP3 or FLAC file at path.
func LoadAudio(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Decode(file, path)
}

// SaveWAV writes buf to path as 16-bit PCM.
func SaveWAV(path string, buf *Buffer) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeWAV(file, buf); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// EmbedFile watermarks the audio at AudioPath and writes a WAV to Output.
// An empty Output defaults to "<name>.watermarked.wav" next to the input.
func EmbedFile(args *EmbedArgs) error {
	buf, err := LoadAudio(*args.AudioPath)
	if err != nil {
		return fmt.Errorf("failed to load audio: %w", err)
	}

	if *args.Output == "" {
		base := strings.TrimSuffix(*args.AudioPath, filepath.Ext(*args.AudioPath))
		*args.Output = base + ".watermarked.wav"
	}

	key := keyFromArgs(args.Passphrase, args.Strength, args.Delay)
	log.Debug().
		Int("rate", buf.SampleRate).
		Int("channels", buf.Channels).
		Int("frames", buf.Frames()).
		Float64("strength", key.Strength).
		Int("delay", key.Delay).
		Msg("Loaded audio")

	marked, err := Embed(buf, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*args.Output), 0755); err != nil {
		return err
	}
	return SaveWAV(*args.Output, marked)
}

// VerifyFile runs fused detection on the audio at AudioPath.
func VerifyFile(args *VerifyArgs) (VerificationResult, error) {
	buf, err := LoadAudio(*args.AudioPath)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("failed to load audio: %w", err)
	}
	return Verify(buf, keyFromArgs(args.Passphrase, args.Strength, args.Delay))
}
