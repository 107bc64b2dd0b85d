package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

type EmbedArgs struct {
	ImagePath  *string
	Passphrase *string
	Output     *string
	Strength   *float64
	Alpha      *float64
}

type VerifyArgs struct {
	ImagePath  *string
	Passphrase *string
	Strength   *float64
	Alpha      *float64
}

// keyFromArgs derives the key and applies any positive overrides.
func keyFromArgs(passphrase *string, strength, alpha *float64) Key {
	var p string
	if passphrase != nil {
		p = *passphrase
	}
	key := GenerateKey(p)
	if strength != nil && *strength > 0 {
		key.Strength = *strength
	}
	if alpha != nil && *alpha > 0 {
		key.Alpha = *alpha
	}
	return key
}

// EmbedFile watermarks the image at ImagePath and writes a PNG to Output.
// An empty Output defaults to "<name>.watermarked.png" next to the input.
func EmbedFile(args *EmbedArgs) error {
	img, err := LoadImage(*args.ImagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if *args.Output == "" {
		base := strings.TrimSuffix(*args.ImagePath, filepath.Ext(*args.ImagePath))
		*args.Output = base + ".watermarked.png"
	}

	key := keyFromArgs(args.Passphrase, args.Strength, args.Alpha)
	log.Debug().Int64("seed", key.Seed).Float64("strength", key.Strength).Float64("alpha", key.Alpha).Msg("Derived image key")

	out, err := Embed(img, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*args.Output), 0755); err != nil {
		return err
	}
	return SavePNG(*args.Output, out)
}

// VerifyFile runs detection on the image at ImagePath.
func VerifyFile(args *VerifyArgs) (Result, error) {
	img, err := LoadImage(*args.ImagePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load image: %w", err)
	}
	return Extract(img, keyFromArgs(args.Passphrase, args.Strength, args.Alpha))
}
