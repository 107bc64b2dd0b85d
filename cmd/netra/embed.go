package main

import (
	"fmt"

	"github.com/Madmax729/netra-digital-ownership/pkg/audiomark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	embedFlags struct {
		Input    string
		Pass     string
		Out      string
		Strength float64
		Alpha    float64
		Delay    int
	}
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed an invisible ownership watermark",
	Long: `Derives a key from the passphrase and embeds a 64-bit watermark.
Images are written as PNG, audio as 16-bit WAV, and videos (a frame directory,
or a container when built with -tags opencv) as a frame directory or container.`,
	Run: func(cmd *cobra.Command, args []string) {
		if embedFlags.Pass == "" {
			log.Fatal().Msg("passphrase cannot be empty")
		}
		if embedFlags.Strength < 0 || embedFlags.Strength > 1 {
			log.Fatal().Msg("strength must be between 0 and 1")
		}

		kind := detectKind(embedFlags.Input)
		log.Debug().Str("input", embedFlags.Input).Stringer("kind", kind).Msg("Detected media")

		var err error
		switch kind {
		case kindImage:
			err = watermark.EmbedFile(&watermark.EmbedArgs{
				ImagePath:  &embedFlags.Input,
				Passphrase: &embedFlags.Pass,
				Output:     &embedFlags.Out,
				Strength:   &embedFlags.Strength,
				Alpha:      &embedFlags.Alpha,
			})
		case kindAudio:
			err = audiomark.EmbedFile(&audiomark.EmbedArgs{
				AudioPath:  &embedFlags.Input,
				Passphrase: &embedFlags.Pass,
				Output:     &embedFlags.Out,
				Strength:   &embedFlags.Strength,
				Delay:      &embedFlags.Delay,
			})
		case kindVideo:
			err = embedVideo(cmd.Context(), embedFlags.Input, &embedFlags.Out, videoKey(embedFlags.Pass, embedFlags.Strength, embedFlags.Alpha))
		default:
			err = fmt.Errorf("cannot tell whether %s is an image, audio or video", embedFlags.Input)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to embed watermark")
		}

		log.Info().Str("output", embedFlags.Out).Msg("Watermark embedded")
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().StringVarP(&embedFlags.Input, "input", "i", "", "Path to image, audio, video or frame directory (required)")
	embedCmd.MarkFlagRequired("input")
	embedCmd.Flags().StringVarP(&embedFlags.Pass, "passphrase", "p", "", "Passphrase the watermark key is derived from (required)")
	embedCmd.MarkFlagRequired("passphrase")
	embedCmd.Flags().StringVarP(&embedFlags.Out, "output", "o", "", "Output path (default: <input>.watermarked.<ext>)")
	embedCmd.Flags().Float64VarP(&embedFlags.Strength, "strength", "s", 0, "Embedding strength in (0,1] (default: scheme constant)")
	embedCmd.Flags().Float64VarP(&embedFlags.Alpha, "alpha", "a", 0, "Image QIM step size (default: scheme constant)")
	embedCmd.Flags().IntVarP(&embedFlags.Delay, "delay", "d", 0, "Audio echo delay in samples (default: scheme constant)")
}
