package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/Madmax729/netra-digital-ownership/pkg/audiomark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verifyFlags struct {
		Input    string
		Pass     string
		Strength float64
		Alpha    float64
		Delay    int
		JSON     bool
	}
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check whether media carries the watermark for a passphrase",
	Long:  `Regenerates the expected payload from the passphrase and compares it with the bits extracted from the input. A missing watermark is reported, not treated as an error.`,
	Run: func(cmd *cobra.Command, args []string) {
		if verifyFlags.Pass == "" {
			log.Fatal().Msg("passphrase cannot be empty")
		}

		var (
			result any
			err    error
		)
		switch kind := detectKind(verifyFlags.Input); kind {
		case kindImage:
			result, err = watermark.VerifyFile(&watermark.VerifyArgs{
				ImagePath:  &verifyFlags.Input,
				Passphrase: &verifyFlags.Pass,
				Strength:   &verifyFlags.Strength,
				Alpha:      &verifyFlags.Alpha,
			})
		case kindAudio:
			result, err = audiomark.VerifyFile(&audiomark.VerifyArgs{
				AudioPath:  &verifyFlags.Input,
				Passphrase: &verifyFlags.Pass,
				Strength:   &verifyFlags.Strength,
				Delay:      &verifyFlags.Delay,
			})
		case kindVideo:
			result, err = verifyVideo(cmd.Context(), verifyFlags.Input, videoKey(verifyFlags.Pass, verifyFlags.Strength, verifyFlags.Alpha))
		default:
			err = fmt.Errorf("cannot tell whether %s is an image, audio or video", verifyFlags.Input)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Verification failed")
		}

		if verifyFlags.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				log.Fatal().Err(err).Msg("Failed to encode result")
			}
			return
		}
		printResult(result)
	},
}

func verdict(marked bool) string {
	if marked {
		return "✅ Watermark detected"
	}
	return "❌ No watermark for this passphrase"
}

func printResult(result any) {
	switch r := result.(type) {
	case watermark.Result:
		fmt.Println(verdict(r.IsWatermarked))
		fmt.Printf("Confidence:       %.2f%% (threshold %.0f%%)\n", r.Confidence*100, watermark.Threshold*100)
	case audiomark.VerificationResult:
		fmt.Println(verdict(r.IsWatermarked))
		fmt.Printf("Confidence:       %.2f%% (threshold %.0f%%)\n", r.Confidence*100, audiomark.Threshold*100)
		fmt.Printf("Bit Error Rate:   %.4f\n", r.BER)
		if math.IsInf(r.SNR, 0) || math.IsNaN(r.SNR) {
			fmt.Printf("SNR:              n/a\n")
		} else {
			fmt.Printf("SNR:              %.2f dB\n", r.SNR)
		}
		fmt.Printf("LSB:              %.2f\n", r.AlgorithmScores.LSB)
		fmt.Printf("AM:               %.2f\n", r.AlgorithmScores.AM)
		fmt.Printf("Echo:             %.2f\n", r.AlgorithmScores.Echo)
		fmt.Printf("Spread Spectrum:  %.2f\n", r.AlgorithmScores.SpreadSpectrum)
	default:
		printVideoResult(result)
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyFlags.Input, "input", "i", "", "Path to image, audio, video or frame directory (required)")
	verifyCmd.MarkFlagRequired("input")
	verifyCmd.Flags().StringVarP(&verifyFlags.Pass, "passphrase", "p", "", "Passphrase used when embedding (required)")
	verifyCmd.MarkFlagRequired("passphrase")
	verifyCmd.Flags().Float64VarP(&verifyFlags.Strength, "strength", "s", 0, "Strength used when embedding (default: scheme constant)")
	verifyCmd.Flags().Float64VarP(&verifyFlags.Alpha, "alpha", "a", 0, "Image QIM step size used when embedding (default: scheme constant)")
	verifyCmd.Flags().IntVarP(&verifyFlags.Delay, "delay", "d", 0, "Audio echo delay used when embedding (default: scheme constant)")
	verifyCmd.Flags().BoolVar(&verifyFlags.JSON, "json", false, "Print the result as JSON")
}
