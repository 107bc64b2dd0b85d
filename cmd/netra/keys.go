package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Madmax729/netra-digital-ownership/pkg/audiomark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var kPass string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the keys and payloads derived from a passphrase",
	Run: func(cmd *cobra.Command, args []string) {
		if kPass == "" {
			log.Fatal().Msg("passphrase cannot be empty")
		}
		imageKey := watermark.GenerateKey(kPass)
		audioKey := audiomark.GenerateKey(kPass)

		wtr := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(wtr, "Codec\tSeed\tStrength\tParameter\tPayload (hex)")
		fmt.Fprintln(wtr, "-----\t----\t--------\t---------\t-------------")
		fmt.Fprintf(wtr, "image\t%d\t%.2f\talpha=%.1f\t%s\n",
			imageKey.Seed, imageKey.Strength, imageKey.Alpha,
			watermark.GeneratePayload(imageKey, watermark.PayloadLength).Hex())
		fmt.Fprintf(wtr, "audio\t%q\t%.2f\tdelay=%d\t%s\n",
			audioKey.Seed, audioKey.Strength, audioKey.Delay,
			audiomark.GeneratePayload(audioKey, audiomark.PayloadLength).Hex())
		wtr.Flush()
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().StringVarP(&kPass, "passphrase", "p", "", "Passphrase to derive keys from (required)")
	keysCmd.MarkFlagRequired("passphrase")
}
