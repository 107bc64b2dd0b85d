package main

import (
	"fmt"

	"github.com/Madmax729/netra-digital-ownership/pkg/audiomark"
	"github.com/Madmax729/netra-digital-ownership/pkg/videomark"
	"github.com/Madmax729/netra-digital-ownership/pkg/watermark"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [path]",
	Short: "Show how a file maps onto the watermark codec",
	Long:  `Reports dimensions, block layout and watermark capacity for images, sample layout and bit block size for audio, and sampled frames for video.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		switch detectKind(path) {
		case kindImage:
			info, err := watermark.GetInfoFile(path)
			if err != nil {
				return fmt.Errorf("failed to get info from %s: %w", path, err)
			}
			fmt.Println("Image Information:")
			fmt.Println("------------------")
			fmt.Printf("Dimensions:       %dx%d\n", info.Width, info.Height)
			fmt.Printf("Luma Blocks:      %dx%d\n", info.BlockCols, info.BlockRows)
			fmt.Printf("Capacity:         %d coefficients\n", info.Capacity)
			fmt.Printf("Payload Length:   %d bits\n", info.PayloadLength)
			fmt.Printf("Compared Bits:    %d\n", info.ComparedBits)
		case kindAudio:
			buf, err := audiomark.LoadAudio(path)
			if err != nil {
				return fmt.Errorf("failed to get info from %s: %w", path, err)
			}
			info := audiomark.GetInfo(buf)
			fmt.Println("Audio Information:")
			fmt.Println("------------------")
			fmt.Printf("Sample Rate:      %d Hz\n", info.SampleRate)
			fmt.Printf("Channels:         %d\n", info.Channels)
			fmt.Printf("Duration:         %.2f s (%d frames)\n", info.Duration, info.Frames)
			fmt.Printf("Payload Length:   %d bits\n", info.PayloadLength)
			fmt.Printf("Block Size:       %d samples/bit\n", info.BlockSize)
		case kindVideo:
			src, err := videomark.Open(path)
			if err != nil {
				return fmt.Errorf("failed to get info from %s: %w", path, err)
			}
			defer src.Close()
			fmt.Println("Video Information:")
			fmt.Println("------------------")
			if n := src.Len(); n >= 0 {
				fmt.Printf("Frames:           %d\n", n)
				fmt.Printf("Marked Frames:    %d (every %d, repeated %d times)\n", (n+videomark.Cycle-1)/videomark.Cycle, videomark.Cycle, videomark.Repeats)
			} else {
				fmt.Printf("Frames:           unknown\n")
			}
		default:
			return fmt.Errorf("cannot tell whether %s is an image, audio or video", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
