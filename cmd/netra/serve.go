package main

import (
	"os"

	"github.com/Madmax729/netra-digital-ownership/pkg/server"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveFlags struct {
		Addr    string
		Origins []string
	}
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the watermarking HTTP API",
	Long:  `Starts the HTTP API under /api/v1. The listen address defaults to $NETRA_ADDR, then :8080.`,
	Run: func(cmd *cobra.Command, args []string) {
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := server.New(server.Config{
			Addr:         serveFlags.Addr,
			AllowOrigins: serveFlags.Origins,
		})
		if err := srv.Run(cmd.Context()); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	},
}

func defaultAddr() string {
	if addr := os.Getenv("NETRA_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.Addr, "addr", defaultAddr(), "Address to listen on")
	serveCmd.Flags().StringSliceVar(&serveFlags.Origins, "allow-origin", []string{"*"}, "CORS origins allowed to call the API")
}
