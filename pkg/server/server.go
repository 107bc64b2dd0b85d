package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxUploadMemory = 32 << 20

// Config holds the listener address and the CORS origins allowed to call the API.
type Config struct {
	Addr         string
	AllowOrigins []string
}

type Server struct {
	cfg    Config
	router *gin.Engine
}

func New(cfg Config) *Server {
	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(gin.Recovery(), requestLogger())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", headerPSNR, headerSNR}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")
	{
		api.GET("/health", health)
		api.GET("/keys", keys)

		img := api.Group("/image")
		{
			img.POST("/embed", imageEmbed)
			img.POST("/verify", imageVerify)
		}

		audio := api.Group("/audio")
		{
			audio.POST("/embed", audioEmbed)
			audio.POST("/verify", audioVerify)
		}
	}

	return &Server{cfg: cfg, router: router}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down API")
		return srv.Shutdown(shutdownCtx)
	}
}
