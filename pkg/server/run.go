package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a13labs/iptvdeck/pkg/logger"
	"github.com/a13labs/iptvdeck/pkg/playback"
	"github.com/a13labs/iptvdeck/pkg/source"
	"github.com/a13labs/iptvdeck/pkg/upstream"
)

// Run loads the configuration and serves the API until a termination signal
// arrives (SIGINT, SIGTERM).
func Run(configFile string) {
	if configFile == "" {
		configFile = "iptvdeck.json"
	}
	config := NewConfig(configFile).Data()
	logger.Init(config.LogFile)

	conn := upstream.NewConnection(nil, config.Timeout)
	srv := New(config, source.NewDirProvider(config.StreamsDir, config.Timeout), playback.NewHeadlessPlayer(conn))

	if err := srv.RefreshPlaylists(); err != nil {
		logger.Errorf("Failed to list playlists: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		logger.Infof("Server listening on :%d", config.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Server failed: %v", err)
		}
	}()

	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server shutdown.")
}
