// Command notifier is a dashboard companion: it behaves like one client
// session of the notification subsystem. It opens a delivery channel to the
// hub, runs the reconciling poller against the REST API, and surfaces new
// notifications as native desktop alerts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/portosite/backend/internal/auth"
	"github.com/portosite/backend/internal/config"
	"github.com/portosite/backend/pkg/notify"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", "http://localhost:8080", "base URL of the portfolio API")
	wsURL := flag.String("ws", "ws://localhost:8080/api/ws", "WebSocket URL of the broadcast hub")
	token := flag.String("token", "", "bearer token (minted from JWT_SECRET when empty)")
	interval := flag.Duration("interval", 0, "poll interval (default from POLL_INTERVAL or 5s)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	pollInterval := cfg.Notify.PollInterval
	if *interval > 0 {
		pollInterval = *interval
	}

	sessionToken := *token
	if sessionToken == "" {
		jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry)
		sessionToken, err = jwtManager.GenerateToken(uuid.New(), "notifier@localhost")
		if err != nil {
			logger.Fatal("Failed to mint session token", zap.Error(err))
		}
	}

	store := notify.NewStore()
	surfacer := notify.NewDesktopSurfacer(logger, nil)
	surfacer.RequestPermission()

	client := notify.NewClient(*apiURL, sessionToken)
	poller := notify.NewPoller(client, store, surfacer, pollInterval, logger)
	listener := notify.NewListener(*wsURL, sessionToken, store, surfacer, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The push channel is best-effort; a failed dial just means the poller
	// carries all delivery.
	if err := listener.Start(ctx); err != nil {
		logger.Warn("delivery channel unavailable, polling only", zap.Error(err))
	}
	poller.Start(ctx)

	logger.Info("notifier running",
		zap.String("api", *apiURL),
		zap.Duration("poll_interval", pollInterval),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	status := time.NewTicker(time.Minute)
	defer status.Stop()

	for {
		select {
		case <-quit:
			logger.Info("Shutting down notifier...")
			poller.Stop()
			listener.Stop()
			return
		case <-status.C:
			logger.Info("session state",
				zap.Int("known", len(store.List())),
				zap.Int("unread", store.UnreadCount()),
			)
		}
	}
}
