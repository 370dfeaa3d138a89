// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gh "github.com/gorilla/handlers"
	"github.com/jason-s-yu/cardhub/internal/auth"
	"github.com/jason-s-yu/cardhub/internal/cache"
	"github.com/jason-s-yu/cardhub/internal/config"
	"github.com/jason-s-yu/cardhub/internal/handlers"
	"github.com/jason-s-yu/cardhub/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.Level())

	ttl, err := cfg.TokenTTL()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if err := auth.Init(ttl); err != nil {
		logger.Fatalf("auth: %v", err)
	}

	if cfg.HistorianOn {
		if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.HistorianKey); err != nil {
			logger.WithError(err).Warn("historian disabled, room actions will not be published")
		} else {
			logger.Infof("publishing room actions to redis list %q", cache.QueueName)
			defer cache.Close()
		}
	}

	rs := handlers.NewRoomServer(logger, cfg.BotThinkDelay)
	logged := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()
	mux.Handle("/auth/guest", logged(http.HandlerFunc(handlers.GuestHandler)))
	mux.Handle("/room/create", logged(handlers.CreateRoomHandler(rs)))
	mux.Handle("/room/list", logged(handlers.ListRoomsHandler(rs)))
	mux.Handle("/room/ws/", logged(handlers.RoomWSHandler(logger, rs)))

	handler := gh.RecoveryHandler(gh.RecoveryLogger(logger))(
		gh.CORS(
			gh.AllowedOrigins(cfg.Origins()),
			gh.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			gh.AllowedHeaders([]string{"Content-Type"}),
			gh.AllowCredentials(),
		)(mux),
	)

	srv := &http.Server{Addr: cfg.Addr(), Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("Running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.RoomSweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := rs.Sweep(cfg.RoomSweep); n > 0 {
					logger.Infof("swept %d empty rooms", n)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
