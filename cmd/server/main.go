package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bluedynamics/bdapoker/internal/config"
	"github.com/bluedynamics/bdapoker/internal/gateway"
	"github.com/bluedynamics/bdapoker/internal/room"
	"github.com/bluedynamics/bdapoker/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	tokens := token.NewStore(clock, time.Duration(cfg.TokenTTL))
	hub := gateway.NewHub(gateway.DefaultConnConfig())
	registry := room.NewRegistry(room.RegistryOptions{
		Sink:            hub,
		Tokens:          tokens,
		Clock:           clock,
		RoomGrace:       time.Duration(cfg.RoomGrace),
		DisconnectGrace: time.Duration(cfg.DisconnectGrace),
	})
	handler := gateway.NewHandler(registry, tokens, hub)
	srv := gateway.NewServer(cfg.Addr, cfg.AllowedOrigins, handler)

	go registry.Run(ctx)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}
