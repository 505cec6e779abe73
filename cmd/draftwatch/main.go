package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kdahlin/draftwatch/internal/csvpool"
	"github.com/kdahlin/draftwatch/internal/feed"
	"github.com/kdahlin/draftwatch/internal/gateway"
	"github.com/kdahlin/draftwatch/internal/matcher"
	"github.com/kdahlin/draftwatch/internal/models"
	"github.com/kdahlin/draftwatch/internal/poller"
	"github.com/kdahlin/draftwatch/internal/session"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	setupLogging()

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	if config.Draft.ID == "" {
		log.Fatal().Msg("draft id is required (config draft.id or DRAFTWATCH_DRAFT_ID)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := setupSession(config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up session")
	}

	src := feed.NewSleeperClient(config.Draft.FeedBaseURL)

	var hub *gateway.Hub
	p := poller.New(src, matcher.NewSubstringMatcher(), sess, func(snap models.Snapshot) {
		hub.Broadcast(snap)
	})
	hub = gateway.NewHub(ctx, sess, p, gateway.DefaultConfig())

	if config.Poll.AutoStart {
		interval := time.Duration(config.Poll.IntervalSeconds) * time.Second
		if err := p.EnableAutoPoll(ctx, interval); err != nil {
			log.Fatal().Err(err).Msg("failed to enable auto-poll")
		}
	}

	server := setupServer(config, hub)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	p.DisableAutoPoll()
	p.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func setupLogging() {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if getEnv("LOG_PRETTY", "") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func setupSession(config *Config) (*session.Session, error) {
	sess := session.New(session.Settings{
		DraftID:           config.Draft.ID,
		UserID:            config.Draft.UserID,
		Seat:              config.Draft.Seat,
		UseTierForOverall: config.Pool.UseTierForOverall,
		KeepEmptyTiers:    config.Pool.KeepEmptyTiers,
	})

	f, err := os.Open(config.Pool.CSVPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	players, err := csvpool.Parse(f)
	if err != nil {
		return nil, err
	}
	if err := sess.Pool.Load(players, !config.Pool.UseTierForOverall); err != nil {
		return nil, err
	}

	log.Info().
		Int("players", len(players)).
		Str("csv", config.Pool.CSVPath).
		Msg("player pool loaded")
	return sess, nil
}

func setupServer(config *Config, hub *gateway.Hub) *http.Server {
	mux := http.NewServeMux()
	hub.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:    config.Server.Addr,
		Handler: c.Handler(mux),
	}
}
