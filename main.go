package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/bot"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/config"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/game"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/httpserver"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/store"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/treehole"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("exited")
		os.Exit(1)
	}
}

// run wires the process and blocks until shutdown or the first failure.
func run(cfg *config.Config) error {
	dict, err := words.Load(words.Options{
		AnswersFile: cfg.AnswersFile,
		AllowedFile: cfg.AllowedFile,
		Salt:        cfg.DailySalt,
	})
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	a, g := dict.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("word lists loaded")

	archive := store.NewMemoryStore()
	if cfg.DBPath != "" {
		if archive, err = store.OpenSQLite(cfg.DBPath); err != nil {
			return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
		}
	}
	defer archive.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := treehole.Dial(ctx, treehole.Options{
		APIURL:   cfg.APIURL,
		Token:    cfg.Token,
		Identity: cfg.Identity,
	})
	if err != nil {
		return fmt.Errorf("connect to treehole %s: %w", cfg.APIURL, err)
	}
	defer client.Close()
	log.Info().Str("api", cfg.APIURL).Msg("connected")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	loop := bot.Config{
		ThreadID:     cfg.ThreadID,
		PollInterval: cfg.PollInterval,
		PageSize:     cfg.PageSize,
		Reward:       cfg.Reward,
		QuoteTrigger: cfg.ReplyToPost,
	}
	b := bot.New(client, game.NewSession(dict), loop,
		bot.WithArchive(archive),
		bot.WithMetrics(bot.NewMetrics(reg)),
		bot.WithLogger(log.Logger.With().Str("component", "bot").Logger()),
	)
	if err := b.Init(ctx); err != nil {
		return fmt.Errorf("read thread %d: %w", cfg.ThreadID, err)
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return b.Run(gctx) })

	if cfg.HTTPAddr != "" {
		srv := httpserver.New(b, httpserver.Options{
			ThreadID: cfg.ThreadID,
			Archive:  archive,
			Gatherer: reg,
			Words:    dict,
			Admin: httpserver.Admin{
				Username:     cfg.AdminUsername,
				PasswordHash: cfg.AdminPasswordHash,
				Secret:       cfg.JWTSecret,
				Expires:      cfg.JWTExpires,
			},
			Logger: log.Logger.With().Str("component", "http").Logger(),
		})
		log.Info().Str("addr", cfg.HTTPAddr).Msg("starting status server")
		grp.Go(func() error { return srv.Serve(gctx, cfg.HTTPAddr) })
	}

	if err := grp.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info().Uint64("floor", b.Snapshot().Cursor).Msg("stopped")
	return nil
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
