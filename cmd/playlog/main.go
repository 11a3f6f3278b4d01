// Command playlog ingests the Spotify catalog and a user's listening
// history into PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pmoura/playlog/internal/auth"
	"github.com/pmoura/playlog/internal/config"
	"github.com/pmoura/playlog/internal/db"
	"github.com/pmoura/playlog/internal/export"
	"github.com/pmoura/playlog/internal/ingest"
	"github.com/pmoura/playlog/internal/logging"
	"github.com/pmoura/playlog/internal/spotify"
)

func main() {
	recentlyPlayed := flag.Bool("recently-played", false, "ingest the user's recently played tracks")
	extendedHistory := flag.Bool("extended-history", false, "ingest the extended streaming history export (takes a while)")
	verbose := flag.Bool("verbose", false, "log at debug level")
	flag.Parse()

	if !*recentlyPlayed && !*extendedHistory {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*recentlyPlayed, *extendedHistory, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(recentlyPlayed, extendedHistory, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.Setup(cfg.Log.Level, cfg.Log.Format, verbose)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	database, err := db.New(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Bootstrap(ctx); err != nil {
		return err
	}

	tokenFile, err := cfg.ResolveTokenFile()
	if err != nil {
		return err
	}
	authenticator := auth.New(auth.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURL:  cfg.Spotify.RedirectURL,
		TokenFile:    tokenFile,
	})
	httpClient, err := authenticator.Client(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	catalog := spotify.New(httpClient, log)
	service := ingest.New(database, catalog, log,
		ingest.WithFlushPause(cfg.History.FlushPause))

	log.Info("starting")

	if extendedHistory {
		records, err := export.LoadDir(cfg.History.ExportDir)
		if err != nil {
			return err
		}
		log.Info("loaded extended history export",
			"dir", cfg.History.ExportDir, "records", len(records))
		if _, err := service.IngestBulkHistory(ctx, records); err != nil {
			return err
		}
	}

	if recentlyPlayed {
		if _, err := service.IngestRecentlyPlayed(ctx); err != nil {
			return err
		}
	}

	// Both feeds can report the same physical listening event at slightly
	// different timestamps; collapse those to one canonical row.
	merged, err := database.History().MergeOverlapping(ctx)
	if err != nil {
		return err
	}
	if merged > 0 {
		log.Info("merged overlapping history rows", "rows", merged)
	}

	log.Info("finished")
	return nil
}
