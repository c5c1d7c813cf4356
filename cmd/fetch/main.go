// Command fetch downloads heroes, hero stats, match lists and match details
// from OpenDota into DATA_DIR.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/config"
	"github.com/dotameta/metalab/internal/dataio"
	"github.com/dotameta/metalab/internal/logging"
	"github.com/dotameta/metalab/internal/models"
	"github.com/dotameta/metalab/internal/opendota"
)

type options struct {
	proLimit    int
	publicLimit int
	mmrBracket  int
	details     int
}

func main() {
	var opts options
	flag.IntVar(&opts.proLimit, "pro", 100, "Number of pro matches to list")
	flag.IntVar(&opts.publicLimit, "public", 100, "Number of public matches to list")
	flag.IntVar(&opts.mmrBracket, "mmr", -1, "Public match MMR bracket filter (0-8, -1 for none)")
	flag.IntVar(&opts.details, "details", 100, "Number of listed matches to fetch full details for")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Sugar().Errorw("Fetch failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *zap.Logger) error {
	log := logger.Sugar()
	client := opendota.NewClient(opendota.ClientConfig{
		BaseURL:           cfg.OpenDotaBaseURL,
		APIKey:            cfg.OpenDotaAPIKey,
		RequestsPerSecond: cfg.APIRateLimit,
		Timeout:           cfg.APITimeout,
		RateLimitWait:     cfg.RateLimitWait,
		Logger:            logger,
	})

	heroes, err := client.Heroes(ctx)
	if err != nil {
		return err
	}
	if err := save(log, cfg.DataDir, dataio.HeroesFile, heroes, len(heroes)); err != nil {
		return err
	}

	heroStats, err := client.HeroStats(ctx)
	if err != nil {
		return err
	}
	if err := save(log, cfg.DataDir, dataio.HeroStatsFile, heroStats, len(heroStats)); err != nil {
		return err
	}

	pro, err := client.ProMatches(ctx, opts.proLimit)
	if err != nil {
		return err
	}
	if err := save(log, cfg.DataDir, dataio.ProMatchesFile, pro, len(pro)); err != nil {
		return err
	}

	var bracket *int
	if opts.mmrBracket >= 0 {
		bracket = &opts.mmrBracket
	}
	public, err := client.PublicMatches(ctx, opts.publicLimit, bracket)
	if err != nil {
		return err
	}
	if err := save(log, cfg.DataDir, dataio.PublicMatchesFile, public, len(public)); err != nil {
		return err
	}

	ids := matchIDs(pro, public, opts.details)
	details, skipped, fetchErr := fetchDetails(ctx, client, log, ids)
	// Keep whatever was fetched before a failure
	if err := save(log, cfg.DataDir, dataio.MatchDetailsFile, details, len(details)); err != nil {
		return err
	}
	if fetchErr != nil {
		return fetchErr
	}

	log.Infow("Data fetching complete",
		"heroes", len(heroes),
		"heroStats", len(heroStats),
		"proMatches", len(pro),
		"publicMatches", len(public),
		"detailedMatches", len(details),
		"skippedNotFound", skipped,
		"dir", cfg.DataDir,
	)
	return nil
}

// matchIDs returns up to n unique match ids, pro matches first.
func matchIDs(pro []models.ProMatch, public []models.PublicMatch, n int) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	add := func(id int64) {
		if len(ids) < n && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range pro {
		add(m.MatchID)
	}
	for _, m := range public {
		add(m.MatchID)
	}
	return ids
}

func fetchDetails(ctx context.Context, client *opendota.Client, log *zap.SugaredLogger, ids []int64) ([]models.MatchRecord, int, error) {
	details := make([]models.MatchRecord, 0, len(ids))
	skipped := 0
	for i, id := range ids {
		rec, err := client.MatchDetails(ctx, id)
		if errors.Is(err, opendota.ErrNotFound) {
			log.Warnw("Match not found, skipping", "match_id", id)
			skipped++
			continue
		}
		if err != nil {
			return details, skipped, err
		}
		details = append(details, *rec)
		if (i+1)%10 == 0 {
			log.Infow("Fetched match details", "done", i+1, "total", len(ids))
		}
	}
	return details, skipped, nil
}

func save(log *zap.SugaredLogger, dir, name string, v any, n int) error {
	path, err := dataio.SaveJSON(dir, name, v)
	if err != nil {
		return err
	}
	log.Infow("Saved", "path", path, "items", n)
	return nil
}
