// Command extract turns detailed match records into the processed feature
// CSV and logs a summary of hero and duration statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/analysis"
	"github.com/dotameta/metalab/internal/config"
	"github.com/dotameta/metalab/internal/dataio"
	"github.com/dotameta/metalab/internal/features"
	"github.com/dotameta/metalab/internal/logging"
	"github.com/dotameta/metalab/internal/models"
)

func main() {
	minGames := flag.Int("min-games", analysis.DefaultMinGames, "Minimum games for a hero win rate to be reported")
	top := flag.Int("top", 10, "Number of heroes listed per ranking")
	flag.Parse()

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

	if err := run(context.Background(), cfg, *minGames, *top, logger); err != nil {
		logger.Sugar().Errorw("Extract failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(_ context.Context, cfg *config.Config, minGames, top int, logger *zap.Logger) error {
	log := logger.Sugar()

	var records []models.MatchRecord
	if err := dataio.LoadJSON(cfg.DataDir, dataio.MatchDetailsFile, "cmd/fetch", &records); err != nil {
		return err
	}
	log.Infow("Loaded match records", "count", len(records))

	batch := features.ExtractAll(records)
	log.Infow("Extracted features",
		"total", batch.Total,
		"accepted", len(batch.Rows),
		"rejected", batch.Rejected,
		"features", features.Width,
	)
	if len(batch.Rows) == 0 {
		return fmt.Errorf("no usable matches in %s: every record was rejected", dataio.MatchDetailsFile)
	}

	if n := unknownHeroes(batch.Rows, cfg.NumHeroes); n > 0 {
		log.Warnw("Hero ids above NUM_HEROES; the catalogue may be out of date", "rows", n, "numHeroes", cfg.NumHeroes)
	}

	path, err := dataio.WriteFile(cfg.DataDir, dataio.ProcessedCSVFile, func(w io.Writer) error {
		return features.WriteCSV(w, batch.Rows)
	})
	if err != nil {
		return err
	}
	log.Infow("Saved processed matches", "path", path, "rows", len(batch.Rows))

	analysis.Analyze(batch.Rows, minGames, top).Log(log)
	return nil
}

// unknownHeroes counts rows holding a hero id above numHeroes.
func unknownHeroes(rows []features.Row, numHeroes int) int {
	n := 0
	for _, r := range rows {
		for slot := 0; slot < 2*models.TeamSize; slot++ {
			if int(r.Vector[slot]) > numHeroes {
				n++
				break
			}
		}
	}
	return n
}
