// Command chartgen renders hero pick and win rate bar charts from the
// ClickHouse hero_picks table into DATA_DIR/charts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/config"
	"github.com/dotameta/metalab/internal/dataio"
	"github.com/dotameta/metalab/internal/logging"
	"github.com/dotameta/metalab/internal/logic"
	"github.com/dotameta/metalab/internal/models"
	"github.com/dotameta/metalab/internal/storage"
)

type options struct {
	minGames int
	top      int
}

func main() {
	var opts options
	flag.IntVar(&opts.minGames, "min-games", 5, "minimum picks for the win rate chart")
	flag.IntVar(&opts.top, "top", 10, "heroes per chart")
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
		logger.Sugar().Errorw("Chart generation failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *zap.Logger) error {
	log := logger.Sugar()

	if cfg.ClickHouseURL == "" {
		return errors.New("missing required environment variable: CLICKHOUSE_URL")
	}
	conn, err := storage.ConnectClickHouse(ctx, cfg.ClickHouseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	names := heroNames(cfg.DataDir, log)
	svc := logic.NewHeroMetaService(conn)
	outDir := filepath.Join(cfg.DataDir, "charts")

	picked, err := svc.HeroMeta(ctx, logic.HeroMetaQuery{MinGames: 1, Limit: opts.top, Sort: "picks"})
	if err != nil {
		return fmt.Errorf("query pick counts: %w", err)
	}
	if err := saveChart(outDir, "hero_picks.svg", "Most Picked Heroes", pickBars(picked, names), "#4a90e2", log); err != nil {
		return err
	}

	best, err := svc.HeroMeta(ctx, logic.HeroMetaQuery{MinGames: opts.minGames, Limit: opts.top, Sort: "win_rate"})
	if err != nil {
		return fmt.Errorf("query win rates: %w", err)
	}
	return saveChart(outDir, "hero_win_rates.svg", "Highest Win Rate Heroes", winRateBars(best, names), "#e74c3c", log)
}

func pickBars(heroes []models.HeroMeta, names map[int]string) []bar {
	bars := make([]bar, 0, len(heroes))
	for _, h := range heroes {
		bars = append(bars, bar{Label: label(h.HeroID, names), Value: float64(h.Picks), Text: strconv.FormatUint(h.Picks, 10)})
	}
	return bars
}

func winRateBars(heroes []models.HeroMeta, names map[int]string) []bar {
	bars := make([]bar, 0, len(heroes))
	for _, h := range heroes {
		bars = append(bars, bar{Label: label(h.HeroID, names), Value: h.WinRate, Text: fmt.Sprintf("%.1f%%", h.WinRate)})
	}
	return bars
}

func label(id int, names map[int]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Hero " + strconv.Itoa(id)
}

// heroNames reads the hero catalog written by cmd/fetch. Charts fall back to
// numeric labels when it is missing.
func heroNames(dataDir string, log *zap.SugaredLogger) map[int]string {
	var heroes []models.Hero
	if err := dataio.LoadJSON(dataDir, dataio.HeroesFile, "cmd/fetch", &heroes); err != nil {
		if !errors.Is(err, dataio.ErrMissingInput) {
			log.Warnw("Ignoring hero catalog", "error", err)
		}
		return nil
	}
	names := make(map[int]string, len(heroes))
	for _, h := range heroes {
		names[h.ID] = h.LocalizedName
	}
	return names
}

func saveChart(dir, name, title string, bars []bar, color string, log *zap.SugaredLogger) error {
	if len(bars) == 0 {
		log.Infow("No data for chart", "chart", name)
		return nil
	}
	path, err := dataio.WriteFile(dir, name, func(w io.Writer) error {
		_, err := io.WriteString(w, barChartSVG(title, bars, color))
		return err
	})
	if err != nil {
		return err
	}
	log.Infow("Chart generated", "path", path, "bars", len(bars))
	return nil
}
