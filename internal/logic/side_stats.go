package logic

import (
	"context"
	"fmt"

	"github.com/dotameta/metalab/internal/models"
)

// SideComparison returns aggregated stats for Radiant vs Dire
// @Summary Side Comparison Stats
// @Description Get consolidated wins, kills, deaths and assists for Radiant vs Dire
// @Tags Heroes
// @Produce json
// @Success 200 {object} models.SideStats
// @Failure 500 {object} map[string]string "Internal Error"
// @Router /stats/sides [get]
func (s *heroMetaService) SideComparison(ctx context.Context) (*models.SideStats, error) {
	stats := &models.SideStats{}

	// Both sides in one pass using the -If combinators
	query := `
		SELECT
			-- Radiant
			uniqExactIf(match_id, is_radiant AND won) AS radiant_wins,
			uniqExactIf(match_id, is_radiant AND NOT won) AS radiant_losses,
			sumIf(kills, is_radiant) AS radiant_kills,
			sumIf(deaths, is_radiant) AS radiant_deaths,
			sumIf(assists, is_radiant) AS radiant_assists,
			-- Dire
			uniqExactIf(match_id, NOT is_radiant AND won) AS dire_wins,
			uniqExactIf(match_id, NOT is_radiant AND NOT won) AS dire_losses,
			sumIf(kills, NOT is_radiant) AS dire_kills,
			sumIf(deaths, NOT is_radiant) AS dire_deaths,
			sumIf(assists, NOT is_radiant) AS dire_assists
		FROM metalab.hero_picks FINAL
	`
	err := s.ch.QueryRow(ctx, query).Scan(
		&stats.Radiant.Wins, &stats.Radiant.Losses, &stats.Radiant.Kills, &stats.Radiant.Deaths, &stats.Radiant.Assists,
		&stats.Dire.Wins, &stats.Dire.Losses, &stats.Dire.Kills, &stats.Dire.Deaths, &stats.Dire.Assists,
	)
	if err != nil {
		return nil, fmt.Errorf("side comparison query failed: %w", err)
	}

	deriveSide(&stats.Radiant)
	deriveSide(&stats.Dire)
	return stats, nil
}

func deriveSide(t *models.SideTotals) {
	if t.Deaths > 0 {
		t.KDRatio = round2(float64(t.Kills) / float64(t.Deaths))
	} else {
		t.KDRatio = float64(t.Kills)
	}
	t.WinRate = percentOf(t.Wins, t.Wins+t.Losses)
}
