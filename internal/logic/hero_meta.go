package logic

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/dotameta/metalab/internal/models"
)

// ShortGameSeconds separates short from long games.
const ShortGameSeconds = 1800

type heroMetaService struct {
	ch driver.Conn
}

// NewHeroMetaService returns a HeroMetaService reading metalab.hero_picks.
func NewHeroMetaService(ch driver.Conn) HeroMetaService {
	return &heroMetaService{ch: ch}
}

// HeroMeta returns pick counts and win rates (percent) per hero.
func (s *heroMetaService) HeroMeta(ctx context.Context, q HeroMetaQuery) ([]models.HeroMeta, error) {
	query, args, err := BuildHeroMetaQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("hero meta query failed: %w", err)
	}
	defer rows.Close()

	heroes := []models.HeroMeta{}
	for rows.Next() {
		var heroID uint16
		var h models.HeroMeta
		if err := rows.Scan(&heroID, &h.Picks, &h.Wins, &h.WinRate); err != nil {
			return nil, fmt.Errorf("failed to scan hero meta: %w", err)
		}
		h.HeroID = int(heroID)
		h.WinRate = round2(h.WinRate)
		heroes = append(heroes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hero meta row iteration failed: %w", err)
	}
	return heroes, nil
}

// DurationSplit compares the radiant win rate of short and long games.
func (s *heroMetaService) DurationSplit(ctx context.Context) (*models.DurationSplit, error) {
	split := &models.DurationSplit{
		ThresholdSeconds: ShortGameSeconds,
		Short:            models.DurationBucket{Label: "short"},
		Long:             models.DurationBucket{Label: "long"},
	}

	// One row per match: the radiant heroes carry the match outcome.
	var shortWins, longWins uint64
	err := s.ch.QueryRow(ctx, `
		SELECT
			countIf(duration < ?) AS short_matches,
			countIf(duration < ? AND won) AS short_wins,
			countIf(duration >= ?) AS long_matches,
			countIf(duration >= ? AND won) AS long_wins
		FROM (
			SELECT match_id, any(duration) AS duration, any(won) AS won
			FROM metalab.hero_picks FINAL
			WHERE is_radiant
			GROUP BY match_id
		)
	`, uint32(ShortGameSeconds), uint32(ShortGameSeconds), uint32(ShortGameSeconds), uint32(ShortGameSeconds)).
		Scan(&split.Short.Matches, &shortWins, &split.Long.Matches, &longWins)
	if err != nil {
		return nil, fmt.Errorf("duration split query failed: %w", err)
	}

	split.Short.RadiantWinRate = percentOf(shortWins, split.Short.Matches)
	split.Long.RadiantWinRate = percentOf(longWins, split.Long.Matches)
	return split, nil
}

func percentOf(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}
