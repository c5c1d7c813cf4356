package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/dotameta/metalab/internal/models"
)

type matchStore struct {
	pg PgPool
}

// NewMatchStore returns a MatchStore backed by Postgres.
func NewMatchStore(pg PgPool) MatchStore {
	return &matchStore{pg: pg}
}

// MatchStats counts stored matches by winner along with processed rows and
// recorded model versions. The win rate is a percentage.
func (s *matchStore) MatchStats(ctx context.Context) (*models.MatchStats, error) {
	stats := &models.MatchStats{}
	err := s.pg.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM matches),
			(SELECT count(*) FROM matches WHERE radiant_win),
			(SELECT count(*) FROM processed_features),
			(SELECT count(*) FROM model_metadata)
	`).Scan(&stats.TotalMatches, &stats.RadiantWins, &stats.ProcessedMatches, &stats.ModelVersions)
	if err != nil {
		return nil, fmt.Errorf("match stats query failed: %w", err)
	}

	stats.DireWins = stats.TotalMatches - stats.RadiantWins
	if stats.TotalMatches > 0 {
		stats.RadiantWinRate = float64(stats.RadiantWins) / float64(stats.TotalMatches) * 100
	}
	return stats, nil
}

// TopHeroes unwinds every stored player and returns the most played heroes
// with average kills, deaths and assists rounded to two decimals.
func (s *matchStore) TopHeroes(ctx context.Context, limit int) ([]models.HeroAggregate, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT
			(p->>'hero_id')::int AS hero_id,
			count(*) AS games,
			avg(COALESCE((p->>'kills')::float8, 0)) AS avg_kills,
			avg(COALESCE((p->>'deaths')::float8, 0)) AS avg_deaths,
			avg(COALESCE((p->>'assists')::float8, 0)) AS avg_assists
		FROM matches m
		CROSS JOIN LATERAL jsonb_array_elements(m.doc->'players') AS p
		WHERE p ? 'hero_id'
		GROUP BY hero_id
		ORDER BY games DESC, hero_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top heroes query failed: %w", err)
	}
	defer rows.Close()

	heroes := []models.HeroAggregate{}
	for rows.Next() {
		var h models.HeroAggregate
		if err := rows.Scan(&h.HeroID, &h.Games, &h.AvgKills, &h.AvgDeaths, &h.AvgAssists); err != nil {
			return nil, fmt.Errorf("failed to scan hero row: %w", err)
		}
		h.AvgKills = round2(h.AvgKills)
		h.AvgDeaths = round2(h.AvgDeaths)
		h.AvgAssists = round2(h.AvgAssists)
		heroes = append(heroes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hero row iteration failed: %w", err)
	}
	return heroes, nil
}

// LatestModel returns the most recently stored model metadata, or ErrNotFound.
func (s *matchStore) LatestModel(ctx context.Context) (*models.ModelMetadata, error) {
	var doc []byte
	err := s.pg.QueryRow(ctx, `
		SELECT doc FROM model_metadata ORDER BY stored_at DESC, id DESC LIMIT 1
	`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest model query failed: %w", err)
	}

	var meta models.ModelMetadata
	if err := json.Unmarshal(doc, &meta); err != nil {
		return nil, fmt.Errorf("decode model metadata: %w", err)
	}
	return &meta, nil
}

// InsertModelMetadata appends a training run. Earlier runs are kept.
func (s *matchStore) InsertModelMetadata(ctx context.Context, meta *models.ModelMetadata) error {
	doc, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode model metadata: %w", err)
	}
	_, err = s.pg.Exec(ctx, `
		INSERT INTO model_metadata (run_id, trained_at, num_matches, doc)
		VALUES ($1, $2, $3, $4)
	`, meta.RunID, meta.TrainedAt, meta.NumMatches, doc)
	if err != nil {
		return fmt.Errorf("insert model metadata: %w", err)
	}
	return nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
