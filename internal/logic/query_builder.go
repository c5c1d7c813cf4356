package logic

import (
	"fmt"
	"strings"
)

// HeroMetaQuery holds parameters for the hero pick/win query
type HeroMetaQuery struct {
	MinGames int    `json:"min_games"`
	Limit    int    `json:"limit"`
	Sort     string `json:"sort"` // picks or win_rate
	Side     string `json:"side"` // radiant, dire or empty for both
}

// allowedSorts maps safe API values to SQL columns
var allowedSorts = map[string]string{
	"":         "picks",
	"picks":    "picks",
	"win_rate": "win_rate",
	"wins":     "wins",
}

// BuildHeroMetaQuery constructs a safe ClickHouse SQL query
func BuildHeroMetaQuery(q HeroMetaQuery) (string, []interface{}, error) {
	// 1. Validate sort column
	orderCol, ok := allowedSorts[q.Sort]
	if !ok {
		return "", nil, fmt.Errorf("invalid sort: %s", q.Sort)
	}

	// 2. Select clause
	var b strings.Builder
	b.WriteString(`SELECT hero_id, count() AS picks, countIf(won) AS wins, wins / picks * 100 AS win_rate
		FROM metalab.hero_picks FINAL`)
	var args []interface{}

	// 3. Side filter
	switch strings.ToLower(q.Side) {
	case "":
	case "radiant":
		b.WriteString(" WHERE is_radiant = ?")
		args = append(args, true)
	case "dire":
		b.WriteString(" WHERE is_radiant = ?")
		args = append(args, false)
	default:
		return "", nil, fmt.Errorf("invalid side: %s", q.Side)
	}

	// 4. Minimum sample size
	minGames := q.MinGames
	if minGames < 1 {
		minGames = 1
	}
	b.WriteString(" GROUP BY hero_id HAVING picks >= ?")
	args = append(args, uint64(minGames))

	// 5. Order and limit
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 10
	}
	fmt.Fprintf(&b, " ORDER BY %s DESC, hero_id ASC LIMIT %d", orderCol, limit)

	return b.String(), args, nil
}
