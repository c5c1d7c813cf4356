// Package analysis summarizes extracted matches: hero popularity, hero win
// rates and how game length relates to the winning side.
package analysis

import (
	"sort"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/features"
	"github.com/dotameta/metalab/internal/models"
)

const (
	// DefaultMinGames is the sample size below which a hero's win rate is not reported.
	DefaultMinGames = 5
	// ShortGameSeconds separates short from long games.
	ShortGameSeconds = 1800
)

// Report is the outcome of Analyze. Rates are percentages.
type Report struct {
	Matches        int                  `json:"matches"`
	RadiantWinRate float64              `json:"radiant_win_rate"`
	TopPicked      []models.HeroMeta    `json:"top_picked"`
	TopWinRate     []models.HeroMeta    `json:"top_win_rate"`
	AvgDuration    float64              `json:"avg_duration"`
	MedianDuration float64              `json:"median_duration"`
	Duration       models.DurationSplit `json:"duration_split"`
}

// Analyze builds a report over rows, listing top heroes by picks and by
// win rate among heroes with at least minGames games.
func Analyze(rows []features.Row, minGames, top int) Report {
	r := Report{Matches: len(rows)}
	if len(rows) == 0 {
		return r
	}

	stats := make(map[int]*models.HeroMeta)
	durations := make([]float64, 0, len(rows))
	var radiantWins int
	var short, long bucket

	durIdx, _ := features.Index("duration")
	for _, row := range rows {
		radiantWon := row.Label == features.RadiantWin
		if radiantWon {
			radiantWins++
		}
		for slot := 0; slot < 2*models.TeamSize; slot++ {
			hero := int(row.Vector[slot])
			h, ok := stats[hero]
			if !ok {
				h = &models.HeroMeta{HeroID: hero}
				stats[hero] = h
			}
			h.Picks++
			if (slot < models.TeamSize) == radiantWon {
				h.Wins++
			}
		}

		d := row.Vector[durIdx]
		durations = append(durations, d)
		if d < ShortGameSeconds {
			short.add(radiantWon)
		} else {
			long.add(radiantWon)
		}
	}

	r.RadiantWinRate = percent(uint64(radiantWins), uint64(len(rows)))

	all := make([]models.HeroMeta, 0, len(stats))
	for _, h := range stats {
		h.WinRate = percent(h.Wins, h.Picks)
		all = append(all, *h)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Picks != all[j].Picks {
			return all[i].Picks > all[j].Picks
		}
		return all[i].HeroID < all[j].HeroID
	})
	r.TopPicked = head(all, top)

	eligible := make([]models.HeroMeta, 0, len(all))
	for _, h := range all {
		if h.Picks >= uint64(minGames) {
			eligible = append(eligible, h)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].WinRate > eligible[j].WinRate })
	r.TopWinRate = head(eligible, top)

	r.AvgDuration, r.MedianDuration = meanMedian(durations)
	r.Duration = models.DurationSplit{
		ThresholdSeconds: ShortGameSeconds,
		Short:            short.result("short"),
		Long:             long.result("long"),
	}
	return r
}

// Log writes the report in the order an operator reads it.
func (r Report) Log(logger *zap.SugaredLogger) {
	logger.Infow("Match summary",
		"matches", r.Matches,
		"radiantWinRate", r.RadiantWinRate,
		"avgDurationMin", r.AvgDuration/60,
		"medianDurationMin", r.MedianDuration/60,
	)
	for _, h := range r.TopPicked {
		logger.Infow("Most picked hero", "hero", h.HeroID, "picks", h.Picks, "winRate", h.WinRate)
	}
	for _, h := range r.TopWinRate {
		logger.Infow("Highest win rate hero", "hero", h.HeroID, "winRate", h.WinRate, "games", h.Picks)
	}
	logger.Infow("Radiant win rate by duration",
		"shortMatches", r.Duration.Short.Matches,
		"shortRadiantWinRate", r.Duration.Short.RadiantWinRate,
		"longMatches", r.Duration.Long.Matches,
		"longRadiantWinRate", r.Duration.Long.RadiantWinRate,
	)
}

type bucket struct {
	matches, radiantWins uint64
}

func (b *bucket) add(radiantWon bool) {
	b.matches++
	if radiantWon {
		b.radiantWins++
	}
}

func (b bucket) result(label string) models.DurationBucket {
	return models.DurationBucket{
		Label:          label,
		Matches:        b.matches,
		RadiantWinRate: percent(b.radiantWins, b.matches),
	}
}

func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func head(xs []models.HeroMeta, n int) []models.HeroMeta {
	if n > 0 && len(xs) > n {
		return xs[:n]
	}
	return xs
}

func meanMedian(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	var sum float64
	for _, x := range sorted {
		sum += x
	}
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return sum / float64(len(sorted)), median
}
