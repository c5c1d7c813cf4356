package analysis

import (
	"testing"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/features"
)

func row(id int64, radiantWon bool, duration float64, radiant, dire [5]int) features.Row {
	r := features.Row{MatchID: id, Label: features.LabelOf(radiantWon)}
	for i := 0; i < 5; i++ {
		r.Vector[i] = float64(radiant[i])
		r.Vector[5+i] = float64(dire[i])
	}
	r.Vector[10] = duration
	return r
}

func TestAnalyze(t *testing.T) {
	rows := []features.Row{
		row(1, true, 1500, [5]int{1, 2, 3, 4, 5}, [5]int{6, 7, 8, 9, 10}),
		row(2, true, 2000, [5]int{1, 2, 3, 4, 11}, [5]int{6, 7, 8, 9, 12}),
		row(3, false, 2500, [5]int{6, 2, 3, 4, 13}, [5]int{1, 7, 8, 9, 14}),
		row(4, true, 1700, [5]int{1, 2, 3, 4, 15}, [5]int{6, 7, 8, 9, 16}),
		row(5, false, 3000, [5]int{1, 2, 3, 4, 17}, [5]int{6, 7, 8, 9, 18}),
	}

	r := Analyze(rows, DefaultMinGames, 10)

	if r.Matches != 5 {
		t.Errorf("Matches = %d, want 5", r.Matches)
	}
	if r.RadiantWinRate != 60 {
		t.Errorf("RadiantWinRate = %v, want 60", r.RadiantWinRate)
	}

	// Heroes 1,2,3,4,6,7,8,9 appear in every match.
	if len(r.TopPicked) != 10 || r.TopPicked[0].HeroID != 1 || r.TopPicked[0].Picks != 5 {
		t.Errorf("TopPicked[0] = %+v", r.TopPicked[0])
	}

	if len(r.TopWinRate) != 8 {
		t.Fatalf("TopWinRate has %d heroes, want 8 with >= 5 games", len(r.TopWinRate))
	}
	for _, h := range r.TopWinRate {
		if h.Picks < DefaultMinGames {
			t.Errorf("hero %d has %d games, below minimum", h.HeroID, h.Picks)
		}
	}
	// Hero 1 won matches 1, 2, 3 (as dire) and 4: 80%.
	if r.TopWinRate[0].HeroID != 1 || r.TopWinRate[0].WinRate != 80 {
		t.Errorf("TopWinRate[0] = %+v, want hero 1 at 80%%", r.TopWinRate[0])
	}

	if r.AvgDuration != 2140 || r.MedianDuration != 2000 {
		t.Errorf("durations avg %v median %v, want 2140/2000", r.AvgDuration, r.MedianDuration)
	}
	if r.Duration.Short.Matches != 2 || r.Duration.Short.RadiantWinRate != 100 {
		t.Errorf("short = %+v", r.Duration.Short)
	}
	if r.Duration.Long.Matches != 3 {
		t.Errorf("long = %+v", r.Duration.Long)
	}

	r.Log(zap.NewNop().Sugar())
}

func TestAnalyze_Empty(t *testing.T) {
	r := Analyze(nil, DefaultMinGames, 10)
	if r.Matches != 0 || len(r.TopPicked) != 0 {
		t.Errorf("unexpected report %+v", r)
	}
}
