package features

import (
	"errors"
	"fmt"

	"github.com/dotameta/metalab/internal/models"
)

// ErrIncompleteTeams is returned for records that are not exactly 5v5.
var ErrIncompleteTeams = errors.New("match does not have two full teams")

// Extract builds the feature vector and label for one match. Players are
// split by slot, heroes keep slot order, and kills, gold and experience are
// summed per side.
func Extract(rec models.MatchRecord) (Vector, Label, error) {
	var v Vector
	var radiant, dire []models.Player
	for _, p := range rec.Players {
		if p.IsRadiant() {
			radiant = append(radiant, p)
		} else {
			dire = append(dire, p)
		}
	}
	if len(radiant) != models.TeamSize || len(dire) != models.TeamSize {
		return v, DireWin, fmt.Errorf("match %d: %d radiant vs %d dire players: %w",
			rec.MatchID, len(radiant), len(dire), ErrIncompleteTeams)
	}

	var rk, dk, rg, dg, rx, dx int
	for i, p := range radiant {
		v[i] = float64(p.HeroID)
		rk += p.Kills
		rg += p.TotalGold
		rx += p.TotalXP
	}
	for i, p := range dire {
		v[models.TeamSize+i] = float64(p.HeroID)
		dk += p.Kills
		dg += p.TotalGold
		dx += p.TotalXP
	}

	v[10] = float64(rec.Duration)
	v[11] = float64(rk)
	v[12] = float64(dk)
	v[13] = float64(rg)
	v[14] = float64(dg)
	v[15] = float64(rx)
	v[16] = float64(dx)

	return v, LabelOf(rec.RadiantWin), nil
}

// Batch is the result of extracting many records.
type Batch struct {
	Rows     []Row
	Total    int
	Rejected int
}

// ExtractAll extracts every record, skipping and counting those that fail.
func ExtractAll(records []models.MatchRecord) Batch {
	b := Batch{Rows: make([]Row, 0, len(records)), Total: len(records)}
	for _, rec := range records {
		v, label, err := Extract(rec)
		if err != nil {
			b.Rejected++
			recordsRejected.WithLabelValues(rejectReason(err)).Inc()
			continue
		}
		b.Rows = append(b.Rows, Row{MatchID: rec.MatchID, Label: label, Vector: v})
		recordsExtracted.Inc()
	}
	return b
}

func rejectReason(err error) string {
	if errors.Is(err, ErrIncompleteTeams) {
		return "incomplete_teams"
	}
	return "other"
}
