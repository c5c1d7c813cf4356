package models

// MatchStats summarizes the document store for GET /stats.
type MatchStats struct {
	TotalMatches     int64   `json:"total_matches"`
	RadiantWins      int64   `json:"radiant_wins"`
	DireWins         int64   `json:"dire_wins"`
	RadiantWinRate   float64 `json:"radiant_win_rate"`
	ProcessedMatches int64   `json:"processed_matches"`
	ModelVersions    int64   `json:"model_versions"`
}

// DurationBucket is the radiant win rate for matches in a duration range.
type DurationBucket struct {
	Label          string  `json:"label"`
	Matches        uint64  `json:"matches"`
	RadiantWinRate float64 `json:"radiant_win_rate"`
}

// DurationSplit compares short and long games.
type DurationSplit struct {
	ThresholdSeconds int            `json:"threshold_seconds"`
	Short            DurationBucket `json:"short"`
	Long             DurationBucket `json:"long"`
}

// SideTotals aggregates one side's results across stored matches.
type SideTotals struct {
	Wins    uint64  `json:"wins"`
	Losses  uint64  `json:"losses"`
	Kills   uint64  `json:"kills"`
	Deaths  uint64  `json:"deaths"`
	Assists uint64  `json:"assists"`
	KDRatio float64 `json:"kd_ratio"`
	WinRate float64 `json:"win_rate"`
}

// SideStats compares Radiant and Dire.
type SideStats struct {
	Radiant SideTotals `json:"radiant"`
	Dire    SideTotals `json:"dire"`
}
