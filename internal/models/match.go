package models

// RadiantSlotLimit separates the two sides: player_slot values below it are Radiant.
const RadiantSlotLimit = 128

// TeamSize is the number of players per side in a complete match.
const TeamSize = 5

// MatchRecord is one finished match as returned by GET /matches/{match_id}.
type MatchRecord struct {
	MatchID      int64    `json:"match_id"`
	RadiantWin   bool     `json:"radiant_win"`
	Duration     int      `json:"duration"`
	StartTime    int64    `json:"start_time"`
	GameMode     int      `json:"game_mode"`
	LobbyType    int      `json:"lobby_type"`
	RadiantScore int      `json:"radiant_score"`
	DireScore    int      `json:"dire_score"`
	Players      []Player `json:"players"`
}

// Player is a single participant's stat line within a match.
type Player struct {
	AccountID  *int64 `json:"account_id"`
	PlayerSlot int    `json:"player_slot"`
	HeroID     int    `json:"hero_id"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
	TotalGold  int    `json:"total_gold"`
	TotalXP    int    `json:"total_xp"`
	GoldPerMin int    `json:"gold_per_min"`
	XPPerMin   int    `json:"xp_per_min"`
	LastHits   int    `json:"last_hits"`
	Denies     int    `json:"denies"`
	HeroDamage int    `json:"hero_damage"`
	Level      int    `json:"level"`
}

// IsRadiant reports whether the player is on the first-enumerated side.
func (p Player) IsRadiant() bool {
	return p.PlayerSlot < RadiantSlotLimit
}

// ProMatch is a summary row from GET /proMatches.
type ProMatch struct {
	MatchID       int64  `json:"match_id"`
	Duration      int    `json:"duration"`
	StartTime     int64  `json:"start_time"`
	RadiantTeamID *int64 `json:"radiant_team_id"`
	RadiantName   string `json:"radiant_name"`
	DireTeamID    *int64 `json:"dire_team_id"`
	DireName      string `json:"dire_name"`
	LeagueID      int64  `json:"leagueid"`
	LeagueName    string `json:"league_name"`
	SeriesID      int64  `json:"series_id"`
	SeriesType    int    `json:"series_type"`
	RadiantScore  int    `json:"radiant_score"`
	DireScore     int    `json:"dire_score"`
	RadiantWin    bool   `json:"radiant_win"`
}

// PublicMatch is a summary row from GET /publicMatches.
type PublicMatch struct {
	MatchID     int64 `json:"match_id"`
	MatchSeqNum int64 `json:"match_seq_num"`
	RadiantWin  bool  `json:"radiant_win"`
	StartTime   int64 `json:"start_time"`
	Duration    int   `json:"duration"`
	LobbyType   int   `json:"lobby_type"`
	GameMode    int   `json:"game_mode"`
	AvgRankTier int   `json:"avg_rank_tier"`
	NumRankTier int   `json:"num_rank_tier"`
	Cluster     int   `json:"cluster"`
	RadiantTeam []int `json:"radiant_team"`
	DireTeam    []int `json:"dire_team"`
}
