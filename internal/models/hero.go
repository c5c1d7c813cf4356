package models

// Hero is an entry of GET /heroes.
type Hero struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	LocalizedName string   `json:"localized_name"`
	PrimaryAttr   string   `json:"primary_attr"`
	AttackType    string   `json:"attack_type"`
	Roles         []string `json:"roles"`
	Legs          int      `json:"legs"`
}

// HeroStat is an entry of GET /heroStats. Only the professional-scene
// counters are modeled; bracket counters are left to the raw files.
type HeroStat struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LocalizedName string `json:"localized_name"`
	ProPick       int    `json:"pro_pick"`
	ProWin        int    `json:"pro_win"`
	ProBan        int    `json:"pro_ban"`
	TurboPicks    int    `json:"turbo_picks"`
	TurboWins     int    `json:"turbo_wins"`
}

// HeroAggregate is the per-hero stat line served by GET /heroes.
type HeroAggregate struct {
	HeroID     int     `json:"hero_id"`
	Games      int64   `json:"games"`
	AvgKills   float64 `json:"avg_kills"`
	AvgDeaths  float64 `json:"avg_deaths"`
	AvgAssists float64 `json:"avg_assists"`
}

// HeroMeta is a hero's pick count and win rate across stored matches.
type HeroMeta struct {
	HeroID  int     `json:"hero_id"`
	Picks   uint64  `json:"picks"`
	Wins    uint64  `json:"wins"`
	WinRate float64 `json:"win_rate"`
}
