package models

// DefaultDuration is the assumed match length in seconds when a prediction
// request omits it.
const DefaultDuration = 1800

// PredictRequest carries a pre-game or in-game match state for scoring.
// Hero IDs are sent as numbers but stored as floats since every field
// feeds the feature vector directly.
type PredictRequest struct {
	RadiantHero1 float64 `json:"radiant_hero_1"`
	RadiantHero2 float64 `json:"radiant_hero_2"`
	RadiantHero3 float64 `json:"radiant_hero_3"`
	RadiantHero4 float64 `json:"radiant_hero_4"`
	RadiantHero5 float64 `json:"radiant_hero_5"`
	DireHero1    float64 `json:"dire_hero_1"`
	DireHero2    float64 `json:"dire_hero_2"`
	DireHero3    float64 `json:"dire_hero_3"`
	DireHero4    float64 `json:"dire_hero_4"`
	DireHero5    float64 `json:"dire_hero_5"`
	Duration     float64 `json:"duration"`
	RadiantKills float64 `json:"radiant_kills"`
	DireKills    float64 `json:"dire_kills"`
	RadiantGold  float64 `json:"radiant_gold"`
	DireGold     float64 `json:"dire_gold"`
	RadiantXP    float64 `json:"radiant_xp"`
	DireXP       float64 `json:"dire_xp"`
}

// NewPredictRequest returns a request pre-filled with defaults so that
// absent fields keep them after unmarshaling.
func NewPredictRequest() *PredictRequest {
	return &PredictRequest{Duration: DefaultDuration}
}

// Fields returns the request keyed by JSON field name.
func (r *PredictRequest) Fields() map[string]float64 {
	refs := r.fieldRefs()
	out := make(map[string]float64, len(refs))
	for name, ref := range refs {
		out[name] = *ref
	}
	return out
}

func (r *PredictRequest) fieldRefs() map[string]*float64 {
	return map[string]*float64{
		"radiant_hero_1": &r.RadiantHero1,
		"radiant_hero_2": &r.RadiantHero2,
		"radiant_hero_3": &r.RadiantHero3,
		"radiant_hero_4": &r.RadiantHero4,
		"radiant_hero_5": &r.RadiantHero5,
		"dire_hero_1":    &r.DireHero1,
		"dire_hero_2":    &r.DireHero2,
		"dire_hero_3":    &r.DireHero3,
		"dire_hero_4":    &r.DireHero4,
		"dire_hero_5":    &r.DireHero5,
		"duration":       &r.Duration,
		"radiant_kills":  &r.RadiantKills,
		"dire_kills":     &r.DireKills,
		"radiant_gold":   &r.RadiantGold,
		"dire_gold":      &r.DireGold,
		"radiant_xp":     &r.RadiantXP,
		"dire_xp":        &r.DireXP,
	}
}

// PredictResponse is the scored outcome of a PredictRequest.
type PredictResponse struct {
	RadiantWinProbability float64 `json:"radiant_win_probability"`
	DireWinProbability    float64 `json:"dire_win_probability"`
	PredictedWinner       string  `json:"predicted_winner"` // "Radiant" or "Dire"
	Confidence            float64 `json:"confidence"`
	RunID                 string  `json:"run_id,omitempty"`
}
