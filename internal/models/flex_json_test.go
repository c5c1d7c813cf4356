package models

import (
	"encoding/json"
	"testing"
)

func TestFlexUnmarshal_AllStrings(t *testing.T) {
	input := `{"radiant_hero_1": "1", "radiant_hero_2": "2", "radiant_hero_3": "3", "radiant_hero_4": "4", "radiant_hero_5": "5", "dire_hero_1": "6", "dire_hero_2": "7", "dire_hero_3": "8", "dire_hero_4": "9", "dire_hero_5": "10", "duration": "2400.5", "radiant_kills": "25", "dire_kills": "18"}`

	req := NewPredictRequest()
	if err := json.Unmarshal([]byte(input), req); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if req.RadiantHero1 != 1 {
		t.Errorf("RadiantHero1 = %f, want 1", req.RadiantHero1)
	}
	if req.DireHero5 != 10 {
		t.Errorf("DireHero5 = %f, want 10", req.DireHero5)
	}
	if req.Duration != 2400.5 {
		t.Errorf("Duration = %f, want 2400.5", req.Duration)
	}
	if req.RadiantKills != 25 {
		t.Errorf("RadiantKills = %f, want 25", req.RadiantKills)
	}
	if req.RadiantGold != 0 {
		t.Errorf("RadiantGold = %f, want 0", req.RadiantGold)
	}
}

func TestFlexUnmarshal_NativeTypes(t *testing.T) {
	input := `{"radiant_hero_1": 1, "dire_hero_1": 6, "radiant_gold": 25000.5}`

	req := NewPredictRequest()
	if err := json.Unmarshal([]byte(input), req); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if req.RadiantGold != 25000.5 {
		t.Errorf("RadiantGold = %f, want 25000.5", req.RadiantGold)
	}
	if req.Duration != DefaultDuration {
		t.Errorf("Duration = %f, want default %d", req.Duration, DefaultDuration)
	}
}

func TestFlexUnmarshal_MixedKeepsDefaults(t *testing.T) {
	input := `{"radiant_hero_1": 1, "dire_hero_1": "6", "duration": null, "unknown": "x"}`

	req := NewPredictRequest()
	if err := json.Unmarshal([]byte(input), req); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if req.RadiantHero1 != 1 || req.DireHero1 != 6 {
		t.Errorf("heroes = %f/%f, want 1/6", req.RadiantHero1, req.DireHero1)
	}
	if req.Duration != DefaultDuration {
		t.Errorf("Duration = %f, want default %d", req.Duration, DefaultDuration)
	}
}

func TestFlexUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"radiant_hero_1": `},
		{"not a number", `{"radiant_hero_1": "abc"}`},
		{"array value", `{"radiant_hero_1": [1, 2]}`},
		{"bool value", `{"duration": true}`},
		{"not an object", `[1, 2]`},
		{"NaN string", `{"radiant_gold": "NaN"}`},
		{"infinite string", `{"dire_xp": "+Inf"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewPredictRequest()
			if err := json.Unmarshal([]byte(tt.input), req); err == nil {
				t.Errorf("expected error for %s", tt.input)
			}
		})
	}
}

func TestFlexUnmarshal_BlankStringKeepsDefault(t *testing.T) {
	req := NewPredictRequest()
	if err := json.Unmarshal([]byte(`{"duration": "  ", "radiant_kills": " 12 "}`), req); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if req.Duration != DefaultDuration {
		t.Errorf("Duration = %f, want default %d", req.Duration, DefaultDuration)
	}
	if req.RadiantKills != 12 {
		t.Errorf("RadiantKills = %f, want 12", req.RadiantKills)
	}
}

func TestPredictRequest_Fields(t *testing.T) {
	req := NewPredictRequest()
	req.DireXP = 12345

	fields := req.Fields()
	if len(fields) != 17 {
		t.Fatalf("len(Fields()) = %d, want 17", len(fields))
	}
	if fields["duration"] != DefaultDuration {
		t.Errorf("duration = %f, want %d", fields["duration"], DefaultDuration)
	}
	if fields["dire_xp"] != 12345 {
		t.Errorf("dire_xp = %f, want 12345", fields["dire_xp"])
	}
}

func TestPlayer_IsRadiant(t *testing.T) {
	tests := []struct {
		slot int
		want bool
	}{
		{0, true},
		{4, true},
		{127, true},
		{128, false},
		{132, false},
	}
	for _, tt := range tests {
		if got := (Player{PlayerSlot: tt.slot}).IsRadiant(); got != tt.want {
			t.Errorf("slot %d: IsRadiant() = %v, want %v", tt.slot, got, tt.want)
		}
	}
}
