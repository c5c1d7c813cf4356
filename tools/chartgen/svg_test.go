package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/models"
)

func TestBarChartSVG(t *testing.T) {
	svg := barChartSVG("Picks & Wins", []bar{
		{Label: "Anti-Mage", Value: 10, Text: "10"},
		{Label: "<Axe>", Value: 5, Text: "5"},
	}, "#fff")

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if !strings.Contains(svg, "Picks &amp; Wins") {
		t.Error("title not escaped")
	}
	if !strings.Contains(svg, "&lt;Axe&gt;") {
		t.Error("label not escaped")
	}
	// Tallest bar spans the full plot height
	if !strings.Contains(svg, `height="300" fill="#fff"`) {
		t.Error("max bar should be 300px tall")
	}
	if !strings.Contains(svg, `height="150" fill="#fff"`) {
		t.Error("half bar should be 150px tall")
	}
}

func TestBarChartSVG_Empty(t *testing.T) {
	svg := barChartSVG("Nothing", nil, "#fff")
	if strings.Contains(svg, "rx=\"4\"") {
		t.Error("empty chart should have no bars")
	}
}

func TestWinRateBars_Labels(t *testing.T) {
	heroes := []models.HeroMeta{{HeroID: 1, WinRate: 55.4}, {HeroID: 999, WinRate: 40}}
	bars := winRateBars(heroes, map[int]string{1: "Anti-Mage"})

	if bars[0].Label != "Anti-Mage" || bars[0].Text != "55.4%" {
		t.Errorf("bar 0 = %+v", bars[0])
	}
	if bars[1].Label != "Hero 999" {
		t.Errorf("unknown hero label = %q", bars[1].Label)
	}
}

func TestSaveChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	log := zap.NewNop().Sugar()

	if err := saveChart(dir, "empty.svg", "Empty", nil, "#fff", log); err != nil {
		t.Fatalf("saveChart(empty) = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.svg")); !os.IsNotExist(err) {
		t.Error("empty chart should not be written")
	}

	bars := []bar{{Label: "Axe", Value: 3, Text: "3"}}
	if err := saveChart(dir, "picks.svg", "Picks", bars, "#fff", log); err != nil {
		t.Fatalf("saveChart = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "picks.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Axe") {
		t.Errorf("chart missing label: %s", data)
	}
}

func TestHeroNames_MissingCatalog(t *testing.T) {
	if names := heroNames(t.TempDir(), zap.NewNop().Sugar()); names != nil {
		t.Errorf("heroNames() = %v, want nil", names)
	}
}
