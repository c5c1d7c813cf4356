package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/logic"
	"github.com/dotameta/metalab/internal/models"
)

func TestGetStats(t *testing.T) {
	tests := []struct {
		name           string
		store          logic.MatchStore
		expectedStatus int
	}{
		{
			name: "Success",
			store: &MockMatchStore{MatchStatsFunc: func(ctx context.Context) (*models.MatchStats, error) {
				return &models.MatchStats{TotalMatches: 4, RadiantWins: 3, DireWins: 1, RadiantWinRate: 75}, nil
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Store error",
			store: &MockMatchStore{MatchStatsFunc: func(ctx context.Context) (*models.MatchStats, error) {
				return nil, errors.New("db error")
			}},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "No store configured",
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(Config{Matches: tt.store, Logger: zap.NewNop()})

			w := httptest.NewRecorder()
			h.GetStats(w, httptest.NewRequest("GET", "/stats", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestGetHeroes_Limit(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{"Default", "", 20},
		{"Explicit", "?limit=5", 5},
		{"Max", "?limit=100", 100},
		{"Over max falls back", "?limit=500", 20},
		{"Garbage falls back", "?limit=abc", 20},
		{"Zero falls back", "?limit=0", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit int
			store := &MockMatchStore{TopHeroesFunc: func(ctx context.Context, limit int) ([]models.HeroAggregate, error) {
				gotLimit = limit
				return []models.HeroAggregate{{HeroID: 1, Games: 9, AvgKills: 5.25}}, nil
			}}
			h := New(Config{Matches: store})

			r := chi.NewRouter()
			r.Get("/heroes", h.GetHeroes)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/heroes"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if gotLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", gotLimit, tt.wantLimit)
			}
			var body struct {
				Heroes []models.HeroAggregate `json:"heroes"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if len(body.Heroes) != 1 || body.Heroes[0].AvgKills != 5.25 {
				t.Errorf("heroes = %+v", body.Heroes)
			}
		})
	}
}

func TestGetHeroMeta(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		disabled       bool
		wantQuery      logic.HeroMetaQuery
		expectedStatus int
	}{
		{
			name:           "Defaults",
			wantQuery:      logic.HeroMetaQuery{MinGames: 5, Limit: 10},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "All params",
			query:          "?min_games=20&limit=50&sort=win_rate&side=dire",
			wantQuery:      logic.HeroMetaQuery{MinGames: 20, Limit: 50, Sort: "win_rate", Side: "dire"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Injection attempt in sort",
			query:          "?sort=picks;DROP%20TABLE%20x",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Bad side",
			query:          "?side=both",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Non-numeric limit",
			query:          "?limit=ten",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Limit too large",
			query:          "?limit=1000",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Analytics disabled",
			disabled:       true,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logic.HeroMetaQuery
			cfg := Config{Logger: zap.NewNop()}
			if !tt.disabled {
				cfg.HeroMeta = &MockHeroMetaService{HeroMetaFunc: func(ctx context.Context, q logic.HeroMetaQuery) ([]models.HeroMeta, error) {
					got = q
					return []models.HeroMeta{{HeroID: 1, Picks: 30, Wins: 18, WinRate: 60}}, nil
				}}
			}
			h := New(cfg)

			w := httptest.NewRecorder()
			h.GetHeroMeta(w, httptest.NewRequest("GET", "/heroes/meta"+tt.query, nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && got != tt.wantQuery {
				t.Errorf("query = %+v, want %+v", got, tt.wantQuery)
			}
		})
	}
}

func TestSideAndDurationRoutes(t *testing.T) {
	meta := &MockHeroMetaService{
		SideComparisonFunc: func(ctx context.Context) (*models.SideStats, error) {
			return &models.SideStats{Radiant: models.SideTotals{Wins: 6, Losses: 4, WinRate: 60}}, nil
		},
		DurationSplitFunc: func(ctx context.Context) (*models.DurationSplit, error) {
			return nil, errors.New("timeout")
		},
	}
	srv := httptest.NewServer(New(Config{HeroMeta: meta}).Router([]string{"*"}))
	defer srv.Close()

	tests := []struct {
		path           string
		expectedStatus int
	}{
		{"/stats/sides", http.StatusOK},
		{"/stats/duration", http.StatusInternalServerError},
		{"/stats", http.StatusServiceUnavailable},
		{"/", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.expectedStatus)
			}
		})
	}
}
