package opendota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/models"
)

func newTestClient(t *testing.T, h http.Handler, apiKey string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		BaseURL:             srv.URL,
		APIKey:              apiKey,
		RequestsPerSecond:   1000,
		RateLimitWait:       time.Millisecond,
		MaxRateLimitRetries: 3,
		Logger:              zap.NewNop(),
	})
}

// proMatchPages serves total matches with descending ids in pages of PageSize.
func proMatchPages(total int, calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		start := int64(total)
		if v := r.URL.Query().Get("less_than_match_id"); v != "" {
			start, _ = strconv.ParseInt(v, 10, 64)
			start--
		}
		page := []models.ProMatch{}
		for id := start; id > 0 && len(page) < PageSize; id-- {
			page = append(page, models.ProMatch{MatchID: id})
		}
		_ = json.NewEncoder(w).Encode(page)
	}
}

func TestProMatches_TruncatesToLimit(t *testing.T) {
	var calls int32
	c := newTestClient(t, proMatchPages(1000, &calls), "")

	matches, err := c.ProMatches(context.Background(), 250)
	if err != nil {
		t.Fatalf("ProMatches error: %v", err)
	}
	if len(matches) != 250 {
		t.Fatalf("len = %d, want 250", len(matches))
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("requests = %d, want 3", n)
	}

	seen := make(map[int64]bool)
	for _, m := range matches {
		if seen[m.MatchID] {
			t.Fatalf("duplicate match %d across pages", m.MatchID)
		}
		seen[m.MatchID] = true
	}
	if matches[0].MatchID != 1000 || matches[249].MatchID != 751 {
		t.Errorf("range = %d..%d, want 1000..751", matches[0].MatchID, matches[249].MatchID)
	}
}

func TestProMatches_StopsOnShortPage(t *testing.T) {
	var calls int32
	c := newTestClient(t, proMatchPages(130, &calls), "")

	matches, err := c.ProMatches(context.Background(), 500)
	if err != nil {
		t.Fatalf("ProMatches error: %v", err)
	}
	if len(matches) != 130 {
		t.Errorf("len = %d, want 130", len(matches))
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("requests = %d, want 2", n)
	}
}

func TestProMatches_ZeroLimit(t *testing.T) {
	var calls int32
	c := newTestClient(t, proMatchPages(100, &calls), "")

	matches, err := c.ProMatches(context.Background(), 0)
	if err != nil {
		t.Fatalf("ProMatches error: %v", err)
	}
	if len(matches) != 0 || atomic.LoadInt32(&calls) != 0 {
		t.Errorf("got %d matches in %d requests, want none", len(matches), atomic.LoadInt32(&calls))
	}
}

func TestPublicMatches_SendsBracket(t *testing.T) {
	var bracket string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bracket = r.URL.Query().Get("mmr_bracket")
		_ = json.NewEncoder(w).Encode([]models.PublicMatch{{MatchID: 9, RadiantTeam: []int{1, 2, 3, 4, 5}}})
	}), "")

	b := 6
	matches, err := c.PublicMatches(context.Background(), 10, &b)
	if err != nil {
		t.Fatalf("PublicMatches error: %v", err)
	}
	if bracket != "6" {
		t.Errorf("mmr_bracket = %q, want 6", bracket)
	}
	if len(matches) != 1 || len(matches[0].RadiantTeam) != 5 {
		t.Errorf("unexpected matches: %+v", matches)
	}
}

func TestMatchDetails_RetriesOn429(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"match_id": 42, "radiant_win": true, "duration": 2000, "players": []}`)
	}), "")

	rec, err := c.MatchDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("MatchDetails error: %v", err)
	}
	if rec.MatchID != 42 || !rec.RadiantWin {
		t.Errorf("unexpected record: %+v", rec)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("requests = %d, want 3", n)
	}
}

func TestMatchDetails_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}), "")

	_, err := c.MatchDetails(context.Background(), 1)
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || !statusErr.RateLimited() {
		t.Fatalf("err = %v, want 429 HTTPStatusError", err)
	}
	if n := atomic.LoadInt32(&calls); n != 4 {
		t.Errorf("requests = %d, want 4 (1 + 3 retries)", n)
	}
}

func TestMatchDetails_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}), "")

	_, err := c.MatchDetails(context.Background(), 7)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestServerErrorIsNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}), "")

	_, err := c.Heroes(context.Background())
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502 HTTPStatusError", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestBearerHeader(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   string
	}{
		{"with key", "secret", "Bearer secret"},
		{"without key", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				fmt.Fprint(w, `[{"id": 1, "localized_name": "Anti-Mage", "pro_pick": 10, "pro_win": 6}]`)
			}), tt.apiKey)

			stats, err := c.HeroStats(context.Background())
			if err != nil {
				t.Fatalf("HeroStats error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
			if len(stats) != 1 || stats[0].ProWin != 6 {
				t.Errorf("unexpected stats: %+v", stats)
			}
		})
	}
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Heroes(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
