package opendota

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dotameta/metalab/internal/models"
)

// PageSize is the number of rows the list endpoints return per page.
const PageSize = 100

// paginate walks a cursor-paged listing. Each page is requested with
// less_than_match_id set to the last id of the previous page. It stops on
// an empty or short page, or once limit rows are collected, and truncates
// to exactly limit.
func paginate[T any](ctx context.Context, limit int, fetch func(ctx context.Context, cursor int64) ([]T, error), id func(T) int64) ([]T, error) {
	if limit <= 0 {
		return []T{}, nil
	}

	out := make([]T, 0, limit)
	var cursor int64
	for len(out) < limit {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return out, err
		}
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		cursor = id(page[len(page)-1])
		if len(page) < PageSize {
			break
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ProMatches returns up to limit recent professional matches, newest first.
func (c *Client) ProMatches(ctx context.Context, limit int) ([]models.ProMatch, error) {
	c.logger.Infow("Fetching pro matches", "limit", limit)

	fetch := func(ctx context.Context, cursor int64) ([]models.ProMatch, error) {
		q := url.Values{}
		if cursor > 0 {
			q.Set("less_than_match_id", strconv.FormatInt(cursor, 10))
		}
		var page []models.ProMatch
		if err := c.getJSON(ctx, "proMatches", q, &page); err != nil {
			return nil, err
		}
		c.logger.Infow("Fetched pro match page", "rows", len(page), "cursor", cursor)
		return page, nil
	}

	matches, err := paginate(ctx, limit, fetch, func(m models.ProMatch) int64 { return m.MatchID })
	if err != nil {
		return nil, fmt.Errorf("fetch pro matches: %w", err)
	}
	return matches, nil
}

// PublicMatches returns up to limit recent public matches. mmrBracket, when
// set, restricts results to one skill bracket.
func (c *Client) PublicMatches(ctx context.Context, limit int, mmrBracket *int) ([]models.PublicMatch, error) {
	c.logger.Infow("Fetching public matches", "limit", limit, "mmrBracket", mmrBracket)

	fetch := func(ctx context.Context, cursor int64) ([]models.PublicMatch, error) {
		q := url.Values{}
		if mmrBracket != nil {
			q.Set("mmr_bracket", strconv.Itoa(*mmrBracket))
		}
		if cursor > 0 {
			q.Set("less_than_match_id", strconv.FormatInt(cursor, 10))
		}
		var page []models.PublicMatch
		if err := c.getJSON(ctx, "publicMatches", q, &page); err != nil {
			return nil, err
		}
		return page, nil
	}

	matches, err := paginate(ctx, limit, fetch, func(m models.PublicMatch) int64 { return m.MatchID })
	if err != nil {
		return nil, fmt.Errorf("fetch public matches: %w", err)
	}
	return matches, nil
}

// MatchDetails returns the full record of one match. A 404 yields an error
// matching ErrNotFound.
func (c *Client) MatchDetails(ctx context.Context, matchID int64) (*models.MatchRecord, error) {
	var rec models.MatchRecord
	if err := c.getJSON(ctx, "matches/"+strconv.FormatInt(matchID, 10), nil, &rec); err != nil {
		return nil, fmt.Errorf("fetch match %d: %w", matchID, err)
	}
	return &rec, nil
}

// Heroes returns the hero catalogue.
func (c *Client) Heroes(ctx context.Context) ([]models.Hero, error) {
	var heroes []models.Hero
	if err := c.getJSON(ctx, "heroes", nil, &heroes); err != nil {
		return nil, fmt.Errorf("fetch heroes: %w", err)
	}
	return heroes, nil
}

// HeroStats returns aggregate pick, win and ban counters per hero.
func (c *Client) HeroStats(ctx context.Context) ([]models.HeroStat, error) {
	var stats []models.HeroStat
	if err := c.getJSON(ctx, "heroStats", nil, &stats); err != nil {
		return nil, fmt.Errorf("fetch hero stats: %w", err)
	}
	return stats, nil
}
