package reddit

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/learnscout/internal/schemas"
	"github.com/jonathan/learnscout/internal/types"
)

// Lookback window settings for Search.
const (
	DefaultWindowYears = 5
	// UnboundedWindow disables the age cutoff.
	UnboundedWindow = -1

	daysInYear = 365
)

// Search runs one top-of-all-time query for topic, optionally scoped to communities, and
// drops items older than windowYears. A windowYears of 0 means DefaultWindowYears and a
// negative value means no cutoff.
//
// Search never returns an error: any network or parse failure is logged and yields an
// empty slice so a single failed query cannot abort the pipeline.
func (c *Client) Search(ctx context.Context, topic string, communities []string, windowYears int) []types.ContentItem {
	q := BuildQuery(topic, communities)

	query := url.Values{
		"q":     {q},
		"sort":  {"top"},
		"t":     {"all"},
		"limit": {strconv.Itoa(c.opts.SearchLimit)},
	}

	body, err := c.get(ctx, "/search.json", query)
	if err != nil {
		c.log.Warn("search request failed", zap.String("query", q), zap.Error(err))
		return []types.ContentItem{}
	}

	var page listing
	if err := schemas.Decode("search response", schemas.Listing, body, &page); err != nil {
		c.log.Warn("search response unusable", zap.String("query", q), zap.Error(err))
		return []types.ContentItem{}
	}

	cutoff := c.cutoff(windowYears)
	items := make([]types.ContentItem, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		if child.Kind != KindLink {
			continue
		}

		var data linkData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			c.log.Debug("skipping undecodable search result", zap.Error(err))
			continue
		}

		item := data.toItem()
		if err := item.Validate(); err != nil {
			c.log.Debug("skipping incomplete search result", zap.String("id", item.ID), zap.Error(err))
			continue
		}
		if !cutoff.IsZero() && item.CreatedAt.Before(cutoff) {
			continue
		}
		items = append(items, item)
	}

	c.log.Info("search finished",
		zap.String("query", truncateForLog(q, 70)),
		zap.Int("returned", len(page.Data.Children)),
		zap.Int("kept", len(items)),
		zap.Int("window_years", windowYears),
	)
	return items
}

// cutoff returns the oldest creation time kept, or the zero time when unbounded.
func (c *Client) cutoff(windowYears int) time.Time {
	if windowYears < 0 {
		return time.Time{}
	}
	if windowYears == 0 {
		windowYears = DefaultWindowYears
	}
	return c.now().AddDate(0, 0, -daysInYear*windowYears)
}

// truncateForLog keeps the first n runes of s.
func truncateForLog(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
