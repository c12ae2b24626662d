package reddit

import (
	"encoding/json"
	"math"
	"time"

	"github.com/jonathan/learnscout/internal/corpus"
	"github.com/jonathan/learnscout/internal/types"
)

// Kind tags carried by every API object.
const (
	KindComment = "t1"
	KindLink    = "t3"
	KindMore    = "more"
)

// thing is the tagged envelope around every API object; Data is decoded according to Kind.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// listing is a page of things.
type listing struct {
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

// linkData is the payload of a t3 (submission).
type linkData struct {
	Title             string  `json:"title"`
	Selftext          string  `json:"selftext"`
	SelftextHTML      *string `json:"selftext_html"`
	SubredditPrefixed string  `json:"subreddit_name_prefixed"`
	Permalink         string  `json:"permalink"`
	URL               string  `json:"url"`
	Score             int     `json:"score"`
	CreatedUTC        float64 `json:"created_utc"`
}

// commentData is the payload of a t1 (comment). Replies is either "" or a nested listing.
type commentData struct {
	Author   string          `json:"author"`
	Body     string          `json:"body"`
	BodyHTML string          `json:"body_html"`
	Replies  json.RawMessage `json:"replies"`
}

// toItem converts a submission to a ContentItem keyed by its normalized permalink.
func (d linkData) toItem() types.ContentItem {
	body := d.Selftext
	if body == "" && d.SelftextHTML != nil {
		body = htmlToText(*d.SelftextHTML)
	}

	return types.ContentItem{
		ID:        corpus.NormalizeID(d.Permalink),
		Title:     d.Title,
		Body:      body,
		Community: d.SubredditPrefixed,
		Score:     d.Score,
		CreatedAt: unixSeconds(d.CreatedUTC),
		URL:       d.URL,
	}
}

func unixSeconds(ts float64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
