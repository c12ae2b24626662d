package corpus

import "github.com/jonathan/learnscout/internal/types"

// Default caps applied to each FetchResult before hand-off.
const (
	DefaultBodyCap        = 2000
	DefaultCommentCap     = 10
	DefaultCommentBodyCap = 750
)

// Limits bounds the size of a trimmed FetchResult. Caps are counted in runes.
type Limits struct {
	BodyCap        int `json:"body_cap" validate:"gte=0"`
	CommentCap     int `json:"comment_cap" validate:"gte=0"`
	CommentBodyCap int `json:"comment_body_cap" validate:"gte=0"`
}

// DefaultLimits returns the standard caps.
func DefaultLimits() Limits {
	return Limits{
		BodyCap:        DefaultBodyCap,
		CommentCap:     DefaultCommentCap,
		CommentBodyCap: DefaultCommentBodyCap,
	}
}

// WithDefaults returns l with every zero cap replaced by its default.
func (l Limits) WithDefaults() Limits {
	defaults := DefaultLimits()
	if l.BodyCap <= 0 {
		l.BodyCap = defaults.BodyCap
	}
	if l.CommentCap <= 0 {
		l.CommentCap = defaults.CommentCap
	}
	if l.CommentBodyCap <= 0 {
		l.CommentBodyCap = defaults.CommentBodyCap
	}
	return l
}

// Trim shrinks a FetchResult: the item body and each comment body are truncated, only the
// first CommentCap comments are kept in original order, and every kept comment loses its
// replies. Items are never removed and applying Trim twice is a no-op.
func Trim(result types.FetchResult, limits Limits) types.FetchResult {
	result.Item.Body = truncate(result.Item.Body, limits.BodyCap)

	n := max(min(len(result.Comments), limits.CommentCap), 0)
	comments := make([]types.CommentNode, n)
	for i := 0; i < n; i++ {
		c := result.Comments[i]
		comments[i] = types.CommentNode{
			Author:  c.Author,
			Body:    truncate(c.Body, limits.CommentBodyCap),
			Depth:   c.Depth,
			Replies: []types.CommentNode{},
		}
	}
	result.Comments = comments
	return result
}

// TrimAll applies Trim to every result, preserving order.
func TrimAll(results []types.FetchResult, limits Limits) []types.FetchResult {
	trimmed := make([]types.FetchResult, len(results))
	for i, r := range results {
		trimmed[i] = Trim(r, limits)
	}
	return trimmed
}

// truncate cuts s to at most limit runes without splitting a multi-byte character.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
