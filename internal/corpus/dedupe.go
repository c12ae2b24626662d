// Package corpus holds the pure transformations of the aggregation pipeline:
// identifier normalization, cross-query deduplication and payload trimming.
package corpus

import (
	"net/url"
	"strings"

	"github.com/jonathan/learnscout/internal/types"
)

// NormalizeID reduces a permalink or full URL to its path with no trailing slash.
// "https://www.reddit.com/r/go/comments/abc/x/" and "/r/go/comments/abc/x" normalize equally.
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)

	if strings.Contains(id, "://") {
		if parsed, err := url.Parse(id); err == nil {
			id = parsed.Path
		}
	} else if !strings.HasPrefix(id, "/") {
		// Host without scheme, e.g. "reddit.com/r/go/..."
		if slash := strings.Index(id, "/"); slash > 0 && strings.Contains(id[:slash], ".") {
			id = id[slash:]
		}
	}

	if cut := strings.IndexAny(id, "?#"); cut >= 0 {
		id = id[:cut]
	}
	for len(id) > 1 && strings.HasSuffix(id, "/") {
		id = strings.TrimSuffix(id, "/")
	}
	return id
}

// Dedupe merges result lists into a unique set keyed by normalized identifier.
// The first occurrence wins and first-seen order is kept across lists.
// Returned items carry the normalized identifier.
func Dedupe(lists ...[]types.ContentItem) []types.ContentItem {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	seen := make(map[string]bool, total)
	merged := make([]types.ContentItem, 0, total)

	for _, list := range lists {
		for _, item := range list {
			id := NormalizeID(item.ID)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			item.ID = id
			merged = append(merged, item)
		}
	}
	return merged
}
