package corpus

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/learnscout/internal/types"
)

// Corpus is the ordered, trimmed collection of FetchResults handed to the summarizer.
type Corpus struct {
	Topic   string              `json:"-"`
	Results []types.FetchResult `json:"-"`
}

// Stats summarizes a corpus for logs and verbose output.
type Stats struct {
	Items       int      `json:"items"`
	Comments    int      `json:"comments"`
	Communities []string `json:"communities"`
	Bytes       int      `json:"bytes"`
}

// MarshalJSON serializes the corpus as a bare array of results, the shape the summarizer expects.
func (c Corpus) MarshalJSON() ([]byte, error) {
	results := c.Results
	if results == nil {
		results = []types.FetchResult{}
	}
	return json.Marshal(results)
}

// Serialize renders the corpus as indented JSON.
func (c Corpus) Serialize() (string, error) {
	results := c.Results
	if results == nil {
		results = []types.FetchResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize corpus: %w", err)
	}
	return string(data), nil
}

// Stats computes item, comment and community counts plus the serialized size. Comments
// are counted across the whole reply tree.
func (c Corpus) Stats() Stats {
	stats := Stats{Items: len(c.Results)}

	seen := make(map[string]bool)
	for _, r := range c.Results {
		for _, c := range r.Comments {
			stats.Comments += c.Count()
		}
		if r.Item.Community != "" && !seen[r.Item.Community] {
			seen[r.Item.Community] = true
			stats.Communities = append(stats.Communities, r.Item.Community)
		}
	}
	sort.Strings(stats.Communities)

	if text, err := c.Serialize(); err == nil {
		stats.Bytes = len(text)
	}
	return stats
}
