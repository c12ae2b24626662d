// Package types provides type definitions for structured data used throughout the learnscout pipeline.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ContentItem is a lightweight record of one discussion thread returned by search.
type ContentItem struct {
	ID        string    `json:"id" validate:"required,startswith=/"` // Normalized permalink
	Title     string    `json:"title" validate:"required"`
	Body      string    `json:"body"`
	Community string    `json:"community"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url,omitempty"`
}

var validate = validator.New()

// Validate checks the required fields of a ContentItem.
func (c *ContentItem) Validate() error {
	return validate.Struct(c)
}

// Candidate is the condensed view of a ContentItem sent to the relevance classifier.
type Candidate struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Community string `json:"community"`
}

// Condense returns the classifier view of the item.
func (c ContentItem) Condense() Candidate {
	return Candidate{
		ID:        c.ID,
		Title:     c.Title,
		Community: c.Community,
	}
}

// CommentNode is one node of a nested reply tree.
type CommentNode struct {
	Author  string        `json:"author"`
	Body    string        `json:"body"`
	Depth   int           `json:"depth"` // 0 for direct replies to the item
	Replies []CommentNode `json:"replies"`
}

// Count returns the number of nodes in the subtree rooted at n, including n.
func (n CommentNode) Count() int {
	total := 1
	for _, r := range n.Replies {
		total += r.Count()
	}
	return total
}

// FetchResult pairs an item with its comments.
// After trimming the comments are a flat list with empty Replies.
type FetchResult struct {
	Item     ContentItem   `json:"item"`
	Comments []CommentNode `json:"comments"`
}
