package reddit

import (
	"bytes"
	"encoding/json"

	"github.com/jonathan/learnscout/internal/types"
)

// parseComments walks a reply listing's children. Only t1 nodes with both an author and a
// non-empty body are kept; "more" stubs and other kinds are skipped. Depth grows by one per
// nesting level and subtrees at or beyond maxDepth are dropped.
func parseComments(children []thing, depth, maxDepth int) []types.CommentNode {
	if depth >= maxDepth {
		return []types.CommentNode{}
	}

	nodes := make([]types.CommentNode, 0, len(children))
	for _, child := range children {
		switch child.Kind {
		case KindComment:
		case KindMore:
			// Collapsed replies need a separate request; they are not expanded.
			continue
		default:
			continue
		}

		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			continue
		}

		body := data.Body
		if body == "" && data.BodyHTML != "" {
			body = htmlToText(data.BodyHTML)
		}
		if data.Author == "" || body == "" {
			continue
		}

		nodes = append(nodes, types.CommentNode{
			Author:  data.Author,
			Body:    body,
			Depth:   depth,
			Replies: parseComments(replyChildren(data.Replies), depth+1, maxDepth),
		})
	}
	return nodes
}

// replyChildren decodes the replies field, which is "" when a comment has no replies.
func replyChildren(raw json.RawMessage) []thing {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var replies listing
	if err := json.Unmarshal(raw, &replies); err != nil {
		return nil
	}
	return replies.Data.Children
}
