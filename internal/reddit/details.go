package reddit

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/learnscout/internal/schemas"
	"github.com/jonathan/learnscout/internal/types"
)

// Details fetches the full item and its comment tree for a normalized item ID.
// The response is a two-element array: the item listing followed by the comment listing.
// Transport failures are returned as *Error and malformed payloads as *schemas.ParseError.
func (c *Client) Details(ctx context.Context, id string) (*types.FetchResult, error) {
	path := strings.TrimRight(id, "/") + ".json"
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var thread []listing
	if err := schemas.Decode("thread response", schemas.Thread, body, &thread); err != nil {
		return nil, err
	}

	item, err := threadItem(thread[0])
	if err != nil {
		return nil, err
	}
	if item.ID == "" {
		item.ID = id
	}

	comments := parseComments(thread[1].Data.Children, 0, c.opts.MaxReplyDepth)

	c.log.Debug("thread fetched",
		zap.String("id", item.ID),
		zap.Int("top_level_comments", len(comments)),
	)

	return &types.FetchResult{Item: item, Comments: comments}, nil
}

// threadItem extracts the submission from the first listing of a thread response.
func threadItem(l listing) (types.ContentItem, error) {
	for _, child := range l.Data.Children {
		if child.Kind != KindLink {
			continue
		}
		var data linkData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			return types.ContentItem{}, &schemas.ParseError{
				Source:  "thread response",
				Message: "item payload could not be decoded",
				Cause:   err,
			}
		}
		return data.toItem(), nil
	}
	return types.ContentItem{}, &schemas.ParseError{
		Source:  "thread response",
		Message: "item listing has no submission",
	}
}
