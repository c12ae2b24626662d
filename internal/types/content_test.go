package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    ContentItem
		wantErr bool
	}{
		{
			name:    "valid item",
			item:    ContentItem{ID: "/r/golang/comments/abc/learn_go", Title: "Learn Go"},
			wantErr: false,
		},
		{
			name:    "missing title",
			item:    ContentItem{ID: "/r/golang/comments/abc/learn_go"},
			wantErr: true,
		},
		{
			name:    "id not normalized",
			item:    ContentItem{ID: "https://www.reddit.com/r/golang/comments/abc", Title: "Learn Go"},
			wantErr: true,
		},
		{
			name:    "missing id",
			item:    ContentItem{Title: "Learn Go"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestContentItem_Condense(t *testing.T) {
	item := ContentItem{
		ID:        "/r/learnpython/comments/x1/roadmap",
		Title:     "Python roadmap",
		Body:      "long body that the classifier never sees",
		Community: "r/learnpython",
		Score:     420,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}

	c := item.Condense()
	assert.Equal(t, Candidate{ID: item.ID, Title: item.Title, Community: item.Community}, c)
}

func TestCommentNode_Count(t *testing.T) {
	node := CommentNode{
		Author: "a",
		Body:   "root",
		Replies: []CommentNode{
			{Author: "b", Body: "child", Depth: 1, Replies: []CommentNode{{Author: "c", Body: "grandchild", Depth: 2}}},
			{Author: "d", Body: "child", Depth: 1},
		},
	}
	assert.Equal(t, 4, node.Count())
}

func TestFetchResult_JSONFieldNames(t *testing.T) {
	result := FetchResult{
		Item: ContentItem{ID: "/r/go/comments/1/x", Title: "X", Community: "r/go"},
		Comments: []CommentNode{
			{Author: "gopher", Body: "read the tour", Replies: []CommentNode{}},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "item")
	assert.Contains(t, raw, "comments")

	comments := raw["comments"].([]any)
	first := comments[0].(map[string]any)
	assert.Equal(t, "gopher", first["author"])
	assert.Equal(t, []any{}, first["replies"])
}
