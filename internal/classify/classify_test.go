package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/learnscout/internal/llm"
	"github.com/jonathan/learnscout/internal/types"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	Prompts          []string
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier, _ ...llm.GenerateOption) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "[]", nil
}

func (m *MockLLMClient) Close() error { return nil }

func respond(body string) func(context.Context, string, llm.ModelTier) (string, error) {
	return func(context.Context, string, llm.ModelTier) (string, error) { return body, nil }
}

func candidates(n int) []types.ContentItem {
	items := make([]types.ContentItem, n)
	for i := range items {
		items[i] = types.ContentItem{
			ID:        fmt.Sprintf("/r/learnprogramming/comments/p%d/post_%d", i, i),
			Title:     fmt.Sprintf("Post %d", i),
			Community: "r/learnprogramming",
		}
	}
	return items
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     []string
	}{
		{
			name:     "plain array",
			response: `["learnpython", "python", "IWantToLearn"]`,
			want:     []string{"learnpython", "python", "IWantToLearn"},
		},
		{
			name:     "prefixed and duplicated",
			response: `["r/rust", " learnrust ", "/r/Rust", "rust"]`,
			want:     []string{"rust", "learnrust"},
		},
		{
			name:     "invalid names dropped",
			response: `["ok_name", "has space", "x", "way_too_long_for_a_community_name", "with-dash"]`,
			want:     []string{"ok_name"},
		},
		{
			name:     "capped",
			response: `["a01","a02","a03","a04","a05","a06","a07","a08","a09","a10","a11","a12"]`,
			want:     []string{"a01", "a02", "a03", "a04", "a05", "a06", "a07", "a08", "a09", "a10"},
		},
		{
			name:     "object instead of array",
			response: `{"communities": ["python"]}`,
			want:     []string{},
		},
		{
			name:     "array of numbers",
			response: `[1, 2, 3]`,
			want:     []string{},
		},
		{
			name: "classifier error",
			err:  errors.New("quota exceeded"),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLLMClient{
				GenerateJSONFunc: func(_ context.Context, _ string, tier llm.ModelTier) (string, error) {
					assert.Equal(t, llm.TierLite, tier)
					return tt.response, tt.err
				},
			}

			got := NewCommunitySelector(client, nil).Suggest(context.Background(), "Python")

			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			require.Len(t, client.Prompts, 1)
			assert.Contains(t, client.Prompts[0], `"Python"`)
		})
	}
}

func TestFilter_SelectsInCandidateOrder(t *testing.T) {
	items := candidates(5)
	client := &MockLLMClient{
		GenerateJSONFunc: respond(`["` + items[3].ID + `", "https://www.reddit.com` + items[1].ID + `/", "/r/unknown/comments/zz"]`),
	}

	got := NewRelevanceFilter(client, nil).Filter(context.Background(), "programming", items)

	require.Len(t, got, 2)
	assert.Equal(t, items[1].ID, got[0].ID)
	assert.Equal(t, items[3].ID, got[1].ID)

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], `"id": "`+items[0].ID+`"`)
	assert.Contains(t, client.Prompts[0], `"community": "r/learnprogramming"`)
	assert.NotContains(t, client.Prompts[0], "{{.Candidates}}")
}

func TestFilter_FallsBackToAllCandidates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, string, llm.ModelTier) (string, error)
	}{
		{
			name: "classifier error",
			fn: func(context.Context, string, llm.ModelTier) (string, error) {
				return "", errors.New("upstream unavailable")
			},
		},
		{name: "not an array", fn: respond(`{"ids": []}`)},
		{name: "not json", fn: respond(`I think posts 1 and 3 are best.`)},
		{name: "empty array", fn: respond(`[]`)},
		{name: "no known ids", fn: respond(`["/r/other/comments/nope"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := candidates(5)
			client := &MockLLMClient{GenerateJSONFunc: tt.fn}

			got := NewRelevanceFilter(client, nil).Filter(context.Background(), "programming", items)

			assert.Equal(t, items, got)
		})
	}
}

func TestFilter_NoCandidates(t *testing.T) {
	client := &MockLLMClient{}

	got := NewRelevanceFilter(client, nil).Filter(context.Background(), "go", nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, client.Prompts)
}

func TestFilter_OutputIsSubset(t *testing.T) {
	items := candidates(8)
	client := &MockLLMClient{GenerateJSONFunc: respond(`["` + items[7].ID + `","` + items[0].ID + `","` + items[0].ID + `"]`)}

	got := NewRelevanceFilter(client, nil).Filter(context.Background(), "go", items)

	ids := make(map[string]bool, len(items))
	for _, item := range items {
		ids[item.ID] = true
	}
	for _, item := range got {
		assert.True(t, ids[item.ID], "unexpected item %s", item.ID)
	}
	assert.Len(t, got, 2)
}

func TestCleanCommunityNames_NoLimit(t *testing.T) {
	names := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		names = append(names, fmt.Sprintf("sub%02d", i))
	}
	assert.Len(t, CleanCommunityNames(names, 0), 15)
	assert.Equal(t, []string{"IWantToLearn"}, CleanCommunityNames([]string{"R/IWantToLearn"}, 0))
	assert.Empty(t, CleanCommunityNames([]string{strings.Repeat("a", 22)}, 0))
}
