package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/learnscout/internal/llm"
	"github.com/jonathan/learnscout/internal/types"
)

// fakeClassifier answers the community prompt with a fixed list and the relevance prompt
// with the first id it was shown.
type fakeClassifier struct{}

func (fakeClassifier) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier, _ ...llm.GenerateOption) (string, error) {
	if strings.Contains(prompt, "subreddits") {
		return `["learnpython", "r/python"]`, nil
	}
	start := strings.Index(prompt, `"id": "`)
	if start < 0 {
		return "[]", nil
	}
	rest := prompt[start+len(`"id": "`):]
	return `["` + rest[:strings.Index(rest, `"`)] + `"]`, nil
}

func (fakeClassifier) Close() error { return nil }

func withFakeClassifier(t *testing.T) {
	t.Helper()
	orig := newLLMClient
	newLLMClient = func(context.Context, *llm.Config, string) (llm.Client, error) {
		return fakeClassifier{}, nil
	}
	t.Cleanup(func() { newLLMClient = orig })
}

func post(id, title string) map[string]any {
	return map[string]any{"kind": "t3", "data": map[string]any{
		"title":                   title,
		"selftext":                "Start with the official tutorial.",
		"subreddit_name_prefixed": "r/learnpython",
		"permalink":               "/r/learnpython/comments/" + id + "/" + strings.ReplaceAll(strings.ToLower(title), " ", "_") + "/",
		"score":                   120,
		"created_utc":             float64(time.Now().Add(-24 * time.Hour).Unix()),
	}}
}

// fakeReddit serves n search results and a thread with one comment for each of them.
func fakeReddit(t *testing.T, n int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/search.json" {
			children := make([]any, 0, n)
			for i := 0; i < n; i++ {
				children = append(children, post(fmt.Sprintf("p%d", i), fmt.Sprintf("Python roadmap %d", i)))
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"kind": "Listing", "data": map[string]any{"children": children}})
			return
		}

		id := strings.Split(strings.TrimPrefix(r.URL.Path, "/r/learnpython/comments/"), "/")[0]
		var idx int
		_, _ = fmt.Sscanf(id, "p%d", &idx)
		_ = json.NewEncoder(w).Encode([]any{
			map[string]any{"kind": "Listing", "data": map[string]any{"children": []any{post(id, fmt.Sprintf("Python roadmap %d", idx))}}},
			map[string]any{"kind": "Listing", "data": map[string]any{"children": []any{
				map[string]any{"kind": "t1", "data": map[string]any{"author": "mentor", "body": "Automate the Boring Stuff", "replies": ""}},
			}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGather_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, _, err := execute(t, "gather", "python")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY environment variable or --api-key flag is required")
}

func TestGather_RequiresTopic(t *testing.T) {
	_, _, err := execute(t, "gather")
	require.Error(t, err)
}

func TestGather_InvalidFlagValue(t *testing.T) {
	_, _, err := execute(t, "gather", "python", "--api-key", "k", "--window-years", "-4")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "window_years")
}

func TestGather_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log_level": "loud"}`), 0o644))

	_, _, err := execute(t, "gather", "python", "--api-key", "k", "--config", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestGather_WritesCorpusToStdout(t *testing.T) {
	withFakeClassifier(t)
	srv := fakeReddit(t, 3)

	stdout, stderr, err := execute(t, "gather", "Python",
		"--api-key", "test-key",
		"--base-url", srv.URL,
		"--log-level", "error",
	)
	require.NoError(t, err)

	var results []types.FetchResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "/r/learnpython/comments/p0/python_roadmap_0", results[0].Item.ID)
	require.Len(t, results[0].Comments, 1)
	assert.Equal(t, "mentor", results[0].Comments[0].Author)

	assert.Contains(t, stderr, "[  0%]")
	assert.Contains(t, stderr, "learnpython, python")
	assert.Contains(t, stderr, "[100%] Done")
}

func TestGather_WritesCorpusToFileVerbose(t *testing.T) {
	withFakeClassifier(t)
	srv := fakeReddit(t, 2)
	out := filepath.Join(t.TempDir(), "nested", "corpus.json")

	stdout, stderr, err := execute(t, "gather", "Python",
		"--api-key", "test-key",
		"--base-url", srv.URL,
		"--out", out,
		"--verbose",
	)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var results []types.FetchResult
	require.NoError(t, json.Unmarshal(data, &results))
	assert.Len(t, results, 1)

	assert.Contains(t, stderr, "CORPUS SUMMARY")
	assert.Contains(t, stderr, "COMMUNITIES")
	assert.Contains(t, stderr, "Corpus written to "+out)
}

func TestGather_NoCandidates(t *testing.T) {
	withFakeClassifier(t)
	srv := fakeReddit(t, 0)

	stdout, _, err := execute(t, "gather", "obscure topic",
		"--api-key", "test-key",
		"--base-url", srv.URL,
		"--log-level", "error",
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't find any Reddit posts")
	assert.Empty(t, stdout)
}
