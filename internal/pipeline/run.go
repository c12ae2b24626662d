// Package pipeline provides the high-level orchestration for gathering a topic corpus:
// community selection, search, deduplication, relevance filtering, detail fetching and
// trimming, with milestone progress reported along the way.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/learnscout/internal/corpus"
	"github.com/jonathan/learnscout/internal/logger"
	"github.com/jonathan/learnscout/internal/types"
)

// Searcher runs one search query. Failures yield an empty slice, never an error.
type Searcher interface {
	Search(ctx context.Context, topic string, communities []string, windowYears int) []types.ContentItem
}

// DetailSource fetches one item with its comment tree.
type DetailSource interface {
	Details(ctx context.Context, id string) (*types.FetchResult, error)
}

// CommunitySuggester proposes communities for a topic. Failures yield an empty slice.
type CommunitySuggester interface {
	Suggest(ctx context.Context, topic string) []string
}

// RelevanceSelector narrows candidates to a subset in input order.
type RelevanceSelector interface {
	Filter(ctx context.Context, topic string, candidates []types.ContentItem) []types.ContentItem
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Topic       string `validate:"required"`
	WindowYears int
	Concurrency int `validate:"gte=0"`
	Limits      corpus.Limits

	Searcher    Searcher           `validate:"required"`
	Details     DetailSource       `validate:"required"`
	Communities CommunitySuggester `validate:"required"`
	Relevance   RelevanceSelector  `validate:"required"`

	Logger     logger.Logger
	OnProgress ProgressSink
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string
	Communities []string
	Candidates  int
	Selected    int
	Corpus      corpus.Corpus
	Stats       corpus.Stats
}

// Run gathers, filters, fetches and trims content for opts.Topic.
//
// Component failures degrade inside their components; Run itself returns only the
// terminal errors (*NoCandidatesError, *NoRelevantContentError,
// *AllDetailFetchesFailedError), invalid options, or the context's error.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	opts.Topic = strings.TrimSpace(opts.Topic)
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid run options: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	runID := uuid.NewString()
	topic := opts.Topic
	log := opts.Logger.With(zap.String("run_id", runID), zap.String("topic", topic))
	progress := NewReporter(runID, opts.OnProgress)

	progress.Report(stageKickoff, fmt.Sprintf("Kicking off the search for %q...", topic))

	// Communities
	progress.Report(stageCommunities, "Charting the Reddit territory for the best communities...")
	communities := opts.Communities.Suggest(ctx, topic)
	if len(communities) > 0 {
		progress.Report(stageScoped, "Found promising hubs: "+strings.Join(communities, ", "))
	} else {
		progress.Report(stageScoped, "Couldn't find specific communities, going for a wider search!")
	}

	// Search
	progress.Report(stageSearch, "Casting a wide net for popular posts...")
	lists := searchAll(ctx, opts.Searcher, topic, communities, opts.WindowYears)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := corpus.Dedupe(lists...)
	log.Info("search complete",
		zap.Int("queries", len(lists)),
		zap.Int("candidates", len(candidates)),
	)
	if len(candidates) == 0 {
		return nil, &NoCandidatesError{Topic: topic}
	}

	// Relevance
	progress.Report(stageRelevance, fmt.Sprintf("AI is reading %d posts to find beginner gems...", len(candidates)))
	selected := opts.Relevance.Filter(ctx, topic, candidates)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, &NoRelevantContentError{Topic: topic, Candidates: len(candidates)}
	}

	// Details
	progress.Report(stageDetails, fmt.Sprintf("Distilling wisdom from the top %d posts...", len(selected)))
	ids := make([]string, len(selected))
	for i, item := range selected {
		ids[i] = item.ID
	}
	fetched, err := FetchDetails(ctx, opts.Details, ids, opts.Concurrency, log)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	// Packaging
	progress.Report(stagePackaging, fmt.Sprintf("Packaging %d posts for the summarizer...", len(fetched)))
	c := corpus.Corpus{Topic: topic, Results: corpus.TrimAll(fetched, opts.Limits.WithDefaults())}
	stats := c.Stats()

	log.Info("corpus assembled",
		zap.Int("posts", stats.Items),
		zap.Int("comments", stats.Comments),
		zap.Strings("communities", stats.Communities),
		zap.Int("context_length", stats.Bytes),
		zap.Int("failed_fetches", len(ids)-len(fetched)),
	)

	progress.Report(stageDone, "Done")

	return &Result{
		RunID:       runID,
		Communities: communities,
		Candidates:  len(candidates),
		Selected:    len(selected),
		Corpus:      c,
		Stats:       stats,
	}, nil
}

// searchAll runs the broad search and, when communities are known, the scoped search
// concurrently. The broad results come first.
func searchAll(ctx context.Context, searcher Searcher, topic string, communities []string, windowYears int) [][]types.ContentItem {
	lists := make([][]types.ContentItem, 1, 2)
	if len(communities) > 0 {
		lists = lists[:2]
	}

	var g errgroup.Group
	g.Go(func() error {
		lists[0] = searcher.Search(ctx, topic, nil, windowYears)
		return nil
	})
	if len(communities) > 0 {
		g.Go(func() error {
			lists[1] = searcher.Search(ctx, topic, communities, windowYears)
			return nil
		})
	}
	_ = g.Wait()

	return lists
}
