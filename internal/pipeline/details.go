package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/learnscout/internal/logger"
	"github.com/jonathan/learnscout/internal/types"
)

// DefaultConcurrency bounds in-flight detail fetches.
const DefaultConcurrency = 32

var errEmptyResult = errors.New("detail source returned no result")

// FetchDetails fetches every id with at most concurrency requests in flight. Every fetch
// settles; failures are logged and skipped, and successes are returned in id order.
// When nothing succeeds the error is an *AllDetailFetchesFailedError.
func FetchDetails(ctx context.Context, source DetailSource, ids []string, concurrency int, log logger.Logger) ([]types.FetchResult, error) {
	if len(ids) == 0 {
		return []types.FetchResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}

	results := make([]*types.FetchResult, len(ids))
	failures := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, id := range ids {
		g.Go(func() error {
			result, err := source.Details(ctx, id)
			if err == nil && result == nil {
				err = errEmptyResult
			}
			if err != nil {
				failures[i] = fmt.Errorf("fetch %s: %w", id, err)
				log.Warn("detail fetch failed",
					zap.Int("index", i+1),
					zap.Int("total", len(ids)),
					zap.String("id", id),
					zap.Error(err),
				)
				// settle locally; the group never sees an error
				return nil
			}
			results[i] = result
			log.Debug("detail fetched",
				zap.Int("index", i+1),
				zap.Int("total", len(ids)),
				zap.String("title", result.Item.Title),
			)
			return nil
		})
	}
	_ = g.Wait()

	fetched := make([]types.FetchResult, 0, len(ids))
	for _, r := range results {
		if r != nil {
			fetched = append(fetched, *r)
		}
	}

	if len(fetched) == 0 {
		return nil, &AllDetailFetchesFailedError{
			Attempted: len(ids),
			Cause:     multierr.Combine(failures...),
		}
	}
	return fetched, nil
}
