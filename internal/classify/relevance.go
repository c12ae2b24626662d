package classify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jonathan/learnscout/internal/corpus"
	"github.com/jonathan/learnscout/internal/llm"
	"github.com/jonathan/learnscout/internal/logger"
	"github.com/jonathan/learnscout/internal/prompts"
	"github.com/jonathan/learnscout/internal/schemas"
	"github.com/jonathan/learnscout/internal/types"
)

const relevanceTemperature float32 = 0.1

// RelevanceFilter narrows candidates to the ones the classifier judges most useful for a
// beginner. The result is always a subset of the input in input order.
type RelevanceFilter struct {
	client llm.Client
	log    logger.Logger
}

// NewRelevanceFilter creates a filter over client. A nil logger discards output.
func NewRelevanceFilter(client llm.Client, log logger.Logger) *RelevanceFilter {
	if log == nil {
		log = logger.NewNop()
	}
	return &RelevanceFilter{
		client: client,
		log:    log.With(zap.String("component", "relevance_filter")),
	}
}

// Filter returns the candidates the classifier selected. When the classifier fails, answers
// in the wrong shape, or selects nothing that matches a candidate, every candidate is kept.
func (f *RelevanceFilter) Filter(ctx context.Context, topic string, candidates []types.ContentItem) []types.ContentItem {
	if len(candidates) == 0 {
		return []types.ContentItem{}
	}

	condensed := make([]types.Candidate, len(candidates))
	for i, item := range candidates {
		condensed[i] = item.Condense()
	}
	payload, err := json.MarshalIndent(condensed, "", "  ")
	if err != nil {
		f.log.Error("failed to encode candidates", zap.Error(err))
		return passThrough(candidates)
	}

	prompt, err := prompts.Render(prompts.ClassifyFile, prompts.FilterRelevance, map[string]string{
		"Topic":      topic,
		"Candidates": string(payload),
	})
	if err != nil {
		f.log.Error("relevance prompt unavailable", zap.Error(err))
		return passThrough(candidates)
	}

	resp, err := f.client.GenerateJSON(ctx, prompt, llm.TierLite, llm.WithTemperature(relevanceTemperature))
	if err != nil {
		f.log.Warn("relevance classification failed, keeping all candidates",
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return passThrough(candidates)
	}

	ids, err := schemas.DecodeStringArray("relevance classifier", resp)
	if err != nil {
		f.log.Warn("relevance response unusable, keeping all candidates",
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return passThrough(candidates)
	}

	selected := intersect(candidates, ids)
	if len(selected) == 0 {
		f.log.Info("classifier selected no known candidates, keeping all",
			zap.Int("candidates", len(candidates)),
			zap.Int("returned_ids", len(ids)),
		)
		return passThrough(candidates)
	}

	f.log.Info("relevance filter applied",
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(selected)),
	)
	return selected
}

// intersect keeps candidates whose normalized ID appears in ids, in candidate order.
func intersect(candidates []types.ContentItem, ids []string) []types.ContentItem {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if norm := corpus.NormalizeID(id); norm != "" {
			wanted[norm] = struct{}{}
		}
	}

	selected := make([]types.ContentItem, 0, len(wanted))
	for _, item := range candidates {
		if _, ok := wanted[corpus.NormalizeID(item.ID)]; ok {
			selected = append(selected, item)
		}
	}
	return selected
}

func passThrough(candidates []types.ContentItem) []types.ContentItem {
	out := make([]types.ContentItem, len(candidates))
	copy(out, candidates)
	return out
}
