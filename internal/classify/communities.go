// Package classify wraps the LLM classifiers used by the pipeline: choosing communities
// for a topic and picking the most beginner-relevant candidates.
//
// Both classifiers degrade rather than fail. A classifier that errors or answers in the
// wrong shape never stops a run.
package classify

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/learnscout/internal/llm"
	"github.com/jonathan/learnscout/internal/logger"
	"github.com/jonathan/learnscout/internal/prompts"
	"github.com/jonathan/learnscout/internal/schemas"
)

const (
	// MaxCommunities caps how many suggested communities are used for the scoped search.
	MaxCommunities = 10

	communityTemperature float32 = 0.2
)

var communityNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// CommunitySelector asks the classifier for communities where beginners learn a topic.
type CommunitySelector struct {
	client llm.Client
	log    logger.Logger
	max    int
}

// NewCommunitySelector creates a selector over client. A nil logger discards output.
func NewCommunitySelector(client llm.Client, log logger.Logger) *CommunitySelector {
	if log == nil {
		log = logger.NewNop()
	}
	return &CommunitySelector{
		client: client,
		log:    log.With(zap.String("component", "community_selector")),
		max:    MaxCommunities,
	}
}

// Suggest returns up to MaxCommunities community names for topic, without the "r/" prefix.
// Any classifier or parse failure yields an empty slice.
func (s *CommunitySelector) Suggest(ctx context.Context, topic string) []string {
	prompt, err := prompts.Render(prompts.ClassifyFile, prompts.SuggestCommunities, map[string]string{
		"Topic": topic,
	})
	if err != nil {
		s.log.Error("community prompt unavailable", zap.Error(err))
		return []string{}
	}

	resp, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite, llm.WithTemperature(communityTemperature))
	if err != nil {
		s.log.Warn("community suggestion failed", zap.String("topic", topic), zap.Error(err))
		return []string{}
	}

	names, err := schemas.DecodeStringArray("community classifier", resp)
	if err != nil {
		s.log.Warn("community suggestion unusable", zap.String("topic", topic), zap.Error(err))
		return []string{}
	}

	communities := CleanCommunityNames(names, s.max)
	s.log.Info("communities suggested",
		zap.String("topic", topic),
		zap.Strings("communities", communities),
	)
	return communities
}

// CleanCommunityNames trims names, strips an "r/" prefix, and drops invalid or duplicate
// names (case-insensitively), keeping at most limit entries in their original order.
func CleanCommunityNames(names []string, limit int) []string {
	cleaned := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if limit > 0 && len(cleaned) >= limit {
			break
		}

		name = strings.TrimSpace(name)
		name = strings.TrimPrefix(name, "/")
		if len(name) > 2 && strings.EqualFold(name[:2], "r/") {
			name = name[2:]
		}
		if !communityNamePattern.MatchString(name) {
			continue
		}

		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, name)
	}
	return cleaned
}
