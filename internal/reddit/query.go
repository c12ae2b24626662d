package reddit

import (
	"fmt"
	"strings"
)

// phraseTemplates are the topic phrasings OR-ed together in every search.
var phraseTemplates = []string{
	"how to learn %s",
	"beginner resources %s",
	"%s roadmap",
}

// BuildQuery combines the topic phrase variants and, when communities are given, AND-s
// them with an OR clause scoping the search to those communities.
func BuildQuery(topic string, communities []string) string {
	topic = strings.TrimSpace(topic)

	phrases := make([]string, len(phraseTemplates))
	for i, tmpl := range phraseTemplates {
		phrases[i] = "(" + fmt.Sprintf(tmpl, topic) + ")"
	}
	q := "(" + strings.Join(phrases, " OR ") + ")"

	if clause := communityClause(communities); clause != "" {
		q = "(" + clause + ") AND " + q
	}
	return q
}

func communityClause(communities []string) string {
	terms := make([]string, 0, len(communities))
	for _, c := range communities {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		terms = append(terms, "subreddit:"+c)
	}
	return strings.Join(terms, " OR ")
}
