package chatbot

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// similarityThreshold is the minimum ratio for a fuzzy keyword hit.
	similarityThreshold = 0.6
	// highConfidence is the score a top match needs to answer from its topic.
	highConfidence = 0.7
)

// TopicMatch is a scored topic for one message.
type TopicMatch struct {
	Topic string
	Score float64
}

// Similarity returns the Ratcliff/Obershelp ratio of a and b after
// lower-casing, compared code point by code point.
func Similarity(a, b string) float64 {
	sa := strings.Split(strings.ToLower(a), "")
	sb := strings.Split(strings.ToLower(b), "")
	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}
	return difflib.NewMatcher(sa, sb).Ratio()
}

// MatchTopics scores every topic of the knowledge base against message. A
// keyword contained in the message scores 1.0; otherwise the similarity of the
// whole message to the keyword counts when it exceeds the threshold. The first
// hit ends the scan of a topic. Results are sorted by descending score, ties in
// knowledge base order.
func (kb *KnowledgeBase) MatchTopics(message string) []TopicMatch {
	lower := strings.ToLower(message)

	best := make(map[string]float64, len(kb.topics))
	order := make([]string, 0, len(kb.topics))
	record := func(id string, score float64) {
		prev, seen := best[id]
		if !seen {
			order = append(order, id)
		}
		if !seen || score > prev {
			best[id] = score
		}
	}

	for _, t := range kb.topics {
		for _, kw := range t.Keywords {
			if strings.Contains(lower, kw) {
				record(t.ID, 1.0)
				break
			}
			if ratio := Similarity(lower, kw); ratio > similarityThreshold {
				record(t.ID, ratio)
				break
			}
		}
	}

	matches := make([]TopicMatch, 0, len(order))
	for _, id := range order {
		matches = append(matches, TopicMatch{Topic: id, Score: best[id]})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
