// Package chatbot implements the rule-based data-governance responder: intent
// extraction, keyword topic scoring and canned response selection.
package chatbot

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	logx "github.com/chat-governanca/server/pkg/logger"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

// Responder answers governance questions from a static knowledge base.
type Responder struct {
	kb     *KnowledgeBase
	picker Picker
}

// Option configures a Responder.
type Option func(*Responder)

// WithKnowledgeBase replaces the default knowledge base.
func WithKnowledgeBase(kb *KnowledgeBase) Option {
	return func(r *Responder) { r.kb = kb }
}

// WithPicker injects the random source used for canned choices.
func WithPicker(p Picker) Option {
	return func(r *Responder) { r.picker = p }
}

// New builds a Responder over the default knowledge base unless overridden.
func New(opts ...Option) (*Responder, error) {
	r := &Responder{}
	for _, opt := range opts {
		opt(r)
	}
	if r.kb == nil {
		kb, err := NewKnowledgeBase(DefaultTopics())
		if err != nil {
			return nil, fmt.Errorf("build knowledge base: %w", err)
		}
		r.kb = kb
	}
	if r.picker == nil {
		seed := uint64(time.Now().UnixNano())
		r.picker = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return r, nil
}

// KnowledgeBase exposes the responder's knowledge base.
func (r *Responder) KnowledgeBase() *KnowledgeBase {
	return r.kb
}

// Respond answers message given the prior conversation context and returns the
// reply together with the updated context. A failure while composing the reply
// yields ApologyReply and leaves the context untouched.
func (r *Responder) Respond(message, context string) (response, updated string) {
	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().
				Str("component", "chatbot").
				Str("user_message", message).
				Msgf("error generating response: %v", rec)
			response, updated = ApologyReply, context
		}
	}()

	logx.Info().Str("user_message", message).Msg("processing message")

	trimmed := TrimContext(context)
	if reply, ok := contextualReply(trimmed); ok {
		logx.Info().Str("response", reply).Msg("contextual response")
		return reply, AppendTurn(trimmed, message, reply)
	}

	intent := ExtractIntent(message)
	logx.Debug().Str("intent", string(intent)).Msg("intent detected")

	topics := r.kb.MatchTopics(message)
	logx.Debug().Interface("topics", topics).Msg("topics matched")

	reply := r.compose(message, intent, topics)
	logx.Info().Str("response", reply).Msg("response generated")
	return reply, AppendTurn(trimmed, message, reply)
}

// compose selects the reply for an analysed message.
func (r *Responder) compose(message string, intent Intent, topics []TopicMatch) string {
	lower := strings.ToLower(strings.TrimSpace(message))

	switch intent {
	case IntentGreeting:
		return r.pick(greetingReplies)
	case IntentFarewell:
		return r.pick(farewellReplies)
	case IntentHelp:
		return r.pick(helpReplies)
	}

	// Definition questions about lgpd, governança or qualidade get the fixed
	// paragraph and never reach topic framing, even on a 1.0 topic match.
	definitionAsked := containsAny(lower, definitionTriggers)
	if definitionAsked {
		if def, ok := definitionFor(lower); ok {
			return def
		}
	}

	if len(topics) > 0 && topics[0].Score > highConfidence {
		if topic, ok := r.kb.Topic(topics[0].Topic); ok {
			return frame(intent, topic.DisplayName(), r.pick(topic.Responses))
		}
	}

	switch {
	case definitionAsked:
		// unknown term: procedure answers are not considered
	case containsAny(lower, procedureTriggers):
		if strings.Contains(lower, "lgpd") {
			return lgpdProcedure
		}
		if containsAny(lower, governanceTerms) {
			return governanceProcedure
		}
	case containsAny(lower, governanceTerms) && intent == IntentExplanation:
		return governanceDefinition
	}

	return r.pick(fallbackReplies)
}

func definitionFor(lower string) (string, bool) {
	switch {
	case containsAny(lower, lgpdTerms):
		return lgpdDefinition, true
	case containsAny(lower, governanceTerms):
		return governanceDefinition, true
	case containsAny(lower, qualityTerms):
		return qualityDefinition, true
	}
	return "", false
}

func frame(intent Intent, topic, answer string) string {
	switch intent {
	case IntentExplanation:
		return fmt.Sprintf(explainPrefix, topic) + answer
	case IntentProcedure:
		return fmt.Sprintf(procedurePrefix, topic) + answer
	case IntentQuestion:
		return fmt.Sprintf(questionPrefix, topic) + answer
	}
	return answer
}

func (r *Responder) pick(options []string) string {
	return options[r.picker.IntN(len(options))]
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
