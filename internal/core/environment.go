package core

import "strings"

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises the provided value into one of the known environments.
// Unknown values fall back to Development so the application can still start
// with sensible defaults.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}

// Mode selects which answer path serves the chat session.
type Mode string

const (
	// ModeHeuristic answers from the static governance knowledge base.
	ModeHeuristic Mode = "heuristic"
	// ModeAgent answers questions about the loaded table through an LLM agent.
	ModeAgent Mode = "agent"
)

// ParseMode maps a configuration value to a Mode. The second return value is
// false when the value is not recognised.
func ParseMode(v string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModeHeuristic, "":
		return ModeHeuristic, true
	case ModeAgent, "llm":
		return ModeAgent, true
	default:
		return "", false
	}
}
