package errx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// RedisTimeoutMessage describes a Redis call that ran out of time.
	RedisTimeoutMessage = "redis operation timed out"
	// DatasetErrorMessage describes a table that could not be loaded.
	DatasetErrorMessage = "dataset could not be loaded"
	// ProviderErrorMessage describes an LLM provider that could not be built.
	ProviderErrorMessage = "llm provider configuration error"
)

// Kind classifies an AppError by the part of the system that produced it.
type Kind string

const (
	KindSystem         Kind = "system"
	KindRedis          Kind = "redis"
	KindDataset        Kind = "dataset"
	KindProviderConfig Kind = "provider_config"
	KindAgentParse     Kind = "agent_parse"
	KindAgentQuota     Kind = "agent_quota"
	KindAgentAuth      Kind = "agent_auth"
	KindAgentGeneric   Kind = "agent_generic"
	KindResponder      Kind = "responder"
)

// Marker glyphs that prefix answer-shaped error messages.
const (
	GlyphWarning = "⚠️"
	GlyphKey     = "🔑"
	GlyphError   = "❌"
)

// AppError wraps an underlying error with an HTTP-like status, a kind and a safe message.
type AppError struct {
	Err     error
	Status  int
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Kind:    KindSystem,
		Message: message,
	}
}

// Dataset wraps a table loading failure. Dataset errors are fatal for a session.
func Dataset(err error, source string) *AppError {
	return &AppError{
		Err:     err,
		Status:  http.StatusServiceUnavailable,
		Kind:    KindDataset,
		Message: fmt.Sprintf("%s (%s)", DatasetErrorMessage, source),
	}
}

// ProviderConfig wraps a provider construction failure with a human readable
// message that can be shown in place of an answer.
func ProviderConfig(err error, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  http.StatusBadRequest,
		Kind:    KindProviderConfig,
		Message: message,
	}
}

// KindOf returns the kind of the first AppError in the chain, or KindSystem.
func KindOf(err error) Kind {
	var app *AppError
	if errors.As(err, &app) {
		return app.Kind
	}
	return KindSystem
}

// MessageOf returns the safe message of the first AppError in the chain, or
// the error text itself.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var app *AppError
	if errors.As(err, &app) && app.Message != "" {
		return app.Message
	}
	return err.Error()
}

// IsDisplayError reports whether an answer text is an error message that the
// shell should render with the error style.
func IsDisplayError(text string) bool {
	for _, g := range []string{GlyphWarning, GlyphKey, GlyphError} {
		if strings.HasPrefix(text, g) {
			return true
		}
	}
	return false
}

// Is reports whether the target matches the underlying error.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}
