package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// UserFacing is implemented by terminal errors that carry a message fit for end users.
type UserFacing interface {
	error
	UserMessage() string
}

// UserMessage returns the end-user message of the first terminal error in err's chain.
func UserMessage(err error) (string, bool) {
	var uf UserFacing
	if errors.As(err, &uf) {
		return uf.UserMessage(), true
	}
	return "", false
}

// NoCandidatesError is returned when every search came back empty.
type NoCandidatesError struct {
	Topic string
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no posts found for topic %q", e.Topic)
}

// UserMessage implements UserFacing.
func (e *NoCandidatesError) UserMessage() string {
	return "We couldn't find any Reddit posts for this topic. Please try a different or broader topic."
}

// NoRelevantContentError is returned when the relevance stage leaves nothing to fetch.
type NoRelevantContentError struct {
	Topic      string
	Candidates int
}

func (e *NoRelevantContentError) Error() string {
	return fmt.Sprintf("no relevant posts for topic %q among %d candidates", e.Topic, e.Candidates)
}

// UserMessage implements UserFacing.
func (e *NoRelevantContentError) UserMessage() string {
	return "We found some Reddit posts, but our AI filter couldn't identify any that were suitable for beginners. Please try a different topic."
}

// AllDetailFetchesFailedError is returned when no detail fetch succeeded.
// Cause combines every individual failure.
type AllDetailFetchesFailedError struct {
	Attempted int
	Cause     error
}

func (e *AllDetailFetchesFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("all %d detail fetches failed: %v", e.Attempted, e.Cause)
	}
	return fmt.Sprintf("all %d detail fetches failed", e.Attempted)
}

func (e *AllDetailFetchesFailedError) Unwrap() error {
	return e.Cause
}

// Failures returns each individual fetch error.
func (e *AllDetailFetchesFailedError) Failures() []error {
	return multierr.Errors(e.Cause)
}

// UserMessage implements UserFacing.
func (e *AllDetailFetchesFailedError) UserMessage() string {
	return "Found Reddit posts, but could not fetch their details. The posts may have been deleted or Reddit is temporarily unavailable."
}
