package retrieval

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNoJSONObject is returned when generated text contains no brace-delimited span.
var ErrNoJSONObject = errors.New("no JSON object found in response")

// GenerationError is returned when the regeneration call itself fails.
type GenerationError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s/%s: %v", e.Namespace, e.Key, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError is returned when the generated text could not be turned into a
// valid payload. Raw holds the full response for diagnosis.
type ParseError struct {
	Namespace string
	Key       string
	Raw       string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response for %s/%s: %v", e.Namespace, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsTimeout reports whether err stems from a deadline expiring.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
