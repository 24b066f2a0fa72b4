package formats

import (
	"errors"
	"fmt"
)

// ErrNoFormats means the engine answered but nothing survived curation
var ErrNoFormats = errors.New("no formats available for this video")

// ValidationError reports a missing or malformed request field. No engine
// call is made when it is returned.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s", e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure of the extraction engine
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsExtraction reports whether err is, or wraps, an *ExtractionError
func IsExtraction(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
