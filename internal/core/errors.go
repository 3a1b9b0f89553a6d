package core

import (
	"errors"
	"fmt"
)

var (
	// ErrClassificationFailed is matched by every classifier failure
	ErrClassificationFailed = errors.New("classification failed")
	// ErrMalformedURL is returned when no domain can be extracted from a URL
	ErrMalformedURL = errors.New("malformed url")
)

// ClassificationError describes a failed call to a classifier
type ClassificationError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ClassificationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("classification of %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("classification of %s failed: %v", e.URL, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Is makes every ClassificationError match ErrClassificationFailed
func (e *ClassificationError) Is(target error) bool {
	return target == ErrClassificationFailed
}
