package rag

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyText      = errors.New("empty text for embedding")
	ErrEmptyQuestion  = errors.New("question is required")
	ErrEmptyEmbedding = errors.New("embedding must be a non-empty numeric list")
)

// UpstreamError is returned when a model endpoint answers with a non-success status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError is returned when a success response does not carry
// the field the client expects.
type MalformedResponseError struct {
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("malformed response: missing %s", e.Field)
	}
	return fmt.Sprintf("malformed response: %s: %s", e.Field, e.Reason)
}

func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}

func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}
