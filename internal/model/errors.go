package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals that a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals rejected input (blank text, bad topK, unknown
	// operation tag). Nothing has been written when it is returned.
	ErrValidation = errors.New("validation error")
	// ErrDependency wraps any downstream provider failure during a write or
	// search. The enclosing transaction has been rolled back in full.
	ErrDependency = errors.New("dependency failure")
	// ErrEmbedding marks a failed or malformed embedding generation call.
	// It matches ErrDependency under errors.Is.
	ErrEmbedding = fmt.Errorf("embedding generation: %w", ErrDependency)
)
