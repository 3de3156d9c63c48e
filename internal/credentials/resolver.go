// Package credentials resolves secret references to secret values for the
// execution engine. The assembler only ever carries the reference.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNotFound is returned when a reference has no value
var ErrNotFound = errors.New("credential not found")

// Resolver turns a reference name into a secret value
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvResolver reads references from the process environment
type EnvResolver struct {
	lookup func(string) (string, bool)
}

// NewEnvResolver creates a resolver backed by os.LookupEnv
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{lookup: os.LookupEnv}
}

func (r *EnvResolver) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ref == "" {
		return "", errors.New("credential reference is empty")
	}
	value, ok := r.lookup(ref)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return value, nil
}

// Static resolves from a fixed map
type Static map[string]string

func (s Static) Resolve(ctx context.Context, ref string) (string, error) {
	if value, ok := s[ref]; ok && value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
}
