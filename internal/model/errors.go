package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError via errors.Is
	ErrConfiguration = errors.New("configuration error")
	// ErrDelegation matches every *DelegationError via errors.Is
	ErrDelegation = errors.New("delegation error")
)

// ConfigurationError reports input that cannot produce a valid pipeline.
// It is raised before any stage is constructed.
type ConfigurationError struct {
	Field  string
	Stage  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("configuration error: %s (stage %q): %s", e.Field, e.Stage, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DelegationError wraps a stack builder failure for one stage
type DelegationError struct {
	Stage string
	Err   error
}

func (e *DelegationError) Error() string {
	return fmt.Sprintf("delegation error: stage %q: %v", e.Stage, e.Err)
}

func (e *DelegationError) Unwrap() error {
	return e.Err
}

func (e *DelegationError) Is(target error) bool {
	return target == ErrDelegation
}
