package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ConfigError is an error that knows where in the config tree it happened.
type ConfigError interface {
	error
	PrependPath(path string) ConfigError
}

type ValidationError struct {
	Path     string
	Problems map[string]string
}

func NewValidationError(problems map[string]string, path ...string) *ValidationError {
	return &ValidationError{strings.Join(path, "."), problems}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Problems))
	for field := range e.Problems {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	fmt.Fprintf(&b, "validation errors found in '%s':\n", e.Path)
	for _, field := range fields {
		fmt.Fprintf(&b, "  %s: %s\n", field, e.Problems[field])
	}
	return b.String()
}

func (e *ValidationError) Is(other error) bool {
	_, ok := other.(*ValidationError)
	return ok
}

func (e *ValidationError) PrependPath(path string) ConfigError {
	e.Path = joinPath(path, e.Path)
	return e
}

type Validator interface {
	// Returns a map of field and human readable explanation of what's wrong
	Valid(ctx context.Context) (problems map[string]string)
}

// Check runs v.Valid and wraps any problems into a ValidationError.
func Check(ctx context.Context, v Validator, path ...string) error {
	if problems := v.Valid(ctx); len(problems) > 0 {
		return NewValidationError(problems, path...)
	}
	return nil
}

type DuplicateFoundError struct {
	Path string
}

func NewDuplicateFoundError(path ...string) *DuplicateFoundError {
	return &DuplicateFoundError{strings.Join(path, ".")}
}

func (e *DuplicateFoundError) Error() string {
	return fmt.Sprintf("duplicate entity in '%s'", e.Path)
}

func (e *DuplicateFoundError) PrependPath(path string) ConfigError {
	e.Path = joinPath(path, e.Path)
	return e
}

type NoNameError struct {
	Path  string
	Index int
}

func NewNoNameError(path ...string) *NoNameError {
	return &NoNameError{strings.Join(path, "."), -1}
}

func (e *NoNameError) Error() string {
	path := e.Path
	if e.Index >= 0 {
		path = fmt.Sprintf("%s[%d]", e.Path, e.Index)
	}
	return fmt.Sprintf("entity in '%s' has no name", path)
}

func (e *NoNameError) SetIndex(i int) {
	e.Index = i
}

func (e *NoNameError) PrependPath(path string) ConfigError {
	e.Path = joinPath(path, e.Path)
	return e
}

func joinPath(prefix, path string) string {
	if path == "" {
		return prefix
	}
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}
