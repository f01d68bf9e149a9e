package records

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mamadbah2/hannan/internal/repository"
)

// ErrUnknownModule indicates the requested module is not registered.
var ErrUnknownModule = errors.New("unknown module")

// ErrNotFound indicates no record carries the requested id.
var ErrNotFound = repository.ErrNotFound

// ErrDuplicateID indicates a create reused an existing identifying value.
var ErrDuplicateID = repository.ErrDuplicate

// ErrImmutableID indicates an update tried to change the identifying field.
var ErrImmutableID = errors.New("identifying field cannot be changed")

// ValidationError lists every field that failed normalization or validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = reason
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
