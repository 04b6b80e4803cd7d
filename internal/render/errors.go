package render

import (
	"fmt"
	"strings"

	"github.com/gruntwork-io/terragen/block"
)

// DuplicateBlockError is returned when two sources claim the same block key in a non-mergeable category.
type DuplicateBlockError struct {
	Key    block.Key
	Owner  string
	Source string
}

func (err DuplicateBlockError) Error() string {
	return fmt.Sprintf("source %s cannot define %s because source %s already defined it", err.Source, err.Key, err.Owner)
}

// MergeConflictError is returned when two unequal scalar values meet at the same path during a merge and the
// category does not allow overrides.
type MergeConflictError struct {
	Path     string
	Sources  []string
	OldValue string
	NewValue string
}

func (err MergeConflictError) Error() string {
	return fmt.Sprintf(
		"merge conflict at %s between sources [%s]: cannot merge %s with %s",
		err.Path, strings.Join(err.Sources, ", "), err.OldValue, err.NewValue,
	)
}

// ShapeConflictError is returned when values of incompatible shapes, e.g. a scalar and a mapping, meet at the same
// path during a merge.
type ShapeConflictError struct {
	Path     string
	Sources  []string
	OldValue string
	NewValue string
}

func (err ShapeConflictError) Error() string {
	return fmt.Sprintf(
		"shape conflict at %s between sources [%s]: cannot merge %s with %s",
		err.Path, strings.Join(err.Sources, ", "), err.OldValue, err.NewValue,
	)
}

// CycleError is returned when the run stalls on a set of sources that are all waiting on each other's exports.
type CycleError struct {
	Sources []string
}

func (err CycleError) Error() string {
	return "found a dependency cycle between sources: " + strings.Join(err.Sources, " -> ")
}

// SourceExecutionError wraps a failure of a definition source's own logic with the source's identity.
type SourceExecutionError struct {
	Source string
	Err    error
}

func (err SourceExecutionError) Error() string {
	return fmt.Sprintf("source %s failed: %s", err.Source, err.Err)
}

func (err SourceExecutionError) Unwrap() error {
	return err.Err
}

// UnknownSourceError is returned when a source requests a value from a source that was never discovered.
type UnknownSourceError struct {
	Source string
	Target string
}

func (err UnknownSourceError) Error() string {
	return fmt.Sprintf("source %s requested a value from unknown source %s", err.Source, err.Target)
}

// UnknownExportError is returned when the target source finished without exporting the requested key.
type UnknownExportError struct {
	Source string
	Target string
	Key    string
}

func (err UnknownExportError) Error() string {
	return fmt.Sprintf("source %s requested %q from source %s, which does not export it", err.Source, err.Key, err.Target)
}
