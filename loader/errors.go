package loader

import "fmt"

// DuplicateSourceError is returned when two definition sources are registered under the same name.
type DuplicateSourceError struct {
	Name string
}

func (err DuplicateSourceError) Error() string {
	return fmt.Sprintf("definition source %s is registered more than once", err.Name)
}

// InvalidSourceNameError is returned when a definition source is registered under an unusable name.
type InvalidSourceNameError struct {
	Name   string
	Reason string
}

func (err InvalidSourceNameError) Error() string {
	return fmt.Sprintf("invalid definition source name %q: %s", err.Name, err.Reason)
}
