package codegen

import "fmt"

// WriteError is returned when staging, serializing, or swapping an artifact fails. No partial artifacts are left in
// place when it is returned.
type WriteError struct {
	Path string
	Err  error
}

func (err WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %s", err.Path, err.Err)
}

func (err WriteError) Unwrap() error {
	return err.Err
}
