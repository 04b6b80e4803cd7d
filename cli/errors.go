package cli

import "fmt"

// NotFormattedError is returned in check mode for each file that 'terragen fmt' would rewrite.
type NotFormattedError struct {
	Path string
}

func (err NotFormattedError) Error() string {
	return fmt.Sprintf("%s is not formatted", err.Path)
}
