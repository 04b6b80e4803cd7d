package block

import "fmt"

// InvalidBlockError is returned when a definition source yields a block whose key shape or body is unusable.
type InvalidBlockError struct {
	Key    Key
	Reason string
}

func (err InvalidBlockError) Error() string {
	return fmt.Sprintf("invalid block %s: %s", err.Key, err.Reason)
}
