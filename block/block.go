// Package block defines the configuration block model: one block is the unit of configuration a definition source
// produces, identified by category, type, and label, and carrying a body tree of cty values.
package block

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/internal/errors"
)

// Block is a single unit of configuration, e.g. one resource, one variable, or a piece of the terraform settings.
// Blocks are immutable once produced: the pipeline never modifies a block after a source yields it.
type Block struct {
	// Category is the top-level terraform configuration key this block belongs to, e.g. "resource" or "provider".
	Category string

	// Type is the second-level key for categories that have one, e.g. "aws_vpc" for resources.
	Type string

	// Label is the user-chosen name of the block, e.g. "main".
	Label string

	// Body is the contents of the block.
	Body cty.Value
}

// Key is the identity of a block within a run.
type Key struct {
	Category string
	Type     string
	Label    string
}

// Key returns the identity of the block.
func (b *Block) Key() Key {
	return Key{Category: b.Category, Type: b.Type, Label: b.Label}
}

// String renders the key as it would be addressed in terraform config, e.g. "resource.aws_vpc.main".
func (key Key) String() string {
	str := key.Category

	if key.Type != "" {
		str += "." + key.Type
	}

	if key.Label != "" {
		str += "." + key.Label
	}

	return str
}

// Validate checks that the block's key has the shape its category requires and that the body is usable.
func (b *Block) Validate() error {
	if b.Category == "" {
		return errors.WithStackTrace(InvalidBlockError{Key: b.Key(), Reason: "category must not be empty"})
	}

	if b.Body == cty.NilVal {
		return errors.WithStackTrace(InvalidBlockError{Key: b.Key(), Reason: "body must not be nil"})
	}

	shape, known := categoryShapes[b.Category]
	if !known {
		return nil
	}

	switch shape {
	case shapeTypeLabel:
		if b.Type == "" || b.Label == "" {
			return errors.WithStackTrace(InvalidBlockError{
				Key:    b.Key(),
				Reason: fmt.Sprintf("%s blocks require both a type and a label", b.Category),
			})
		}
	case shapeLabel:
		if b.Type != "" || b.Label == "" {
			return errors.WithStackTrace(InvalidBlockError{
				Key:    b.Key(),
				Reason: fmt.Sprintf("%s blocks require a label and no type", b.Category),
			})
		}
	case shapeBare:
		if b.Type != "" || b.Label != "" {
			return errors.WithStackTrace(InvalidBlockError{
				Key:    b.Key(),
				Reason: fmt.Sprintf("%s blocks take neither a type nor a label", b.Category),
			})
		}
	}

	return nil
}

// Wrap nests the body under the type and label keys, as the block appears under its category in the final
// configuration tree. E.g. a resource body becomes {"aws_vpc": {"main": body}}.
func (b *Block) Wrap() cty.Value {
	wrapped := b.Body

	if b.Label != "" {
		wrapped = cty.ObjectVal(map[string]cty.Value{b.Label: wrapped})
	}

	if b.Type != "" {
		wrapped = cty.ObjectVal(map[string]cty.Value{b.Type: wrapped})
	}

	return wrapped
}
