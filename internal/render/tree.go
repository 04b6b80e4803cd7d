package render

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/block"
)

// tree is a configuration tree under construction: category -> type -> label -> body. The run holds one shared tree
// for conflict detection across all sources, plus one tree per source for the artifact it renders to. Mutations only
// happen through merge, from the single currently-running source.
type tree struct {
	categories map[string]cty.Value
}

func newTree() *tree {
	return &tree{categories: map[string]cty.Value{}}
}

// merge folds the given block into the tree. The sources list names every owner of the block's key, for diagnostics.
func (t *tree) merge(b *block.Block, sources []string) error {
	incoming := b.Wrap()

	existing, ok := t.categories[b.Category]
	if !ok {
		t.categories[b.Category] = incoming
		return nil
	}

	merged, err := mergeValues([]string{b.Category}, existing, incoming, block.PolicyFor(b.Category), sources)
	if err != nil {
		return err
	}

	t.categories[b.Category] = merged

	return nil
}

// value returns the tree as a single cty object, e.g. for serialization.
func (t *tree) value() cty.Value {
	if len(t.categories) == 0 {
		return cty.EmptyObjectVal
	}

	return cty.ObjectVal(t.categories)
}
