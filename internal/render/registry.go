package render

import (
	"github.com/gruntwork-io/terragen/block"
	"github.com/gruntwork-io/terragen/internal/errors"
)

// labelRegistry tracks which block keys have been claimed, and by which sources. For non-mergeable categories a key
// has exactly one owner for the lifetime of the run; mergeable categories record every contributing source for
// diagnostics. The registry lives for a single run.
type labelRegistry struct {
	owners map[block.Key][]string
}

func newLabelRegistry() *labelRegistry {
	return &labelRegistry{owners: map[block.Key][]string{}}
}

// Claim registers the given source as an owner of the given key. For non-mergeable categories the claim fails if a
// different source already owns the key, even if the bodies turn out to be identical: duplicate definitions are
// always an error.
func (registry *labelRegistry) Claim(key block.Key, owner string) error {
	owners := registry.owners[key]

	if !block.PolicyFor(key.Category).Mergeable {
		for _, existing := range owners {
			if existing != owner {
				return errors.WithStackTrace(DuplicateBlockError{Key: key, Owner: existing, Source: owner})
			}
		}
	}

	registry.owners[key] = append(owners, owner)

	return nil
}

// Owners returns every source that has claimed the given key, in claim order.
func (registry *labelRegistry) Owners(key block.Key) []string {
	return registry.owners[key]
}
