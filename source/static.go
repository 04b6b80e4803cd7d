package source

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/util"
)

// Static is a BlockSource that yields a fixed set of exports and nothing else. It is used for sources whose values
// are already known when the run starts, such as the variable store built from files on disk.
type Static struct {
	exports []Export
	pos     int
}

// NewStatic returns a static source yielding the given exports in name order.
func NewStatic(exports map[string]cty.Value) *Static {
	items := make([]Export, 0, len(exports))
	for _, name := range util.SortedKeys(exports) {
		items = append(items, Export{Name: name, Value: exports[name]})
	}

	return &Static{exports: items}
}

// Next implements BlockSource.
func (s *Static) Next(Resume) (Item, error) {
	if s.pos >= len(s.exports) {
		return nil, nil
	}

	item := s.exports[s.pos]
	s.pos++

	return item, nil
}

// Close implements BlockSource.
func (s *Static) Close() error {
	return nil
}
