package source

import (
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/block"
	"github.com/gruntwork-io/terragen/internal/errors"
)

// GeneratorFunc is the body of a definition source written in Go. It receives a Stream to yield blocks and exports
// through, and to request values exported by other sources. Returning a non-nil error fails the whole run.
type GeneratorFunc func(s *Stream) error

// errStopped is panicked through a generator goroutine when its consumer closes the producer before exhaustion.
var errStopped = errors.New("generator stopped")

// Generator adapts a GeneratorFunc to the BlockSource contract. The function runs on its own goroutine and is
// suspended at every yield until the consumer asks for the next item, so at most one generator makes progress at any
// instant and the single-writer discipline of the renderer is preserved.
type Generator struct {
	fn GeneratorFunc

	started   bool
	items     chan Item
	resume    chan Resume
	quit      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once

	err error
}

// NewGenerator returns a BlockSource producing the items yielded by the given function.
func NewGenerator(fn GeneratorFunc) *Generator {
	return &Generator{
		fn:       fn,
		items:    make(chan Item),
		resume:   make(chan Resume),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Next implements BlockSource.
func (g *Generator) Next(resume Resume) (Item, error) {
	if !g.started {
		g.started = true
		go g.run()
	} else {
		select {
		case g.resume <- resume:
		case <-g.finished:
		}
	}

	item, ok := <-g.items
	if !ok {
		return nil, g.err
	}

	return item, nil
}

// Close implements BlockSource. If the generator function is suspended at a yield, it is unwound and discarded.
func (g *Generator) Close() error {
	g.closeOnce.Do(func() {
		close(g.quit)
	})

	if g.started {
		<-g.finished
	}

	return nil
}

func (g *Generator) run() {
	defer func() {
		close(g.finished)
		close(g.items)
	}()

	defer errors.Recover(func(cause error) {
		if errors.IsError(cause, errStopped) {
			return
		}

		g.err = cause
	})

	g.err = g.fn(&Stream{g: g})
}

// Stream is the yield surface a GeneratorFunc produces through.
type Stream struct {
	g *Generator
}

// Block yields a configuration block. The block is committed to the run's configuration tree before this call
// returns, so later code in the same generator observes it.
func (s *Stream) Block(category, blockType, label string, body cty.Value) {
	s.yield(BlockItem{Block: &block.Block{Category: category, Type: blockType, Label: label, Body: body}})
}

// Export yields a named value for other sources to consume once this source is fully drained.
func (s *Stream) Export(name string, value cty.Value) {
	s.yield(Export{Name: name, Value: value})
}

// Value requests a value exported by another source, suspending this generator until the value is available. The
// returned error is fatal for the run; generators should return it as-is.
func (s *Stream) Value(sourceName, key string) (cty.Value, error) {
	resume := s.yield(Request{Source: sourceName, Key: key})
	return resume.Value, resume.Err
}

func (s *Stream) yield(item Item) Resume {
	select {
	case s.g.items <- item:
	case <-s.g.quit:
		panic(errStopped)
	}

	select {
	case resume := <-s.g.resume:
		return resume
	case <-s.g.quit:
		panic(errStopped)
	}
}
