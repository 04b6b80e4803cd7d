// Package source defines the contract between definition sources and the renderer: a definition source is a lazy,
// resumable producer of blocks, exports, and cross-source value requests.
package source

import (
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/block"
)

// Item is one thing a definition source produces. The concrete types are *block.Block, Export, and Request.
type Item interface {
	isItem()
}

// Export declares a named value the producing source makes available to other sources. Exports only become visible
// to other sources once the producing source has been fully drained.
type Export struct {
	Name  string
	Value cty.Value
}

// Request asks for a value exported by another source. Yielding a Request suspends the producer until the renderer
// can supply the resolved value.
type Request struct {
	// Source is the name of the definition source that exports the value, e.g. "net.tf" or "var".
	Source string

	// Key is the exported name.
	Key string
}

// Resume carries the result of the previous Request back into a suspended producer. Exactly one of Value and Err is
// set when resuming after a Request; both are zero when simply advancing.
type Resume struct {
	Value cty.Value
	Err   error
}

// BlockItem wraps a yielded block.
type BlockItem struct {
	Block *block.Block
}

func (Export) isItem()    {}
func (Request) isItem()   {}
func (BlockItem) isItem() {}

// BlockSource is a resumable producer of items. Each call to Next either returns the next item or signals
// exhaustion by returning a nil Item. The renderer processes every yielded block before requesting the next item,
// so a source observes its own earlier blocks in the configuration tree but never another source's uncommitted ones.
type BlockSource interface {
	// Next advances the producer and returns its next item, or nil when the producer is exhausted. The resume
	// argument delivers the result of the previously yielded Request, and is the zero Resume otherwise. A non-nil
	// error means the source's own logic failed; the producer is dead afterwards.
	Next(resume Resume) (Item, error)

	// Close releases the producer. It is safe to call Close at any point, including before exhaustion, e.g. when
	// another source failed and the run is being aborted.
	Close() error
}

// Kind describes what artifact a definition source renders to.
type Kind int

const (
	// KindConfig sources render their blocks into a terraform configuration artifact (*.tf.json).
	KindConfig Kind = iota

	// KindVarFile sources render their exports into a terraform variables artifact (*.tfvars.json).
	KindVarFile

	// KindStatic sources contribute exports to the run but render no artifact, e.g. the "var" source built from
	// files already on disk.
	KindStatic
)

// Definition is one discovered definition source: its identity, its position in the run order, and a way to
// instantiate its producer. The definition lives for a single run.
type Definition struct {
	// Name identifies the source, e.g. "net.tf". Config and varfile source names determine the artifact name by
	// appending ".json".
	Name string

	// Priority overrides the default lexicographic ordering: lower priorities run earlier, and sources with equal
	// priority are ordered by name.
	Priority int

	// Kind determines the artifact this source renders to.
	Kind Kind

	// New instantiates the source's producer. Called at most once per run, when the scheduler first runs the source.
	New func() BlockSource
}

// ArtifactName returns the name of the artifact this definition renders to, or "" for static sources.
func (def *Definition) ArtifactName() string {
	if def.Kind == KindStatic {
		return ""
	}

	return def.Name + ".json"
}

// KindForName infers the artifact kind from a source name suffix: "*.tfvars" sources render variable files,
// everything else renders terraform configuration.
func KindForName(name string) Kind {
	if strings.HasSuffix(name, ".tfvars") {
		return KindVarFile
	}

	return KindConfig
}
