// Package render executes definition sources and assembles their blocks into configuration artifacts.
//
// Execution is single-threaded and cooperative: exactly one source runs at any instant, suspension happens only when
// a source requests a value exported by another source, and every yielded block is committed to the shared
// configuration tree before the source is resumed. This single-slot discipline is what makes conflict and cycle
// diagnostics exactly reproducible, so don't be tempted to parallelize it.
package render

import (
	"slices"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/block"
	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/source"
	"github.com/gruntwork-io/terragen/util"
)

// Artifact is one rendered output file, named after the definition source that produced its contents.
type Artifact struct {
	// Name is the file name of the artifact, e.g. "net.tf.json".
	Name string

	// Body is the artifact's configuration tree.
	Body cty.Value
}

// Render executes all the given definition sources and returns the artifacts to write, one per non-static source.
// Any conflict, cycle, or source failure aborts the whole run: infrastructure configuration is all-or-nothing, so
// there is no per-source partial success.
func Render(opts *options.TerragenOptions, defs []*source.Definition) ([]Artifact, error) {
	run, err := newRun(opts, defs)
	if err != nil {
		return nil, err
	}

	defer run.close()

	if err := run.execute(); err != nil {
		return nil, err
	}

	return run.artifacts(), nil
}

type status int

const (
	statusPending status = iota
	statusRunning
	statusParked
	statusDone
	statusFailed
)

type sourceState struct {
	def      *source.Definition
	order    int
	status   status
	producer source.BlockSource

	// resume is delivered to the producer on its next resumption.
	resume source.Resume

	// request is the outstanding value request while parked. It doubles as the recorded dependency edge used for
	// cycle diagnosis, and is discarded once the request resolves.
	request *source.Request

	exports map[string]cty.Value
	contrib *tree
}

type run struct {
	opts *options.TerragenOptions

	states map[string]*sourceState
	order  []string
	queue  []string

	shared   *tree
	registry *labelRegistry

	// published holds the export tables of sources that have reached the done state. Tables of running or parked
	// sources are deliberately absent so that no source ever observes partially-computed exports.
	published map[string]map[string]cty.Value
}

func newRun(opts *options.TerragenOptions, defs []*source.Definition) (*run, error) {
	r := &run{
		opts:      opts,
		states:    map[string]*sourceState{},
		shared:    newTree(),
		registry:  newLabelRegistry(),
		published: map[string]map[string]cty.Value{},
	}

	for i, def := range defs {
		if _, exists := r.states[def.Name]; exists {
			return nil, errors.Errorf("duplicate definition source name %s", def.Name)
		}

		r.states[def.Name] = &sourceState{
			def:     def,
			order:   i,
			exports: map[string]cty.Value{},
			contrib: newTree(),
		}
		r.order = append(r.order, def.Name)
		r.queue = append(r.queue, def.Name)
	}

	return r, nil
}

func (r *run) execute() error {
	for len(r.queue) > 0 {
		name := r.queue[0]
		r.queue = r.queue[1:]

		if err := r.drive(r.states[name]); err != nil {
			return err
		}
	}

	if parked := r.parkedSources(); len(parked) > 0 {
		return errors.WithStackTrace(CycleError{Sources: r.findCycle(parked)})
	}

	return nil
}

// drive resumes the given source and processes its yields until it parks, finishes, or fails.
func (r *run) drive(state *sourceState) error {
	state.status = statusRunning

	if state.producer == nil {
		r.opts.Logger.Debugf("running source %s", state.def.Name)
		state.producer = state.def.New()
	}

	for {
		item, err := state.producer.Next(state.resume)
		state.resume = source.Resume{}

		if err != nil {
			state.status = statusFailed
			return errors.WithStackTrace(SourceExecutionError{Source: state.def.Name, Err: err})
		}

		if item == nil {
			r.finish(state)
			return nil
		}

		switch item := item.(type) {
		case source.BlockItem:
			if err := r.commit(state, item.Block); err != nil {
				state.status = statusFailed
				return err
			}

		case source.Export:
			state.exports[item.Name] = item.Value

		case source.Request:
			resume, parked := r.resolve(state, item)
			if !parked {
				// The target is already done (or the request can never resolve): deliver the result and keep
				// driving the same source without yielding the scheduler slot.
				state.resume = resume
				continue
			}

			r.opts.Logger.Debugf("parking source %s until %s is done", state.def.Name, item.Source)
			state.status = statusParked
			state.request = &item

			return nil

		default:
			state.status = statusFailed
			return errors.WithStackTrace(SourceExecutionError{
				Source: state.def.Name,
				Err:    errors.Errorf("produced an unsupported item type %T", item),
			})
		}
	}
}

// commit forwards a yielded block to the label registry and the merger, in yield order.
func (r *run) commit(state *sourceState, b *block.Block) error {
	if state.def.Kind != source.KindConfig {
		return errors.WithStackTrace(SourceExecutionError{
			Source: state.def.Name,
			Err:    errors.Errorf("only *.tf sources may define blocks, not %s", state.def.Name),
		})
	}

	if err := b.Validate(); err != nil {
		return errors.WithStackTrace(SourceExecutionError{Source: state.def.Name, Err: err})
	}

	if err := r.registry.Claim(b.Key(), state.def.Name); err != nil {
		return err
	}

	owners := r.registry.Owners(b.Key())

	if err := r.shared.merge(b, owners); err != nil {
		return err
	}

	// Track the source's own contribution separately: artifacts are written from fragment provenance, not carved
	// back out of the merged tree, since mergeable categories can have several contributors.
	return state.contrib.merge(b, owners)
}

// resolve resolves a value request against the published export tables. The second return value reports whether the
// requesting source must park and wait for the target.
func (r *run) resolve(state *sourceState, request source.Request) (source.Resume, bool) {
	target, known := r.states[request.Source]
	if !known {
		err := UnknownSourceError{Source: state.def.Name, Target: request.Source}
		return source.Resume{Err: errors.WithStackTrace(err)}, false
	}

	if target.status != statusDone {
		return source.Resume{}, true
	}

	value, exported := r.published[request.Source][request.Key]
	if !exported {
		err := UnknownExportError{Source: state.def.Name, Target: request.Source, Key: request.Key}
		return source.Resume{Err: errors.WithStackTrace(err)}, false
	}

	return source.Resume{Value: value}, false
}

// finish marks the source done, publishes its export table, and readies every parked source that was waiting on it,
// preserving their original relative order.
func (r *run) finish(state *sourceState) {
	state.status = statusDone
	r.published[state.def.Name] = state.exports

	r.opts.Logger.Debugf("source %s is done", state.def.Name)

	var readied []*sourceState

	for _, name := range r.order {
		waiter := r.states[name]
		if waiter.status == statusParked && waiter.request.Source == state.def.Name {
			readied = append(readied, waiter)
		}
	}

	for _, waiter := range readied {
		waiter.resume, _ = r.resolve(waiter, *waiter.request)
		waiter.request = nil
		waiter.status = statusPending
		r.queue = append(r.queue, waiter.def.Name)
	}
}

func (r *run) parkedSources() []*sourceState {
	var parked []*sourceState

	for _, name := range r.order {
		if state := r.states[name]; state.status == statusParked {
			parked = append(parked, state)
		}
	}

	return parked
}

// findCycle reconstructs the cycle of mutually blocking requests by following the recorded edges from the earliest
// parked source until a source repeats. Once the run has stalled, every parked source is waiting on another parked
// source, so the walk always terminates.
func (r *run) findCycle(parked []*sourceState) []string {
	chain := []string{}
	current := parked[0].def.Name

	for !util.ListContainsElement(chain, current) {
		chain = append(chain, current)
		current = r.states[current].request.Source
	}

	start := slices.Index(chain, current)

	return append(chain[start:], current)
}

// artifacts collects the output of every non-static source, in artifact name order so that writes are deterministic.
func (r *run) artifacts() []Artifact {
	var artifacts []Artifact

	for _, name := range r.order {
		state := r.states[name]

		switch state.def.Kind {
		case source.KindConfig:
			artifacts = append(artifacts, Artifact{Name: state.def.ArtifactName(), Body: state.contrib.value()})
		case source.KindVarFile:
			body := cty.EmptyObjectVal
			if len(state.exports) > 0 {
				body = cty.ObjectVal(state.exports)
			}

			artifacts = append(artifacts, Artifact{Name: state.def.ArtifactName(), Body: body})
		case source.KindStatic:
		}
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})

	return artifacts
}

func (r *run) close() {
	for _, name := range r.order {
		if state := r.states[name]; state.producer != nil {
			if err := state.producer.Close(); err != nil {
				r.opts.Logger.WithError(err).Warnf("failed to close source %s", state.def.Name)
			}
		}
	}
}
