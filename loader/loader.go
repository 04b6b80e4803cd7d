// Package loader discovers the definition sources of a run: generator functions registered by the embedding
// program, plus the static variable store built from files already on disk. The loader only guarantees a stable,
// deterministic ordering; everything else about a source is the renderer's business.
package loader

import (
	"sort"
	"strings"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/internal/vars"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/source"
)

// Loader collects definition sources registered by the embedding program and resolves them into the ordered source
// list of a run.
type Loader struct {
	defs []*source.Definition
}

// New returns an empty Loader.
func New() *Loader {
	return &Loader{}
}

// Register adds a definition source. Registration order is irrelevant: sources are ordered by priority, then name.
func (l *Loader) Register(def *source.Definition) *Loader {
	l.defs = append(l.defs, def)
	return l
}

// RegisterFunc registers a generator function as a definition source. The name determines the artifact written,
// e.g. "net.tf" renders net.tf.json and "common.tfvars" renders common.tfvars.json.
func (l *Loader) RegisterFunc(name string, fn source.GeneratorFunc) *Loader {
	return l.Register(&source.Definition{
		Name: name,
		Kind: source.KindForName(name),
		New: func() source.BlockSource {
			return source.NewGenerator(fn)
		},
	})
}

// Load validates the registered sources, orders them, and appends the static "var" source exposing the terraform
// variables found in the working directory, the environment, and the CLI args. All validation problems are
// collected and reported together rather than one at a time.
func (l *Loader) Load(opts *options.TerragenOptions) ([]*source.Definition, error) {
	var errs *errors.MultiError

	seen := map[string]bool{}

	for _, def := range l.defs {
		if err := validateName(def.Name); err != nil {
			errs = errs.Append(err)
			continue
		}

		if seen[def.Name] {
			errs = errs.Append(errors.WithStackTrace(DuplicateSourceError{Name: def.Name}))
			continue
		}

		seen[def.Name] = true
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	defs := append([]*source.Definition(nil), l.defs...)

	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Priority != defs[j].Priority {
			return defs[i].Priority < defs[j].Priority
		}

		return defs[i].Name < defs[j].Name
	})

	store, err := vars.Load(opts, renderingSet(defs))
	if err != nil {
		return nil, err
	}

	return append(defs, store.SourceDefinition()), nil
}

// renderingSet returns the artifact names this run will create, so the variable store never reads a stale copy of a
// file that is about to be regenerated.
func renderingSet(defs []*source.Definition) map[string]bool {
	rendering := map[string]bool{}

	for _, def := range defs {
		if name := def.ArtifactName(); name != "" {
			rendering[name] = true
		}
	}

	return rendering
}

func validateName(name string) error {
	if name == "" {
		return errors.WithStackTrace(InvalidSourceNameError{Name: name, Reason: "name must not be empty"})
	}

	if name == vars.SourceName {
		return errors.WithStackTrace(InvalidSourceNameError{Name: name, Reason: "the name is reserved for the variable store"})
	}

	if !strings.HasSuffix(name, ".tf") && !strings.HasSuffix(name, ".tfvars") {
		return errors.WithStackTrace(InvalidSourceNameError{Name: name, Reason: "name must end in .tf or .tfvars"})
	}

	return nil
}
