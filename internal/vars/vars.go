// Package vars loads terraform variables the same way terraform does, so definition sources can consume them
// through the pipeline as the exports of a static source named "var".
//
// Variables are loaded in terraform's order, with later sources taking precedence over earlier ones:
//
//   - variable definitions (and defaults) from *.tf and *.tf.json files
//   - environment variables prefixed with TF_VAR_
//   - the terraform.tfvars and terraform.tfvars.json files, if present
//   - any *.auto.tfvars or *.auto.tfvars.json files, in lexical order of their filenames
//   - any -var and -var-file options on the command line, in the order they are provided
//
// Files that this run is about to render are excluded from the scan: their values are requested from the rendering
// source itself, never from a stale copy on disk.
package vars

import (
	"os"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/source"
	"github.com/gruntwork-io/terragen/util"
)

// SourceName is the name of the static definition source exposing the variable store to the pipeline.
const SourceName = "var"

const envVarPrefix = "TF_VAR_"

// Definition is a variable declared by a variable block, possibly carrying a default.
type Definition struct {
	Name       string
	Source     string
	Default    cty.Value
	HasDefault bool
}

// Value is a value assigned to a variable by a tfvars file, an environment variable, or a CLI arg.
type Value struct {
	Name   string
	Source string
	Value  cty.Value
}

// Store holds the variable definitions and values of one run.
type Store struct {
	definitions map[string]*Definition
	values      map[string]*Value
}

// Load scans the working directory, the environment, and the terraform CLI args for variable definitions and values.
// Files named in the rendering set are skipped. All definition problems are collected and reported together.
func Load(opts *options.TerragenOptions, rendering map[string]bool) (*Store, error) {
	store := &Store{
		definitions: map[string]*Definition{},
		values:      map[string]*Value{},
	}

	entries, err := os.ReadDir(opts.WorkingDir)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	var tfFiles, defaultTfvarsFiles, autoTfvarsFiles []string

	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() || rendering[name] {
			continue
		}

		switch {
		case name == "terraform.tfvars" || name == "terraform.tfvars.json":
			defaultTfvarsFiles = append(defaultTfvarsFiles, name)
		case strings.HasSuffix(name, ".auto.tfvars") || strings.HasSuffix(name, ".auto.tfvars.json"):
			autoTfvarsFiles = append(autoTfvarsFiles, name)
		case strings.HasSuffix(name, ".tf") || strings.HasSuffix(name, ".tf.json"):
			tfFiles = append(tfFiles, name)
		}
	}

	sort.Strings(tfFiles)
	sort.Strings(defaultTfvarsFiles)
	sort.Strings(autoTfvarsFiles)

	var defErrs *errors.MultiError

	for _, name := range tfFiles {
		definitions, err := parseVariableDefinitions(opts, util.JoinPath(opts.WorkingDir, name))
		if err != nil {
			return nil, err
		}

		for _, definition := range definitions {
			defErrs = defErrs.Append(store.addDefinition(definition))
		}
	}

	if err := defErrs.ErrorOrNil(); err != nil {
		return nil, err
	}

	for key, value := range opts.Env {
		if name, found := strings.CutPrefix(key, envVarPrefix); found {
			store.addValue(&Value{Name: name, Source: key, Value: cty.StringVal(value)})
		}
	}

	for _, name := range append(defaultTfvarsFiles, autoTfvarsFiles...) {
		if err := store.loadValuesFile(util.JoinPath(opts.WorkingDir, name)); err != nil {
			return nil, err
		}
	}

	if err := store.loadCliArgs(opts, rendering); err != nil {
		return nil, err
	}

	return store, nil
}

func (store *Store) addDefinition(definition *Definition) error {
	if existing, exists := store.definitions[definition.Name]; exists {
		return errors.WithStackTrace(VariableAlreadyDefinedError{
			Name:      definition.Name,
			Source:    definition.Source,
			OldSource: existing.Source,
		})
	}

	store.definitions[definition.Name] = definition

	return nil
}

// addValue records a value for a variable. Later calls win: callers must add values in terraform's precedence order.
func (store *Store) addValue(value *Value) {
	store.values[value.Name] = value
}

func (store *Store) loadValuesFile(path string) error {
	values, err := parseVariableValues(path)
	if err != nil {
		return err
	}

	for _, value := range values {
		store.addValue(value)
	}

	return nil
}

// loadCliArgs applies -var and -var-file options from the terraform CLI args, in the order they are provided.
func (store *Store) loadCliArgs(opts *options.TerragenOptions, rendering map[string]bool) error {
	for i := 0; i < len(opts.TerraformCliArgs); i++ {
		arg := opts.TerraformCliArgs[i]

		switch {
		case strings.HasPrefix(arg, "-var="):
			if err := store.addCliValue(arg, strings.TrimPrefix(arg, "-var=")); err != nil {
				return err
			}

		case arg == "-var" && i+1 < len(opts.TerraformCliArgs):
			i++
			if err := store.addCliValue(arg, opts.TerraformCliArgs[i]); err != nil {
				return err
			}

		case strings.HasPrefix(arg, "-var-file="):
			name := strings.TrimPrefix(arg, "-var-file=")
			if rendering[name] {
				opts.Logger.Debugf("skipping -var-file=%s: it is rendered by this run", name)
				continue
			}

			path, err := util.CanonicalPath(name, opts.WorkingDir)
			if err != nil {
				return err
			}

			if err := store.loadValuesFile(path); err != nil {
				return err
			}
		}
	}

	return nil
}

func (store *Store) addCliValue(arg, varString string) error {
	// The shell quoting inside the arg is preserved by some callers, e.g. TF_CLI_ARGS, so unquote before splitting.
	parts, err := shlex.Split(varString)
	if err != nil || len(parts) == 0 {
		return errors.WithStackTrace(InvalidVarArgError{Arg: arg})
	}

	name, rawValue, found := strings.Cut(parts[0], "=")
	if !found || name == "" {
		return errors.WithStackTrace(InvalidVarArgError{Arg: arg})
	}

	store.addValue(&Value{Name: name, Source: arg, Value: cty.StringVal(rawValue)})

	return nil
}

// Exports resolves every defined variable to its value, or its default when no value was assigned. Variables with
// neither are omitted: requesting one of them fails the run with an unknown-export error that names this store.
func (store *Store) Exports() map[string]cty.Value {
	exports := make(map[string]cty.Value, len(store.definitions))

	for name, definition := range store.definitions {
		if value, assigned := store.values[name]; assigned {
			exports[name] = value.Value
			continue
		}

		if definition.HasDefault {
			exports[name] = definition.Default
		}
	}

	return exports
}

// SourceDefinition exposes the store to the pipeline as a static, immediately-available definition source.
func (store *Store) SourceDefinition() *source.Definition {
	exports := store.Exports()

	return &source.Definition{
		Name: SourceName,
		Kind: source.KindStatic,
		New: func() source.BlockSource {
			return source.NewStatic(exports)
		},
	}
}
