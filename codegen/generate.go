// Package codegen writes rendered configuration artifacts to disk in a stable encoding, all-or-nothing.
package codegen

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	zglob "github.com/mattn/go-zglob"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/internal/render"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/util"
)

const lockFileName = ".terragen.lock"

// defaultCleanPatterns match the artifacts terragen renders, and nothing hand-written.
var defaultCleanPatterns = []string{"*.tf.json", "*.tfvars.json"}

// WriteArtifacts replaces the rendered artifacts in the working directory with the given set. Artifacts are first
// serialized into a staging directory and only swapped into place after every one of them has serialized
// successfully, so a failure leaves no visible output changes. Once staging has succeeded, artifacts left behind by
// earlier runs whose sources no longer exist are deleted before the swap, so terraform never consumes a file no
// current source renders. A file lock on the working directory guards against two renders racing each other.
func WriteArtifacts(opts *options.TerragenOptions, artifacts []render.Artifact) error {
	fileLock := flock.New(util.JoinPath(opts.WorkingDir, lockFileName))

	if err := fileLock.Lock(); err != nil {
		return errors.WithStackTrace(WriteError{Path: fileLock.Path(), Err: err})
	}

	defer func() {
		if err := fileLock.Unlock(); err != nil {
			opts.Logger.WithError(err).Warnf("failed to release the write lock")
		}
	}()

	stageDir, err := os.MkdirTemp(opts.WorkingDir, ".terragen-stage-")
	if err != nil {
		return errors.WithStackTrace(WriteError{Path: opts.WorkingDir, Err: err})
	}

	defer os.RemoveAll(stageDir)

	for _, artifact := range artifacts {
		contents, err := MarshalArtifact(artifact)
		if err != nil {
			return err
		}

		if err := os.WriteFile(util.JoinPath(stageDir, artifact.Name), contents, 0644); err != nil {
			return errors.WithStackTrace(WriteError{Path: artifact.Name, Err: err})
		}
	}

	if err := removeStaleArtifacts(opts, artifacts); err != nil {
		return err
	}

	for _, artifact := range artifacts {
		targetPath := util.JoinPath(opts.WorkingDir, artifact.Name)

		if err := os.Rename(util.JoinPath(stageDir, artifact.Name), targetPath); err != nil {
			return errors.WithStackTrace(WriteError{Path: targetPath, Err: err})
		}

		opts.Logger.Infof("created %s", artifact.Name)
	}

	return nil
}

// removeStaleArtifacts deletes previously rendered files that are not part of the current artifact set. Only called
// after every current artifact has staged successfully, so a failed run never deletes anything.
func removeStaleArtifacts(opts *options.TerragenOptions, artifacts []render.Artifact) error {
	current := map[string]bool{}

	for _, artifact := range artifacts {
		current[artifact.Name] = true
	}

	for _, pattern := range defaultCleanPatterns {
		matches, err := zglob.Glob(util.JoinPath(opts.WorkingDir, pattern))
		if err != nil {
			return errors.WithStackTrace(err)
		}

		for _, path := range matches {
			name := filepath.Base(path)
			if current[name] {
				continue
			}

			if err := os.Remove(path); err != nil {
				return errors.WithStackTrace(WriteError{Path: path, Err: err})
			}

			opts.Logger.Infof("removed stale %s", name)
		}
	}

	return nil
}

// MarshalArtifact serializes the artifact as indented JSON. Object keys come out in lexicographic order, so
// re-renders over unchanged inputs are byte-identical.
func MarshalArtifact(artifact render.Artifact) ([]byte, error) {
	compact, err := ctyjson.Marshal(artifact.Body, artifact.Body.Type())
	if err != nil {
		return nil, errors.WithStackTrace(WriteError{Path: artifact.Name, Err: err})
	}

	var indented bytes.Buffer

	if err := json.Indent(&indented, compact, "", "  "); err != nil {
		return nil, errors.WithStackTrace(WriteError{Path: artifact.Name, Err: err})
	}

	indented.WriteByte('\n')

	return indented.Bytes(), nil
}

// Clean deletes previously rendered artifacts from the working directory, skipping any file whose name matches one
// of the exclude patterns. It returns the paths it deleted.
func Clean(opts *options.TerragenOptions, excludePatterns []string) ([]string, error) {
	var deleted []string

	for _, pattern := range defaultCleanPatterns {
		matches, err := zglob.Glob(util.JoinPath(opts.WorkingDir, pattern))
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}

		for _, path := range matches {
			if excluded, err := matchesAny(excludePatterns, filepath.Base(path)); err != nil {
				return nil, err
			} else if excluded {
				continue
			}

			if err := os.Remove(path); err != nil {
				return nil, errors.WithStackTrace(err)
			}

			opts.Logger.Infof("removed %s", filepath.Base(path))
			deleted = append(deleted, path)
		}
	}

	return deleted, nil
}

func matchesAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, errors.WithStackTrace(err)
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}
