// Package options provides the set of options that configure the behavior of the terragen program.
package options

import (
	"io"
	"maps"
	"os"

	"github.com/hashicorp/go-version"

	"github.com/gruntwork-io/terragen/pkg/log"
)

const (
	// TerraformDefaultPath just takes terraform from the PATH.
	TerraformDefaultPath = "terraform"

	// DefaultTerraformVersionConstraint is the minimum terraform version able to consume *.tf.json artifacts with
	// nested block bodies.
	DefaultTerraformVersionConstraint = ">= v0.12.0"
)

// TerragenOptions represents options that configure the behavior of the terragen program.
type TerragenOptions struct {
	// WorkingDir is the directory definition sources are discovered in and artifacts are written to.
	WorkingDir string

	// TerraformPath is the location of the terraform binary commands are delegated to.
	TerraformPath string

	// TerraformCliArgs are the CLI args intended for terraform, e.g. ["apply", "-auto-approve"]. The variable store
	// also reads -var and -var-file args from here, mirroring terraform's own variable loading.
	TerraformCliArgs []string

	// TerraformVersion is the version of terraform found on the PATH, obtained by running 'terraform --version'.
	TerraformVersion *version.Version

	// AutoRender controls whether artifacts are re-rendered before delegating a terraform command.
	AutoRender bool

	// NonInteractive assumes "yes" for all prompts when true.
	NonInteractive bool

	// Env is the environment for child processes, and the source of TF_VAR_ variable values.
	Env map[string]string

	// Logger is the logger all components of this run write through.
	Logger log.Logger

	// Writer and ErrWriter are the stdout and stderr destinations for delegated commands.
	Writer    io.Writer
	ErrWriter io.Writer
}

// NewTerragenOptions returns a TerragenOptions with sensible defaults: the current directory, terraform from the
// PATH, and an info-level logger on stderr.
func NewTerragenOptions() *TerragenOptions {
	return &TerragenOptions{
		WorkingDir:    ".",
		TerraformPath: TerraformDefaultPath,
		AutoRender:    true,
		Env:           map[string]string{},
		Logger:        log.New(os.Stderr, log.InfoLevel),
		Writer:        os.Stdout,
		ErrWriter:     os.Stderr,
	}
}

// Clone returns a copy of this TerragenOptions for a derived invocation, e.g. running 'terraform --version' with
// discarded output. The logger is shared, the rest is copied.
func (opts *TerragenOptions) Clone() *TerragenOptions {
	clone := *opts
	clone.TerraformCliArgs = append([]string(nil), opts.TerraformCliArgs...)
	clone.Env = maps.Clone(opts.Env)

	return &clone
}
