package shell

import (
	"io"
	"regexp"

	"github.com/hashicorp/go-version"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/options"
)

// The terraform --version output is of the format: Terraform v0.9.5-dev (cad024a5fe131a546936674ef85445215bbc4226+CHANGES)
// where -dev and (commitid+CHANGES) is for custom builds or if TF_LOG is set for debug purposes.
var versionRegex = regexp.MustCompile(`(?:Terraform|OpenTofu) (v?[\d\.]+)(?:-dev)?(?: .+)?`)

// PopulateTerraformVersion runs 'terraform --version' and stores the parsed version in the given options.
func PopulateTerraformVersion(opts *options.TerragenOptions) error {
	// Discard all output to make sure we don't pollute stdout or stderr with this extra call.
	optsCopy := opts.Clone()
	optsCopy.Writer = io.Discard
	optsCopy.ErrWriter = io.Discard

	output, err := RunTerraformCommandWithOutput(optsCopy, "--version")
	if err != nil {
		return err
	}

	terraformVersion, err := parseTerraformVersion(output)
	if err != nil {
		return err
	}

	opts.TerraformVersion = terraformVersion

	return nil
}

// CheckTerraformVersion checks that the currently installed terraform version meets the given version constraint
// and returns an error if it doesn't.
func CheckTerraformVersion(constraint string, opts *options.TerragenOptions) error {
	versionConstraint, err := version.NewConstraint(constraint)
	if err != nil {
		return errors.WithStackTrace(err)
	}

	if !versionConstraint.Check(opts.TerraformVersion) {
		return errors.WithStackTrace(InvalidTerraformVersionError{
			CurrentVersion:     opts.TerraformVersion,
			VersionConstraints: versionConstraint,
		})
	}

	return nil
}

func parseTerraformVersion(versionCommandOutput string) (*version.Version, error) {
	matches := versionRegex.FindStringSubmatch(versionCommandOutput)

	if len(matches) != 2 {
		return nil, errors.WithStackTrace(InvalidTerraformVersionSyntaxError(versionCommandOutput))
	}

	return version.NewVersion(matches[1])
}
