package shell

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// CommandNotFoundError is returned when the terraform executable cannot be found on the PATH.
type CommandNotFoundError struct {
	Command string
}

func (err CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", err.Command)
}

// InvalidTerraformVersionSyntaxError is returned when the 'terraform --version' output cannot be parsed.
type InvalidTerraformVersionSyntaxError string

func (err InvalidTerraformVersionSyntaxError) Error() string {
	return fmt.Sprintf("unable to parse terraform version output: %s", string(err))
}

// InvalidTerraformVersionError is returned when the installed terraform does not meet the version constraint.
type InvalidTerraformVersionError struct {
	CurrentVersion     *version.Version
	VersionConstraints version.Constraints
}

func (err InvalidTerraformVersionError) Error() string {
	return fmt.Sprintf(
		"the currently installed version of Terraform (%s) is not compatible with the version required (%s)",
		err.CurrentVersion, err.VersionConstraints,
	)
}
