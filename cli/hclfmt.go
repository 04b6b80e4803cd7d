package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	zglob "github.com/mattn/go-zglob"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/util"
)

var fmtPatterns = []string{"*.tf", "*.tfvars"}

// runHCLFmt formats the hand-written HCL files in the working directory using the official hcl2 library, the same
// style 'terraform fmt' applies. Rendered *.tf.json artifacts are already canonical and are left alone. In check
// mode nothing is rewritten and any file that would change is reported as an error.
func runHCLFmt(opts *options.TerragenOptions, checkOnly bool) error {
	var files []string

	for _, pattern := range fmtPatterns {
		matches, err := zglob.Glob(util.JoinPath(opts.WorkingDir, pattern))
		if err != nil {
			return errors.WithStackTrace(err)
		}

		files = append(files, matches...)
	}

	var errs *errors.MultiError

	for _, path := range files {
		if err := formatHCLFile(opts, path, checkOnly); err != nil {
			errs = errs.Append(err)
		}
	}

	return errs.ErrorOrNil()
}

// formatHCLFile parses the file first to make sure it is syntactically valid, then rewrites it in place if the
// formatted contents differ.
func formatHCLFile(opts *options.TerragenOptions, path string, checkOnly bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.WithStackTrace(err)
	}

	contentsStr, err := util.ReadFileAsString(path)
	if err != nil {
		return errors.WithStackTrace(err)
	}

	contents := []byte(contentsStr)

	if _, diags := hclparse.NewParser().ParseHCL(contents, path); diags.HasErrors() {
		return errors.WithStackTrace(diags)
	}

	newContents := hclwrite.Format(contents)
	if bytes.Equal(contents, newContents) {
		return nil
	}

	if checkOnly {
		return errors.WithStackTrace(NotFormattedError{Path: filepath.Base(path)})
	}

	opts.Logger.Infof("formatted %s", filepath.Base(path))

	if err := os.WriteFile(path, newContents, info.Mode()); err != nil {
		return errors.WithStackTrace(err)
	}

	return nil
}
