package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/options"
)

const selfName = "terragen"

// FindTerraform locates the terraform executable on the PATH and stores it in the options. Entries that are really
// a symlink back to terragen are skipped, so that installing terragen as "terraform" does not recurse into itself.
// An explicitly configured path is trusted as-is.
func FindTerraform(opts *options.TerragenOptions) error {
	if strings.ContainsRune(opts.TerraformPath, os.PathSeparator) {
		return nil
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		candidate := filepath.Join(dir, opts.TerraformPath)

		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Mode().Perm()&0111 == 0 {
			continue
		}

		realPath, err := filepath.EvalSymlinks(candidate)
		if err != nil || filepath.Base(realPath) == selfName {
			continue
		}

		opts.TerraformPath = candidate

		return nil
	}

	return errors.WithStackTrace(CommandNotFoundError{Command: opts.TerraformPath})
}
