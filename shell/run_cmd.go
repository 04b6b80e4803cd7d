// Package shell runs the terraform binary against the rendered artifacts, streaming its output and forwarding its
// exit code.
package shell

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/options"
)

// RunTerraformCommand runs terraform with the given args, connecting it to the configured stdout and stderr. A
// non-zero exit from terraform is returned as an ErrorWithExitCode so the caller can forward it unchanged.
func RunTerraformCommand(opts *options.TerragenOptions, args ...string) error {
	_, err := runCommand(opts, opts.Writer, args...)
	return err
}

// RunTerraformCommandWithOutput runs terraform with the given args and additionally captures its stdout.
func RunTerraformCommandWithOutput(opts *options.TerragenOptions, args ...string) (string, error) {
	var stdout bytes.Buffer

	_, err := runCommand(opts, io.MultiWriter(opts.Writer, &stdout), args...)

	return stdout.String(), err
}

func runCommand(opts *options.TerragenOptions, stdout io.Writer, args ...string) (int, error) {
	opts.Logger.Debugf("running command: %s %s", opts.TerraformPath, strings.Join(args, " "))

	cmd := exec.Command(opts.TerraformPath, args...)
	cmd.Dir = opts.WorkingDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = opts.ErrWriter
	cmd.Env = toEnvVarsList(opts.Env)

	if err := cmd.Start(); err != nil {
		// bad path, binary not executable, &c
		return -1, errors.WithStackTrace(err)
	}

	// Terraform handles interrupts itself, e.g. to release its state lock, so forward them instead of dying first.
	stopForwarding := forwardSignals(cmd)
	defer stopForwarding()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return code, errors.WithStackTrace(errors.ErrorWithExitCode{Err: err, ExitCode: code})
		}

		return -1, errors.WithStackTrace(err)
	}

	return 0, nil
}

func toEnvVarsList(env map[string]string) []string {
	if len(env) == 0 {
		return os.Environ()
	}

	envList := make([]string, 0, len(env))
	for key, value := range env {
		envList = append(envList, key+"="+value)
	}

	return envList
}

func forwardSignals(cmd *exec.Cmd) func() {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})

	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for {
			select {
			case sig := <-signals:
				cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}
