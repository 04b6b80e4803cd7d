package main

import (
	stderrors "errors"
	"os"

	"github.com/gruntwork-io/terragen/cli"
	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/loader"
	"github.com/gruntwork-io/terragen/pkg/log"
)

// The main entrypoint for terragen used as a standalone binary. Projects that define their own sources embed the
// same pieces: build a loader, register sources on it, and hand it to cli.NewApp.
func main() {
	logger := log.New(os.Stderr, log.InfoLevel)

	defer errors.Recover(checkForErrorsAndExit(logger))

	app := cli.NewApp(loader.New())

	checkForErrorsAndExit(logger)(app.Run(os.Args))
}

// If there is an error, display it in the console and exit with a non-zero exit code. Otherwise, exit 0.
func checkForErrorsAndExit(logger log.Logger) func(error) {
	return func(err error) {
		if err == nil {
			os.Exit(0)
		}

		logger.Errorf("%s", err.Error())
		logger.Tracef("%s", errors.ErrorWithStackTrace(err))

		exitCode := 1

		var exitCodeErr errors.ErrorWithExitCode
		if stderrors.As(err, &exitCodeErr) {
			exitCode = exitCodeErr.ExitCode
		}

		os.Exit(exitCode)
	}
}
