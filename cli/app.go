// Package cli defines the command-line app for terragen.
package cli

import (
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gruntwork-io/terragen/awshelper"
	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/loader"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/pkg/env"
	"github.com/gruntwork-io/terragen/pkg/log"
	"github.com/gruntwork-io/terragen/shell"
)

// Version is the version of terragen, set at build time via -ldflags.
var Version = "dev"

// NewApp creates the terragen CLI app around the given loader. Any command that is not a terragen command is
// delegated to terraform after re-rendering the artifacts, so 'terragen apply' renders first and then runs
// terraform against the rendered files, forwarding the exit code.
func NewApp(ldr *loader.Loader) *cli.App {
	opts := options.NewTerragenOptions()

	app := cli.NewApp()
	app.Name = "terragen"
	app.HelpName = "terragen"
	app.Usage = "Renders *.tf.json and *.tfvars.json files from definition sources written in Go, then runs terraform against them."
	app.UsageText = "terragen [global options] <command> [args]"
	app.Version = Version
	app.Writer = opts.Writer
	app.ErrWriter = opts.ErrWriter

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "working-dir",
			Usage:   "The directory to discover files in and write artifacts to.",
			EnvVars: []string{"TERRAGEN_WORKING_DIR"},
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "terraform-path",
			Usage:   "Path to the terraform binary.",
			EnvVars: []string{"TERRAGEN_TFPATH"},
			Value:   options.TerraformDefaultPath,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (trace, debug, info, warn, error).",
			EnvVars: []string{"TERRAGEN_LOG_LEVEL"},
			Value:   log.InfoLevel.String(),
		},
		&cli.BoolFlag{
			Name:    "no-auto-render",
			Usage:   "Do not re-render artifacts before delegating a terraform command.",
			EnvVars: []string{"TERRAGEN_NO_AUTO_RENDER"},
		},
		&cli.BoolFlag{
			Name:  "non-interactive",
			Usage: "Assume \"yes\" for all prompts. Also read from TERRAGEN_NON_INTERACTIVE.",
		},
		&cli.BoolFlag{
			Name:  "s3-backend",
			Usage: "Contribute an S3 backend and aws provider block computed from the ambient AWS configuration.",
		},
		&cli.StringSliceFlag{
			Name:  "backend-config",
			Usage: "key=value setting for the S3 backend, may be given multiple times. Implies --s3-backend.",
		},
	}

	app.Before = func(ctx *cli.Context) error {
		return initialSetup(ctx, opts, ldr)
	}

	app.Commands = cli.Commands{
		newRenderCommand(opts, ldr),
		newCleanCommand(opts),
		newFmtCommand(opts),
	}

	app.Action = func(ctx *cli.Context) error {
		return runTerraform(ctx, opts, ldr)
	}

	return app
}

func initialSetup(ctx *cli.Context, opts *options.TerragenOptions, ldr *loader.Loader) error {
	opts.WorkingDir = ctx.String("working-dir")
	opts.TerraformPath = ctx.String("terraform-path")
	opts.AutoRender = !ctx.Bool("no-auto-render")
	opts.Env = env.Parse(os.Environ())
	opts.NonInteractive = ctx.Bool("non-interactive") || env.GetBool(opts.Env["TERRAGEN_NON_INTERACTIVE"], false)

	level, err := log.ParseLevel(ctx.String("log-level"))
	if err != nil {
		return errors.WithStackTrace(err)
	}

	opts.Logger.SetLevel(level)

	backendArgs := ctx.StringSlice("backend-config")

	if ctx.Bool("s3-backend") || len(backendArgs) > 0 {
		backendConfig, err := parseBackendConfig(backendArgs)
		if err != nil {
			return err
		}

		ldr.Register(awshelper.NewBackendDefinition(backendConfig))
	}

	return nil
}

func parseBackendConfig(args []string) (*awshelper.S3BackendConfig, error) {
	raw := map[string]any{}

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, errors.Errorf("invalid --backend-config value %q, expected key=value", arg)
		}

		raw[key] = value
	}

	return awshelper.ConfigFromMap(raw)
}

// runTerraform is the default action: render, then hand the whole command line to terraform.
func runTerraform(ctx *cli.Context, opts *options.TerragenOptions, ldr *loader.Loader) error {
	args := ctx.Args().Slice()
	if len(args) == 0 {
		return cli.ShowAppHelp(ctx)
	}

	opts.TerraformCliArgs = args

	if err := shell.FindTerraform(opts); err != nil {
		return err
	}

	if err := shell.PopulateTerraformVersion(opts); err != nil {
		return err
	}

	if err := shell.CheckTerraformVersion(options.DefaultTerraformVersionConstraint, opts); err != nil {
		return err
	}

	if opts.AutoRender && args[0] != "version" {
		if err := runRender(opts, ldr); err != nil {
			return err
		}
	}

	return shell.RunTerraformCommand(opts, args...)
}
