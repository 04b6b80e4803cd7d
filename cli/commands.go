package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/gruntwork-io/terragen/codegen"
	"github.com/gruntwork-io/terragen/internal/render"
	"github.com/gruntwork-io/terragen/loader"
	"github.com/gruntwork-io/terragen/options"
)

func newRenderCommand(opts *options.TerragenOptions, ldr *loader.Loader) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render all registered definition sources into *.tf.json and *.tfvars.json files.",
		Action: func(ctx *cli.Context) error {
			return runRender(opts, ldr)
		},
	}
}

// runRender executes the full pipeline: load sources, run the renderer, write the artifacts.
func runRender(opts *options.TerragenOptions, ldr *loader.Loader) error {
	defs, err := ldr.Load(opts)
	if err != nil {
		return err
	}

	artifacts, err := render.Render(opts, defs)
	if err != nil {
		return err
	}

	return codegen.WriteArtifacts(opts, artifacts)
}

func newCleanCommand(opts *options.TerragenOptions) *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Delete previously rendered *.tf.json and *.tfvars.json files from the working directory.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob pattern of file names to keep, may be given multiple times.",
			},
		},
		Action: func(ctx *cli.Context) error {
			deleted, err := codegen.Clean(opts, ctx.StringSlice("exclude"))
			if err != nil {
				return err
			}

			if len(deleted) == 0 {
				opts.Logger.Infof("nothing to clean")
			}

			return nil
		},
	}
}

func newFmtCommand(opts *options.TerragenOptions) *cli.Command {
	return &cli.Command{
		Name:  "fmt",
		Usage: "Format the hand-written *.tf and *.tfvars files in the working directory.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Only check formatting, exit with a non-zero code if any file needs rewriting.",
			},
		},
		Action: func(ctx *cli.Context) error {
			return runHCLFmt(opts, ctx.Bool("check"))
		},
	}
}
