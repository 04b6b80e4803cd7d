package render_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/block"
	"github.com/gruntwork-io/terragen/internal/render"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/pkg/log"
	"github.com/gruntwork-io/terragen/source"
)

func testOptions(t *testing.T) *options.TerragenOptions {
	t.Helper()

	opts := options.NewTerragenOptions()
	opts.Logger = log.New(io.Discard, log.DebugLevel)

	return opts
}

func configSource(name string, fn source.GeneratorFunc) *source.Definition {
	return &source.Definition{
		Name: name,
		Kind: source.KindForName(name),
		New: func() source.BlockSource {
			return source.NewGenerator(fn)
		},
	}
}

func artifactByName(t *testing.T, artifacts []render.Artifact, name string) render.Artifact {
	t.Helper()

	for _, artifact := range artifacts {
		if artifact.Name == name {
			return artifact
		}
	}

	t.Fatalf("no artifact named %s", name)

	return render.Artifact{}
}

func TestRenderSingleSource(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("net.tf", func(s *source.Stream) error {
			s.Block("resource", "aws_vpc", "main", block.MustBodyFromGo(map[string]any{
				"cidr_block": "10.0.0.0/16",
			}))
			return nil
		}),
	}

	artifacts, err := render.Render(testOptions(t), defs)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)

	assert.Equal(t, "net.tf.json", artifacts[0].Name)
	assert.True(t, artifacts[0].Body.RawEquals(block.MustBodyFromGo(map[string]any{
		"resource": map[string]any{
			"aws_vpc": map[string]any{
				"main": map[string]any{"cidr_block": "10.0.0.0/16"},
			},
		},
	})))
}

func TestRenderCrossSourceExport(t *testing.T) {
	t.Parallel()

	// app.tf comes first in run order but depends on an export of net.tf, so it parks until net.tf drains.
	defs := []*source.Definition{
		configSource("app.tf", func(s *source.Stream) error {
			vpcID, err := s.Value("net.tf", "vpc_id")
			if err != nil {
				return err
			}

			s.Block("resource", "aws_subnet", "app", block.MustBodyFromGo(map[string]any{
				"vpc_id": vpcID.AsString(),
			}))
			return nil
		}),
		configSource("net.tf", func(s *source.Stream) error {
			s.Block("resource", "aws_vpc", "main", block.MustBodyFromGo(map[string]any{
				"cidr_block": "10.0.0.0/16",
			}))
			s.Export("vpc_id", cty.StringVal("vpc-123"))
			return nil
		}),
	}

	artifacts, err := render.Render(testOptions(t), defs)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	app := artifactByName(t, artifacts, "app.tf.json")
	assert.True(t, app.Body.RawEquals(block.MustBodyFromGo(map[string]any{
		"resource": map[string]any{
			"aws_subnet": map[string]any{
				"app": map[string]any{"vpc_id": "vpc-123"},
			},
		},
	})))
}

func TestRenderIsOrderIndependent(t *testing.T) {
	t.Parallel()

	producer := configSource("net.tf", func(s *source.Stream) error {
		s.Export("vpc_id", cty.StringVal("vpc-123"))
		return nil
	})

	consumer := configSource("app.tf", func(s *source.Stream) error {
		vpcID, err := s.Value("net.tf", "vpc_id")
		if err != nil {
			return err
		}

		s.Block("output", "", "vpc_id", block.MustBodyFromGo(map[string]any{"value": vpcID.AsString()}))
		return nil
	})

	forward, err := render.Render(testOptions(t), []*source.Definition{producer, consumer})
	require.NoError(t, err)

	backward, err := render.Render(testOptions(t), []*source.Definition{consumer, producer})
	require.NoError(t, err)

	require.Len(t, forward, 2)
	require.Len(t, backward, 2)

	for i := range forward {
		assert.Equal(t, forward[i].Name, backward[i].Name)
		assert.True(t, forward[i].Body.RawEquals(backward[i].Body))
	}
}

func TestRenderExportsOnlyVisibleAfterDrain(t *testing.T) {
	t.Parallel()

	// net.tf exports early, then parks on app.tf. Its exports must not be visible to app.tf at that point, so the
	// run has to stall as a cycle instead of resolving app.tf's request against a half-finished source.
	defs := []*source.Definition{
		configSource("app.tf", func(s *source.Stream) error {
			_, err := s.Value("net.tf", "early")
			return err
		}),
		configSource("net.tf", func(s *source.Stream) error {
			s.Export("early", cty.True)

			_, err := s.Value("app.tf", "anything")
			return err
		}),
	}

	_, err := render.Render(testOptions(t), defs)

	var cycleErr render.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestRenderDuplicateBlock(t *testing.T) {
	t.Parallel()

	body := block.MustBodyFromGo(map[string]any{"cidr_block": "10.0.0.0/16"})

	defs := []*source.Definition{
		configSource("a.tf", func(s *source.Stream) error {
			s.Block("resource", "aws_vpc", "main", body)
			return nil
		}),
		configSource("b.tf", func(s *source.Stream) error {
			// Identical body, still a duplicate: resources have exactly one owner.
			s.Block("resource", "aws_vpc", "main", body)
			return nil
		}),
	}

	_, err := render.Render(testOptions(t), defs)

	var dupErr render.DuplicateBlockError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "resource.aws_vpc.main", dupErr.Key.String())
	assert.Equal(t, "a.tf", dupErr.Owner)
	assert.Equal(t, "b.tf", dupErr.Source)
}

func TestRenderMergesMergeableCategories(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("backend.tf", func(s *source.Stream) error {
			s.Block("terraform", "", "", block.MustBodyFromGo(map[string]any{
				"backend": map[string]any{"s3": map[string]any{"bucket": "state"}},
			}))
			return nil
		}),
		configSource("versions.tf", func(s *source.Stream) error {
			s.Block("terraform", "", "", block.MustBodyFromGo(map[string]any{
				"required_version": ">= 1.0",
			}))
			return nil
		}),
	}

	artifacts, err := render.Render(testOptions(t), defs)
	require.NoError(t, err)

	// Each artifact carries only its own source's contribution, even for merged categories.
	backend := artifactByName(t, artifacts, "backend.tf.json")
	assert.True(t, backend.Body.RawEquals(block.MustBodyFromGo(map[string]any{
		"terraform": map[string]any{
			"backend": map[string]any{"s3": map[string]any{"bucket": "state"}},
		},
	})))

	versions := artifactByName(t, artifacts, "versions.tf.json")
	assert.True(t, versions.Body.RawEquals(block.MustBodyFromGo(map[string]any{
		"terraform": map[string]any{"required_version": ">= 1.0"},
	})))
}

func TestRenderMergeConflict(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("a.tf", func(s *source.Stream) error {
			s.Block("terraform", "", "", block.MustBodyFromGo(map[string]any{"required_version": ">= 1.0"}))
			return nil
		}),
		configSource("b.tf", func(s *source.Stream) error {
			s.Block("terraform", "", "", block.MustBodyFromGo(map[string]any{"required_version": ">= 1.5"}))
			return nil
		}),
	}

	_, err := render.Render(testOptions(t), defs)

	var conflictErr render.MergeConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "terraform.required_version", conflictErr.Path)
	assert.Equal(t, []string{"a.tf", "b.tf"}, conflictErr.Sources)
}

func TestRenderCycle(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("a.tf", func(s *source.Stream) error {
			_, err := s.Value("b.tf", "x")
			return err
		}),
		configSource("b.tf", func(s *source.Stream) error {
			_, err := s.Value("a.tf", "y")
			return err
		}),
	}

	_, err := render.Render(testOptions(t), defs)

	var cycleErr render.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a.tf", "b.tf", "a.tf"}, cycleErr.Sources)
}

func TestRenderUnknownSource(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("app.tf", func(s *source.Stream) error {
			_, err := s.Value("no-such.tf", "x")
			return err
		}),
	}

	_, err := render.Render(testOptions(t), defs)

	var unknownErr render.UnknownSourceError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "no-such.tf", unknownErr.Target)
}

func TestRenderUnknownExport(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("app.tf", func(s *source.Stream) error {
			_, err := s.Value("net.tf", "no_such_export")
			return err
		}),
		configSource("net.tf", func(s *source.Stream) error {
			s.Export("vpc_id", cty.StringVal("vpc-123"))
			return nil
		}),
	}

	_, err := render.Render(testOptions(t), defs)

	var unknownErr render.UnknownExportError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "net.tf", unknownErr.Target)
	assert.Equal(t, "no_such_export", unknownErr.Key)
}

func TestRenderSourceFailureAbortsRun(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("bad.tf", func(s *source.Stream) error {
			return assert.AnError
		}),
		configSource("good.tf", func(s *source.Stream) error {
			s.Block("output", "", "ok", block.MustBodyFromGo(map[string]any{"value": true}))
			return nil
		}),
	}

	artifacts, err := render.Render(testOptions(t), defs)
	assert.Nil(t, artifacts)

	var execErr render.SourceExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "bad.tf", execErr.Source)
}

func TestRenderVarFileSource(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		{
			Name: "common.tfvars",
			Kind: source.KindVarFile,
			New: func() source.BlockSource {
				return source.NewGenerator(func(s *source.Stream) error {
					s.Export("environment", cty.StringVal("prod"))
					return nil
				})
			},
		},
	}

	artifacts, err := render.Render(testOptions(t), defs)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)

	assert.Equal(t, "common.tfvars.json", artifacts[0].Name)
	assert.True(t, artifacts[0].Body.RawEquals(cty.ObjectVal(map[string]cty.Value{
		"environment": cty.StringVal("prod"),
	})))
}

func TestRenderVarFileSourceCannotDefineBlocks(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		{
			Name: "common.tfvars",
			Kind: source.KindVarFile,
			New: func() source.BlockSource {
				return source.NewGenerator(func(s *source.Stream) error {
					s.Block("resource", "aws_vpc", "main", cty.EmptyObjectVal)
					return nil
				})
			},
		},
	}

	_, err := render.Render(testOptions(t), defs)

	var execErr render.SourceExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestRenderStaticSource(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("app.tf", func(s *source.Stream) error {
			region, err := s.Value("var", "region")
			if err != nil {
				return err
			}

			s.Block("provider", "", "aws", block.MustBodyFromGo(map[string]any{"region": region.AsString()}))
			return nil
		}),
		{
			Name: "var",
			Kind: source.KindStatic,
			New: func() source.BlockSource {
				return source.NewStatic(map[string]cty.Value{"region": cty.StringVal("eu-west-1")})
			},
		},
	}

	artifacts, err := render.Render(testOptions(t), defs)
	require.NoError(t, err)

	// The static source renders no artifact of its own.
	require.Len(t, artifacts, 1)
	assert.Equal(t, "app.tf.json", artifacts[0].Name)
	assert.True(t, artifacts[0].Body.RawEquals(block.MustBodyFromGo(map[string]any{
		"provider": map[string]any{"aws": map[string]any{"region": "eu-west-1"}},
	})))
}

func TestRenderEmptySourceRendersEmptyArtifact(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("empty.tf", func(s *source.Stream) error {
			return nil
		}),
	}

	artifacts, err := render.Render(testOptions(t), defs)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.True(t, artifacts[0].Body.RawEquals(cty.EmptyObjectVal))
}

func TestRenderDuplicateSourceNames(t *testing.T) {
	t.Parallel()

	defs := []*source.Definition{
		configSource("net.tf", func(s *source.Stream) error { return nil }),
		configSource("net.tf", func(s *source.Stream) error { return nil }),
	}

	_, err := render.Render(testOptions(t), defs)
	require.ErrorContains(t, err, "duplicate definition source name")
}

func TestRenderChainedDependencies(t *testing.T) {
	t.Parallel()

	// c depends on b, which depends on a. The run order lists them in reverse, so both consumers park and are
	// readied transitively.
	defs := []*source.Definition{
		configSource("c.tf", func(s *source.Stream) error {
			value, err := s.Value("b.tf", "doubled")
			if err != nil {
				return err
			}

			s.Export("final", value)
			s.Block("output", "", "final", block.MustBodyFromGo(nil))
			return nil
		}),
		configSource("b.tf", func(s *source.Stream) error {
			value, err := s.Value("a.tf", "base")
			if err != nil {
				return err
			}

			base, _ := value.AsBigFloat().Int64()
			s.Export("doubled", cty.NumberIntVal(base*2))
			return nil
		}),
		configSource("a.tf", func(s *source.Stream) error {
			s.Export("base", cty.NumberIntVal(21))
			return nil
		}),
	}

	artifacts, err := render.Render(testOptions(t), defs)
	require.NoError(t, err)
	assert.Len(t, artifacts, 3)
}
