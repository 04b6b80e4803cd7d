package loader_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruntwork-io/terragen/loader"
	"github.com/gruntwork-io/terragen/options"
	"github.com/gruntwork-io/terragen/pkg/log"
	"github.com/gruntwork-io/terragen/source"
)

func testOptions(t *testing.T) *options.TerragenOptions {
	t.Helper()

	opts := options.NewTerragenOptions()
	opts.WorkingDir = t.TempDir()
	opts.Logger = log.New(io.Discard, log.DebugLevel)

	return opts
}

func noopSource(s *source.Stream) error {
	return nil
}

func sourceNames(defs []*source.Definition) []string {
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}

	return names
}

func TestLoadOrdersByPriorityThenName(t *testing.T) {
	t.Parallel()

	ldr := loader.New().
		RegisterFunc("z.tf", noopSource).
		RegisterFunc("a.tf", noopSource).
		Register(&source.Definition{
			Name:     "last.tf",
			Priority: 10,
			Kind:     source.KindConfig,
			New:      func() source.BlockSource { return source.NewGenerator(noopSource) },
		}).
		Register(&source.Definition{
			Name:     "first.tf",
			Priority: -10,
			Kind:     source.KindConfig,
			New:      func() source.BlockSource { return source.NewGenerator(noopSource) },
		})

	defs, err := ldr.Load(testOptions(t))
	require.NoError(t, err)

	// The static variable store is always appended after the registered sources.
	assert.Equal(t, []string{"first.tf", "a.tf", "z.tf", "last.tf", "var"}, sourceNames(defs))
}

func TestLoadAppendsVarSource(t *testing.T) {
	t.Parallel()

	defs, err := loader.New().RegisterFunc("net.tf", noopSource).Load(testOptions(t))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	varDef := defs[1]
	assert.Equal(t, "var", varDef.Name)
	assert.Equal(t, source.KindStatic, varDef.Kind)
}

func TestRegisterFuncInfersKind(t *testing.T) {
	t.Parallel()

	defs, err := loader.New().
		RegisterFunc("net.tf", noopSource).
		RegisterFunc("common.tfvars", noopSource).
		Load(testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, source.KindConfig, defs[1].Kind)
	assert.Equal(t, source.KindVarFile, defs[0].Kind)
}

func TestLoadRejectsInvalidNames(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		sourceName string
	}{
		{name: "empty name", sourceName: ""},
		{name: "reserved var name", sourceName: "var"},
		{name: "wrong extension", sourceName: "net.yaml"},
		{name: "no extension", sourceName: "net"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := loader.New().RegisterFunc(testCase.sourceName, noopSource).Load(testOptions(t))

			var invalidErr loader.InvalidSourceNameError
			require.ErrorAs(t, err, &invalidErr)
		})
	}
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	_, err := loader.New().
		RegisterFunc("net.tf", noopSource).
		RegisterFunc("net.tf", noopSource).
		Load(testOptions(t))

	var dupErr loader.DuplicateSourceError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "net.tf", dupErr.Name)
}

func TestLoadCollectsAllValidationErrors(t *testing.T) {
	t.Parallel()

	_, err := loader.New().
		RegisterFunc("bad", noopSource).
		RegisterFunc("net.tf", noopSource).
		RegisterFunc("net.tf", noopSource).
		Load(testOptions(t))
	require.Error(t, err)

	var invalidErr loader.InvalidSourceNameError
	assert.ErrorAs(t, err, &invalidErr)

	var dupErr loader.DuplicateSourceError
	assert.ErrorAs(t, err, &dupErr)
}
