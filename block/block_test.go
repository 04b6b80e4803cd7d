package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/block"
)

func TestKeyString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		key      block.Key
		expected string
	}{
		{block.Key{Category: "resource", Type: "aws_vpc", Label: "main"}, "resource.aws_vpc.main"},
		{block.Key{Category: "variable", Label: "region"}, "variable.region"},
		{block.Key{Category: "terraform"}, "terraform"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		assert.Equal(t, testCase.expected, testCase.key.String())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	body := cty.ObjectVal(map[string]cty.Value{"cidr_block": cty.StringVal("10.0.0.0/16")})

	testCases := []struct {
		name    string
		block   block.Block
		wantErr bool
	}{
		{
			name:  "resource with type and label",
			block: block.Block{Category: "resource", Type: "aws_vpc", Label: "main", Body: body},
		},
		{
			name:    "resource without label",
			block:   block.Block{Category: "resource", Type: "aws_vpc", Body: body},
			wantErr: true,
		},
		{
			name:    "resource without type",
			block:   block.Block{Category: "resource", Label: "main", Body: body},
			wantErr: true,
		},
		{
			name:  "variable with label",
			block: block.Block{Category: "variable", Label: "region", Body: body},
		},
		{
			name:    "variable with a type",
			block:   block.Block{Category: "variable", Type: "string", Label: "region", Body: body},
			wantErr: true,
		},
		{
			name:  "bare terraform block",
			block: block.Block{Category: "terraform", Body: body},
		},
		{
			name:    "terraform block with label",
			block:   block.Block{Category: "terraform", Label: "oops", Body: body},
			wantErr: true,
		},
		{
			name:    "empty category",
			block:   block.Block{Body: body},
			wantErr: true,
		},
		{
			name:    "nil body",
			block:   block.Block{Category: "resource", Type: "aws_vpc", Label: "main"},
			wantErr: true,
		},
		{
			name:  "unknown category passes any shape",
			block: block.Block{Category: "moved", Body: body},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.block.Validate()
			if testCase.wantErr {
				var invalidErr block.InvalidBlockError
				require.ErrorAs(t, err, &invalidErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	body := cty.ObjectVal(map[string]cty.Value{"cidr_block": cty.StringVal("10.0.0.0/16")})

	resource := block.Block{Category: "resource", Type: "aws_vpc", Label: "main", Body: body}
	assert.True(t, resource.Wrap().RawEquals(cty.ObjectVal(map[string]cty.Value{
		"aws_vpc": cty.ObjectVal(map[string]cty.Value{"main": body}),
	})))

	variable := block.Block{Category: "variable", Label: "region", Body: body}
	assert.True(t, variable.Wrap().RawEquals(cty.ObjectVal(map[string]cty.Value{"region": body})))

	terraform := block.Block{Category: "terraform", Body: body}
	assert.True(t, terraform.Wrap().RawEquals(body))
}

func TestPolicyFor(t *testing.T) {
	t.Parallel()

	assert.True(t, block.PolicyFor("terraform").Mergeable)
	assert.True(t, block.PolicyFor("provider").Mergeable)
	assert.True(t, block.PolicyFor("locals").Mergeable)
	assert.False(t, block.PolicyFor("resource").Mergeable)
	assert.False(t, block.PolicyFor("variable").Mergeable)
	assert.False(t, block.PolicyFor("some_future_category").Mergeable)
}

func TestBodyFromGo(t *testing.T) {
	t.Parallel()

	body, err := block.BodyFromGo(map[string]any{
		"cidr_block": "10.0.0.0/16",
		"enabled":    true,
		"count":      3,
		"tags":       []any{"a", "b"},
	})
	require.NoError(t, err)

	asMap := body.AsValueMap()
	assert.Equal(t, "10.0.0.0/16", asMap["cidr_block"].AsString())
	assert.True(t, asMap["enabled"].True())
	assert.Len(t, asMap["tags"].AsValueSlice(), 2)

	count, _ := asMap["count"].AsBigFloat().Int64()
	assert.EqualValues(t, 3, count)
}

func TestValueString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"hello"`, block.ValueString(cty.StringVal("hello")))
	assert.Equal(t, "null", block.ValueString(cty.NilVal))
	assert.Equal(t, `{"a":true}`, block.ValueString(cty.ObjectVal(map[string]cty.Value{"a": cty.True})))
}
