package render

import (
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/gruntwork-io/terragen/block"
	"github.com/gruntwork-io/terragen/internal/errors"
)

// mergeValues deep-merges the incoming value into the existing value at the given path, applying the category's
// merge policy:
//
//   - mappings merge recursively, key-wise
//   - sequences concatenate in encounter order, without deduplication
//   - equal scalars are a no-op; unequal scalars conflict unless the category allows overrides
//   - a null or absent side adopts the present value
//   - anything else is a shape conflict
//
// The sources list names every source that contributed to this key, for diagnostics.
func mergeValues(path []string, existing, incoming cty.Value, policy block.Policy, sources []string) (cty.Value, error) {
	if existing == cty.NilVal || existing.IsNull() {
		return incoming, nil
	}

	if incoming == cty.NilVal || incoming.IsNull() {
		return existing, nil
	}

	switch {
	case isMapping(existing) && isMapping(incoming):
		merged := existing.AsValueMap()
		if merged == nil {
			merged = map[string]cty.Value{}
		}

		for key, incomingVal := range incoming.AsValueMap() {
			mergedVal, err := mergeValues(append(path, key), merged[key], incomingVal, policy, sources)
			if err != nil {
				return cty.NilVal, err
			}

			merged[key] = mergedVal
		}

		return cty.ObjectVal(merged), nil

	case isSequence(existing) && isSequence(incoming):
		return cty.TupleVal(append(existing.AsValueSlice(), incoming.AsValueSlice()...)), nil

	case isScalar(existing) && isScalar(incoming):
		if existing.RawEquals(incoming) {
			return existing, nil
		}

		if policy.AllowOverride {
			return incoming, nil
		}

		return cty.NilVal, errors.WithStackTrace(MergeConflictError{
			Path:     strings.Join(path, "."),
			Sources:  sources,
			OldValue: block.ValueString(existing),
			NewValue: block.ValueString(incoming),
		})

	default:
		return cty.NilVal, errors.WithStackTrace(ShapeConflictError{
			Path:     strings.Join(path, "."),
			Sources:  sources,
			OldValue: block.ValueString(existing),
			NewValue: block.ValueString(incoming),
		})
	}
}

func isMapping(value cty.Value) bool {
	return value.Type().IsObjectType() || value.Type().IsMapType()
}

func isSequence(value cty.Value) bool {
	return value.Type().IsTupleType() || value.Type().IsListType() || value.Type().IsSetType()
}

func isScalar(value cty.Value) bool {
	return value.Type().IsPrimitiveType()
}
