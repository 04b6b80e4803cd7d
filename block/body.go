package block

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/gruntwork-io/terragen/internal/errors"
)

// BodyFromGo converts an arbitrary Go value (maps, slices, strings, numbers, bools) into a cty body tree. Since we
// don't have cty type information for arbitrary user data, we cheat by using json as an intermediate representation.
func BodyFromGo(value any) (cty.Value, error) {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return cty.NilVal, errors.WithStackTrace(err)
	}

	var ctyVal ctyjson.SimpleJSONValue
	if err := ctyVal.UnmarshalJSON(jsonBytes); err != nil {
		return cty.NilVal, errors.WithStackTrace(err)
	}

	return ctyVal.Value, nil
}

// MustBodyFromGo is BodyFromGo for values known to be JSON-encodable, such as literals in definition sources.
// It panics on conversion errors.
func MustBodyFromGo(value any) cty.Value {
	body, err := BodyFromGo(value)
	if err != nil {
		panic(err)
	}

	return body
}

// ValueString renders a cty value as compact JSON for use in error messages. Values that cannot be serialized are
// rendered with cty's own GoString, which is ugly but never fails.
func ValueString(value cty.Value) string {
	if value == cty.NilVal {
		return "null"
	}

	jsonBytes, err := ctyjson.Marshal(value, value.Type())
	if err != nil {
		return value.GoString()
	}

	return string(jsonBytes)
}
