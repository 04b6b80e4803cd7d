package vars

import (
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/options"
)

var variableBlocksSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "variable", LabelNames: []string{"name"}},
	},
}

var variableDefaultSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
	},
}

// parseVariableDefinitions extracts the variable blocks, and their defaults, from a *.tf or *.tf.json file. Defaults
// that are not constant expressions are treated as absent, since we evaluate without terraform's function table.
func parseVariableDefinitions(opts *options.TerragenOptions, path string) ([]*Definition, error) {
	file, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	// Hand-written files can contain anything terraform accepts, so only the variable blocks are inspected.
	content, _, diags := file.Body.PartialContent(variableBlocksSchema)
	if diags.HasErrors() {
		return nil, errors.WithStackTrace(FileParsingError{Path: path, Err: diags})
	}

	var definitions []*Definition

	for _, varBlock := range content.Blocks {
		definition := &Definition{Name: varBlock.Labels[0], Source: filepath.Base(path)}

		blockContent, _, diags := varBlock.Body.PartialContent(variableDefaultSchema)
		if diags.HasErrors() {
			return nil, errors.WithStackTrace(FileParsingError{Path: path, Err: diags})
		}

		if attr, hasDefault := blockContent.Attributes["default"]; hasDefault {
			value, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				opts.Logger.Debugf("ignoring non-constant default for var.%s in %s", definition.Name, path)
			} else {
				definition.Default = value
				definition.HasDefault = true
			}
		}

		definitions = append(definitions, definition)
	}

	return definitions, nil
}

// parseVariableValues extracts the values from a *.tfvars or *.tfvars.json file.
func parseVariableValues(path string) ([]*Value, error) {
	file, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.WithStackTrace(FileParsingError{Path: path, Err: diags})
	}

	var values []*Value

	for name, attr := range attrs {
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, errors.WithStackTrace(FileParsingError{Path: path, Err: diags})
		}

		values = append(values, &Value{Name: name, Source: filepath.Base(path), Value: value})
	}

	return values, nil
}

func parseFile(path string) (*hcl.File, error) {
	parser := hclparse.NewParser()

	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)

	if filepath.Ext(path) == ".json" {
		file, diags = parser.ParseJSONFile(path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}

	if diags.HasErrors() {
		return nil, errors.WithStackTrace(FileParsingError{Path: path, Err: diags})
	}

	return file, nil
}
