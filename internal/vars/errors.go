package vars

import "fmt"

// VariableAlreadyDefinedError is returned when two files both define the same variable.
type VariableAlreadyDefinedError struct {
	Name      string
	Source    string
	OldSource string
}

func (err VariableAlreadyDefinedError) Error() string {
	return fmt.Sprintf("%s cannot define var.%s because %s already defined it", err.Source, err.Name, err.OldSource)
}

// InvalidVarArgError is returned when a -var CLI arg is not of the form -var name=value.
type InvalidVarArgError struct {
	Arg string
}

func (err InvalidVarArgError) Error() string {
	return fmt.Sprintf("invalid variable arg %q, expected -var 'name=value'", err.Arg)
}

// FileParsingError is returned when a *.tf or *.tfvars file cannot be parsed.
type FileParsingError struct {
	Path string
	Err  error
}

func (err FileParsingError) Error() string {
	return fmt.Sprintf("error parsing %s: %s", err.Path, err.Err)
}

func (err FileParsingError) Unwrap() error {
	return err.Err
}
