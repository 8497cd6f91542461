package core

import (
	"fmt"
)

// InputLoadError reports a dataset source that is missing, unreadable or not
// parseable as a table. Line is 1-based and zero when the failure is not tied
// to a row.
type InputLoadError struct {
	Source string
	Line   int
	Err    error
}

func (e *InputLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *InputLoadError) Unwrap() error { return e.Err }

// MalformedInputError reports a column a component needs that the dataset
// schema does not declare.
type MalformedInputError struct {
	Component string
	Column    string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: required column %q missing from dataset schema", e.Component, e.Column)
}
