package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// optionalString returns the string at path, or "" if absent.
func optionalString(v cue.Value, path, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: "must be a string", Pos: f.Pos()}
	}
	return s, nil
}

// optionalBool returns the bool at path, or def if absent.
func optionalBool(v cue.Value, path, field string, def bool) (bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return def, nil
	}
	b, err := f.Bool()
	if err != nil {
		return def, &CompileError{Field: field, Message: "must be a bool", Pos: f.Pos()}
	}
	return b, nil
}

// stringList accepts a comma-delimited string or a list of strings.
func stringList(v cue.Value, field string) ([]string, error) {
	if s, err := v.String(); err == nil {
		return ir.SplitList(s), nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a comma-separated string or a list of strings",
			Pos:     v.Pos(),
		}
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, len(out)),
				Message: "list entries must be strings",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// fieldsOf iterates the regular fields of a struct value at path.
// A missing path yields no iterations.
func fieldsOf(v cue.Value, path, field string, fn func(label string, val cue.Value) error) error {
	s := v
	if path != "" {
		s = v.LookupPath(cue.ParsePath(path))
		if !s.Exists() {
			return nil
		}
	}
	iter, err := s.Fields()
	if err != nil {
		return &CompileError{Field: field, Message: "must be a struct", Pos: s.Pos()}
	}
	for iter.Next() {
		if err := fn(iter.Selector().Unquoted(), iter.Value()); err != nil {
			return err
		}
	}
	return nil
}
