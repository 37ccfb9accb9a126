package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// Compile error codes, one per configuration area.
const (
	ErrCodeExtensionName = "E101" // controllerExtensionName missing or malformed
	ErrCodeActionList    = "E102" // actions/excludeActions/subActions malformed
	ErrCodeFieldOption   = "E103" // scalar field option of the wrong type
	ErrCodeForm          = "E104" // form reference malformed
	ErrCodeItems         = "E105" // raw items malformed
	ErrCodeController    = "E106" // controller or action definition malformed
	ErrCodePlugin        = "E107" // plugin registration malformed
	ErrCodeAlias         = "E108" // alias target malformed
	ErrCodeCUE           = "E109" // CUE evaluation error
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeCUE
	case strings.HasPrefix(field, "controller."):
		return ErrCodeController
	case strings.HasPrefix(field, "plugin"):
		return ErrCodePlugin
	case strings.HasPrefix(field, "alias"):
		return ErrCodeAlias
	case !strings.HasPrefix(field, "field."):
		return ErrCodeGeneric
	}

	switch rest := fieldOption(field); {
	case rest == "controllerExtensionName":
		return ErrCodeExtensionName
	case strings.HasPrefix(rest, "actions"),
		strings.HasPrefix(rest, "excludeActions"),
		strings.HasPrefix(rest, "subActions"):
		return ErrCodeActionList
	case strings.HasPrefix(rest, "form"):
		return ErrCodeForm
	case strings.HasPrefix(rest, "items"):
		return ErrCodeItems
	default:
		return ErrCodeFieldOption
	}
}

// fieldOption strips the "field.<id>." prefix.
func fieldOption(field string) string {
	rest := strings.TrimPrefix(field, "field.")
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		return rest[i+1:]
	}
	return ""
}
