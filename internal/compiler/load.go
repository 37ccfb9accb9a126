package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/fluidtypo3/fluxactions/internal/catalog"
	"github.com/fluidtypo3/fluxactions/internal/ir"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load error codes, shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
)

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Bundle is everything declared in one spec directory.
type Bundle struct {
	Fields      []ir.FieldSpec
	Controllers []ir.ControllerDef
	Plugins     []ir.PluginDef
	Aliases     [][2]string
	Value       cue.Value // raw CUE value for additional processing
	FileCount   int
}

// Field returns the field declared under id.
func (b *Bundle) Field(id string) (ir.FieldSpec, bool) {
	for _, f := range b.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return ir.FieldSpec{}, false
}

// Catalog builds a memory catalog from the bundle's controllers and aliases.
// Aliases may reference aliases declared later in the bundle.
func (b *Bundle) Catalog() (*catalog.Memory, error) {
	m := catalog.NewMemory(b.Controllers...)
	pending := b.Aliases
	for len(pending) > 0 {
		var next [][2]string
		var lastErr error
		for _, a := range pending {
			if err := m.Alias(a[0], a[1]); err != nil {
				next = append(next, a)
				lastErr = err
			}
		}
		if len(next) == len(pending) {
			return nil, lastErr
		}
		pending = next
	}
	return m, nil
}

// PluginRegistry builds a registry from the bundle's plugin declarations.
func (b *Bundle) PluginRegistry() *catalog.PluginRegistry {
	r := catalog.NewPluginRegistry()
	for _, p := range b.Plugins {
		r.Register(p)
	}
	return r
}

// Load reads and compiles every CUE file in dir.
// If mode is LoadModeFailFast, returns on first compile error.
// A nil bundle means the directory itself could not be loaded.
func Load(dir string, mode LoadMode) (*Bundle, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	bundle, errs := CompileBundle(value, mode)
	bundle.FileCount = len(cueFiles)
	return bundle, errs
}

// CompileBundle compiles the field, controller, plugin and alias sections
// of an already built CUE value.
func CompileBundle(value cue.Value, mode LoadMode) (*Bundle, []error) {
	b := &Bundle{Value: value}
	var errs []error
	stop := func(err error, context string) bool {
		errs = append(errs, convertCompileError(err, context))
		return mode == LoadModeFailFast
	}

	failed := false
	_ = fieldsOf(value, "controller", "controller", func(id string, v cue.Value) error {
		def, err := CompileController(id, v)
		if err != nil {
			if stop(err, "controller."+id) {
				failed = true
				return err
			}
			return nil
		}
		b.Controllers = append(b.Controllers, *def)
		return nil
	})
	if failed {
		return b, errs
	}

	_ = fieldsOf(value, "field", "field", func(id string, v cue.Value) error {
		spec, err := CompileField(id, v)
		if err != nil {
			if stop(err, "field."+id) {
				failed = true
				return err
			}
			return nil
		}
		b.Fields = append(b.Fields, *spec)
		return nil
	})
	if failed {
		return b, errs
	}

	if pv := value.LookupPath(cue.ParsePath("plugin")); pv.Exists() {
		plugins, err := CompilePlugins(pv)
		if err != nil && stop(err, "plugin") {
			return b, errs
		}
		b.Plugins = plugins
	}

	if av := value.LookupPath(cue.ParsePath("alias")); av.Exists() {
		aliases, err := CompileAliases(av)
		if err != nil && stop(err, "alias") {
			return b, errs
		}
		b.Aliases = aliases
	}

	if len(b.Fields) == 0 && len(b.Controllers) == 0 && len(b.Plugins) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no fields, controllers or plugins found in specs"})
	}

	return b, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Merge combines bundles in order. Later bundles append to earlier ones;
// duplicate controller IDs are resolved by the catalog (last wins).
func Merge(bundles ...*Bundle) *Bundle {
	out := &Bundle{}
	for _, b := range bundles {
		if b == nil {
			continue
		}
		out.Fields = append(out.Fields, b.Fields...)
		out.Controllers = append(out.Controllers, b.Controllers...)
		out.Plugins = append(out.Plugins, b.Plugins...)
		out.Aliases = append(out.Aliases, b.Aliases...)
		out.FileCount += b.FileCount
		out.Value = b.Value
	}
	return out
}
