// Package engine provides the default validation engine. Importing it
// registers the engine process-wide; applications that only define schemas and
// never instantiate them do not need the import.
package engine

import (
	"context"

	tyck "github.com/reoring/tyck"
)

func init() { tyck.SetEngine(New()) }

// Engine is the built-in implementation of tyck.Engine.
type Engine struct{}

// New returns the default engine.
func New() *Engine { return &Engine{} }

// Name identifies the engine implementation.
func (e *Engine) Name() string { return "tyck-default" }

// checker validates one value at the given JSON Pointer path and returns the
// coerced result. A non-empty Issues return means the value was rejected.
type checker func(ctx context.Context, path string, v any) (any, tyck.Issues)

// compiledField is one schema field with its checker and resolved input rules.
type compiledField struct {
	name       string
	alias      string
	required   bool
	hasDefault bool
	defaultVal any
	optional   bool
	check      checker
	export     func(any) any // nil means identity
}

type handle struct {
	fields   tyck.Fields
	cfg      tyck.Config
	hooks    tyck.Hooks
	order    []string
	byName   map[string]*compiledField
	compiled []*compiledField
}

// EngineName reports which engine produced the handle.
func (h *handle) EngineName() string { return "tyck-default" }

// Compile walks the field mapping and builds one checker per field. All
// schema-shape problems (bad patterns, malformed constraint parameters)
// surface here, never at instantiation time.
func (e *Engine) Compile(fields tyck.Fields, cfg tyck.Config, hooks tyck.Hooks) (tyck.Handle, error) {
	h := &handle{
		fields: fields,
		cfg:    cfg,
		hooks:  hooks,
		byName: make(map[string]*compiledField, len(fields)),
	}
	for _, f := range fields {
		chk, err := compileDescriptor(f.Desc, cfg)
		if err != nil {
			return nil, err
		}
		inner, optional := f.Desc.Unwrap()
		def, hasDef := f.Desc.Default()
		if !hasDef && optional {
			def, hasDef = inner.Default()
		}
		cf := &compiledField{
			name:       f.Name,
			alias:      f.Desc.Metadata().Alias,
			required:   !optional && !hasDef,
			hasDefault: hasDef,
			defaultVal: def,
			optional:   optional,
			check:      chk,
			export:     exportFunc(inner.Kind()),
		}
		h.order = append(h.order, f.Name)
		h.byName[f.Name] = cf
		h.compiled = append(h.compiled, cf)
	}
	return h, nil
}
