package tyck

import (
	"context"
	"sync"

	js "github.com/reoring/tyck/jsonschema"
)

// Schema is the compiled, closed representation of an ordered set of named
// fields plus configuration. It retains no reference to the builders that
// produced it and is never mutated after creation; algebra operations read a
// Schema and produce a brand-new one.
type Schema struct {
	name   string
	doc    string
	fields Fields
	config Config
	hooks  Hooks

	compileOnce sync.Once
	engine      Engine
	handle      Handle
	compileErr  error
}

// Name returns the schema's identity.
func (s *Schema) Name() string { return s.name }

// Doc returns the schema's documentation string.
func (s *Schema) Doc() string { return s.doc }

// Fields returns a copy of the declared field mapping.
func (s *Schema) Fields() Fields { return s.fields.clone() }

// Config returns the schema's configuration.
func (s *Schema) Config() Config { return s.config }

// bind resolves the engine and compiles the handle once. Binding is lazy so
// schemas can be declared before the engine package is imported; the bound
// engine sticks for the schema's lifetime.
func (s *Schema) bind() (Engine, Handle, error) {
	s.compileOnce.Do(func() {
		e := CurrentEngine()
		if e == nil {
			s.compileErr = Issues{{Path: "/", Code: CodeEngineUnavailable, Message: "no validation engine registered; import github.com/reoring/tyck/engine"}}
			return
		}
		h, err := e.Compile(s.fields, s.config, s.hooks)
		if err != nil {
			s.compileErr = err
			return
		}
		s.engine, s.handle = e, h
	})
	return s.engine, s.handle, s.compileErr
}

// New validates raw input against the schema and returns an Instance. On
// failure it returns Issues carrying every failing field.
func (s *Schema) New(ctx context.Context, input map[string]any) (*Instance, error) {
	e, h, err := s.bind()
	if err != nil {
		return nil, err
	}
	values, err := e.Instantiate(ctx, h, input)
	if err != nil {
		return nil, err
	}
	return &Instance{schema: s, values: values}, nil
}

// MustNew is like New but panics on error. Intended for literals in tests
// and program setup.
func (s *Schema) MustNew(ctx context.Context, input map[string]any) *Instance {
	inst, err := s.New(ctx, input)
	if err != nil {
		panic(err)
	}
	return inst
}

// Validate reports whether raw input conforms to the schema without keeping
// the instance.
func (s *Schema) Validate(ctx context.Context, input map[string]any) error {
	_, err := s.New(ctx, input)
	return err
}

// JSONSchema projects the schema into a JSON Schema document.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	e, h, err := s.bind()
	if err != nil {
		return nil, err
	}
	return e.JSONSchema(h)
}

// Instance is validated data conforming to a Schema.
type Instance struct {
	schema *Schema
	mu     sync.RWMutex
	values map[string]any
}

// Schema returns the instance's schema.
func (i *Instance) Schema() *Schema { return i.schema }

// Get returns a field value and whether it is present.
func (i *Instance) Get(name string) (any, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	v, ok := i.values[name]
	return v, ok
}

// Set assigns a field value. Frozen schemas reject assignment; when
// validate_assignment is configured the value is validated and coerced
// through the engine first.
func (i *Instance) Set(ctx context.Context, name string, v any) error {
	if i.schema.config.Frozen() {
		return Issues{{Path: "/" + name, Code: CodeFrozen, Message: "instance is frozen"}}
	}
	if _, ok := i.schema.fields.Get(name); !ok {
		return Issues{{Path: "/" + name, Code: CodeUnknownKey, Message: "unknown field"}}
	}
	if i.schema.config.ValidateAssignment() {
		e, h, err := i.schema.bind()
		if err != nil {
			return err
		}
		cv, err := e.ValidateField(ctx, h, name, v)
		if err != nil {
			return err
		}
		v = cv
	}
	i.mu.Lock()
	i.values[name] = v
	i.mu.Unlock()
	return nil
}

// Dump projects the instance into a plain mapping. Unlike DumpJSON it has no
// error return: an Instance only exists after New succeeded, which means the
// schema is already bound, so bind here returns the cached result and the
// empty-map branch is unreachable in practice.
func (i *Instance) Dump(opts ...DumpOption) map[string]any {
	e, h, err := i.schema.bind()
	if err != nil {
		return map[string]any{}
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	return e.Dump(h, i.values, buildDumpOpt(opts))
}

// DumpJSON serializes the instance to JSON with keys in declared field order.
func (i *Instance) DumpJSON(opts ...DumpOption) ([]byte, error) {
	e, h, err := i.schema.bind()
	if err != nil {
		return nil, err
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	return e.DumpJSON(h, i.values, buildDumpOpt(opts))
}

// DumpOption narrows Dump/DumpJSON output.
type DumpOption func(*DumpOpt)

// Include restricts output to the named fields.
func Include(names ...string) DumpOption {
	return func(o *DumpOpt) { o.Include = append(o.Include, names...) }
}

// Exclude removes the named fields from output.
func Exclude(names ...string) DumpOption {
	return func(o *DumpOpt) { o.Exclude = append(o.Exclude, names...) }
}

func buildDumpOpt(opts []DumpOption) DumpOpt {
	var o DumpOpt
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
