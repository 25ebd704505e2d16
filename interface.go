package tyck

import "regexp"

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SchemaOption configures schema compilation.
type SchemaOption func(*schemaSpec)

type schemaSpec struct {
	name      string
	doc       string
	config    Config
	hasConfig bool
	base      *Schema
	hooks     Hooks
}

// WithName sets the schema's declared name.
func WithName(name string) SchemaOption {
	return func(s *schemaSpec) { s.name = name }
}

// WithDoc attaches a documentation string to the schema.
func WithDoc(doc string) SchemaOption {
	return func(s *schemaSpec) { s.doc = doc }
}

// WithConfig sets the model configuration. When a base schema is supplied the
// base's configuration is inherited first and the explicitly set keys of cfg
// override it.
func WithConfig(cfg Config) SchemaOption {
	return func(s *schemaSpec) { s.config = cfg; s.hasConfig = true }
}

// WithBase declares single-base inheritance: the base schema's fields come
// first in their original order, same-name fields are overridden in place,
// and new fields are appended in declaration order.
func WithBase(base *Schema) SchemaOption {
	return func(s *schemaSpec) { s.base = base }
}

// WithValidator registers a named custom validator for one field. The
// compiler only registers hooks; the engine executes them.
func WithValidator(field, name string, fn FieldValidator) SchemaOption {
	return func(s *schemaSpec) {
		if fn == nil {
			return
		}
		if s.hooks.Field == nil {
			s.hooks.Field = map[string][]FieldHook{}
		}
		s.hooks.Field[field] = append(s.hooks.Field[field], FieldHook{Name: name, Fn: fn})
	}
}

// WithRootValidator registers a named whole-object validator.
func WithRootValidator(name string, fn ModelValidator) SchemaOption {
	return func(s *schemaSpec) {
		if fn == nil {
			return
		}
		s.hooks.Model = append(s.hooks.Model, ModelHook{Name: name, Fn: fn})
	}
}

// Interface compiles an ordered field mapping into a Schema. Field names must
// be valid identifiers and unique within the mapping; violations surface
// immediately as *SchemaDefinitionError, never at instantiation time.
func Interface(fields Fields, opts ...SchemaOption) (*Schema, error) {
	var spec schemaSpec
	for _, o := range opts {
		o(&spec)
	}

	seen := map[string]struct{}{}
	for _, f := range fields {
		if !identifierRe.MatchString(f.Name) {
			return nil, schemaDefErrf("field name %q is not a valid identifier", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, schemaDefErrf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	merged := fields.clone()
	cfg := spec.config
	hooks := spec.hooks
	if spec.base != nil {
		merged = spec.base.fields.overlay(fields)
		cfg = spec.base.config
		if spec.hasConfig {
			cfg = cfg.override(spec.config)
		}
		hooks = mergeHooks(spec.base.hooks, spec.hooks)
	}
	if err := checkHookTargets(merged, hooks); err != nil {
		return nil, err
	}

	name := spec.name
	if name == "" {
		name = autoName(merged)
	} else {
		reserveName(name)
	}

	return &Schema{
		name:   name,
		doc:    spec.doc,
		fields: merged,
		config: cfg,
		hooks:  hooks,
	}, nil
}

// MustInterface is like Interface but panics on error.
func MustInterface(fields Fields, opts ...SchemaOption) *Schema {
	s, err := Interface(fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// checkHookTargets rejects field validators that reference undeclared fields.
func checkHookTargets(fields Fields, hooks Hooks) error {
	for target := range hooks.Field {
		if _, ok := fields.Get(target); !ok {
			return schemaDefErrf("validator registered for undeclared field %q", target)
		}
	}
	return nil
}

func mergeHooks(base, over Hooks) Hooks {
	out := Hooks{}
	if len(base.Field) > 0 || len(over.Field) > 0 {
		out.Field = map[string][]FieldHook{}
		for k, v := range base.Field {
			out.Field[k] = append(out.Field[k], v...)
		}
		for k, v := range over.Field {
			out.Field[k] = append(out.Field[k], v...)
		}
	}
	out.Model = append(append([]ModelHook(nil), base.Model...), over.Model...)
	return out
}

// deriveHooks narrows a schema's hooks to the surviving fields. Model hooks
// always survive.
func deriveHooks(src Hooks, fields Fields) Hooks {
	out := Hooks{Model: append([]ModelHook(nil), src.Model...)}
	if len(src.Field) > 0 {
		out.Field = map[string][]FieldHook{}
		for name, hs := range src.Field {
			if _, ok := fields.Get(name); ok {
				out.Field[name] = append([]FieldHook(nil), hs...)
			}
		}
	}
	return out
}
