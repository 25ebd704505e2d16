package tyck

// Schema algebra: pure Schema-to-Schema derivations. Every operation reads
// its inputs and returns a brand-new Schema with fully deterministic field
// order; the inputs are never mutated.

// Pick returns a new Schema with only the named fields, in the order given by
// names. An empty name list yields a schema with zero fields. Unknown names
// are a *FieldNotFoundError.
func Pick(s *Schema, names ...string) (*Schema, error) {
	picked := make(Fields, 0, len(names))
	for _, n := range names {
		f, ok := s.fields.Get(n)
		if !ok {
			return nil, &FieldNotFoundError{Field: n, Schema: s.name}
		}
		picked = append(picked, f)
	}
	return derive(s, "Pick_"+s.name, picked)
}

// Omit returns a new Schema with all fields except the named ones, original
// order preserved. An empty name list yields a schema with all fields.
// Unknown names are a *FieldNotFoundError.
func Omit(s *Schema, names ...string) (*Schema, error) {
	drop := map[string]struct{}{}
	for _, n := range names {
		if _, ok := s.fields.Get(n); !ok {
			return nil, &FieldNotFoundError{Field: n, Schema: s.name}
		}
		drop[n] = struct{}{}
	}
	kept := make(Fields, 0, len(s.fields))
	for _, f := range s.fields {
		if _, omit := drop[f.Name]; !omit {
			kept = append(kept, f)
		}
	}
	return derive(s, "Omit_"+s.name, kept)
}

// Partial returns a new Schema where every field is optional with an implicit
// "no value supplied" default. Constraints on the underlying type are
// preserved; only presence becomes optional.
func Partial(s *Schema) (*Schema, error) {
	out := make(Fields, 0, len(s.fields))
	for _, f := range s.fields {
		d := NewOptional(f.Desc)
		if _, has := d.Default(); !has {
			d = d.WithDefault(nil)
		}
		out = append(out, Field{Name: f.Name, Desc: d})
	}
	return derive(s, "Partial_"+s.name, out)
}

// Required is the inverse of Partial: it strips optional wrapping and any
// default from every field, making every field mandatory.
func Required(s *Schema) (*Schema, error) {
	out := make(Fields, 0, len(s.fields))
	for _, f := range s.fields {
		d, _ := f.Desc.Unwrap()
		d = d.WithoutDefault()
		out = append(out, Field{Name: f.Name, Desc: d})
	}
	return derive(s, "Required_"+s.name, out)
}

// Extend returns a new Schema with the given fields appended. A colliding
// name replaces the existing descriptor but keeps its original position;
// untouched fields keep their relative order.
func Extend(s *Schema, fields Fields) (*Schema, error) {
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
	return derive(s, "Extended_"+s.name, s.fields.overlay(fields))
}

// Merge returns a new Schema concatenating each input's fields in argument
// order. Later schemas' fields override earlier ones of the same name,
// keeping the position of first occurrence. Configuration and hooks are taken
// from the first schema. Merging zero schemas is a *SchemaDefinitionError.
func Merge(schemas ...*Schema) (*Schema, error) {
	if len(schemas) == 0 {
		return nil, schemaDefErrf("merge requires at least one schema")
	}
	merged := schemas[0].fields.clone()
	name := "Merge_" + schemas[0].name
	for _, s := range schemas[1:] {
		merged = merged.overlay(s.fields)
		name += "_" + s.name
	}
	return derive(schemas[0], name, merged)
}

// derive builds a new schema inheriting src's configuration, doc, and the
// hooks still applicable to the surviving fields.
func derive(src *Schema, name string, fields Fields) (*Schema, error) {
	reserveName(name)
	return &Schema{
		name:   name,
		doc:    src.doc,
		fields: fields,
		config: src.config,
		hooks:  deriveHooks(src.hooks, fields),
	}, nil
}
