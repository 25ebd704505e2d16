package tyck

// Field binds a name to a descriptor.
type Field struct {
	Name string
	Desc Descriptor
}

// Fields is an ordered field mapping. Order is preserved through compilation
// and becomes the declared field order of the schema (serialization order and
// JSON Schema properties order).
type Fields []Field

// F builds one Field entry from a name and any Builder (a dsl builder or a
// raw Descriptor).
func F(name string, b Builder) Field {
	return Field{Name: name, Desc: b.Descriptor()}
}

// Get looks up a field by name.
func (fs Fields) Get(name string) (Field, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declared order.
func (fs Fields) Names() []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

// clone copies the mapping; entries hold immutable descriptors so a shallow
// copy of the slice suffices.
func (fs Fields) clone() Fields {
	return append(Fields(nil), fs...)
}

// overlay returns fs with more overlaid key-wise: colliding names replace the
// existing descriptor in place, new names are appended in their given order.
func (fs Fields) overlay(more Fields) Fields {
	out := fs.clone()
	for _, nf := range more {
		replaced := false
		for i := range out {
			if out[i].Name == nf.Name {
				out[i].Desc = nf.Desc
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, nf)
		}
	}
	return out
}
