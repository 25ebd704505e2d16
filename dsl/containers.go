package dsl

import (
	tyck "github.com/reoring/tyck"
)

// ---------------- Array / Set ----------------

// ArrayBuilder chains array constraints over a fixed element descriptor.
type ArrayBuilder struct{ d tyck.Descriptor }

// Array starts an array descriptor chain over the given element.
func Array(elem tyck.Builder) ArrayBuilder {
	return ArrayBuilder{d: tyck.NewArray(elem.Descriptor())}
}

func (b ArrayBuilder) Descriptor() tyck.Descriptor { return b.d }

// Min sets the minimum element count.
func (b ArrayBuilder) Min(n int) ArrayBuilder {
	return ArrayBuilder{d: chain(b.d.With(tyck.ConstraintMinItems, n))}
}

// Max sets the maximum element count.
func (b ArrayBuilder) Max(n int) ArrayBuilder {
	return ArrayBuilder{d: chain(b.d.With(tyck.ConstraintMaxItems, n))}
}

// Length sets an exact element count.
func (b ArrayBuilder) Length(n int) ArrayBuilder { return b.Min(n).Max(n) }

// Unique rejects duplicate elements.
func (b ArrayBuilder) Unique() ArrayBuilder {
	return ArrayBuilder{d: chain(b.d.With(tyck.ConstraintUnique, true))}
}

// Default sets the default value.
func (b ArrayBuilder) Default(v []any) ArrayBuilder {
	return ArrayBuilder{d: b.d.WithDefault(v)}
}

// SetBuilder chains set constraints. Sets deduplicate on validation instead of
// rejecting duplicates.
type SetBuilder struct{ d tyck.Descriptor }

// Set starts a set descriptor chain over the given element.
func Set(elem tyck.Builder) SetBuilder {
	return SetBuilder{d: tyck.NewSet(elem.Descriptor())}
}

func (b SetBuilder) Descriptor() tyck.Descriptor { return b.d }

// Min sets the minimum element count after deduplication.
func (b SetBuilder) Min(n int) SetBuilder {
	return SetBuilder{d: chain(b.d.With(tyck.ConstraintMinItems, n))}
}

// Max sets the maximum element count after deduplication.
func (b SetBuilder) Max(n int) SetBuilder {
	return SetBuilder{d: chain(b.d.With(tyck.ConstraintMaxItems, n))}
}

// Default sets the default value.
func (b SetBuilder) Default(v []any) SetBuilder {
	return SetBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Dict ----------------

// DictBuilder chains mapping constraints over fixed key and value descriptors.
type DictBuilder struct{ d tyck.Descriptor }

// Dict starts a dict descriptor chain with the given key and value shapes.
func Dict(key, value tyck.Builder) DictBuilder {
	return DictBuilder{d: tyck.NewDict(key.Descriptor(), value.Descriptor())}
}

func (b DictBuilder) Descriptor() tyck.Descriptor { return b.d }

// Min sets the minimum entry count.
func (b DictBuilder) Min(n int) DictBuilder {
	return DictBuilder{d: chain(b.d.With(tyck.ConstraintMinItems, n))}
}

// Max sets the maximum entry count.
func (b DictBuilder) Max(n int) DictBuilder {
	return DictBuilder{d: chain(b.d.With(tyck.ConstraintMaxItems, n))}
}

// Default sets the default value.
func (b DictBuilder) Default(v map[string]any) DictBuilder {
	return DictBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Tuple / Union ----------------

// TupleBuilder describes a fixed-length heterogeneous sequence.
type TupleBuilder struct{ d tyck.Descriptor }

// Tuple starts a tuple descriptor chain with one slot per builder.
func Tuple(items ...tyck.Builder) TupleBuilder {
	ds := make([]tyck.Descriptor, len(items))
	for i, it := range items {
		ds[i] = it.Descriptor()
	}
	return TupleBuilder{d: tyck.NewTuple(ds...)}
}

func (b TupleBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b TupleBuilder) Default(v []any) TupleBuilder {
	return TupleBuilder{d: b.d.WithDefault(v)}
}

// UnionBuilder accepts any one of the variant shapes. Variants are tried in
// declaration order; the first match wins.
type UnionBuilder struct{ d tyck.Descriptor }

// Union starts a union descriptor chain over the given variants.
func Union(variants ...tyck.Builder) UnionBuilder {
	ds := make([]tyck.Descriptor, len(variants))
	for i, v := range variants {
		ds[i] = v.Descriptor()
	}
	return UnionBuilder{d: tyck.NewUnion(ds...)}
}

func (b UnionBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b UnionBuilder) Default(v any) UnionBuilder {
	return UnionBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Literal / Enum ----------------

// LiteralBuilder admits exactly the listed values.
type LiteralBuilder struct{ d tyck.Descriptor }

// Literal starts a literal descriptor chain. A single-value literal doubles as
// a constant field.
func Literal(values ...any) LiteralBuilder {
	return LiteralBuilder{d: tyck.NewLiteral(values...)}
}

func (b LiteralBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b LiteralBuilder) Default(v any) LiteralBuilder {
	return LiteralBuilder{d: b.d.WithDefault(v)}
}

// EnumBuilder admits members of a closed value set.
type EnumBuilder struct{ d tyck.Descriptor }

// Enum starts an enum descriptor chain over the given members.
func Enum(values ...any) EnumBuilder {
	return EnumBuilder{d: tyck.NewEnum(values...)}
}

func (b EnumBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b EnumBuilder) Default(v any) EnumBuilder {
	return EnumBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Optional ----------------

// OptionalBuilder marks a shape as accepting absence and null.
type OptionalBuilder struct{ d tyck.Descriptor }

// Optional wraps a builder's shape to accept absence and null. Wrapping an
// already-optional shape is a no-op.
func Optional(inner tyck.Builder) OptionalBuilder {
	return OptionalBuilder{d: tyck.NewOptional(inner.Descriptor())}
}

func (b OptionalBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default used when the field is absent. Optional fields
// without an explicit default materialize as absent, not null.
func (b OptionalBuilder) Default(v any) OptionalBuilder {
	return OptionalBuilder{d: b.d.WithDefault(v)}
}
