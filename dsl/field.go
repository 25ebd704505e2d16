package dsl

import (
	tyck "github.com/reoring/tyck"
)

// FieldOpt attaches metadata to a field's descriptor.
type FieldOpt func(tyck.Descriptor) tyck.Descriptor

// Alias sets the wire name accepted for the field on input.
func Alias(name string) FieldOpt {
	return func(d tyck.Descriptor) tyck.Descriptor { return d.WithAlias(name) }
}

// Title sets the field's title for documentation output.
func Title(text string) FieldOpt {
	return func(d tyck.Descriptor) tyck.Descriptor { return d.WithTitle(text) }
}

// Description sets the field's description for documentation output.
func Description(text string) FieldOpt {
	return func(d tyck.Descriptor) tyck.Descriptor { return d.WithDescription(text) }
}

// Examples sets example values for documentation output.
func Examples(values ...any) FieldOpt {
	return func(d tyck.Descriptor) tyck.Descriptor { return d.WithExamples(values...) }
}

// Deprecated marks the field deprecated in documentation output.
func Deprecated() FieldOpt {
	return func(d tyck.Descriptor) tyck.Descriptor { return d.WithDeprecated(true) }
}

// Field builds a named field from a builder plus metadata options. It is sugar
// over tyck.F for chains that carry documentation metadata:
//
//	dsl.Field("email", dsl.String().Email(), dsl.Title("Contact address"))
func Field(name string, b tyck.Builder, opts ...FieldOpt) tyck.Field {
	d := b.Descriptor()
	for _, opt := range opts {
		d = opt(d)
	}
	return tyck.F(name, d)
}
