package tyck

// Constraint names recognized by Descriptor.With and the engine. The set is
// closed; unknown names are rejected at build time.
const (
	ConstraintMinLength     = "min_length"
	ConstraintMaxLength     = "max_length"
	ConstraintPattern       = "pattern"
	ConstraintFormat        = "format" // email, url, uuid, datetime, date, time, ipv4, ipv6, ip, json
	ConstraintStrip         = "strip"
	ConstraintLower         = "lower"
	ConstraintUpper         = "upper"
	ConstraintGt            = "gt"
	ConstraintGte           = "ge"
	ConstraintLt            = "lt"
	ConstraintLte           = "le"
	ConstraintMultipleOf    = "multiple_of"
	ConstraintFinite        = "finite"
	ConstraintStrict        = "strict"
	ConstraintMinItems      = "min_items"
	ConstraintMaxItems      = "max_items"
	ConstraintUnique        = "unique"
	ConstraintMaxDigits     = "max_digits"
	ConstraintDecimalPlaces = "decimal_places"
)

// String format names carried by ConstraintFormat.
const (
	FormatEmail    = "email"
	FormatURL      = "url"
	FormatUUID     = "uuid"
	FormatDateTime = "datetime"
	FormatDate     = "date"
	FormatTime     = "time"
	FormatIPv4     = "ipv4"
	FormatIPv6     = "ipv6"
	FormatIP       = "ip"
	FormatJSON     = "json"
)

// constraintKinds maps each constraint name to the kinds it applies to.
var constraintKinds = map[string][]Kind{
	ConstraintMinLength:     {KindString, KindBytes},
	ConstraintMaxLength:     {KindString, KindBytes},
	ConstraintPattern:       {KindString},
	ConstraintFormat:        {KindString},
	ConstraintStrip:         {KindString},
	ConstraintLower:         {KindString},
	ConstraintUpper:         {KindString},
	ConstraintGt:            {KindNumber, KindInteger, KindDecimal},
	ConstraintGte:           {KindNumber, KindInteger, KindDecimal},
	ConstraintLt:            {KindNumber, KindInteger, KindDecimal},
	ConstraintLte:           {KindNumber, KindInteger, KindDecimal},
	ConstraintMultipleOf:    {KindNumber, KindInteger},
	ConstraintFinite:        {KindNumber},
	ConstraintStrict:        {KindBoolean},
	ConstraintMinItems:      {KindArray, KindSet, KindDict},
	ConstraintMaxItems:      {KindArray, KindSet, KindDict},
	ConstraintUnique:        {KindArray},
	ConstraintMaxDigits:     {KindDecimal},
	ConstraintDecimalPlaces: {KindDecimal},
}

// Constraint is one named constraint with its parameter.
type Constraint struct {
	Name  string
	Value any
}

// Meta holds non-validating field metadata.
type Meta struct {
	Alias       string
	Title       string
	Description string
	Examples    []any
	Deprecated  bool
}

// Descriptor is an immutable value describing one base type plus its
// accumulated constraints, default, and metadata. Every derivation method
// returns a new Descriptor; a Descriptor is never mutated after creation, so
// values are safe to share across goroutines and to reuse as the base of
// diverging chains.
type Descriptor struct {
	kind        Kind
	constraints []Constraint
	hasDefault  bool
	defaultVal  any
	meta        Meta

	elem     *Descriptor  // array/set element, dict value, optional inner
	key      *Descriptor  // dict key
	items    []Descriptor // tuple slots
	variants []Descriptor // union variants
	values   []any        // literal values / enum members
}

// Builder is anything that can produce a Descriptor. Descriptor implements it
// itself so field mappings accept both raw descriptors and dsl builders.
type Builder interface {
	Descriptor() Descriptor
}

// Descriptor returns the descriptor itself, satisfying Builder.
func (d Descriptor) Descriptor() Descriptor { return d }

// NewDescriptor returns a bare descriptor of the given kind with no
// constraints, default, or metadata.
func NewDescriptor(kind Kind) Descriptor { return Descriptor{kind: kind} }

// NewArray returns an array descriptor over the given element descriptor.
func NewArray(elem Descriptor) Descriptor {
	return Descriptor{kind: KindArray, elem: &elem}
}

// NewSet returns a set descriptor over the given element descriptor.
func NewSet(elem Descriptor) Descriptor {
	return Descriptor{kind: KindSet, elem: &elem}
}

// NewDict returns a dict descriptor with the given key and value descriptors.
func NewDict(key, value Descriptor) Descriptor {
	return Descriptor{kind: KindDict, key: &key, elem: &value}
}

// NewTuple returns a tuple descriptor with one slot per item descriptor.
func NewTuple(items ...Descriptor) Descriptor {
	return Descriptor{kind: KindTuple, items: append([]Descriptor(nil), items...)}
}

// NewUnion returns a union descriptor over the given variant descriptors.
func NewUnion(variants ...Descriptor) Descriptor {
	return Descriptor{kind: KindUnion, variants: append([]Descriptor(nil), variants...)}
}

// NewLiteral returns a literal descriptor admitting exactly the given values.
func NewLiteral(values ...any) Descriptor {
	return Descriptor{kind: KindLiteral, values: append([]any(nil), values...)}
}

// NewEnum returns an enum descriptor over the given member values.
func NewEnum(values ...any) Descriptor {
	return Descriptor{kind: KindEnum, values: append([]any(nil), values...)}
}

// NewOptional wraps a descriptor to accept absence and null. Wrapping an
// already-optional descriptor returns it unchanged; optional never nests.
func NewOptional(inner Descriptor) Descriptor {
	if inner.kind == KindOptional {
		return inner
	}
	return Descriptor{kind: KindOptional, elem: &inner}
}

// clone copies the descriptor. Nested descriptors are themselves immutable so
// pointer sharing is safe; only the directly mutable slices are copied.
func (d Descriptor) clone() Descriptor {
	out := d
	out.constraints = append([]Constraint(nil), d.constraints...)
	if d.meta.Examples != nil {
		out.meta.Examples = append([]any(nil), d.meta.Examples...)
	}
	return out
}

// With returns a copy of the descriptor with the named constraint set. Later
// writes of the same name replace the earlier value in place (last write
// wins, original position kept). Applying a constraint to an incompatible
// kind returns a *TypeMismatchError immediately; nothing is deferred to
// validation time.
func (d Descriptor) With(name string, value any) (Descriptor, error) {
	kinds, ok := constraintKinds[name]
	if !ok {
		return Descriptor{}, schemaDefErrf("unknown constraint %q", name)
	}
	applicable := false
	for _, k := range kinds {
		if k == d.kind {
			applicable = true
			break
		}
	}
	if !applicable {
		return Descriptor{}, &TypeMismatchError{Constraint: name, Kind: d.kind}
	}
	out := d.clone()
	for i := range out.constraints {
		if out.constraints[i].Name == name {
			out.constraints[i].Value = value
			return out, nil
		}
	}
	out.constraints = append(out.constraints, Constraint{Name: name, Value: value})
	return out, nil
}

// WithDefault returns a copy carrying a default value. A nil default is a
// real default, distinct from having none.
func (d Descriptor) WithDefault(v any) Descriptor {
	out := d.clone()
	out.hasDefault = true
	out.defaultVal = v
	return out
}

// WithoutDefault returns a copy with no default.
func (d Descriptor) WithoutDefault() Descriptor {
	out := d.clone()
	out.hasDefault = false
	out.defaultVal = nil
	return out
}

// WithAlias returns a copy with the wire alias set.
func (d Descriptor) WithAlias(name string) Descriptor {
	out := d.clone()
	out.meta.Alias = name
	return out
}

// WithTitle returns a copy with the title set.
func (d Descriptor) WithTitle(text string) Descriptor {
	out := d.clone()
	out.meta.Title = text
	return out
}

// WithDescription returns a copy with the description set.
func (d Descriptor) WithDescription(text string) Descriptor {
	out := d.clone()
	out.meta.Description = text
	return out
}

// WithExamples returns a copy with example values set.
func (d Descriptor) WithExamples(values ...any) Descriptor {
	out := d.clone()
	out.meta.Examples = append([]any(nil), values...)
	return out
}

// WithDeprecated returns a copy marked deprecated.
func (d Descriptor) WithDeprecated(deprecated bool) Descriptor {
	out := d.clone()
	out.meta.Deprecated = deprecated
	return out
}

// ---- accessors ----

// Kind reports the descriptor's base type tag.
func (d Descriptor) Kind() Kind { return d.kind }

// Constraints returns the accumulated constraints in application order.
func (d Descriptor) Constraints() []Constraint {
	return append([]Constraint(nil), d.constraints...)
}

// Constraint looks up one constraint value by name.
func (d Descriptor) Constraint(name string) (any, bool) {
	for _, c := range d.constraints {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Default reports the default value and whether one is set.
func (d Descriptor) Default() (any, bool) { return d.defaultVal, d.hasDefault }

// Metadata returns the field metadata.
func (d Descriptor) Metadata() Meta {
	m := d.meta
	if m.Examples != nil {
		m.Examples = append([]any(nil), m.Examples...)
	}
	return m
}

// Elem returns the nested element descriptor for array/set/optional kinds and
// the value descriptor for dict.
func (d Descriptor) Elem() (Descriptor, bool) {
	if d.elem == nil {
		return Descriptor{}, false
	}
	return *d.elem, true
}

// Key returns the dict key descriptor.
func (d Descriptor) Key() (Descriptor, bool) {
	if d.key == nil {
		return Descriptor{}, false
	}
	return *d.key, true
}

// Items returns the tuple slot descriptors.
func (d Descriptor) Items() []Descriptor { return append([]Descriptor(nil), d.items...) }

// Variants returns the union variant descriptors.
func (d Descriptor) Variants() []Descriptor { return append([]Descriptor(nil), d.variants...) }

// Values returns literal values or enum members.
func (d Descriptor) Values() []any { return append([]any(nil), d.values...) }

// Unwrap strips optional wrapping, returning the inner descriptor and whether
// the receiver was optional. Non-optional descriptors return themselves.
func (d Descriptor) Unwrap() (Descriptor, bool) {
	if d.kind == KindOptional && d.elem != nil {
		return *d.elem, true
	}
	return d, false
}
