package tyck

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FromStruct compiles a Schema from a struct type's fields and `tyck` tags.
// This is the declarative counterpart of Interface: the struct's annotated
// fields serve as the field mapping, and an embedded struct contributes its
// fields first, like single-base inheritance.
//
//	type User struct {
//	    ID    int    `tyck:"gt=0"`
//	    Name  string `tyck:"min=1,max=100"`
//	    Email string `tyck:"email,alias=mail"`
//	}
//	schema, err := tyck.FromStruct[User]()
func FromStruct[T any](opts ...SchemaOption) (*Schema, error) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, schemaDefErrf("FromStruct requires a struct type, got %v", rt)
	}
	fields, err := structFields(rt)
	if err != nil {
		return nil, err
	}
	withDefaultName := append([]SchemaOption{WithName(rt.Name())}, opts...)
	return Interface(fields, withDefaultName...)
}

func structFields(rt reflect.Type) (Fields, error) {
	var out Fields
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			base, err := structFields(sf.Type)
			if err != nil {
				return nil, err
			}
			out = out.overlay(base)
			continue
		}
		name := resolveStructKey(sf)
		if name == "-" {
			continue
		}
		d, err := descriptorForType(sf.Type)
		if err != nil {
			return nil, schemaDefErrf("field %s: %v", sf.Name, err)
		}
		d, err = applyTag(d, sf.Tag.Get("tyck"))
		if err != nil {
			return nil, err
		}
		out = out.overlay(Fields{{Name: name, Desc: d}})
	}
	return out, nil
}

// resolveStructKey resolves a struct field's external key.
// Priority: tyck:"name=..." > json tag name > lowercased field name.
func resolveStructKey(sf reflect.StructField) string {
	if tt := sf.Tag.Get("tyck"); tt != "" {
		for _, p := range strings.Split(tt, ",") {
			p = strings.TrimSpace(p)
			if p == "-" {
				return "-"
			}
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return strings.ToLower(sf.Name)
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

func descriptorForType(rt reflect.Type) (Descriptor, error) {
	switch rt {
	case timeType:
		return NewDescriptor(KindDateTime), nil
	case uuidType:
		return NewDescriptor(KindUUID), nil
	case decimalType:
		return NewDescriptor(KindDecimal), nil
	}
	switch rt.Kind() {
	case reflect.String:
		return NewDescriptor(KindString), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewDescriptor(KindInteger), nil
	case reflect.Float32, reflect.Float64:
		return NewDescriptor(KindNumber), nil
	case reflect.Bool:
		return NewDescriptor(KindBoolean), nil
	case reflect.Pointer:
		inner, err := descriptorForType(rt.Elem())
		if err != nil {
			return Descriptor{}, err
		}
		return NewOptional(inner), nil
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return NewDescriptor(KindBytes), nil
		}
		elem, err := descriptorForType(rt.Elem())
		if err != nil {
			return Descriptor{}, err
		}
		return NewArray(elem), nil
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return Descriptor{}, schemaDefErrf("map keys must be strings, got %v", rt.Key())
		}
		val, err := descriptorForType(rt.Elem())
		if err != nil {
			return Descriptor{}, err
		}
		return NewDict(NewDescriptor(KindString), val), nil
	case reflect.Interface:
		return NewDescriptor(KindAny), nil
	}
	return Descriptor{}, schemaDefErrf("unsupported Go type %v", rt)
}

// applyTag folds the comma-separated tag tokens into the descriptor through
// the dynamic constraint path, so misapplied tokens surface immediately as
// *TypeMismatchError.
func applyTag(d Descriptor, tag string) (Descriptor, error) {
	if tag == "" {
		return d, nil
	}
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key, val, _ := strings.Cut(tok, "=")
		var err error
		switch key {
		case "name":
			// handled by resolveStructKey
		case "optional":
			d = NewOptional(d)
		case "alias":
			d = d.WithAlias(val)
		case "title":
			d = d.WithTitle(val)
		case "description":
			d = d.WithDescription(val)
		case "deprecated":
			d = d.WithDeprecated(true)
		case "default":
			dv, perr := parseTagValue(d, val)
			if perr != nil {
				return Descriptor{}, perr
			}
			d = d.WithDefault(dv)
		case "min":
			d, err = withTagNumber(d, sizeConstraintFor(d, true), val)
		case "max":
			d, err = withTagNumber(d, sizeConstraintFor(d, false), val)
		case "gt", "ge", "lt", "le", "multiple_of":
			d, err = withTagNumber(d, key, val)
		case "pattern":
			d, err = withTagConstraint(d, ConstraintPattern, val)
		case "email", "url", "uuid", "datetime", "date", "time", "ipv4", "ipv6", "ip", "json":
			d, err = withTagConstraint(d, ConstraintFormat, key)
		case "strip", "lower", "upper", "unique", "strict", "finite":
			d, err = withTagConstraint(d, key, true)
		case "max_digits":
			d, err = withTagNumber(d, ConstraintMaxDigits, val)
		case "decimal_places":
			d, err = withTagNumber(d, ConstraintDecimalPlaces, val)
		default:
			return Descriptor{}, schemaDefErrf("unknown tag token %q", tok)
		}
		if err != nil {
			return Descriptor{}, err
		}
	}
	return d, nil
}

// sizeConstraintFor maps the short min/max tokens onto the kind-appropriate
// constraint name.
func sizeConstraintFor(d Descriptor, min bool) string {
	inner, _ := d.Unwrap()
	switch inner.Kind() {
	case KindString, KindBytes:
		if min {
			return ConstraintMinLength
		}
		return ConstraintMaxLength
	case KindArray, KindSet, KindDict:
		if min {
			return ConstraintMinItems
		}
		return ConstraintMaxItems
	default:
		if min {
			return ConstraintGte
		}
		return ConstraintLte
	}
}

// withTagConstraint applies a constraint beneath any optional wrapping, so
// tag tokens work the same on pointer fields as on value fields.
func withTagConstraint(d Descriptor, name string, v any) (Descriptor, error) {
	inner, wasOptional := d.Unwrap()
	out, err := inner.With(name, v)
	if err != nil {
		return Descriptor{}, err
	}
	if wasOptional {
		return NewOptional(out), nil
	}
	return out, nil
}

func withTagNumber(d Descriptor, name, raw string) (Descriptor, error) {
	var v any
	switch name {
	case ConstraintMinLength, ConstraintMaxLength, ConstraintMinItems, ConstraintMaxItems,
		ConstraintMaxDigits, ConstraintDecimalPlaces:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Descriptor{}, schemaDefErrf("tag %s=%q: not an integer", name, raw)
		}
		v = n
	default:
		// integer-kind bounds stay int64 so large values keep full precision
		if inner, _ := d.Unwrap(); inner.Kind() == KindInteger {
			if n, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
				return withTagConstraint(d, name, n)
			}
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Descriptor{}, schemaDefErrf("tag %s=%q: not a number", name, raw)
		}
		v = f
	}
	return withTagConstraint(d, name, v)
}

func parseTagValue(d Descriptor, raw string) (any, error) {
	inner, _ := d.Unwrap()
	switch inner.Kind() {
	case KindInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, schemaDefErrf("default %q: not an integer", raw)
		}
		return n, nil
	case KindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, schemaDefErrf("default %q: not a number", raw)
		}
		return f, nil
	case KindBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, schemaDefErrf("default %q: not a boolean", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}
