package engine

import (
	tyck "github.com/reoring/tyck"
	js "github.com/reoring/tyck/jsonschema"
)

// jsonFormats maps internal format names onto their JSON Schema spellings.
var jsonFormats = map[string]string{
	tyck.FormatEmail:    "email",
	tyck.FormatURL:      "uri",
	tyck.FormatUUID:     "uuid",
	tyck.FormatDateTime: "date-time",
	tyck.FormatDate:     "date",
	tyck.FormatTime:     "time",
	tyck.FormatIPv4:     "ipv4",
	tyck.FormatIPv6:     "ipv6",
	tyck.FormatIP:       "ip",
	tyck.FormatJSON:     "json",
}

// JSONSchema projects a compiled handle into a JSON Schema document. The same
// handle always yields the same document.
func (e *Engine) JSONSchema(h tyck.Handle) (*js.Schema, error) {
	hd, err := asHandle(h)
	if err != nil {
		return nil, err
	}
	doc := &js.Schema{
		Type:       "object",
		Properties: make(map[string]*js.Schema, len(hd.compiled)),
	}
	for _, f := range hd.fields {
		cf := hd.byName[f.Name]
		doc.Properties[f.Name] = schemaFor(f.Desc)
		if cf.required {
			doc.Required = append(doc.Required, f.Name)
		}
	}
	switch hd.cfg.Extra() {
	case tyck.ExtraForbid:
		doc.AdditionalProperties = false
	case tyck.ExtraAllow:
		doc.AdditionalProperties = true
	}
	return doc, nil
}

func schemaFor(d tyck.Descriptor) *js.Schema {
	out := &js.Schema{}
	switch d.Kind() {
	case tyck.KindString:
		out.Type = "string"
		applyStringKeywords(out, d)
	case tyck.KindInteger:
		out.Type = "integer"
		applyNumberKeywords(out, d)
	case tyck.KindNumber:
		out.Type = "number"
		applyNumberKeywords(out, d)
	case tyck.KindBoolean:
		out.Type = "boolean"
	case tyck.KindBytes:
		out.Type = "string"
		out.Format = "binary"
		if n, ok := intConstraint(d, tyck.ConstraintMinLength); ok {
			out.MinLength = js.Int(n)
		}
		if n, ok := intConstraint(d, tyck.ConstraintMaxLength); ok {
			out.MaxLength = js.Int(n)
		}
	case tyck.KindDecimal:
		out.Type = "string"
		out.Format = "decimal"
	case tyck.KindDateTime:
		out.Type = "string"
		out.Format = "date-time"
	case tyck.KindDate:
		out.Type = "string"
		out.Format = "date"
	case tyck.KindTime:
		out.Type = "string"
		out.Format = "time"
	case tyck.KindUUID:
		out.Type = "string"
		out.Format = "uuid"
	case tyck.KindArray:
		out.Type = "array"
		if elem, ok := d.Elem(); ok {
			out.Items = schemaFor(elem)
		}
		applyItemsKeywords(out, d)
		if boolConstraint(d, tyck.ConstraintUnique) {
			out.UniqueItems = js.Bool(true)
		}
	case tyck.KindSet:
		out.Type = "array"
		if elem, ok := d.Elem(); ok {
			out.Items = schemaFor(elem)
		}
		applyItemsKeywords(out, d)
		out.UniqueItems = js.Bool(true)
	case tyck.KindDict:
		out.Type = "object"
		if val, ok := d.Elem(); ok {
			out.AdditionalProperties = schemaFor(val)
		}
		if n, ok := intConstraint(d, tyck.ConstraintMinItems); ok {
			out.MinProperties = js.Int(n)
		}
		if n, ok := intConstraint(d, tyck.ConstraintMaxItems); ok {
			out.MaxProperties = js.Int(n)
		}
	case tyck.KindTuple:
		out.Type = "array"
		items := d.Items()
		out.PrefixItems = make([]*js.Schema, len(items))
		for i, it := range items {
			out.PrefixItems[i] = schemaFor(it)
		}
		out.MinItems = js.Int(len(items))
		out.MaxItems = js.Int(len(items))
	case tyck.KindUnion:
		variants := d.Variants()
		out.OneOf = make([]*js.Schema, len(variants))
		for i, vd := range variants {
			out.OneOf[i] = schemaFor(vd)
		}
	case tyck.KindLiteral:
		vals := d.Values()
		if len(vals) == 1 {
			out.Const = vals[0]
		} else {
			out.Enum = vals
		}
	case tyck.KindEnum:
		out.Enum = d.Values()
	case tyck.KindOptional:
		if inner, ok := d.Elem(); ok {
			out = schemaFor(inner)
		}
	case tyck.KindNone:
		out.Type = "null"
	case tyck.KindAny:
		// no type keyword: matches anything
	}
	if def, ok := d.Default(); ok {
		out.Default = def
	}
	m := d.Metadata()
	out.Title = m.Title
	out.Description = m.Description
	out.Examples = m.Examples
	out.Deprecated = m.Deprecated
	return out
}

func applyStringKeywords(out *js.Schema, d tyck.Descriptor) {
	if n, ok := intConstraint(d, tyck.ConstraintMinLength); ok {
		out.MinLength = js.Int(n)
	}
	if n, ok := intConstraint(d, tyck.ConstraintMaxLength); ok {
		out.MaxLength = js.Int(n)
	}
	if raw, ok := d.Constraint(tyck.ConstraintPattern); ok {
		out.Pattern, _ = raw.(string)
	}
	if raw, ok := d.Constraint(tyck.ConstraintFormat); ok {
		if name, ok := raw.(string); ok {
			out.Format = jsonFormats[name]
		}
	}
}

func applyNumberKeywords(out *js.Schema, d tyck.Descriptor) {
	if v, ok := floatConstraint(d, tyck.ConstraintGt); ok {
		out.ExclusiveMinimum = js.Float(v)
	}
	if v, ok := floatConstraint(d, tyck.ConstraintGte); ok {
		out.Minimum = js.Float(v)
	}
	if v, ok := floatConstraint(d, tyck.ConstraintLt); ok {
		out.ExclusiveMaximum = js.Float(v)
	}
	if v, ok := floatConstraint(d, tyck.ConstraintLte); ok {
		out.Maximum = js.Float(v)
	}
	if v, ok := floatConstraint(d, tyck.ConstraintMultipleOf); ok {
		out.MultipleOf = js.Float(v)
	}
}

func applyItemsKeywords(out *js.Schema, d tyck.Descriptor) {
	if n, ok := intConstraint(d, tyck.ConstraintMinItems); ok {
		out.MinItems = js.Int(n)
	}
	if n, ok := intConstraint(d, tyck.ConstraintMaxItems); ok {
		out.MaxItems = js.Int(n)
	}
}
