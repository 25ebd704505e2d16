// Package yamldef loads schema definitions from YAML documents. It exists for
// configuration-driven pipelines where the field mapping lives in a file
// rather than in Go source. A definition looks like:
//
//	name: User
//	config:
//	  extra: forbid
//	fields:
//	  - name: id
//	    type: integer
//	    gt: 0
//	  - name: name
//	    type: string
//	    min_length: 1
//	    max_length: 100
//	  - name: tags
//	    type: array
//	    optional: true
//	    elem: {type: string}
//
// Unknown constraint keys and kind/constraint mismatches fail at load time
// through the same checks the programmatic construction path uses.
package yamldef

import (
	"fmt"

	"gopkg.in/yaml.v3"

	tyck "github.com/reoring/tyck"
)

type typeDef struct {
	Type        string
	Optional    bool
	Alias       string
	Title       string
	Description string
	Deprecated  bool

	Default    *yaml.Node
	Elem       *typeDef
	Key        *typeDef
	Items      []*typeDef
	Variants   []*typeDef
	LiteralVal []any

	// Remaining keys are constraint parameters (min_length, gt, format, ...).
	// Order is preserved from the document.
	Constraints []tyck.Constraint
}

// UnmarshalYAML walks the mapping node by hand: the known structural keys are
// decoded into their fields, and every other key is kept as a constraint
// parameter. Decoding through struct tags would silently drop the open-ended
// constraint keys.
func (t *typeDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got %s", nodeKindName(node.Kind))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var err error
		switch key.Value {
		case "name":
			// consumed by fieldDef
		case "type":
			err = val.Decode(&t.Type)
		case "optional":
			err = val.Decode(&t.Optional)
		case "alias":
			err = val.Decode(&t.Alias)
		case "title":
			err = val.Decode(&t.Title)
		case "description":
			err = val.Decode(&t.Description)
		case "deprecated":
			err = val.Decode(&t.Deprecated)
		case "default":
			t.Default = val
		case "elem":
			t.Elem = &typeDef{}
			err = val.Decode(t.Elem)
		case "key":
			t.Key = &typeDef{}
			err = val.Decode(t.Key)
		case "items":
			err = val.Decode(&t.Items)
		case "variants":
			err = val.Decode(&t.Variants)
		case "values":
			err = val.Decode(&t.LiteralVal)
		default:
			var v any
			if err = val.Decode(&v); err == nil {
				t.Constraints = append(t.Constraints, tyck.Constraint{Name: key.Value, Value: v})
			}
		}
		if err != nil {
			return fmt.Errorf("key %q: %w", key.Value, err)
		}
	}
	return nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}

type fieldDef struct {
	Name string
	typeDef
}

func (f *fieldDef) UnmarshalYAML(node *yaml.Node) error {
	var meta struct {
		Name string `yaml:"name"`
	}
	if err := node.Decode(&meta); err != nil {
		return err
	}
	f.Name = meta.Name
	return f.typeDef.UnmarshalYAML(node)
}

type configDef struct {
	Strict             *bool   `yaml:"strict"`
	Frozen             *bool   `yaml:"frozen"`
	Extra              *string `yaml:"extra"`
	PopulateByName     *bool   `yaml:"populate_by_name"`
	ValidateAssignment *bool   `yaml:"validate_assignment"`
	StrToLower         *bool   `yaml:"str_to_lower"`
	StrToUpper         *bool   `yaml:"str_to_upper"`
	StrStripWhitespace *bool   `yaml:"str_strip_whitespace"`
	UseEnumValues      *bool   `yaml:"use_enum_values"`
	ValidateDefault    *bool   `yaml:"validate_default"`
}

type schemaDef struct {
	Name   string     `yaml:"name"`
	Doc    string     `yaml:"doc"`
	Config *configDef `yaml:"config"`
	Fields []fieldDef `yaml:"fields"`
}

// Parse loads one schema definition document and compiles it.
func Parse(data []byte) (*tyck.Schema, error) {
	var def schemaDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("yamldef: %w", err)
	}
	fields, err := buildFields(def.Fields)
	if err != nil {
		return nil, err
	}
	opts := []tyck.SchemaOption{}
	if def.Name != "" {
		opts = append(opts, tyck.WithName(def.Name))
	}
	if def.Doc != "" {
		opts = append(opts, tyck.WithDoc(def.Doc))
	}
	if def.Config != nil {
		cfg, err := buildConfig(def.Config)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tyck.WithConfig(cfg))
	}
	return tyck.Interface(fields, opts...)
}

// ParseFields loads a bare field list (a YAML sequence of field entries)
// without compiling a schema, for callers that compose mappings further.
func ParseFields(data []byte) (tyck.Fields, error) {
	var defs []fieldDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("yamldef: %w", err)
	}
	return buildFields(defs)
}

func buildFields(defs []fieldDef) (tyck.Fields, error) {
	out := make(tyck.Fields, 0, len(defs))
	for _, fd := range defs {
		if fd.Name == "" {
			return nil, fmt.Errorf("yamldef: field entry without a name")
		}
		d, err := buildDescriptor(&fd.typeDef)
		if err != nil {
			return nil, fmt.Errorf("yamldef: field %q: %w", fd.Name, err)
		}
		out = append(out, tyck.Field{Name: fd.Name, Desc: d})
	}
	return out, nil
}

func buildDescriptor(def *typeDef) (tyck.Descriptor, error) {
	var d tyck.Descriptor
	kind := tyck.KindFromString(def.Type)
	switch kind {
	case tyck.KindInvalid:
		return tyck.Descriptor{}, fmt.Errorf("unknown type %q", def.Type)
	case tyck.KindArray, tyck.KindSet:
		if def.Elem == nil {
			return tyck.Descriptor{}, fmt.Errorf("%s requires elem", def.Type)
		}
		elem, err := buildDescriptor(def.Elem)
		if err != nil {
			return tyck.Descriptor{}, err
		}
		if kind == tyck.KindArray {
			d = tyck.NewArray(elem)
		} else {
			d = tyck.NewSet(elem)
		}
	case tyck.KindDict:
		if def.Elem == nil {
			return tyck.Descriptor{}, fmt.Errorf("dict requires elem")
		}
		key := &typeDef{Type: "string"}
		if def.Key != nil {
			key = def.Key
		}
		kd, err := buildDescriptor(key)
		if err != nil {
			return tyck.Descriptor{}, err
		}
		vd, err := buildDescriptor(def.Elem)
		if err != nil {
			return tyck.Descriptor{}, err
		}
		d = tyck.NewDict(kd, vd)
	case tyck.KindTuple:
		items := make([]tyck.Descriptor, len(def.Items))
		for i, it := range def.Items {
			id, err := buildDescriptor(it)
			if err != nil {
				return tyck.Descriptor{}, err
			}
			items[i] = id
		}
		d = tyck.NewTuple(items...)
	case tyck.KindUnion:
		variants := make([]tyck.Descriptor, len(def.Variants))
		for i, vt := range def.Variants {
			vd, err := buildDescriptor(vt)
			if err != nil {
				return tyck.Descriptor{}, err
			}
			variants[i] = vd
		}
		d = tyck.NewUnion(variants...)
	case tyck.KindLiteral:
		d = tyck.NewLiteral(def.LiteralVal...)
	case tyck.KindEnum:
		d = tyck.NewEnum(def.LiteralVal...)
	default:
		d = tyck.NewDescriptor(kind)
	}

	var err error
	for _, c := range def.Constraints {
		d, err = d.With(c.Name, normalizeConstraint(c.Value))
		if err != nil {
			return tyck.Descriptor{}, err
		}
	}
	if def.Default != nil {
		var dv any
		if err := def.Default.Decode(&dv); err != nil {
			return tyck.Descriptor{}, fmt.Errorf("default: %w", err)
		}
		d = d.WithDefault(dv)
	}
	if def.Alias != "" {
		d = d.WithAlias(def.Alias)
	}
	if def.Title != "" {
		d = d.WithTitle(def.Title)
	}
	if def.Description != "" {
		d = d.WithDescription(def.Description)
	}
	if def.Deprecated {
		d = d.WithDeprecated(true)
	}
	if def.Optional {
		d = tyck.NewOptional(d)
	}
	return d, nil
}

// normalizeConstraint aligns YAML scalar decoding with the parameter types
// constraint checks expect.
func normalizeConstraint(v any) any {
	switch t := v.(type) {
	case int64:
		return int(t)
	case uint64:
		return int(t)
	}
	return v
}

func buildConfig(def *configDef) (tyck.Config, error) {
	var opts []tyck.ConfigOption
	if def.Strict != nil {
		opts = append(opts, tyck.Strict(*def.Strict))
	}
	if def.Frozen != nil {
		opts = append(opts, tyck.Frozen(*def.Frozen))
	}
	if def.Extra != nil {
		p, ok := tyck.ExtraPolicyFromString(*def.Extra)
		if !ok {
			return tyck.Config{}, fmt.Errorf("yamldef: unknown extra policy %q", *def.Extra)
		}
		opts = append(opts, tyck.Extra(p))
	}
	if def.PopulateByName != nil {
		opts = append(opts, tyck.PopulateByName(*def.PopulateByName))
	}
	if def.ValidateAssignment != nil {
		opts = append(opts, tyck.ValidateAssignment(*def.ValidateAssignment))
	}
	if def.StrToLower != nil {
		opts = append(opts, tyck.StrToLower(*def.StrToLower))
	}
	if def.StrToUpper != nil {
		opts = append(opts, tyck.StrToUpper(*def.StrToUpper))
	}
	if def.StrStripWhitespace != nil {
		opts = append(opts, tyck.StrStripWhitespace(*def.StrStripWhitespace))
	}
	if def.UseEnumValues != nil {
		opts = append(opts, tyck.UseEnumValues(*def.UseEnumValues))
	}
	if def.ValidateDefault != nil {
		opts = append(opts, tyck.ValidateDefault(*def.ValidateDefault))
	}
	return tyck.NewConfig(opts...), nil
}
