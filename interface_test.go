package tyck_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tyck "github.com/reoring/tyck"
	"github.com/reoring/tyck/dsl"
	_ "github.com/reoring/tyck/engine"
)

func TestInterfaceEndToEnd(t *testing.T) {
	ctx := context.Background()
	user, err := tyck.Interface(tyck.Fields{
		tyck.F("id", dsl.Integer().Positive()),
		tyck.F("name", dsl.String().Min(1).Max(100)),
		tyck.F("email", dsl.Optional(dsl.String().Email())),
	}, tyck.WithName("User"))
	if err != nil {
		t.Fatalf("Interface: %v", err)
	}

	inst, err := user.New(ctx, map[string]any{"id": 7, "name": "alice"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v, ok := inst.Get("id"); !ok || v != int64(7) {
		t.Fatalf("id = %v (%T), want int64(7)", v, v)
	}
	if _, ok := inst.Get("email"); ok {
		t.Fatalf("absent optional field should stay absent")
	}

	b, err := inst.DumpJSON()
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}
	if got := string(b); got != `{"id":7,"name":"alice"}` {
		t.Fatalf("DumpJSON = %s", got)
	}
}

func TestIssuesAggregateAcrossFields(t *testing.T) {
	ctx := context.Background()
	user, err := tyck.Interface(tyck.Fields{
		tyck.F("id", dsl.Integer().Positive()),
		tyck.F("name", dsl.String().Min(1)),
	})
	if err != nil {
		t.Fatalf("Interface: %v", err)
	}
	_, err = user.New(ctx, map[string]any{"id": -1, "name": ""})
	iss, ok := tyck.AsIssues(err)
	if !ok {
		t.Fatalf("err = %v, want Issues", err)
	}
	if len(iss) != 2 {
		t.Fatalf("issues = %d, want 2: %v", len(iss), iss)
	}
	if iss[0].Path != "/id" || iss[0].Code != tyck.CodeTooSmall {
		t.Fatalf("iss[0] = %+v", iss[0])
	}
	if iss[1].Path != "/name" || iss[1].Code != tyck.CodeTooShort {
		t.Fatalf("iss[1] = %+v", iss[1])
	}
}

func TestMissingRequiredField(t *testing.T) {
	ctx := context.Background()
	s, _ := tyck.Interface(tyck.Fields{tyck.F("name", dsl.String())})
	_, err := s.New(ctx, map[string]any{})
	iss, ok := tyck.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != tyck.CodeRequired || iss[0].Path != "/name" {
		t.Fatalf("err = %v", err)
	}
}

func TestExtraPolicies(t *testing.T) {
	ctx := context.Background()
	fields := tyck.Fields{tyck.F("id", dsl.Integer())}
	input := map[string]any{"id": 1, "stray": "x"}

	ignore, _ := tyck.Interface(fields)
	inst, err := ignore.New(ctx, input)
	if err != nil {
		t.Fatalf("ignore: %v", err)
	}
	if _, ok := inst.Get("stray"); ok {
		t.Fatalf("ignore policy kept the unknown key")
	}

	allow, _ := tyck.Interface(fields, tyck.WithConfig(tyck.NewConfig(tyck.Extra(tyck.ExtraAllow))))
	inst, err = allow.New(ctx, input)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if v, ok := inst.Get("stray"); !ok || v != "x" {
		t.Fatalf("allow policy dropped the unknown key")
	}

	forbid, _ := tyck.Interface(fields, tyck.WithConfig(tyck.NewConfig(tyck.Extra(tyck.ExtraForbid))))
	_, err = forbid.New(ctx, input)
	iss, ok := tyck.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != tyck.CodeUnknownKey || iss[0].Path != "/stray" {
		t.Fatalf("forbid: err = %v", err)
	}
}

func TestBaseInheritance(t *testing.T) {
	ctx := context.Background()
	base, err := tyck.Interface(tyck.Fields{
		tyck.F("id", dsl.Integer().Positive()),
		tyck.F("note", dsl.String()),
	}, tyck.WithConfig(tyck.NewConfig(tyck.Extra(tyck.ExtraForbid))))
	if err != nil {
		t.Fatalf("base: %v", err)
	}
	child, err := tyck.Interface(tyck.Fields{
		tyck.F("note", dsl.String().Min(3)),
		tyck.F("level", dsl.Integer().Gte(0)),
	}, tyck.WithBase(base))
	if err != nil {
		t.Fatalf("child: %v", err)
	}
	if got := child.Fields().Names(); strings.Join(got, ",") != "id,note,level" {
		t.Fatalf("field order = %v", got)
	}
	// config inherited from base
	if child.Config().Extra() != tyck.ExtraForbid {
		t.Fatalf("child lost inherited config")
	}
	// overridden field enforces the child's constraint
	_, err = child.New(ctx, map[string]any{"id": 1, "note": "ab", "level": 0})
	if iss, ok := tyck.AsIssues(err); !ok || iss[0].Path != "/note" {
		t.Fatalf("err = %v", err)
	}
}

func TestFrozenRejectsAssignment(t *testing.T) {
	ctx := context.Background()
	s, _ := tyck.Interface(
		tyck.Fields{tyck.F("id", dsl.Integer())},
		tyck.WithConfig(tyck.NewConfig(tyck.Frozen(true))),
	)
	inst, err := s.New(ctx, map[string]any{"id": 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = inst.Set(ctx, "id", 2)
	iss, ok := tyck.AsIssues(err)
	if !ok || iss[0].Code != tyck.CodeFrozen {
		t.Fatalf("err = %v, want frozen_instance", err)
	}
	if v, _ := inst.Get("id"); v != int64(1) {
		t.Fatalf("frozen instance was mutated: %v", v)
	}
}

func TestValidateAssignment(t *testing.T) {
	ctx := context.Background()
	s, _ := tyck.Interface(
		tyck.Fields{tyck.F("id", dsl.Integer().Positive())},
		tyck.WithConfig(tyck.NewConfig(tyck.ValidateAssignment(true))),
	)
	inst, err := s.New(ctx, map[string]any{"id": 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := inst.Set(ctx, "id", "42"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := inst.Get("id"); v != int64(42) {
		t.Fatalf("assignment not coerced: %v (%T)", v, v)
	}
	err = inst.Set(ctx, "id", -5)
	if _, ok := tyck.AsIssues(err); !ok {
		t.Fatalf("invalid assignment accepted: %v", err)
	}
}

func TestFieldValidatorHook(t *testing.T) {
	ctx := context.Background()
	s, err := tyck.Interface(
		tyck.Fields{tyck.F("name", dsl.String())},
		tyck.WithValidator("name", "no_admin", func(ctx context.Context, v any) error {
			if v == "admin" {
				return errors.New("reserved name")
			}
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("Interface: %v", err)
	}
	if _, err := s.New(ctx, map[string]any{"name": "alice"}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	_, err = s.New(ctx, map[string]any{"name": "admin"})
	iss, ok := tyck.AsIssues(err)
	if !ok || iss[0].Code != tyck.CodeCustomRule || iss[0].Rule != "no_admin" || iss[0].Path != "/name" {
		t.Fatalf("err = %v", err)
	}
}

func TestRootValidatorHook(t *testing.T) {
	ctx := context.Background()
	s, err := tyck.Interface(
		tyck.Fields{
			tyck.F("low", dsl.Integer()),
			tyck.F("high", dsl.Integer()),
		},
		tyck.WithRootValidator("ordered_range", func(ctx context.Context, values map[string]any) error {
			if values["low"].(int64) > values["high"].(int64) {
				return errors.New("low exceeds high")
			}
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("Interface: %v", err)
	}
	if _, err := s.New(ctx, map[string]any{"low": 1, "high": 2}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	_, err = s.New(ctx, map[string]any{"low": 3, "high": 2})
	iss, ok := tyck.AsIssues(err)
	if !ok || iss[0].Rule != "ordered_range" {
		t.Fatalf("err = %v", err)
	}
}

func TestValidatorOnUndeclaredField(t *testing.T) {
	_, err := tyck.Interface(
		tyck.Fields{tyck.F("id", dsl.Integer())},
		tyck.WithValidator("ghost", "x", func(ctx context.Context, v any) error { return nil }),
	)
	var def *tyck.SchemaDefinitionError
	if !errors.As(err, &def) {
		t.Fatalf("err = %v, want *SchemaDefinitionError", err)
	}
}

func TestInterfaceRejectsBadFieldNames(t *testing.T) {
	var def *tyck.SchemaDefinitionError
	_, err := tyck.Interface(tyck.Fields{tyck.F("1bad", dsl.String())})
	if !errors.As(err, &def) {
		t.Fatalf("err = %v", err)
	}
	_, err = tyck.Interface(tyck.Fields{
		tyck.F("dup", dsl.String()),
		tyck.F("dup", dsl.Integer()),
	})
	if !errors.As(err, &def) {
		t.Fatalf("err = %v", err)
	}
}

func TestJSONSchemaExport(t *testing.T) {
	s, err := tyck.Interface(tyck.Fields{
		tyck.F("id", dsl.Integer().Positive()),
		tyck.F("name", dsl.String().Min(1).Max(100)),
		tyck.F("email", dsl.Optional(dsl.String().Email())),
	}, tyck.WithConfig(tyck.NewConfig(tyck.Extra(tyck.ExtraForbid))))
	if err != nil {
		t.Fatalf("Interface: %v", err)
	}
	doc, err := s.JSONSchema()
	if err != nil {
		t.Fatalf("JSONSchema: %v", err)
	}
	if doc.Type != "object" {
		t.Fatalf("type = %s", doc.Type)
	}
	if len(doc.Required) != 2 || doc.Required[0] != "id" || doc.Required[1] != "name" {
		t.Fatalf("required = %v", doc.Required)
	}
	if doc.AdditionalProperties != false {
		t.Fatalf("additionalProperties = %v", doc.AdditionalProperties)
	}
	name := doc.Properties["name"]
	if name == nil || name.Type != "string" || name.MinLength == nil || *name.MinLength != 1 || *name.MaxLength != 100 {
		t.Fatalf("name schema = %+v", name)
	}
	id := doc.Properties["id"]
	if id == nil || id.Type != "integer" || id.ExclusiveMinimum == nil || *id.ExclusiveMinimum != 0 {
		t.Fatalf("id schema = %+v", id)
	}
	email := doc.Properties["email"]
	if email == nil || email.Format != "email" {
		t.Fatalf("email schema = %+v", email)
	}
}

func TestDumpIncludeExclude(t *testing.T) {
	ctx := context.Background()
	s, _ := tyck.Interface(tyck.Fields{
		tyck.F("a", dsl.Integer()),
		tyck.F("b", dsl.Integer()),
		tyck.F("c", dsl.Integer()),
	})
	inst, err := s.New(ctx, map[string]any{"a": 1, "b": 2, "c": 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := inst.Dump(tyck.Include("a", "c"))
	if len(got) != 2 || got["a"] != int64(1) || got["c"] != int64(3) {
		t.Fatalf("include dump = %v", got)
	}
	got = inst.Dump(tyck.Exclude("b"))
	if len(got) != 2 {
		t.Fatalf("exclude dump = %v", got)
	}
	b, err := inst.DumpJSON(tyck.Exclude("b"))
	if err != nil {
		t.Fatalf("DumpJSON: %v", err)
	}
	if string(b) != `{"a":1,"c":3}` {
		t.Fatalf("DumpJSON = %s", b)
	}
}

func TestDefaultsFill(t *testing.T) {
	ctx := context.Background()
	s, _ := tyck.Interface(tyck.Fields{
		tyck.F("role", dsl.String().Default("user")),
		tyck.F("active", dsl.Boolean().Default(true)),
	})
	inst, err := s.New(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v, _ := inst.Get("role"); v != "user" {
		t.Fatalf("role = %v", v)
	}
	if v, _ := inst.Get("active"); v != true {
		t.Fatalf("active = %v", v)
	}
}

func TestAliasAndPopulateByName(t *testing.T) {
	ctx := context.Background()
	fields := tyck.Fields{
		dsl.Field("email", dsl.String().Email(), dsl.Alias("mail")),
	}
	s, _ := tyck.Interface(fields)
	inst, err := s.New(ctx, map[string]any{"mail": "a@example.com"})
	if err != nil {
		t.Fatalf("alias input rejected: %v", err)
	}
	if v, _ := inst.Get("email"); v != "a@example.com" {
		t.Fatalf("email = %v", v)
	}
	// without populate_by_name the declared name is not accepted
	if _, err := s.New(ctx, map[string]any{"email": "a@example.com"}); err == nil {
		t.Fatalf("field name accepted without populate_by_name")
	}

	byName, _ := tyck.Interface(fields, tyck.WithConfig(tyck.NewConfig(tyck.PopulateByName(true))))
	if _, err := byName.New(ctx, map[string]any{"email": "a@example.com"}); err != nil {
		t.Fatalf("populate_by_name rejected field name: %v", err)
	}
}

func TestFromStruct(t *testing.T) {
	ctx := context.Background()
	type Account struct {
		ID    int     `tyck:"gt=0"`
		Name  string  `tyck:"min=1,max=50"`
		Email *string `tyck:"email"`
		Tags  []string
	}
	s, err := tyck.FromStruct[Account]()
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	if s.Name() != "Account" {
		t.Fatalf("name = %s", s.Name())
	}
	if got := strings.Join(s.Fields().Names(), ","); got != "id,name,email,tags" {
		t.Fatalf("fields = %s", got)
	}
	inst, err := s.New(ctx, map[string]any{
		"id":   3,
		"name": "bob",
		"tags": []any{"a", "b"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v, _ := inst.Get("id"); v != int64(3) {
		t.Fatalf("id = %v", v)
	}
	_, err = s.New(ctx, map[string]any{"id": 0, "name": "bob", "tags": []any{}})
	if iss, ok := tyck.AsIssues(err); !ok || iss[0].Path != "/id" {
		t.Fatalf("err = %v", err)
	}
}

func TestFromStructPointerFieldTagTokens(t *testing.T) {
	ctx := context.Background()
	// format, pattern, and flag tokens must apply beneath the optional
	// wrapping a pointer field introduces
	type Profile struct {
		Email *string `tyck:"email"`
		Slug  *string `tyck:"pattern=^[a-z-]+$,strip"`
		Score *int    `tyck:"gt=0"`
	}
	s, err := tyck.FromStruct[Profile]()
	if err != nil {
		t.Fatalf("FromStruct: %v", err)
	}
	email, _ := s.Fields().Get("email")
	if email.Desc.Kind() != tyck.KindOptional {
		t.Fatalf("email kind = %s, want optional", email.Desc.Kind())
	}
	inner, _ := email.Desc.Unwrap()
	if v, ok := inner.Constraint(tyck.ConstraintFormat); !ok || v != tyck.FormatEmail {
		t.Fatalf("email inner format = %v (ok=%t)", v, ok)
	}

	if _, err := s.New(ctx, map[string]any{"email": "a@example.com", "slug": "my-page", "score": 1}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	_, err = s.New(ctx, map[string]any{"email": "nope"})
	if iss, ok := tyck.AsIssues(err); !ok || iss[0].Path != "/email" || iss[0].Code != tyck.CodeInvalidFormat {
		t.Fatalf("err = %v", err)
	}
}
