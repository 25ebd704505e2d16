package tyck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tyck "github.com/reoring/tyck"
	"github.com/reoring/tyck/dsl"
)

func userSchema(t *testing.T) *tyck.Schema {
	t.Helper()
	s, err := tyck.Interface(tyck.Fields{
		tyck.F("id", dsl.Integer().Positive()),
		tyck.F("name", dsl.String().Min(1).Max(100)),
		tyck.F("email", dsl.Optional(dsl.String().Email())),
	})
	require.NoError(t, err)
	return s
}

func TestPickKeepsGivenOrder(t *testing.T) {
	s := userSchema(t)
	picked, err := tyck.Pick(s, "name", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, picked.Fields().Names())
	// source untouched
	assert.Equal(t, []string{"id", "name", "email"}, s.Fields().Names())
}

func TestPickEmptyYieldsZeroFields(t *testing.T) {
	s := userSchema(t)
	picked, err := tyck.Pick(s)
	require.NoError(t, err)
	assert.Empty(t, picked.Fields())
}

func TestPickUnknownField(t *testing.T) {
	s := userSchema(t)
	_, err := tyck.Pick(s, "id", "nope")
	var nf *tyck.FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Field)
}

func TestOmitPreservesOriginalOrder(t *testing.T) {
	s := userSchema(t)
	omitted, err := tyck.Omit(s, "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "email"}, omitted.Fields().Names())

	all, err := tyck.Omit(s)
	require.NoError(t, err)
	assert.Equal(t, s.Fields().Names(), all.Fields().Names())
}

func TestOmitUnknownField(t *testing.T) {
	s := userSchema(t)
	_, err := tyck.Omit(s, "nope")
	var nf *tyck.FieldNotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestPickOmitComplement(t *testing.T) {
	s := userSchema(t)
	picked, err := tyck.Pick(s, "id")
	require.NoError(t, err)
	omitted, err := tyck.Omit(s, "id")
	require.NoError(t, err)
	union := append(picked.Fields().Names(), omitted.Fields().Names()...)
	assert.ElementsMatch(t, s.Fields().Names(), union)
}

func TestPartialMakesEveryFieldOptional(t *testing.T) {
	s := userSchema(t)
	partial, err := tyck.Partial(s)
	require.NoError(t, err)
	for _, f := range partial.Fields() {
		assert.Equal(t, tyck.KindOptional, f.Desc.Kind(), "field %s", f.Name)
		_, has := f.Desc.Default()
		assert.True(t, has, "field %s should carry an implicit default", f.Name)
	}
	// constraints survive on the inner descriptor
	name, _ := partial.Fields().Get("name")
	inner, _ := name.Desc.Unwrap()
	_, hasMin := inner.Constraint(tyck.ConstraintMinLength)
	assert.True(t, hasMin)
}

func TestRequiredStripsOptionalAndDefaults(t *testing.T) {
	s := userSchema(t)
	partial, err := tyck.Partial(s)
	require.NoError(t, err)
	back, err := tyck.Required(partial)
	require.NoError(t, err)
	for _, f := range back.Fields() {
		assert.NotEqual(t, tyck.KindOptional, f.Desc.Kind(), "field %s", f.Name)
		_, has := f.Desc.Default()
		assert.False(t, has, "field %s should have no default", f.Name)
	}
}

func TestExtendAppendsAndOverridesInPlace(t *testing.T) {
	s := userSchema(t)
	extended, err := tyck.Extend(s, tyck.Fields{
		tyck.F("name", dsl.String().Min(5)),
		tyck.F("age", dsl.Integer().Gte(0)),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email", "age"}, extended.Fields().Names())
	name, _ := extended.Fields().Get("name")
	v, _ := name.Desc.Constraint(tyck.ConstraintMinLength)
	assert.Equal(t, 5, v)
}

func TestExtendRejectsBadNames(t *testing.T) {
	s := userSchema(t)
	_, err := tyck.Extend(s, tyck.Fields{tyck.F("not valid", dsl.String())})
	var def *tyck.SchemaDefinitionError
	require.ErrorAs(t, err, &def)

	_, err = tyck.Extend(s, tyck.Fields{
		tyck.F("age", dsl.Integer()),
		tyck.F("age", dsl.Number()),
	})
	require.ErrorAs(t, err, &def)
}

func TestMergeLastWriteWins(t *testing.T) {
	a, err := tyck.Interface(tyck.Fields{
		tyck.F("x", dsl.String()),
		tyck.F("y", dsl.Integer()),
	})
	require.NoError(t, err)
	b, err := tyck.Interface(tyck.Fields{
		tyck.F("y", dsl.Number()),
		tyck.F("z", dsl.Boolean()),
	})
	require.NoError(t, err)

	merged, err := tyck.Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, merged.Fields().Names())
	y, _ := merged.Fields().Get("y")
	assert.Equal(t, tyck.KindNumber, y.Desc.Kind())
}

func TestMergeRequiresInput(t *testing.T) {
	_, err := tyck.Merge()
	var def *tyck.SchemaDefinitionError
	require.ErrorAs(t, err, &def)
}

func TestDerivedSchemaNames(t *testing.T) {
	s, err := tyck.Interface(tyck.Fields{tyck.F("id", dsl.Integer())}, tyck.WithName("Account"))
	require.NoError(t, err)
	picked, err := tyck.Pick(s, "id")
	require.NoError(t, err)
	assert.Equal(t, "Pick_Account", picked.Name())
}
