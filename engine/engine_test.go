package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tyck "github.com/reoring/tyck"
	"github.com/reoring/tyck/dsl"
	"github.com/reoring/tyck/engine"
)

func compile(t *testing.T, fields tyck.Fields, opts ...tyck.ConfigOption) (*engine.Engine, tyck.Handle) {
	t.Helper()
	e := engine.New()
	h, err := e.Compile(fields, tyck.NewConfig(opts...), tyck.Hooks{})
	require.NoError(t, err)
	return e, h
}

func one(t *testing.T, b tyck.Builder, v any, opts ...tyck.ConfigOption) (any, error) {
	t.Helper()
	e, h := compile(t, tyck.Fields{tyck.F("v", b)}, opts...)
	values, err := e.Instantiate(context.Background(), h, map[string]any{"v": v})
	if err != nil {
		return nil, err
	}
	return values["v"], nil
}

func TestIntegerCoercion(t *testing.T) {
	got, err := one(t, dsl.Integer(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = one(t, dsl.Integer(), 3.0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	_, err = one(t, dsl.Integer(), 3.5)
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidType, iss[0].Code)
}

func TestIntegerBoundsKeepFullPrecision(t *testing.T) {
	// beyond 2^53 a float64 round trip can no longer tell adjacent integers
	// apart; bounds must compare as int64
	const big = int64(1) << 60
	b := dsl.Integer().Gt(int(big))

	_, err := one(t, b, big)
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooSmall, iss[0].Code)

	got, err := one(t, b, big+1)
	require.NoError(t, err)
	assert.Equal(t, big+1, got)
}

func TestFractionalBoundsOnIntegers(t *testing.T) {
	// a fractional bound arriving through the dynamic path tightens to the
	// equivalent integer bound
	d, err := tyck.NewDescriptor(tyck.KindInteger).With(tyck.ConstraintGt, 2.5)
	require.NoError(t, err)

	got, err := one(t, d, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	_, err = one(t, d, 2)
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooSmall, iss[0].Code)
}

func TestUniqueKeepsLargeIntegersApart(t *testing.T) {
	// 2^53 and 2^53+1 collapse to the same float64; they are distinct values
	a := int64(1) << 53
	got, err := one(t, dsl.Array(dsl.Integer()).Unique(), []any{a, a + 1})
	require.NoError(t, err)
	assert.Equal(t, []any{a, a + 1}, got)

	_, err = one(t, dsl.Array(dsl.Integer()).Unique(), []any{a, a})
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeNotUnique, iss[0].Code)
}

func TestStrictModeDisablesCoercion(t *testing.T) {
	_, err := one(t, dsl.Integer(), "42", tyck.Strict(true))
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidType, iss[0].Code)
}

func TestStringNormalization(t *testing.T) {
	got, err := one(t, dsl.String().Strip().Lower(), "  Hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// length checked after normalization
	_, err = one(t, dsl.String().Strip().Min(3), "  a  ")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooShort, iss[0].Code)
}

func TestConfigWideStringTransforms(t *testing.T) {
	got, err := one(t, dsl.String(), "  UP  ", tyck.StrStripWhitespace(true), tyck.StrToLower(true))
	require.NoError(t, err)
	assert.Equal(t, "up", got)
}

func TestStringLengthCountsRunes(t *testing.T) {
	_, err := one(t, dsl.String().Max(3), "日本語です")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooLong, iss[0].Code)

	_, err = one(t, dsl.String().Max(3), "日本語")
	assert.NoError(t, err)
}

func TestStringFormats(t *testing.T) {
	cases := []struct {
		b    tyck.Builder
		good string
		bad  string
	}{
		{dsl.String().Email(), "a@example.com", "not-an-email"},
		{dsl.String().URL(), "https://example.com/x", "example.com"},
		{dsl.String().UUID(), "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "nope"},
		{dsl.String().DateTime(), "2026-08-31T10:00:00Z", "2026-08-31"},
		{dsl.String().Date(), "2026-08-31", "31/08/2026"},
		{dsl.String().Time(), "10:30:00", "10:30"},
		{dsl.String().IPv4(), "192.168.0.1", "::1"},
		{dsl.String().IPv6(), "::1", "192.168.0.1"},
		{dsl.String().IP(), "10.0.0.1", "999.0.0.1"},
		{dsl.String().JSON(), `{"a":1}`, `{"a":`},
	}
	for _, tc := range cases {
		if _, err := one(t, tc.b, tc.good); err != nil {
			t.Errorf("%q rejected: %v", tc.good, err)
		}
		_, err := one(t, tc.b, tc.bad)
		if iss, ok := tyck.AsIssues(err); !ok || iss[0].Code != tyck.CodeInvalidFormat {
			t.Errorf("%q accepted or wrong code: %v", tc.bad, err)
		}
	}
}

func TestPatternConstraint(t *testing.T) {
	_, err := one(t, dsl.String().Pattern(`^[a-z]+$`), "abc")
	require.NoError(t, err)
	_, err = one(t, dsl.String().Pattern(`^[a-z]+$`), "ABC")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodePattern, iss[0].Code)
}

func TestBadPatternFailsAtCompile(t *testing.T) {
	e := engine.New()
	_, err := e.Compile(tyck.Fields{tyck.F("v", dsl.String().Pattern(`(unclosed`))}, tyck.Config{}, tyck.Hooks{})
	require.Error(t, err)
}

func TestNumberBoundsAndMultiple(t *testing.T) {
	_, err := one(t, dsl.Number().Range(0, 10), 5.0)
	require.NoError(t, err)
	_, err = one(t, dsl.Number().Range(0, 10), 11.0)
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooBig, iss[0].Code)

	_, err = one(t, dsl.Number().MultipleOf(0.5), 2.5)
	require.NoError(t, err)
	_, err = one(t, dsl.Number().MultipleOf(0.5), 2.3)
	iss, ok = tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeNotMultiple, iss[0].Code)
}

func TestBooleanCoercion(t *testing.T) {
	got, err := one(t, dsl.Boolean(), "true")
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = one(t, dsl.Boolean(), 1)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	_, err = one(t, dsl.Boolean().Strict(), "true")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidType, iss[0].Code)
}

func TestDecimalConstraints(t *testing.T) {
	got, err := one(t, dsl.Decimal().MaxDigits(5).DecimalPlaces(2), "123.45")
	require.NoError(t, err)
	assert.True(t, got.(decimal.Decimal).Equal(decimal.RequireFromString("123.45")))

	_, err = one(t, dsl.Decimal().MaxDigits(4), "123.45")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooBig, iss[0].Code)

	_, err = one(t, dsl.Decimal().DecimalPlaces(1), "1.23")
	iss, ok = tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooBig, iss[0].Code)

	_, err = one(t, dsl.Decimal().Gt(decimal.NewFromInt(10)), "10")
	iss, ok = tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooSmall, iss[0].Code)
}

func TestTemporalParsing(t *testing.T) {
	got, err := one(t, dsl.DateTime(), "2026-08-31T10:00:00Z")
	require.NoError(t, err)
	ts, ok := got.(time.Time)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, 2026, ts.Year())

	_, err = one(t, dsl.Date(), "not-a-date")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeParseError, iss[0].Code)
}

func TestUUIDValue(t *testing.T) {
	_, err := one(t, dsl.UUID(), "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)
	_, err = one(t, dsl.UUID(), "zzz")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeParseError, iss[0].Code)
}

func TestArrayElementsAndUnique(t *testing.T) {
	got, err := one(t, dsl.Array(dsl.Integer().Positive()), []any{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, got)

	_, err = one(t, dsl.Array(dsl.Integer().Positive()), []any{1, -2, 3})
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/v/1", iss[0].Path)

	_, err = one(t, dsl.Array(dsl.Integer()).Unique(), []any{1, 2, 1})
	iss, ok = tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeNotUnique, iss[0].Code)
}

func TestSetDeduplicates(t *testing.T) {
	got, err := one(t, dsl.Set(dsl.String()), []any{"a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	// count constraints apply after deduplication
	_, err = one(t, dsl.Set(dsl.String()).Min(3), []any{"a", "b", "a"})
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooShort, iss[0].Code)
}

func TestDictKeysAndValues(t *testing.T) {
	got, err := one(t, dsl.Dict(dsl.String(), dsl.Integer()), map[string]any{"a": 1, "b": "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1), "b": int64(2)}, got)

	_, err = one(t, dsl.Dict(dsl.String().Min(2), dsl.Integer()), map[string]any{"a": 1})
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooShort, iss[0].Code)
}

func TestTupleArity(t *testing.T) {
	got, err := one(t, dsl.Tuple(dsl.String(), dsl.Integer()), []any{"x", 1})
	require.NoError(t, err)
	assert.Equal(t, []any{"x", int64(1)}, got)

	_, err = one(t, dsl.Tuple(dsl.String(), dsl.Integer()), []any{"x"})
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidType, iss[0].Code)
}

func TestUnionFirstMatchWins(t *testing.T) {
	// integer comes first, so a numeric string coerces to int64 rather than
	// staying a string
	got, err := one(t, dsl.Union(dsl.Integer(), dsl.String()), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = one(t, dsl.Union(dsl.String(), dsl.Integer()), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = one(t, dsl.Union(dsl.Integer(), dsl.Boolean()), []any{})
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidUnion, iss[0].Code)
}

func TestLiteralAndEnum(t *testing.T) {
	_, err := one(t, dsl.Literal("on", "off"), "on")
	require.NoError(t, err)
	_, err = one(t, dsl.Literal("on", "off"), "maybe")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidLiteral, iss[0].Code)

	// numeric identity collapses int and float; the input representation is
	// kept by default
	got, err := one(t, dsl.Enum(1, 2, 3), 2.0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	_, err = one(t, dsl.Enum(1, 2, 3), 9)
	iss, ok = tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidEnum, iss[0].Code)
}

func TestUseEnumValuesStoresMember(t *testing.T) {
	got, err := one(t, dsl.Enum(1, 2, 3), 2.0, tyck.UseEnumValues(true))
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = one(t, dsl.Enum("a", "b"), "b", tyck.UseEnumValues(true))
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestNoneAcceptsOnlyNull(t *testing.T) {
	got, err := one(t, dsl.None(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = one(t, dsl.None(), "x")
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeInvalidType, iss[0].Code)
}

func TestOptionalAcceptsNull(t *testing.T) {
	got, err := one(t, dsl.Optional(dsl.Integer()), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDateExportsNarrowForm(t *testing.T) {
	e, h := compile(t, tyck.Fields{tyck.F("d", dsl.Date())})
	values, err := e.Instantiate(context.Background(), h, map[string]any{"d": "2026-08-31"})
	require.NoError(t, err)
	out := e.Dump(h, values, tyck.DumpOpt{})
	assert.Equal(t, "2026-08-31", out["d"])

	b, err := e.DumpJSON(h, values, tyck.DumpOpt{})
	require.NoError(t, err)
	assert.Equal(t, `{"d":"2026-08-31"}`, string(b))
}

func TestDumpJSONDeclaredOrder(t *testing.T) {
	e, h := compile(t, tyck.Fields{
		tyck.F("z", dsl.Integer()),
		tyck.F("a", dsl.Integer()),
		tyck.F("m", dsl.Integer()),
	})
	values, err := e.Instantiate(context.Background(), h, map[string]any{"z": 1, "a": 2, "m": 3})
	require.NoError(t, err)
	b, err := e.DumpJSON(h, values, tyck.DumpOpt{})
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(b))
}

func TestValidateDefault(t *testing.T) {
	e := engine.New()
	fields := tyck.Fields{tyck.F("n", dsl.Integer().Positive().Default(-1))}

	h, err := e.Compile(fields, tyck.Config{}, tyck.Hooks{})
	require.NoError(t, err)
	values, err := e.Instantiate(context.Background(), h, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, -1, values["n"]) // defaults pass through unvalidated

	h, err = e.Compile(fields, tyck.NewConfig(tyck.ValidateDefault(true)), tyck.Hooks{})
	require.NoError(t, err)
	_, err = e.Instantiate(context.Background(), h, map[string]any{})
	iss, ok := tyck.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, tyck.CodeTooSmall, iss[0].Code)
}
