package dsl

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tyck "github.com/reoring/tyck"
)

// chain unwraps the dynamic constraint path for the typed builders. The
// builders only apply constraints valid for their own kind, so an error here
// is a programming bug inside this package.
func chain(d tyck.Descriptor, err error) tyck.Descriptor {
	if err != nil {
		panic(err)
	}
	return d
}

// ---------------- String ----------------

// StringBuilder chains string constraints.
type StringBuilder struct{ d tyck.Descriptor }

// String starts a string descriptor chain.
func String() StringBuilder { return StringBuilder{d: tyck.NewDescriptor(tyck.KindString)} }

func (b StringBuilder) Descriptor() tyck.Descriptor { return b.d }

// Min sets the minimum string length.
func (b StringBuilder) Min(n int) StringBuilder {
	return StringBuilder{d: chain(b.d.With(tyck.ConstraintMinLength, n))}
}

// Max sets the maximum string length.
func (b StringBuilder) Max(n int) StringBuilder {
	return StringBuilder{d: chain(b.d.With(tyck.ConstraintMaxLength, n))}
}

// Length sets an exact string length (min == max).
func (b StringBuilder) Length(n int) StringBuilder { return b.Min(n).Max(n) }

// Pattern requires the string to match the regular expression.
func (b StringBuilder) Pattern(re string) StringBuilder {
	return StringBuilder{d: chain(b.d.With(tyck.ConstraintPattern, re))}
}

func (b StringBuilder) format(name string) StringBuilder {
	return StringBuilder{d: chain(b.d.With(tyck.ConstraintFormat, name))}
}

// Email validates as an email address.
func (b StringBuilder) Email() StringBuilder { return b.format(tyck.FormatEmail) }

// URL validates as an http(s) URL.
func (b StringBuilder) URL() StringBuilder { return b.format(tyck.FormatURL) }

// UUID validates as a canonical UUID string.
func (b StringBuilder) UUID() StringBuilder { return b.format(tyck.FormatUUID) }

// DateTime validates as an RFC 3339 datetime string.
func (b StringBuilder) DateTime() StringBuilder { return b.format(tyck.FormatDateTime) }

// Date validates as an ISO date string.
func (b StringBuilder) Date() StringBuilder { return b.format(tyck.FormatDate) }

// Time validates as an ISO time string.
func (b StringBuilder) Time() StringBuilder { return b.format(tyck.FormatTime) }

// IPv4 validates as a dotted-quad IPv4 address.
func (b StringBuilder) IPv4() StringBuilder { return b.format(tyck.FormatIPv4) }

// IPv6 validates as an IPv6 address.
func (b StringBuilder) IPv6() StringBuilder { return b.format(tyck.FormatIPv6) }

// IP validates as either an IPv4 or IPv6 address.
func (b StringBuilder) IP() StringBuilder { return b.format(tyck.FormatIP) }

// JSON requires the string content to parse as JSON.
func (b StringBuilder) JSON() StringBuilder { return b.format(tyck.FormatJSON) }

// Strip trims surrounding whitespace before validation.
func (b StringBuilder) Strip() StringBuilder {
	return StringBuilder{d: chain(b.d.With(tyck.ConstraintStrip, true))}
}

// Lower lowercases the value before validation.
func (b StringBuilder) Lower() StringBuilder {
	return StringBuilder{d: chain(b.d.With(tyck.ConstraintLower, true))}
}

// Upper uppercases the value before validation.
func (b StringBuilder) Upper() StringBuilder {
	return StringBuilder{d: chain(b.d.With(tyck.ConstraintUpper, true))}
}

// Default sets the default value.
func (b StringBuilder) Default(v string) StringBuilder {
	return StringBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Number / Integer ----------------

// NumberBuilder chains numeric constraints for float-valued fields.
type NumberBuilder struct{ d tyck.Descriptor }

// Number starts a number descriptor chain.
func Number() NumberBuilder { return NumberBuilder{d: tyck.NewDescriptor(tyck.KindNumber)} }

func (b NumberBuilder) Descriptor() tyck.Descriptor { return b.d }

// Gt requires the value to be strictly greater than v.
func (b NumberBuilder) Gt(v float64) NumberBuilder {
	return NumberBuilder{d: chain(b.d.With(tyck.ConstraintGt, v))}
}

// Gte requires the value to be at least v.
func (b NumberBuilder) Gte(v float64) NumberBuilder {
	return NumberBuilder{d: chain(b.d.With(tyck.ConstraintGte, v))}
}

// Lt requires the value to be strictly less than v.
func (b NumberBuilder) Lt(v float64) NumberBuilder {
	return NumberBuilder{d: chain(b.d.With(tyck.ConstraintLt, v))}
}

// Lte requires the value to be at most v.
func (b NumberBuilder) Lte(v float64) NumberBuilder {
	return NumberBuilder{d: chain(b.d.With(tyck.ConstraintLte, v))}
}

// Range is sugar for Gte(lo).Lte(hi), inclusive on both ends.
func (b NumberBuilder) Range(lo, hi float64) NumberBuilder { return b.Gte(lo).Lte(hi) }

// Positive requires > 0.
func (b NumberBuilder) Positive() NumberBuilder { return b.Gt(0) }

// NonNegative requires >= 0.
func (b NumberBuilder) NonNegative() NumberBuilder { return b.Gte(0) }

// Negative requires < 0.
func (b NumberBuilder) Negative() NumberBuilder { return b.Lt(0) }

// NonPositive requires <= 0.
func (b NumberBuilder) NonPositive() NumberBuilder { return b.Lte(0) }

// Finite rejects NaN and infinities.
func (b NumberBuilder) Finite() NumberBuilder {
	return NumberBuilder{d: chain(b.d.With(tyck.ConstraintFinite, true))}
}

// MultipleOf requires the value to be a multiple of v.
func (b NumberBuilder) MultipleOf(v float64) NumberBuilder {
	return NumberBuilder{d: chain(b.d.With(tyck.ConstraintMultipleOf, v))}
}

// Default sets the default value.
func (b NumberBuilder) Default(v float64) NumberBuilder {
	return NumberBuilder{d: b.d.WithDefault(v)}
}

// IntegerBuilder chains numeric constraints for integer-valued fields.
type IntegerBuilder struct{ d tyck.Descriptor }

// Integer starts an integer descriptor chain.
func Integer() IntegerBuilder { return IntegerBuilder{d: tyck.NewDescriptor(tyck.KindInteger)} }

func (b IntegerBuilder) Descriptor() tyck.Descriptor { return b.d }

// Gt requires the value to be strictly greater than v.
func (b IntegerBuilder) Gt(v int) IntegerBuilder {
	return IntegerBuilder{d: chain(b.d.With(tyck.ConstraintGt, v))}
}

// Gte requires the value to be at least v.
func (b IntegerBuilder) Gte(v int) IntegerBuilder {
	return IntegerBuilder{d: chain(b.d.With(tyck.ConstraintGte, v))}
}

// Lt requires the value to be strictly less than v.
func (b IntegerBuilder) Lt(v int) IntegerBuilder {
	return IntegerBuilder{d: chain(b.d.With(tyck.ConstraintLt, v))}
}

// Lte requires the value to be at most v.
func (b IntegerBuilder) Lte(v int) IntegerBuilder {
	return IntegerBuilder{d: chain(b.d.With(tyck.ConstraintLte, v))}
}

// Range is sugar for Gte(lo).Lte(hi), inclusive on both ends.
func (b IntegerBuilder) Range(lo, hi int) IntegerBuilder { return b.Gte(lo).Lte(hi) }

// Positive requires > 0.
func (b IntegerBuilder) Positive() IntegerBuilder { return b.Gt(0) }

// NonNegative requires >= 0.
func (b IntegerBuilder) NonNegative() IntegerBuilder { return b.Gte(0) }

// Negative requires < 0.
func (b IntegerBuilder) Negative() IntegerBuilder { return b.Lt(0) }

// NonPositive requires <= 0.
func (b IntegerBuilder) NonPositive() IntegerBuilder { return b.Lte(0) }

// MultipleOf requires the value to be a multiple of v.
func (b IntegerBuilder) MultipleOf(v int) IntegerBuilder {
	return IntegerBuilder{d: chain(b.d.With(tyck.ConstraintMultipleOf, v))}
}

// Default sets the default value.
func (b IntegerBuilder) Default(v int) IntegerBuilder {
	return IntegerBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Boolean ----------------

// BooleanBuilder chains boolean options.
type BooleanBuilder struct{ d tyck.Descriptor }

// Boolean starts a boolean descriptor chain.
func Boolean() BooleanBuilder { return BooleanBuilder{d: tyck.NewDescriptor(tyck.KindBoolean)} }

func (b BooleanBuilder) Descriptor() tyck.Descriptor { return b.d }

// Strict disables coercion from strings and numbers.
func (b BooleanBuilder) Strict() BooleanBuilder {
	return BooleanBuilder{d: chain(b.d.With(tyck.ConstraintStrict, true))}
}

// Default sets the default value.
func (b BooleanBuilder) Default(v bool) BooleanBuilder {
	return BooleanBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Bytes ----------------

// BytesBuilder chains byte-length constraints.
type BytesBuilder struct{ d tyck.Descriptor }

// Bytes starts a bytes descriptor chain.
func Bytes() BytesBuilder { return BytesBuilder{d: tyck.NewDescriptor(tyck.KindBytes)} }

func (b BytesBuilder) Descriptor() tyck.Descriptor { return b.d }

// Min sets the minimum byte length.
func (b BytesBuilder) Min(n int) BytesBuilder {
	return BytesBuilder{d: chain(b.d.With(tyck.ConstraintMinLength, n))}
}

// Max sets the maximum byte length.
func (b BytesBuilder) Max(n int) BytesBuilder {
	return BytesBuilder{d: chain(b.d.With(tyck.ConstraintMaxLength, n))}
}

// Default sets the default value.
func (b BytesBuilder) Default(v []byte) BytesBuilder {
	return BytesBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Decimal ----------------

// DecimalBuilder chains arbitrary-precision decimal constraints.
type DecimalBuilder struct{ d tyck.Descriptor }

// Decimal starts a decimal descriptor chain.
func Decimal() DecimalBuilder { return DecimalBuilder{d: tyck.NewDescriptor(tyck.KindDecimal)} }

func (b DecimalBuilder) Descriptor() tyck.Descriptor { return b.d }

// MaxDigits bounds the total number of significant digits.
func (b DecimalBuilder) MaxDigits(n int) DecimalBuilder {
	return DecimalBuilder{d: chain(b.d.With(tyck.ConstraintMaxDigits, n))}
}

// DecimalPlaces bounds the number of digits after the decimal point.
func (b DecimalBuilder) DecimalPlaces(n int) DecimalBuilder {
	return DecimalBuilder{d: chain(b.d.With(tyck.ConstraintDecimalPlaces, n))}
}

// Gt requires the value to be strictly greater than v.
func (b DecimalBuilder) Gt(v decimal.Decimal) DecimalBuilder {
	return DecimalBuilder{d: chain(b.d.With(tyck.ConstraintGt, v))}
}

// Gte requires the value to be at least v.
func (b DecimalBuilder) Gte(v decimal.Decimal) DecimalBuilder {
	return DecimalBuilder{d: chain(b.d.With(tyck.ConstraintGte, v))}
}

// Lt requires the value to be strictly less than v.
func (b DecimalBuilder) Lt(v decimal.Decimal) DecimalBuilder {
	return DecimalBuilder{d: chain(b.d.With(tyck.ConstraintLt, v))}
}

// Lte requires the value to be at most v.
func (b DecimalBuilder) Lte(v decimal.Decimal) DecimalBuilder {
	return DecimalBuilder{d: chain(b.d.With(tyck.ConstraintLte, v))}
}

// Default sets the default value.
func (b DecimalBuilder) Default(v decimal.Decimal) DecimalBuilder {
	return DecimalBuilder{d: b.d.WithDefault(v)}
}

// ---------------- Temporal / UUID / Any / None ----------------

// DateTimeBuilder describes RFC 3339 datetime fields.
type DateTimeBuilder struct{ d tyck.Descriptor }

// DateTime starts a datetime descriptor chain.
func DateTime() DateTimeBuilder { return DateTimeBuilder{d: tyck.NewDescriptor(tyck.KindDateTime)} }

func (b DateTimeBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b DateTimeBuilder) Default(v time.Time) DateTimeBuilder {
	return DateTimeBuilder{d: b.d.WithDefault(v)}
}

// DateBuilder describes ISO date fields.
type DateBuilder struct{ d tyck.Descriptor }

// Date starts a date descriptor chain.
func Date() DateBuilder { return DateBuilder{d: tyck.NewDescriptor(tyck.KindDate)} }

func (b DateBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b DateBuilder) Default(v time.Time) DateBuilder {
	return DateBuilder{d: b.d.WithDefault(v)}
}

// TimeBuilder describes ISO time-of-day fields.
type TimeBuilder struct{ d tyck.Descriptor }

// Time starts a time descriptor chain.
func Time() TimeBuilder { return TimeBuilder{d: tyck.NewDescriptor(tyck.KindTime)} }

func (b TimeBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b TimeBuilder) Default(v time.Time) TimeBuilder {
	return TimeBuilder{d: b.d.WithDefault(v)}
}

// UUIDBuilder describes UUID fields.
type UUIDBuilder struct{ d tyck.Descriptor }

// UUID starts a uuid descriptor chain.
func UUID() UUIDBuilder { return UUIDBuilder{d: tyck.NewDescriptor(tyck.KindUUID)} }

func (b UUIDBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b UUIDBuilder) Default(v uuid.UUID) UUIDBuilder {
	return UUIDBuilder{d: b.d.WithDefault(v)}
}

// AnyBuilder accepts any value.
type AnyBuilder struct{ d tyck.Descriptor }

// Any starts an unconstrained descriptor chain.
func Any() AnyBuilder { return AnyBuilder{d: tyck.NewDescriptor(tyck.KindAny)} }

func (b AnyBuilder) Descriptor() tyck.Descriptor { return b.d }

// Default sets the default value.
func (b AnyBuilder) Default(v any) AnyBuilder {
	return AnyBuilder{d: b.d.WithDefault(v)}
}

// NoneBuilder accepts only null.
type NoneBuilder struct{ d tyck.Descriptor }

// None starts a null-only descriptor chain. None fields default to null.
func None() NoneBuilder {
	return NoneBuilder{d: tyck.NewDescriptor(tyck.KindNone).WithDefault(nil)}
}

func (b NoneBuilder) Descriptor() tyck.Descriptor { return b.d }
