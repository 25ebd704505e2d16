package engine

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tyck "github.com/reoring/tyck"
	"github.com/reoring/tyck/i18n"
)

func issue(path, code string, params map[string]any) tyck.Issue {
	return tyck.Issue{Path: path, Code: code, Message: i18n.T(code, nil), Params: params}
}

func typeIssue(path, expected string, got any) tyck.Issue {
	it := issue(path, tyck.CodeInvalidType, map[string]any{"expected": expected, "got": fmt.Sprintf("%T", got)})
	it.Hint = "expected " + expected
	return it
}

// compileDescriptor builds the checker for one descriptor, recursing into
// container element descriptors. Constraint parameters are resolved here so
// instantiation does no parsing.
func compileDescriptor(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	switch d.Kind() {
	case tyck.KindString:
		return compileString(d, cfg)
	case tyck.KindInteger:
		return compileInteger(d, cfg)
	case tyck.KindNumber:
		return compileNumber(d, cfg)
	case tyck.KindBoolean:
		return compileBoolean(d, cfg)
	case tyck.KindBytes:
		return compileBytes(d, cfg)
	case tyck.KindDecimal:
		return compileDecimal(d, cfg)
	case tyck.KindDateTime:
		return compileTemporal(time.RFC3339, "datetime", cfg)
	case tyck.KindDate:
		return compileTemporal("2006-01-02", "date", cfg)
	case tyck.KindTime:
		return compileTemporal("15:04:05", "time", cfg)
	case tyck.KindUUID:
		return compileUUID(cfg)
	case tyck.KindArray:
		return compileArray(d, cfg)
	case tyck.KindSet:
		return compileSet(d, cfg)
	case tyck.KindDict:
		return compileDict(d, cfg)
	case tyck.KindTuple:
		return compileTuple(d, cfg)
	case tyck.KindUnion:
		return compileUnion(d, cfg)
	case tyck.KindLiteral:
		return compileValueSet(d, tyck.CodeInvalidLiteral, false), nil
	case tyck.KindEnum:
		return compileValueSet(d, tyck.CodeInvalidEnum, cfg.UseEnumValues()), nil
	case tyck.KindOptional:
		inner, _ := d.Elem()
		innerChk, err := compileDescriptor(inner, cfg)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
			if v == nil {
				return nil, nil
			}
			return innerChk(ctx, path, v)
		}, nil
	case tyck.KindAny:
		return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
			return v, nil
		}, nil
	case tyck.KindNone:
		return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
			if v != nil {
				return nil, tyck.Issues{typeIssue(path, "null", v)}
			}
			return nil, nil
		}, nil
	}
	return nil, fmt.Errorf("engine: unsupported kind %s", d.Kind())
}

func intConstraint(d tyck.Descriptor, name string) (int, bool) {
	v, ok := d.Constraint(name)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

func floatConstraint(d tyck.Descriptor, name string) (float64, bool) {
	v, ok := d.Constraint(name)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func boolConstraint(d tyck.Descriptor, name string) bool {
	v, ok := d.Constraint(name)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// ---------------- string ----------------

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func compileString(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	minLen, hasMin := intConstraint(d, tyck.ConstraintMinLength)
	maxLen, hasMax := intConstraint(d, tyck.ConstraintMaxLength)
	strip := boolConstraint(d, tyck.ConstraintStrip) || cfg.StrStripWhitespace()
	lower := boolConstraint(d, tyck.ConstraintLower) || cfg.StrToLower()
	upper := boolConstraint(d, tyck.ConstraintUpper) || cfg.StrToUpper()

	var re *regexp.Regexp
	if raw, ok := d.Constraint(tyck.ConstraintPattern); ok {
		pat, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("engine: pattern constraint must be a string, got %T", raw)
		}
		var err error
		re, err = regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("engine: invalid pattern %q: %w", pat, err)
		}
	}
	format := ""
	if raw, ok := d.Constraint(tyck.ConstraintFormat); ok {
		format, _ = raw.(string)
	}

	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		s, ok := v.(string)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "string", v)}
		}
		if strip {
			s = strings.TrimSpace(s)
		}
		if lower {
			s = strings.ToLower(s)
		}
		if upper {
			s = strings.ToUpper(s)
		}
		var iss tyck.Issues
		n := len([]rune(s))
		if hasMin && n < minLen {
			iss = append(iss, issue(path, tyck.CodeTooShort, map[string]any{"min": minLen, "got": n}))
		}
		if hasMax && n > maxLen {
			iss = append(iss, issue(path, tyck.CodeTooLong, map[string]any{"max": maxLen, "got": n}))
		}
		if re != nil && !re.MatchString(s) {
			it := issue(path, tyck.CodePattern, map[string]any{"pattern": re.String()})
			iss = append(iss, it)
		}
		if format != "" && !matchFormat(format, s) {
			it := issue(path, tyck.CodeInvalidFormat, map[string]any{"format": format})
			it.Hint = format
			iss = append(iss, it)
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return s, nil
	}, nil
}

func matchFormat(format, s string) bool {
	switch format {
	case tyck.FormatEmail:
		if !emailRe.MatchString(s) {
			return false
		}
		_, err := mail.ParseAddress(s)
		return err == nil
	case tyck.FormatURL:
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	case tyck.FormatUUID:
		_, err := uuid.Parse(s)
		return err == nil
	case tyck.FormatDateTime:
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	case tyck.FormatDate:
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	case tyck.FormatTime:
		_, err := time.Parse("15:04:05", s)
		return err == nil
	case tyck.FormatIPv4:
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil && strings.Contains(s, ".")
	case tyck.FormatIPv6:
		ip := net.ParseIP(s)
		return ip != nil && strings.Contains(s, ":")
	case tyck.FormatIP:
		return net.ParseIP(s) != nil
	case tyck.FormatJSON:
		return gojson.Valid([]byte(s))
	}
	return false
}

// ---------------- integer / number ----------------

type bounds struct {
	gt, gte, lt, lte       float64
	hasGt, hasGte          bool
	hasLt, hasLte          bool
	multipleOf             float64
	hasMultiple, hasFinite bool
}

func boundsOf(d tyck.Descriptor) bounds {
	var b bounds
	b.gt, b.hasGt = floatConstraint(d, tyck.ConstraintGt)
	b.gte, b.hasGte = floatConstraint(d, tyck.ConstraintGte)
	b.lt, b.hasLt = floatConstraint(d, tyck.ConstraintLt)
	b.lte, b.hasLte = floatConstraint(d, tyck.ConstraintLte)
	b.multipleOf, b.hasMultiple = floatConstraint(d, tyck.ConstraintMultipleOf)
	b.hasFinite = boolConstraint(d, tyck.ConstraintFinite)
	return b
}

func (b bounds) check(path string, v float64) tyck.Issues {
	var iss tyck.Issues
	if b.hasGt && !(v > b.gt) {
		iss = append(iss, issue(path, tyck.CodeTooSmall, map[string]any{"gt": b.gt, "got": v}))
	}
	if b.hasGte && !(v >= b.gte) {
		iss = append(iss, issue(path, tyck.CodeTooSmall, map[string]any{"ge": b.gte, "got": v}))
	}
	if b.hasLt && !(v < b.lt) {
		iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"lt": b.lt, "got": v}))
	}
	if b.hasLte && !(v <= b.lte) {
		iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"le": b.lte, "got": v}))
	}
	if b.hasMultiple && b.multipleOf != 0 {
		q := v / b.multipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			iss = append(iss, issue(path, tyck.CodeNotMultiple, map[string]any{"multiple_of": b.multipleOf, "got": v}))
		}
	}
	return iss
}

// int64Bound converts a bound parameter to int64 without the precision loss a
// float64 round trip has beyond 2^53. Fractional float bounds tighten to the
// equivalent integer bound: roundUp picks ceil (for ge/lt), otherwise floor
// (for gt/le).
func int64Bound(v any, roundUp bool) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t < -9.2e18 || t > 9.2e18 {
			return 0, false
		}
		if roundUp {
			return int64(math.Ceil(t)), true
		}
		return int64(math.Floor(t)), true
	}
	return 0, false
}

func compileInteger(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	var (
		gt, gte, lt, lte             int64
		hasGt, hasGte, hasLt, hasLte bool
	)
	if raw, ok := d.Constraint(tyck.ConstraintGt); ok {
		gt, hasGt = int64Bound(raw, false)
	}
	if raw, ok := d.Constraint(tyck.ConstraintGte); ok {
		gte, hasGte = int64Bound(raw, true)
	}
	if raw, ok := d.Constraint(tyck.ConstraintLt); ok {
		lt, hasLt = int64Bound(raw, true)
	}
	if raw, ok := d.Constraint(tyck.ConstraintLte); ok {
		lte, hasLte = int64Bound(raw, false)
	}
	var (
		mulI    int64
		hasMulI bool
		mulF    float64
		hasMulF bool
	)
	if raw, ok := d.Constraint(tyck.ConstraintMultipleOf); ok {
		switch t := raw.(type) {
		case int:
			mulI, hasMulI = int64(t), true
		case int64:
			mulI, hasMulI = t, true
		case float64:
			if t == math.Trunc(t) {
				mulI, hasMulI = int64(t), true
			} else {
				mulF, hasMulF = t, true
			}
		}
	}
	strict := cfg.Strict()
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		n, ok := toInt64(v, strict)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "integer", v)}
		}
		var iss tyck.Issues
		if hasGt && n <= gt {
			iss = append(iss, issue(path, tyck.CodeTooSmall, map[string]any{"gt": gt, "got": n}))
		}
		if hasGte && n < gte {
			iss = append(iss, issue(path, tyck.CodeTooSmall, map[string]any{"ge": gte, "got": n}))
		}
		if hasLt && n >= lt {
			iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"lt": lt, "got": n}))
		}
		if hasLte && n > lte {
			iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"le": lte, "got": n}))
		}
		if hasMulI && mulI != 0 && n%mulI != 0 {
			iss = append(iss, issue(path, tyck.CodeNotMultiple, map[string]any{"multiple_of": mulI, "got": n}))
		}
		if hasMulF {
			q := float64(n) / mulF
			if math.Abs(q-math.Round(q)) > 1e-9 {
				iss = append(iss, issue(path, tyck.CodeNotMultiple, map[string]any{"multiple_of": mulF, "got": n}))
			}
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return n, nil
	}, nil
}

func toInt64(v any, strict bool) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return int64(t), true
		}
		return 0, false
	case float32:
		f := float64(t)
		if f == math.Trunc(f) {
			return int64(f), true
		}
		return 0, false
	case gojson.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		if strict {
			return 0, false
		}
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func compileNumber(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	b := boundsOf(d)
	strict := cfg.Strict()
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		f, ok := toFloat64(v, strict)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "number", v)}
		}
		if b.hasFinite && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return nil, tyck.Issues{issue(path, tyck.CodeNotFinite, map[string]any{"got": fmt.Sprint(f)})}
		}
		if iss := b.check(path, f); len(iss) > 0 {
			return nil, iss
		}
		return f, nil
	}, nil
}

func toFloat64(v any, strict bool) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case gojson.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		if strict {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// ---------------- boolean ----------------

func compileBoolean(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	strict := cfg.Strict() || boolConstraint(d, tyck.ConstraintStrict)
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			if !strict {
				if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
					return b, nil
				}
			}
		case int:
			if !strict && (t == 0 || t == 1) {
				return t == 1, nil
			}
		case float64:
			if !strict && (t == 0 || t == 1) {
				return t == 1, nil
			}
		}
		return nil, tyck.Issues{typeIssue(path, "boolean", v)}
	}, nil
}

// ---------------- bytes ----------------

func compileBytes(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	minLen, hasMin := intConstraint(d, tyck.ConstraintMinLength)
	maxLen, hasMax := intConstraint(d, tyck.ConstraintMaxLength)
	strict := cfg.Strict()
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		var b []byte
		switch t := v.(type) {
		case []byte:
			b = t
		case string:
			if strict {
				return nil, tyck.Issues{typeIssue(path, "bytes", v)}
			}
			b = []byte(t)
		default:
			return nil, tyck.Issues{typeIssue(path, "bytes", v)}
		}
		var iss tyck.Issues
		if hasMin && len(b) < minLen {
			iss = append(iss, issue(path, tyck.CodeTooShort, map[string]any{"min": minLen, "got": len(b)}))
		}
		if hasMax && len(b) > maxLen {
			iss = append(iss, issue(path, tyck.CodeTooLong, map[string]any{"max": maxLen, "got": len(b)}))
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return b, nil
	}, nil
}

// ---------------- decimal ----------------

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case string:
		dec, err := decimal.NewFromString(strings.TrimSpace(t))
		return dec, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case gojson.Number:
		dec, err := decimal.NewFromString(t.String())
		return dec, err == nil
	}
	return decimal.Decimal{}, false
}

func compileDecimal(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	maxDigits, hasDigits := intConstraint(d, tyck.ConstraintMaxDigits)
	places, hasPlaces := intConstraint(d, tyck.ConstraintDecimalPlaces)

	type decBound struct {
		val decimal.Decimal
		set bool
	}
	bound := func(name string) (decBound, error) {
		raw, ok := d.Constraint(name)
		if !ok {
			return decBound{}, nil
		}
		dec, ok := toDecimal(raw)
		if !ok {
			return decBound{}, fmt.Errorf("engine: decimal bound %s has unusable value %T", name, raw)
		}
		return decBound{val: dec, set: true}, nil
	}
	gt, err := bound(tyck.ConstraintGt)
	if err != nil {
		return nil, err
	}
	gte, err := bound(tyck.ConstraintGte)
	if err != nil {
		return nil, err
	}
	lt, err := bound(tyck.ConstraintLt)
	if err != nil {
		return nil, err
	}
	lte, err := bound(tyck.ConstraintLte)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		dec, ok := toDecimal(v)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "decimal", v)}
		}
		var iss tyck.Issues
		if hasDigits && int(dec.NumDigits()) > maxDigits {
			iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"max_digits": maxDigits}))
		}
		if hasPlaces {
			got := 0
			if dec.Exponent() < 0 {
				got = int(-dec.Exponent())
			}
			if got > places {
				iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"decimal_places": places, "got": got}))
			}
		}
		if gt.set && dec.Cmp(gt.val) <= 0 {
			iss = append(iss, issue(path, tyck.CodeTooSmall, map[string]any{"gt": gt.val.String()}))
		}
		if gte.set && dec.Cmp(gte.val) < 0 {
			iss = append(iss, issue(path, tyck.CodeTooSmall, map[string]any{"ge": gte.val.String()}))
		}
		if lt.set && dec.Cmp(lt.val) >= 0 {
			iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"lt": lt.val.String()}))
		}
		if lte.set && dec.Cmp(lte.val) > 0 {
			iss = append(iss, issue(path, tyck.CodeTooBig, map[string]any{"le": lte.val.String()}))
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return dec, nil
	}, nil
}

// ---------------- temporal / uuid ----------------

func compileTemporal(layout, name string, cfg tyck.Config) (checker, error) {
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			parsed, err := time.Parse(layout, t)
			if err != nil {
				it := issue(path, tyck.CodeParseError, map[string]any{"format": name, "got": t})
				it.Cause = err
				return nil, tyck.Issues{it}
			}
			return parsed, nil
		}
		return nil, tyck.Issues{typeIssue(path, name, v)}
	}, nil
}

func compileUUID(cfg tyck.Config) (checker, error) {
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		switch t := v.(type) {
		case uuid.UUID:
			return t, nil
		case string:
			id, err := uuid.Parse(t)
			if err != nil {
				it := issue(path, tyck.CodeParseError, map[string]any{"format": "uuid", "got": t})
				it.Cause = err
				return nil, tyck.Issues{it}
			}
			return id, nil
		}
		return nil, tyck.Issues{typeIssue(path, "uuid", v)}
	}, nil
}

// ---------------- containers ----------------

func toSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func countIssues(d tyck.Descriptor, path string, n int) tyck.Issues {
	var iss tyck.Issues
	if min, ok := intConstraint(d, tyck.ConstraintMinItems); ok && n < min {
		iss = append(iss, issue(path, tyck.CodeTooShort, map[string]any{"min": min, "got": n}))
	}
	if max, ok := intConstraint(d, tyck.ConstraintMaxItems); ok && n > max {
		iss = append(iss, issue(path, tyck.CodeTooLong, map[string]any{"max": max, "got": n}))
	}
	return iss
}

// valueKey produces a comparable identity for uniqueness and membership
// checks. Numeric types collapse so 1 and 1.0 compare equal; integers keep
// their full 64-bit identity rather than rounding through float64.
func valueKey(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return "s:" + t
	case bool:
		return "b:" + strconv.FormatBool(t)
	case int:
		return "n:" + strconv.FormatInt(int64(t), 10)
	case int64:
		return "n:" + strconv.FormatInt(t, 10)
	case float64:
		if t == math.Trunc(t) && t >= -9.2e18 && t <= 9.2e18 {
			return "n:" + strconv.FormatInt(int64(t), 10)
		}
		return "n:" + strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

func compileArray(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	elem, _ := d.Elem()
	elemChk, err := compileDescriptor(elem, cfg)
	if err != nil {
		return nil, err
	}
	unique := boolConstraint(d, tyck.ConstraintUnique)
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		s, ok := toSlice(v)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "array", v)}
		}
		iss := countIssues(d, path, len(s))
		out := make([]any, 0, len(s))
		seen := map[string]struct{}{}
		for i, ev := range s {
			ep := path + "/" + strconv.Itoa(i)
			cv, eiss := elemChk(ctx, ep, ev)
			if len(eiss) > 0 {
				iss = append(iss, eiss...)
				continue
			}
			if unique {
				k := valueKey(cv)
				if _, dup := seen[k]; dup {
					iss = append(iss, issue(ep, tyck.CodeNotUnique, nil))
					continue
				}
				seen[k] = struct{}{}
			}
			out = append(out, cv)
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}, nil
}

func compileSet(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	elem, _ := d.Elem()
	elemChk, err := compileDescriptor(elem, cfg)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		s, ok := toSlice(v)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "set", v)}
		}
		var iss tyck.Issues
		out := make([]any, 0, len(s))
		seen := map[string]struct{}{}
		for i, ev := range s {
			cv, eiss := elemChk(ctx, path+"/"+strconv.Itoa(i), ev)
			if len(eiss) > 0 {
				iss = append(iss, eiss...)
				continue
			}
			k := valueKey(cv)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, cv)
		}
		iss = append(iss, countIssues(d, path, len(out))...)
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}, nil
}

func compileDict(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	keyDesc, _ := d.Key()
	valDesc, _ := d.Elem()
	keyChk, err := compileDescriptor(keyDesc, cfg)
	if err != nil {
		return nil, err
	}
	valChk, err := compileDescriptor(valDesc, cfg)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "dict", v)}
		}
		iss := countIssues(d, path, len(m))
		out := make(map[string]any, len(m))
		for k, ev := range m {
			ep := path + "/" + escapePointer(k)
			ck, kiss := keyChk(ctx, ep, k)
			if len(kiss) > 0 {
				iss = append(iss, kiss...)
				continue
			}
			cv, viss := valChk(ctx, ep, ev)
			if len(viss) > 0 {
				iss = append(iss, viss...)
				continue
			}
			ks, _ := ck.(string)
			out[ks] = cv
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}, nil
}

// escapePointer applies JSON Pointer token escaping (RFC 6901).
func escapePointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func compileTuple(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	items := d.Items()
	chks := make([]checker, len(items))
	for i, it := range items {
		chk, err := compileDescriptor(it, cfg)
		if err != nil {
			return nil, err
		}
		chks[i] = chk
	}
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		s, ok := toSlice(v)
		if !ok {
			return nil, tyck.Issues{typeIssue(path, "tuple", v)}
		}
		if len(s) != len(chks) {
			return nil, tyck.Issues{issue(path, tyck.CodeInvalidType, map[string]any{
				"expected": fmt.Sprintf("tuple of %d items", len(chks)), "got": len(s),
			})}
		}
		var iss tyck.Issues
		out := make([]any, len(s))
		for i, ev := range s {
			cv, eiss := chks[i](ctx, path+"/"+strconv.Itoa(i), ev)
			if len(eiss) > 0 {
				iss = append(iss, eiss...)
				continue
			}
			out[i] = cv
		}
		if len(iss) > 0 {
			return nil, iss
		}
		return out, nil
	}, nil
}

func compileUnion(d tyck.Descriptor, cfg tyck.Config) (checker, error) {
	variants := d.Variants()
	chks := make([]checker, len(variants))
	names := make([]string, len(variants))
	for i, vd := range variants {
		chk, err := compileDescriptor(vd, cfg)
		if err != nil {
			return nil, err
		}
		chks[i] = chk
		names[i] = vd.Kind().String()
	}
	hint := strings.Join(names, " | ")
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		for _, chk := range chks {
			cv, iss := chk(ctx, path, v)
			if len(iss) == 0 {
				return cv, nil
			}
		}
		it := issue(path, tyck.CodeInvalidUnion, map[string]any{"variants": names})
		it.Hint = hint
		return nil, tyck.Issues{it}
	}, nil
}

// compileValueSet checks membership in a closed value set. Numeric identity
// collapses representations, so 2 matches 2.0. When useValues is set the
// declared member value is stored instead of the input's representation
// (use_enum_values).
func compileValueSet(d tyck.Descriptor, code string, useValues bool) checker {
	allowed := d.Values()
	keys := make(map[string]any, len(allowed))
	for _, av := range allowed {
		keys[valueKey(av)] = av
	}
	return func(ctx context.Context, path string, v any) (any, tyck.Issues) {
		member, ok := keys[valueKey(v)]
		if !ok {
			it := issue(path, code, map[string]any{"allowed": allowed, "got": v})
			return nil, tyck.Issues{it}
		}
		if useValues {
			return member, nil
		}
		return v, nil
	}
}

// exportFunc returns the serialization transform for a kind, or nil for
// identity. Dates and times carry a narrower textual form than full RFC 3339.
func exportFunc(k tyck.Kind) func(any) any {
	switch k {
	case tyck.KindDate:
		return func(v any) any {
			if t, ok := v.(time.Time); ok {
				return t.Format("2006-01-02")
			}
			return v
		}
	case tyck.KindTime:
		return func(v any) any {
			if t, ok := v.(time.Time); ok {
				return t.Format("15:04:05")
			}
			return v
		}
	}
	return nil
}
