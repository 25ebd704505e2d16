package tyck

// ExtraPolicy controls how unknown keys are handled at instantiation.
type ExtraPolicy int

const (
	ExtraIgnore ExtraPolicy = iota // Drop unknown keys.
	ExtraAllow                     // Preserve unknown keys on the instance.
	ExtraForbid                    // Reject unknown keys with an error.
)

func (p ExtraPolicy) String() string {
	switch p {
	case ExtraAllow:
		return "allow"
	case ExtraForbid:
		return "forbid"
	default:
		return "ignore"
	}
}

// ExtraPolicyFromString resolves a policy by name; unknown names fall back to
// ignore with ok=false.
func ExtraPolicyFromString(s string) (ExtraPolicy, bool) {
	switch s {
	case "ignore":
		return ExtraIgnore, true
	case "allow":
		return ExtraAllow, true
	case "forbid":
		return ExtraForbid, true
	}
	return ExtraIgnore, false
}

// option bits tracking which keys were explicitly set, so derived schemas can
// inherit unset options from their source.
const (
	cfgStrict = 1 << iota
	cfgFrozen
	cfgExtra
	cfgPopulateByName
	cfgValidateAssignment
	cfgStrToLower
	cfgStrToUpper
	cfgStrStripWhitespace
	cfgUseEnumValues
	cfgValidateDefault
)

// Config is the per-model configuration value. The zero value is the default
// configuration (lenient coercion, unknown keys ignored).
type Config struct {
	strict             bool
	frozen             bool
	extra              ExtraPolicy
	populateByName     bool
	validateAssignment bool
	strToLower         bool
	strToUpper         bool
	strStripWhitespace bool
	useEnumValues      bool
	validateDefault    bool

	set uint16
}

// ConfigOption sets one configuration key.
type ConfigOption func(*Config)

// NewConfig builds a configuration value from the given options.
func NewConfig(opts ...ConfigOption) Config {
	var c Config
	for _, o := range opts {
		o(&c)
	}
	return c
}

func Strict(v bool) ConfigOption {
	return func(c *Config) { c.strict = v; c.set |= cfgStrict }
}

func Frozen(v bool) ConfigOption {
	return func(c *Config) { c.frozen = v; c.set |= cfgFrozen }
}

func Extra(p ExtraPolicy) ConfigOption {
	return func(c *Config) { c.extra = p; c.set |= cfgExtra }
}

func PopulateByName(v bool) ConfigOption {
	return func(c *Config) { c.populateByName = v; c.set |= cfgPopulateByName }
}

func ValidateAssignment(v bool) ConfigOption {
	return func(c *Config) { c.validateAssignment = v; c.set |= cfgValidateAssignment }
}

func StrToLower(v bool) ConfigOption {
	return func(c *Config) { c.strToLower = v; c.set |= cfgStrToLower }
}

func StrToUpper(v bool) ConfigOption {
	return func(c *Config) { c.strToUpper = v; c.set |= cfgStrToUpper }
}

func StrStripWhitespace(v bool) ConfigOption {
	return func(c *Config) { c.strStripWhitespace = v; c.set |= cfgStrStripWhitespace }
}

func UseEnumValues(v bool) ConfigOption {
	return func(c *Config) { c.useEnumValues = v; c.set |= cfgUseEnumValues }
}

func ValidateDefault(v bool) ConfigOption {
	return func(c *Config) { c.validateDefault = v; c.set |= cfgValidateDefault }
}

// ---- accessors ----

func (c Config) Strict() bool             { return c.strict }
func (c Config) Frozen() bool             { return c.frozen }
func (c Config) Extra() ExtraPolicy       { return c.extra }
func (c Config) PopulateByName() bool     { return c.populateByName }
func (c Config) ValidateAssignment() bool { return c.validateAssignment }
func (c Config) StrToLower() bool         { return c.strToLower }
func (c Config) StrToUpper() bool         { return c.strToUpper }
func (c Config) StrStripWhitespace() bool { return c.strStripWhitespace }
func (c Config) UseEnumValues() bool      { return c.useEnumValues }
func (c Config) ValidateDefault() bool    { return c.validateDefault }

// override merges o onto c: keys explicitly set on o win, everything else is
// inherited from c. Derived schemas use this for configuration inheritance.
func (c Config) override(o Config) Config {
	out := c
	if o.set&cfgStrict != 0 {
		out.strict = o.strict
	}
	if o.set&cfgFrozen != 0 {
		out.frozen = o.frozen
	}
	if o.set&cfgExtra != 0 {
		out.extra = o.extra
	}
	if o.set&cfgPopulateByName != 0 {
		out.populateByName = o.populateByName
	}
	if o.set&cfgValidateAssignment != 0 {
		out.validateAssignment = o.validateAssignment
	}
	if o.set&cfgStrToLower != 0 {
		out.strToLower = o.strToLower
	}
	if o.set&cfgStrToUpper != 0 {
		out.strToUpper = o.strToUpper
	}
	if o.set&cfgStrStripWhitespace != 0 {
		out.strStripWhitespace = o.strStripWhitespace
	}
	if o.set&cfgUseEnumValues != 0 {
		out.useEnumValues = o.useEnumValues
	}
	if o.set&cfgValidateDefault != 0 {
		out.validateDefault = o.validateDefault
	}
	out.set = c.set | o.set
	return out
}
