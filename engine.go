package tyck

import (
	"context"
	"sync"

	js "github.com/reoring/tyck/jsonschema"
)

// Engine is the validation collaborator. It owns constraint checking,
// coercion, default filling, serialization, and JSON Schema emission; the
// root package never reimplements those. The default implementation lives in
// engine/ and registers itself from an init func, mirroring how swappable
// drivers are installed elsewhere in the module.
type Engine interface {
	// Name identifies the engine implementation.
	Name() string

	// Compile turns an ordered field mapping plus configuration and validator
	// hooks into an opaque handle usable by the other methods.
	Compile(fields Fields, cfg Config, hooks Hooks) (Handle, error)

	// Instantiate validates raw input against a compiled handle. Failures are
	// returned as Issues aggregating every failing field, not just the first.
	Instantiate(ctx context.Context, h Handle, input map[string]any) (map[string]any, error)

	// ValidateField validates a single value against one field's descriptor,
	// returning the coerced value. Used for assignment validation.
	ValidateField(ctx context.Context, h Handle, name string, v any) (any, error)

	// Dump projects validated values into a plain mapping.
	Dump(h Handle, values map[string]any, opt DumpOpt) map[string]any

	// DumpJSON serializes validated values to JSON, emitting keys in declared
	// field order.
	DumpJSON(h Handle, values map[string]any, opt DumpOpt) ([]byte, error)

	// JSONSchema projects the compiled handle into a JSON Schema document.
	JSONSchema(h Handle) (*js.Schema, error)
}

// Handle is an opaque reference to an engine-compiled schema.
type Handle interface {
	// EngineName reports which engine produced the handle.
	EngineName() string
}

// DumpOpt narrows serialization to a subset of fields. Include, when
// non-empty, wins over Exclude.
type DumpOpt struct {
	Include []string
	Exclude []string
}

// FieldValidator is a custom per-field validator hook. It receives the
// coerced field value and returns nil, Issues, or any other error (wrapped
// into a single Issue).
type FieldValidator func(ctx context.Context, value any) error

// ModelValidator is a whole-object validator hook run after all field
// validation succeeded.
type ModelValidator func(ctx context.Context, values map[string]any) error

// FieldHook names a FieldValidator for issue attribution.
type FieldHook struct {
	Name string
	Fn   FieldValidator
}

// ModelHook names a ModelValidator.
type ModelHook struct {
	Name string
	Fn   ModelValidator
}

// Hooks carries the custom validators registered on a schema. The compiler
// only registers them; execution belongs to the engine.
type Hooks struct {
	Field map[string][]FieldHook
	Model []ModelHook
}

var (
	engineMu      sync.RWMutex
	currentEngine Engine
)

// SetEngine replaces the process-wide engine; nil values are ignored.
func SetEngine(e Engine) {
	if e == nil {
		return
	}
	engineMu.Lock()
	currentEngine = e
	engineMu.Unlock()
}

// CurrentEngine returns the registered engine, or nil when none was
// registered (importing engine/ installs the default).
func CurrentEngine() Engine {
	engineMu.RLock()
	defer engineMu.RUnlock()
	return currentEngine
}
