// Package tyck provides:
//
// - A fluent, copy-on-write builder DSL for describing data shapes (dsl/)
// - A schema compiler turning ordered field mappings into compiled schemas
//   (Interface/FromStruct) with per-model configuration and validator hooks
// - Schema algebra: Pick/Omit/Partial/Required/Extend/Merge derive new
//   schemas without mutating their inputs
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep only public value types and the compiler in the root package.
// - Place the builder DSL under dsl/, the validation engine under engine/,
//   and the JSON Schema document model under jsonschema/.
// - Constraint checking and coercion are owned by the Engine interface; the
//   default engine registers itself when engine/ is imported.
//
// Typical usage:
//
//	user, err := tyck.Interface(tyck.Fields{
//	    tyck.F("id", dsl.Integer().Positive()),
//	    tyck.F("name", dsl.String().Min(1).Max(100)),
//	})
//	inst, err := user.New(ctx, map[string]any{"id": 1, "name": "John"})
//	out := inst.Dump()
package tyck
