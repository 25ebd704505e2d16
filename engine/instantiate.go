package engine

import (
	"context"
	"fmt"
	"sort"

	tyck "github.com/reoring/tyck"
	"github.com/reoring/tyck/i18n"
)

func asHandle(h tyck.Handle) (*handle, error) {
	hd, ok := h.(*handle)
	if !ok {
		return nil, fmt.Errorf("engine: foreign handle %T", h)
	}
	return hd, nil
}

// lookup resolves a field's input value honoring alias and populate-by-name,
// and reports which input key supplied it.
func (cf *compiledField) lookup(input map[string]any, populateByName bool) (any, string, bool) {
	if cf.alias != "" {
		if v, ok := input[cf.alias]; ok {
			return v, cf.alias, true
		}
		if !populateByName {
			return nil, "", false
		}
	}
	v, ok := input[cf.name]
	return v, cf.name, ok
}

// Instantiate validates raw input, aggregating issues across every failing
// field instead of stopping at the first.
func (e *Engine) Instantiate(ctx context.Context, h tyck.Handle, input map[string]any) (map[string]any, error) {
	hd, err := asHandle(h)
	if err != nil {
		return nil, err
	}
	var iss tyck.Issues
	values := make(map[string]any, len(hd.compiled))
	consumed := make(map[string]struct{}, len(input))

	for _, cf := range hd.compiled {
		v, key, ok := cf.lookup(input, hd.cfg.PopulateByName())
		if ok {
			consumed[key] = struct{}{}
			cv, fiss := cf.check(ctx, "/"+cf.name, v)
			if len(fiss) > 0 {
				iss = append(iss, fiss...)
				continue
			}
			values[cf.name] = cv
			continue
		}
		if cf.hasDefault {
			dv := cf.defaultVal
			if hd.cfg.ValidateDefault() && dv != nil {
				cv, fiss := cf.check(ctx, "/"+cf.name, dv)
				if len(fiss) > 0 {
					iss = append(iss, fiss...)
					continue
				}
				dv = cv
			}
			values[cf.name] = dv
			continue
		}
		if cf.optional {
			continue // absent, stays absent
		}
		iss = append(iss, tyck.Issue{
			Path:    "/" + cf.name,
			Code:    tyck.CodeRequired,
			Message: i18n.T(tyck.CodeRequired, nil),
		})
	}

	iss = append(iss, hd.extraKeys(input, consumed, values)...)

	if len(iss) == 0 {
		iss = append(iss, hd.runFieldHooks(ctx, values)...)
	}
	if len(iss) > 0 {
		sortIssues(iss)
		return nil, iss
	}
	if miss := hd.runModelHooks(ctx, values); len(miss) > 0 {
		return nil, miss
	}
	return values, nil
}

// extraKeys applies the configured unknown-key policy. Allow copies the keys
// through; forbid reports each one; ignore drops them.
func (hd *handle) extraKeys(input map[string]any, consumed map[string]struct{}, values map[string]any) tyck.Issues {
	var extras []string
	for k := range input {
		if _, ok := consumed[k]; !ok {
			extras = append(extras, k)
		}
	}
	if len(extras) == 0 {
		return nil
	}
	sort.Strings(extras)
	switch hd.cfg.Extra() {
	case tyck.ExtraAllow:
		for _, k := range extras {
			if _, declared := hd.byName[k]; !declared {
				values[k] = input[k]
			}
		}
		return nil
	case tyck.ExtraForbid:
		iss := make(tyck.Issues, 0, len(extras))
		for _, k := range extras {
			iss = append(iss, tyck.Issue{
				Path:    "/" + escapePointer(k),
				Code:    tyck.CodeUnknownKey,
				Message: i18n.T(tyck.CodeUnknownKey, nil),
			})
		}
		return iss
	default:
		return nil
	}
}

func (hd *handle) runFieldHooks(ctx context.Context, values map[string]any) tyck.Issues {
	if len(hd.hooks.Field) == 0 {
		return nil
	}
	var iss tyck.Issues
	for _, cf := range hd.compiled {
		hooks := hd.hooks.Field[cf.name]
		if len(hooks) == 0 {
			continue
		}
		v, present := values[cf.name]
		if !present {
			continue
		}
		for _, hk := range hooks {
			if err := hk.Fn(ctx, v); err != nil {
				iss = append(iss, hookIssues("/"+cf.name, hk.Name, err)...)
			}
		}
	}
	return iss
}

func (hd *handle) runModelHooks(ctx context.Context, values map[string]any) tyck.Issues {
	var iss tyck.Issues
	for _, hk := range hd.hooks.Model {
		if err := hk.Fn(ctx, values); err != nil {
			iss = append(iss, hookIssues("", hk.Name, err)...)
		}
	}
	return iss
}

// hookIssues adapts a validator hook error into Issues, filling in path and
// rule name where the hook left them blank.
func hookIssues(path, rule string, err error) tyck.Issues {
	if got, ok := tyck.AsIssues(err); ok {
		out := make(tyck.Issues, len(got))
		for i, it := range got {
			if it.Path == "" {
				it.Path = path
			}
			if it.Rule == "" {
				it.Rule = rule
			}
			out[i] = it
		}
		return out
	}
	return tyck.Issues{{
		Path:    path,
		Code:    tyck.CodeCustomRule,
		Message: err.Error(),
		Cause:   err,
		Rule:    rule,
	}}
}

// sortIssues orders issues by path then code for deterministic output.
func sortIssues(iss tyck.Issues) {
	sort.SliceStable(iss, func(i, j int) bool {
		if iss[i].Path != iss[j].Path {
			return iss[i].Path < iss[j].Path
		}
		return iss[i].Code < iss[j].Code
	})
}

// ValidateField validates one value against a single field's descriptor,
// running that field's hooks as well. Used for assignment validation.
func (e *Engine) ValidateField(ctx context.Context, h tyck.Handle, name string, v any) (any, error) {
	hd, err := asHandle(h)
	if err != nil {
		return nil, err
	}
	cf, ok := hd.byName[name]
	if !ok {
		return nil, tyck.Issues{{
			Path:    "/" + escapePointer(name),
			Code:    tyck.CodeUnknownKey,
			Message: i18n.T(tyck.CodeUnknownKey, nil),
		}}
	}
	cv, iss := cf.check(ctx, "/"+name, v)
	if len(iss) > 0 {
		return nil, iss
	}
	for _, hk := range hd.hooks.Field[name] {
		if err := hk.Fn(ctx, cv); err != nil {
			if hiss := hookIssues("/"+name, hk.Name, err); len(hiss) > 0 {
				return nil, hiss
			}
		}
	}
	return cv, nil
}
