package engine

import (
	"bytes"
	"sort"

	gojson "github.com/goccy/go-json"

	tyck "github.com/reoring/tyck"
)

// filter reports whether a field name survives the include/exclude options.
// Include, when non-empty, wins over Exclude.
func filter(opt tyck.DumpOpt, name string) bool {
	if len(opt.Include) > 0 {
		for _, n := range opt.Include {
			if n == name {
				return true
			}
		}
		return false
	}
	for _, n := range opt.Exclude {
		if n == name {
			return false
		}
	}
	return true
}

// extraValueKeys returns keys held on the instance beyond the declared fields
// (present under the allow policy), sorted for deterministic output.
func (hd *handle) extraValueKeys(values map[string]any) []string {
	var out []string
	for k := range values {
		if _, declared := hd.byName[k]; !declared {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Dump projects validated values into a plain mapping, applying per-kind
// export transforms (dates and times render as their narrow textual forms).
func (e *Engine) Dump(h tyck.Handle, values map[string]any, opt tyck.DumpOpt) map[string]any {
	hd, err := asHandle(h)
	if err != nil {
		return nil
	}
	out := make(map[string]any, len(values))
	for _, cf := range hd.compiled {
		v, ok := values[cf.name]
		if !ok || !filter(opt, cf.name) {
			continue
		}
		if cf.export != nil {
			v = cf.export(v)
		}
		out[cf.name] = v
	}
	for _, k := range hd.extraValueKeys(values) {
		if filter(opt, k) {
			out[k] = values[k]
		}
	}
	return out
}

// DumpJSON serializes validated values to JSON with keys in declared field
// order. The standard map marshal path cannot promise ordering, so the object
// frame is emitted by hand and each key and value goes through the JSON codec
// individually.
func (e *Engine) DumpJSON(h tyck.Handle, values map[string]any, opt tyck.DumpOpt) ([]byte, error) {
	hd, err := asHandle(h)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(hd.order))
	for _, cf := range hd.compiled {
		if _, ok := values[cf.name]; ok && filter(opt, cf.name) {
			names = append(names, cf.name)
		}
	}
	for _, k := range hd.extraValueKeys(values) {
		if filter(opt, k) {
			names = append(names, k)
		}
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v := values[name]
		if cf, ok := hd.byName[name]; ok && cf.export != nil {
			v = cf.export(v)
		}
		vb, err := gojson.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
