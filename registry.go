package tyck

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
)

// Process-wide registry of compiled schema names, used to auto-name schemas
// declared without an explicit name. Append-only under a single mutex; this
// is the only shared mutable state in the package.
var (
	nameMu    sync.Mutex
	nameTaken = map[string]struct{}{}
)

// autoName derives a deterministic name from the declared field names and
// reserves it, suffixing a counter on collision with a previously registered
// schema of different shape.
func autoName(fields Fields) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.Join(fields.Names(), ",")))
	base := fmt.Sprintf("Interface_%08x", h.Sum32())

	nameMu.Lock()
	defer nameMu.Unlock()
	name := base
	for i := 2; ; i++ {
		if _, ok := nameTaken[name]; !ok {
			break
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
	nameTaken[name] = struct{}{}
	return name
}

// reserveName records an explicitly chosen schema name. Explicit names may
// repeat; the registry only guarantees uniqueness for generated ones.
func reserveName(name string) {
	nameMu.Lock()
	nameTaken[name] = struct{}{}
	nameMu.Unlock()
}
