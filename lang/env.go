package lang

import (
	"maps"
	"strings"
	"sync"
)

// Builtin names available to every expression.
const (
	builtinAttr     = "attr"
	builtinHas      = "has"
	builtinCoalesce = "coalesce"
	builtinFeature  = "feature"
)

// compileEnv holds type exemplars for the builtins. Values are only used by
// expr-lang's checker; runtime bindings are created by [runtimeEnv].
//
//nolint:gochecknoglobals
var compileEnv = sync.OnceValue(func() map[string]any {
	return map[string]any{
		builtinAttr:     func(string) any { return nil },
		builtinHas:      func(string) bool { return false },
		builtinCoalesce: coalesce,
		builtinFeature:  map[string]any{},
	}
})

// isBuiltin reports whether name is reserved by a builtin.
func isBuiltin(name string) bool {
	_, ok := compileEnv()[name]

	return ok
}

// BuiltinNames returns the names reserved by builtins.
func BuiltinNames() []string {
	return sortedKeys(compileEnv())
}

// runtimeEnv binds the builtins to attrs and returns the environment passed
// to the VM. The returned map is owned by the caller.
func runtimeEnv(attrs Attributes) map[string]any {
	env := make(map[string]any, len(attrs)+len(compileEnv()))

	maps.Copy(env, attrs)

	feature := map[string]any(attrs)
	if feature == nil {
		feature = map[string]any{}
	}

	env[builtinAttr] = func(name string) any { return attrs[name] }
	env[builtinHas] = func(name string) bool {
		_, ok := attrs[name]

		return ok
	}
	env[builtinCoalesce] = coalesce
	env[builtinFeature] = feature

	return env
}

// coalesce returns the first argument that is neither nil nor an empty or
// blank string.
func coalesce(vals ...any) any {
	for _, v := range vals {
		switch s := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(s) == "" {
				continue
			}
		}

		return v
	}

	return nil
}
