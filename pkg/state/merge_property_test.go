package state

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func buildState(keys []string, values []int) map[string]any {
	m := make(map[string]any)
	for i := 0; i < len(keys) && i < len(values); i++ {
		if keys[i] != "" {
			m[keys[i]] = float64(values[i])
		}
	}
	return m
}

// TestMergePrecedence verifies the leaf precedence of turn and live merges.
func TestMergePrecedence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("new leaves win and old-only leaves survive", prop.ForAll(
		func(oldKeys []string, oldValues []int, newKeys []string, newValues []int) bool {
			old := buildState(oldKeys, oldValues)
			next := buildState(newKeys, newValues)
			merged := Merge(old, next)

			for k, v := range next {
				if merged[k] != v {
					return false
				}
			}
			for k, v := range old {
				if _, inNew := next[k]; !inNew && merged[k] != v {
					return false
				}
			}
			return len(merged) <= len(old)+len(next)
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.Property("live writes win regardless of the turn merge", prop.ForAll(
		func(keys []string, values []int, liveKeys []string) bool {
			merged := buildState(keys, values)
			l := NewLive()
			for i, k := range liveKeys {
				l.Set("/"+k, float64(-i-1))
			}
			got := l.Apply(merged)

			for _, w := range l.Writes() {
				if got[w.Path[1:]] != w.Value {
					return false
				}
			}
			for k, v := range merged {
				if _, touched := l.Get("/" + k); !touched && got[k] != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("merge is idempotent on its own output", prop.ForAll(
		func(keys []string, values []int) bool {
			m := buildState(keys, values)
			once := Merge(m, m)
			if len(once) != len(m) {
				return false
			}
			for k, v := range m {
				if once[k] != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}
