package main

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The embedded schemas are hand-tuned copies of the generator output; the
// structural keywords must stay in sync with the Go types.
func TestEmbeddedSchemasMatchTypes(t *testing.T) {
	t.Parallel()

	keywords := []string{"type", "enum", "pattern", "minLength", "minimum", "maximum"}

	for _, tg := range targets() {
		tg := tg

		t.Run(tg.out, func(t *testing.T) {
			t.Parallel()

			generated := toDoc(t, reflectSchema(tg, ""))
			embedded := make(map[string]any)
			require.NoError(t, json.Unmarshal(tg.embedded, &embedded))

			assert.Equal(t, embedded["$schema"], generated["$schema"])
			assert.Equal(t, embedded["type"], generated["type"])
			assert.Equal(t, embedded["additionalProperties"], generated["additionalProperties"])
			assert.ElementsMatch(t, stringList(embedded["required"]), stringList(generated["required"]))

			wantProps := properties(embedded)
			gotProps := properties(generated)
			require.Equal(t, keys(wantProps), keys(gotProps))

			for name, want := range wantProps {
				got := gotProps[name]
				for _, kw := range keywords {
					assert.Equal(t, want[kw], got[kw], "%s.%s", name, kw)
				}
				if items, ok := want["items"].(map[string]any); ok {
					gotItems, _ := got["items"].(map[string]any)
					assert.Equal(t, items["type"], gotItems["type"], "%s.items.type", name)
				}
			}
		})
	}
}

func toDoc(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	doc := make(map[string]any)
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func properties(doc map[string]any) map[string]map[string]any {
	raw, _ := doc["properties"].(map[string]any)
	out := make(map[string]map[string]any, len(raw))
	for name, v := range raw {
		prop, _ := v.(map[string]any)
		out[name] = prop
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
