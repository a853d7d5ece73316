package document

import "encoding/json"

// NewSampleTree builds a small hero-section tree used by the playground and
// by tests. The property bags carry the open frontend schema (type, name,
// props, content) that the engine core treats as opaque.
func NewSampleTree() (Tree, string) {
	tree := Tree{}

	add := func(id string, children []string, extra map[string]any) {
		bag := make(map[string]json.RawMessage, len(extra))
		for k, v := range extra {
			raw, _ := json.Marshal(v)
			bag[k] = raw
		}
		tree[id] = Node{ID: id, Children: children, Extra: bag}
	}

	add("page-1", []string{"hero"}, map[string]any{
		"type": "page",
		"name": "Landing",
	})
	add("hero", []string{"hero-title", "hero-copy", "hero-cta"}, map[string]any{
		"type": "canvas",
		"name": "Hero Section",
		"props": map[string]any{
			"className":  "gap-4 p-8",
			"layoutMode": "flex",
		},
	})
	add("hero-title", nil, map[string]any{
		"type":    "heading",
		"content": "Build faster",
		"props":   map[string]any{"className": "text-4xl font-bold"},
	})
	add("hero-copy", nil, map[string]any{
		"type":    "text",
		"content": "Design visually, ship real code.",
	})
	add("hero-cta", []string{"hero-cta-icon"}, map[string]any{
		"type":  "button",
		"props": map[string]any{"className": "btn-primary"},
	})
	add("hero-cta-icon", nil, map[string]any{
		"type": "icon",
		"props": map[string]any{
			"iconName": "ArrowRight",
			"iconSize": 16,
		},
	})

	return tree, "page-1"
}
