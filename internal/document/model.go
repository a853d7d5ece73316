// Package document holds the visual node tree: a flat map of nodes keyed by
// string id, each carrying an optional ordered child-id list plus an open,
// schema-free property bag. The engine core only inspects ids and children;
// everything else (type, props, content, styling) passes through untouched.
package document

import "encoding/json"

// Node is one visual element. Only ID and Children are structured; all
// remaining JSON fields live in Extra and are merged back flat at the
// serialization boundary, so unknown frontend properties survive a round
// trip through the engine.
type Node struct {
	ID       string
	Children []string

	// Extra is the opaque passthrough bag: every JSON field other than
	// "id" and "children".
	Extra map[string]json.RawMessage
}

// Tree is a node map keyed by id, the document's native shape.
type Tree map[string]Node

type nodeFixed struct {
	ID       string    `json:"id"`
	Children *[]string `json:"children,omitempty"`
}

// UnmarshalJSON splits the flat node object into fixed fields and the
// passthrough bag.
func (n *Node) UnmarshalJSON(data []byte) error {
	var fixed nodeFixed
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "id")
	delete(raw, "children")

	n.ID = fixed.ID
	if fixed.Children != nil {
		n.Children = *fixed.Children
	} else {
		n.Children = nil
	}
	n.Extra = raw
	return nil
}

// MarshalJSON merges the fixed fields back into the passthrough bag,
// producing the same flat object shape the node was parsed from. A node
// parsed without a children field is written without one.
func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(n.Extra)+2)
	for k, v := range n.Extra {
		out[k] = v
	}

	id, err := json.Marshal(n.ID)
	if err != nil {
		return nil, err
	}
	out["id"] = id

	if n.Children != nil {
		children, err := json.Marshal(n.Children)
		if err != nil {
			return nil, err
		}
		out["children"] = children
	}

	return json.Marshal(out)
}

// StringField returns the Extra field k decoded as a string. ok is false
// when the field is absent or not a string.
func (n Node) StringField(k string) (string, bool) {
	raw, present := n.Extra[k]
	if !present {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// BoolField returns the Extra field k decoded as a bool.
func (n Node) BoolField(k string) (bool, bool) {
	raw, present := n.Extra[k]
	if !present {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// ObjectField returns the Extra field k decoded as a nested JSON object.
func (n Node) ObjectField(k string) (map[string]json.RawMessage, bool) {
	raw, present := n.Extra[k]
	if !present {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}
