package document

import (
	"encoding/json"

	"github.com/vectra/vectra/engine-go/internal/typeid"
)

// DeleteSubtree removes the node and its whole descendant subtree from the
// tree, unlinking it from its parent's children first. Deleting an unknown
// id is a no-op beyond the unlink scan.
func DeleteSubtree(tree Tree, nodeID string) {
	// Unlink from whichever node lists it as a child.
	for id, node := range tree {
		if !containsID(node.Children, nodeID) {
			continue
		}
		kept := make([]string, 0, len(node.Children)-1)
		for _, c := range node.Children {
			if c != nodeID {
				kept = append(kept, c)
			}
		}
		node.Children = kept
		tree[id] = node
		break
	}

	for _, id := range collectSubtree(tree, nodeID) {
		delete(tree, id)
	}
}

// Instantiate deep-clones the subtree rooted at rootID out of a template
// tree, minting a fresh element id for every node and remapping child
// references. Child references pointing outside the template are dropped.
// Returns the cloned nodes keyed by their new ids plus the new root id.
func Instantiate(template Tree, rootID string) (Tree, string) {
	descendants := collectSubtree(template, rootID)

	idMap := make(map[string]string, len(descendants))
	for _, oldID := range descendants {
		idMap[oldID] = typeid.NewElementID()
	}

	clones := make(Tree, len(descendants))
	for _, oldID := range descendants {
		node, ok := template[oldID]
		if !ok {
			continue
		}

		extra := make(map[string]json.RawMessage, len(node.Extra))
		for k, v := range node.Extra {
			extra[k] = v
		}
		clone := Node{
			ID:    idMap[oldID],
			Extra: extra,
		}
		if node.Children != nil {
			clone.Children = make([]string, 0, len(node.Children))
			for _, c := range node.Children {
				if mapped, ok := idMap[c]; ok {
					clone.Children = append(clone.Children, mapped)
				}
			}
		}
		clones[clone.ID] = clone
	}

	newRoot := rootID
	if mapped, ok := idMap[rootID]; ok {
		newRoot = mapped
	}
	return clones, newRoot
}

// collectSubtree returns the ids of nodeID and all its descendants,
// depth-first. Ids without a node entry are still included so DeleteSubtree
// clears dangling references.
func collectSubtree(tree Tree, nodeID string) []string {
	var ids []string
	stack := []string{nodeID}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, curr)
		if node, ok := tree[curr]; ok {
			stack = append(stack, node.Children...)
		}
	}
	return ids
}

func containsID(ids []string, id string) bool {
	for _, c := range ids {
		if c == id {
			return true
		}
	}
	return false
}
