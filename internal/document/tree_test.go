package document

import (
	"strings"
	"testing"
)

func testTree() Tree {
	return Tree{
		"root":   {ID: "root", Children: []string{"panel", "footer"}},
		"panel":  {ID: "panel", Children: []string{"label", "icon"}},
		"label":  {ID: "label"},
		"icon":   {ID: "icon"},
		"footer": {ID: "footer"},
	}
}

func TestDeleteSubtree(t *testing.T) {
	tree := testTree()

	DeleteSubtree(tree, "panel")

	for _, id := range []string{"panel", "label", "icon"} {
		if _, ok := tree[id]; ok {
			t.Errorf("node %q should have been deleted", id)
		}
	}
	if _, ok := tree["footer"]; !ok {
		t.Error("sibling footer should survive")
	}

	root := tree["root"]
	if len(root.Children) != 1 || root.Children[0] != "footer" {
		t.Errorf("root children = %v, want [footer]", root.Children)
	}
}

func TestDeleteSubtreeUnknownID(t *testing.T) {
	tree := testTree()
	DeleteSubtree(tree, "nope")
	if len(tree) != 5 {
		t.Errorf("tree size = %d, want 5 (unknown id is a no-op)", len(tree))
	}
}

func TestInstantiateRemapsIDs(t *testing.T) {
	template := testTree()

	clones, newRoot := Instantiate(template, "panel")

	if len(clones) != 3 {
		t.Fatalf("clones = %d nodes, want 3", len(clones))
	}
	if newRoot == "panel" {
		t.Error("root id was not remapped")
	}
	if !strings.HasPrefix(newRoot, "el_") {
		t.Errorf("new root id = %q, want el-prefixed typeid", newRoot)
	}

	rootClone, ok := clones[newRoot]
	if !ok {
		t.Fatal("root clone missing from result")
	}
	if len(rootClone.Children) != 2 {
		t.Fatalf("root clone children = %v, want 2 remapped ids", rootClone.Children)
	}
	for _, c := range rootClone.Children {
		if _, ok := clones[c]; !ok {
			t.Errorf("child reference %q does not resolve within the clones", c)
		}
		if c == "label" || c == "icon" {
			t.Errorf("child reference %q was not remapped", c)
		}
	}

	// The template itself is untouched.
	if template["panel"].ID != "panel" {
		t.Error("template mutated by instantiation")
	}
}

func TestInstantiateDropsDanglingChildRefs(t *testing.T) {
	template := Tree{
		"a": {ID: "a", Children: []string{"b", "ghost"}},
		"b": {ID: "b"},
	}

	clones, newRoot := Instantiate(template, "a")

	rootClone := clones[newRoot]
	if len(rootClone.Children) != 1 {
		t.Errorf("children = %v, want dangling ref dropped", rootClone.Children)
	}
}

func TestInstantiateFreshIDsPerCall(t *testing.T) {
	template := Tree{"a": {ID: "a"}}

	_, first := Instantiate(template, "a")
	_, second := Instantiate(template, "a")
	if first == second {
		t.Errorf("two instantiations produced the same id %q", first)
	}
}
