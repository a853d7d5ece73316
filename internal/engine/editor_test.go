package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vectra/vectra/engine-go/internal/document"
	"github.com/vectra/vectra/engine-go/internal/geometry"
	"github.com/vectra/vectra/engine-go/internal/history"
	"github.com/vectra/vectra/engine-go/internal/snap"
	"github.com/vectra/vectra/engine-go/internal/spatial"
)

func sampleEditor(t *testing.T) *Editor {
	t.Helper()
	tree, root := document.NewSampleTree()
	payload, err := json.Marshal(Document{Root: root, Nodes: tree})
	if err != nil {
		t.Fatalf("marshal sample document: %v", err)
	}
	ed, err := NewEditor(payload)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	return ed
}

func TestNewEditorSeedsState(t *testing.T) {
	ed := sampleEditor(t)

	if ed.RootID() != "page-1" {
		t.Errorf("root = %q, want page-1", ed.RootID())
	}
	if _, ok := ed.Node("hero-cta"); !ok {
		t.Error("hero-cta missing from loaded tree")
	}
	if ed.CanUndo() || ed.CanRedo() {
		t.Error("fresh editor should have nothing to undo or redo")
	}
}

func TestNewEditorRejectsGarbage(t *testing.T) {
	if _, err := NewEditor([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewEditorRejectsMissingNodes(t *testing.T) {
	for _, payload := range []string{`{"root":"r"}`, `{"root":"r","nodes":null}`} {
		if _, err := NewEditor([]byte(payload)); err == nil {
			t.Errorf("NewEditor(%s): expected missing-nodes error", payload)
		}
	}

	// An explicitly empty nodes object is a valid, empty document.
	ed, err := NewEditor([]byte(`{"root":"r","nodes":{}}`))
	if err != nil {
		t.Fatalf("NewEditor with empty nodes: %v", err)
	}
	newRoot := ed.InstantiateTemplate(document.Tree{"a": {ID: "a"}}, "a")
	if _, ok := ed.Node(newRoot); !ok {
		t.Error("instantiation into an empty document failed")
	}
}

func TestLoadDocumentRejectsMissingNodes(t *testing.T) {
	ed := sampleEditor(t)

	if err := ed.LoadDocument([]byte(`{"root":"r"}`)); err == nil {
		t.Fatal("expected missing-nodes error")
	}
	if _, ok := ed.Node("hero"); !ok {
		t.Error("rejected load must leave the current tree in place")
	}
}

func TestDragSnapFlow(t *testing.T) {
	ed := sampleEditor(t)

	ed.BeginDrag([]geometry.Rect{{X: 200, Y: 0, W: 100, H: 100}})

	res := ed.SnapTo(303, 40, 80, 40)
	if res.X != 300 {
		t.Errorf("snapped X = %v, want 300", res.X)
	}
	if res.Y != 40 {
		t.Errorf("Y = %v, want unchanged", res.Y)
	}
	if len(res.Guides) != 1 {
		t.Fatalf("guides = %d, want 1", len(res.Guides))
	}
	if res.Guides[0].Orientation != geometry.OrientationVertical {
		t.Errorf("guide orientation = %q, want vertical", res.Guides[0].Orientation)
	}
}

func TestSetSnapThreshold(t *testing.T) {
	ed := sampleEditor(t)
	ed.BeginDrag([]geometry.Rect{{X: 200, Y: 0, W: 100, H: 100}})

	ed.SetSnapThreshold(1)
	if res := ed.SnapTo(303, 40, 80, 40); res.X != 303 {
		t.Errorf("X = %v, want no snap with threshold 1", res.X)
	}

	// Non-positive values fall back to the default distance.
	ed.SetSnapThreshold(0)
	if res := ed.SnapTo(303, 40, 80, 40); res.X != 300 {
		t.Errorf("X = %v, want 300 with default threshold restored", res.X)
	}
}

func TestDeleteCommitUndoRedo(t *testing.T) {
	ed := sampleEditor(t)

	ed.DeleteNode("hero-cta")
	if _, ok := ed.Node("hero-cta"); ok {
		t.Fatal("hero-cta still present after delete")
	}
	if _, ok := ed.Node("hero-cta-icon"); ok {
		t.Fatal("descendant hero-cta-icon still present after delete")
	}
	if err := ed.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, ok, err := ed.Undo(); err != nil || !ok {
		t.Fatalf("Undo: ok=%v err=%v", ok, err)
	}
	if _, ok := ed.Node("hero-cta"); !ok {
		t.Error("undo did not restore hero-cta")
	}

	if _, ok, err := ed.Redo(); err != nil || !ok {
		t.Fatalf("Redo: ok=%v err=%v", ok, err)
	}
	if _, ok := ed.Node("hero-cta"); ok {
		t.Error("redo did not re-apply the delete")
	}
}

func TestUndoKeepsCursorWhenStateRejected(t *testing.T) {
	// Seed the store with a payload the document loader rejects, then push
	// a valid state on top. A failed undo must leave the cursor where it
	// was so history and the live tree stay in step.
	store, err := history.New([]byte(`{"root":"r"}`))
	if err != nil {
		t.Fatalf("history.New: %v", err)
	}
	tree, root := document.NewSampleTree()
	good, err := json.Marshal(Document{Root: root, Nodes: tree})
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	store.Push(good)

	ed := &Editor{
		tree:      tree,
		rootID:    root,
		index:     spatial.New(),
		threshold: snap.DefaultThreshold,
		history:   store,
	}

	if _, ok, err := ed.Undo(); err == nil || ok {
		t.Fatalf("Undo: ok=%v err=%v, want rejected state error", ok, err)
	}
	if !ed.CanUndo() || ed.CanRedo() {
		t.Errorf("cursor moved: canUndo=%v canRedo=%v, want true/false", ed.CanUndo(), ed.CanRedo())
	}
	if _, ok := ed.Node("hero"); !ok {
		t.Error("failed undo must leave the current tree in place")
	}
}

func TestUndoAtSeedIsNoOp(t *testing.T) {
	ed := sampleEditor(t)

	if _, ok, err := ed.Undo(); ok || err != nil {
		t.Fatalf("Undo at seed: ok=%v err=%v, want no-op", ok, err)
	}
	if ed.RootID() != "page-1" {
		t.Error("no-op undo changed document state")
	}
}

func TestInstantiateTemplateMergesClones(t *testing.T) {
	ed := sampleEditor(t)
	template := document.Tree{
		"card":       {ID: "card", Children: []string{"card-title"}},
		"card-title": {ID: "card-title"},
	}

	newRoot := ed.InstantiateTemplate(template, "card")

	root, ok := ed.Node(newRoot)
	if !ok {
		t.Fatal("instantiated root missing from document")
	}
	if len(root.Children) != 1 {
		t.Fatalf("root children = %v, want one remapped child", root.Children)
	}
	if _, ok := ed.Node(root.Children[0]); !ok {
		t.Error("remapped child missing from document")
	}
	if newRoot == "card" {
		t.Error("template ids leaked into the document unmapped")
	}
}

func TestExportReact(t *testing.T) {
	ed := sampleEditor(t)

	code, err := ed.ExportReact()
	if err != nil {
		t.Fatalf("ExportReact: %v", err)
	}
	if !strings.Contains(code, "export default function HeroSection()") {
		t.Errorf("unexpected export output\n%s", code)
	}
}
