// Package engine ties the computational subsystems together behind one
// editing-session facade: the document tree, the drag snap index, the
// undo/redo history and code export. It processes commands from the
// frontend and answers queries, one session per caller.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vectra/vectra/engine-go/internal/codegen"
	"github.com/vectra/vectra/engine-go/internal/document"
	"github.com/vectra/vectra/engine-go/internal/geometry"
	"github.com/vectra/vectra/engine-go/internal/history"
	"github.com/vectra/vectra/engine-go/internal/layout"
	"github.com/vectra/vectra/engine-go/internal/snap"
	"github.com/vectra/vectra/engine-go/internal/spatial"
)

// Document is the serialized editing state: the node tree plus its root.
// This is also the payload shape pushed into history on each edit commit.
type Document struct {
	Root  string        `json:"root"`
	Nodes document.Tree `json:"nodes"`
}

// Editor owns all state for one editing session. It is synchronous and
// single-goroutine: every command and query runs to completion before the
// caller issues the next one, exactly like the browser main loop that
// drives it. The per-frame path (SnapTo) never touches history or performs
// document-sized allocation.
type Editor struct {
	tree   document.Tree
	rootID string

	index     *spatial.Index
	threshold float64

	history *history.Store
}

// NewEditor creates a session from an initial document payload. The payload
// seeds the history store, so the very first state is always recoverable.
func NewEditor(initial []byte, historyOpts ...history.Option) (*Editor, error) {
	doc, err := parseDocument(initial)
	if err != nil {
		return nil, err
	}

	store, err := history.New(initial, historyOpts...)
	if err != nil {
		return nil, fmt.Errorf("create history: %w", err)
	}

	return &Editor{
		tree:      doc.Nodes,
		rootID:    doc.Root,
		index:     spatial.New(),
		threshold: snap.DefaultThreshold,
		history:   store,
	}, nil
}

// --- Commands (frontend → engine) ---

// LoadDocument replaces the current tree from a serialized payload without
// touching history. Used when applying an undone/redone state.
func (e *Editor) LoadDocument(data []byte) error {
	doc, err := parseDocument(data)
	if err != nil {
		return err
	}
	e.tree = doc.Nodes
	e.rootID = doc.Root
	return nil
}

// parseDocument decodes a document payload. A payload without a nodes
// object is rejected: the tree map must exist so later node commands never
// write into a nil map.
func parseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse document: %w", err)
	}
	if doc.Nodes == nil {
		return Document{}, errors.New("parse document: missing nodes object")
	}
	return doc, nil
}

// BeginDrag rebuilds the snap index from the sibling rects of the element
// being dragged. Called once per interaction, on pointer-down; every
// subsequent pointer-move frame only crosses five scalars via SnapTo.
func (e *Editor) BeginDrag(siblings []geometry.Rect) {
	e.index.Build(siblings)
}

// SetSnapThreshold overrides the drag snap distance. Values at or below
// zero reset to the default.
func (e *Editor) SetSnapThreshold(threshold float64) {
	if threshold <= 0 {
		threshold = snap.DefaultThreshold
	}
	e.threshold = threshold
}

// Commit serializes the current document and pushes it into history.
// Called on discrete edit boundaries, off the per-frame path.
func (e *Editor) Commit() error {
	data, err := e.Document()
	if err != nil {
		return err
	}
	e.history.Push(data)
	return nil
}

// DeleteNode removes a node and its subtree from the document.
func (e *Editor) DeleteNode(nodeID string) {
	document.DeleteSubtree(e.tree, nodeID)
}

// InstantiateTemplate clones a template subtree with fresh element ids and
// merges it into the document. Returns the new root id.
func (e *Editor) InstantiateTemplate(template document.Tree, rootID string) string {
	clones, newRoot := document.Instantiate(template, rootID)
	for id, node := range clones {
		e.tree[id] = node
	}
	return newRoot
}

// Undo steps back one state, reloads the document from it and returns the
// payload. ok is false when there is nothing to undo.
func (e *Editor) Undo() (state []byte, ok bool, err error) {
	state, ok, err = e.history.Undo()
	if err != nil || !ok {
		return nil, ok, err
	}
	if err := e.LoadDocument(state); err != nil {
		// Step the cursor back so history and the live tree stay in step.
		e.history.Redo()
		return nil, false, err
	}
	return state, true, nil
}

// Redo steps forward one state, reloads the document from it and returns
// the payload. ok is false when there is nothing to redo.
func (e *Editor) Redo() (state []byte, ok bool, err error) {
	state, ok, err = e.history.Redo()
	if err != nil || !ok {
		return nil, ok, err
	}
	if err := e.LoadDocument(state); err != nil {
		e.history.Undo()
		return nil, false, err
	}
	return state, true, nil
}

// --- Queries (frontend ← engine) ---

// SnapTo computes the corrected position and alignment guides for the
// dragged element at (x, y) with size w x h, against the index built by
// BeginDrag. This is the 60fps path.
func (e *Editor) SnapTo(x, y, w, h float64) geometry.SnapResult {
	return snap.Snap(geometry.Rect{X: x, Y: y, W: w, H: h}, e.threshold, e.index)
}

// ConvertToGrid maps an absolute arrangement onto a CSS grid descriptor.
func (e *Editor) ConvertToGrid(nodes []layout.GridInputNode, canvasWidth float64) (*layout.GridLayout, error) {
	return layout.ToGrid(nodes, canvasWidth)
}

// Document returns the current editing state as a serialized payload.
func (e *Editor) Document() ([]byte, error) {
	data, err := json.Marshal(Document{Root: e.rootID, Nodes: e.tree})
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// Node returns the node with the given id.
func (e *Editor) Node(id string) (document.Node, bool) {
	n, ok := e.tree[id]
	return n, ok
}

// RootID returns the document root id.
func (e *Editor) RootID() string { return e.rootID }

// CanUndo reports whether an earlier state exists.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether a later state exists.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// HistoryMemoryUsage returns the compressed history footprint in bytes.
func (e *Editor) HistoryMemoryUsage() int { return e.history.MemoryUsage() }

// ExportReact renders the document as React component source, starting at
// the document root.
func (e *Editor) ExportReact() (string, error) {
	return codegen.GenerateReact(e.tree, e.rootID)
}

// ExportReactFrom renders the subtree rooted at rootID as React source.
func (e *Editor) ExportReactFrom(rootID string) (string, error) {
	return codegen.GenerateReact(e.tree, rootID)
}
