//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/vectra/vectra/engine-go/internal/compiler"
	"github.com/vectra/vectra/engine-go/internal/document"
	"github.com/vectra/vectra/engine-go/internal/engine"
	"github.com/vectra/vectra/engine-go/internal/geometry"
	"github.com/vectra/vectra/engine-go/internal/layout"
)

var editor *engine.Editor

func main() {
	// Start with the built-in sample document so the bridge is usable
	// before the host app loads a real one.
	tree, root := document.NewSampleTree()
	data, _ := json.Marshal(engine.Document{Root: root, Nodes: tree})
	editor, _ = engine.NewEditor(data)

	vectraEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	vectraEngine.Set("loadDocument", js.FuncOf(loadDocument))
	vectraEngine.Set("buildIndex", js.FuncOf(buildIndex))
	vectraEngine.Set("setSnapThreshold", js.FuncOf(setSnapThreshold))
	vectraEngine.Set("commitState", js.FuncOf(commitState))
	vectraEngine.Set("deleteNode", js.FuncOf(deleteNode))
	vectraEngine.Set("instantiateTemplate", js.FuncOf(instantiateTemplate))
	vectraEngine.Set("undo", js.FuncOf(undo))
	vectraEngine.Set("redo", js.FuncOf(redo))

	// --- Queries (frontend ← backend) ---
	vectraEngine.Set("calculateSnapping", js.FuncOf(calculateSnapping))
	vectraEngine.Set("convertToGrid", js.FuncOf(convertToGrid))
	vectraEngine.Set("canUndo", js.FuncOf(canUndo))
	vectraEngine.Set("canRedo", js.FuncOf(canRedo))
	vectraEngine.Set("historyMemoryUsage", js.FuncOf(historyMemoryUsage))
	vectraEngine.Set("getDocument", js.FuncOf(getDocument))
	vectraEngine.Set("generateReactCode", js.FuncOf(generateReactCode))
	vectraEngine.Set("compileComponent", js.FuncOf(compileComponent))

	// Register on global scope
	js.Global().Set("vectraEngine", vectraEngine)

	// Signal that WASM is ready
	js.Global().Set("vectraWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	next, err := engine.NewEditor([]byte(args[0].String()))
	if err != nil {
		return errResult(err)
	}
	editor = next
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func buildIndex(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing rects JSON"})
	}

	var rects []geometry.Rect
	if err := json.Unmarshal([]byte(args[0].String()), &rects); err != nil {
		return errResult(err)
	}

	editor.BeginDrag(rects)
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func setSnapThreshold(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.SetSnapThreshold(args[0].Float())
	return nil
}

func commitState(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 && args[0].Type() == js.TypeString {
		if err := editor.LoadDocument([]byte(args[0].String())); err != nil {
			return errResult(err)
		}
	}
	if err := editor.Commit(); err != nil {
		return errResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func deleteNode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing node id"})
	}
	editor.DeleteNode(args[0].String())
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func instantiateTemplate(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing template or root id"})
	}

	var template document.Tree
	if err := json.Unmarshal([]byte(args[0].String()), &template); err != nil {
		return errResult(err)
	}

	newRoot := editor.InstantiateTemplate(template, args[1].String())
	return js.ValueOf(map[string]interface{}{"rootId": newRoot})
}

func undo(this js.Value, args []js.Value) interface{} {
	state, ok, err := editor.Undo()
	if err != nil {
		return errResult(err)
	}
	if !ok {
		return js.Null()
	}
	return js.ValueOf(string(state))
}

func redo(this js.Value, args []js.Value) interface{} {
	state, ok, err := editor.Redo()
	if err != nil {
		return errResult(err)
	}
	if !ok {
		return js.Null()
	}
	return js.ValueOf(string(state))
}

// --- Query Handlers ---

func calculateSnapping(this js.Value, args []js.Value) interface{} {
	if len(args) < 4 {
		return js.ValueOf(map[string]interface{}{"error": "expected x, y, w, h"})
	}

	result := editor.SnapTo(args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float())
	data, err := json.Marshal(result)
	if err != nil {
		return errResult(err)
	}
	return js.ValueOf(string(data))
}

func convertToGrid(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing nodes JSON"})
	}

	var nodes []layout.GridInputNode
	if err := json.Unmarshal([]byte(args[0].String()), &nodes); err != nil {
		return errResult(err)
	}

	canvasWidth := 0.0
	if len(args) > 1 {
		canvasWidth = args[1].Float()
	}

	result, err := editor.ConvertToGrid(nodes, canvasWidth)
	if err != nil {
		return errResult(err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return errResult(err)
	}
	return js.ValueOf(string(data))
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.CanRedo())
}

func historyMemoryUsage(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.HistoryMemoryUsage())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := editor.Document()
	if err != nil {
		return errResult(err)
	}
	return js.ValueOf(string(data))
}

func generateReactCode(this js.Value, args []js.Value) interface{} {
	rootID := editor.RootID()
	if len(args) > 0 && args[0].Type() == js.TypeString {
		rootID = args[0].String()
	}

	source, err := editor.ExportReactFrom(rootID)
	if err != nil {
		return errResult(err)
	}
	return js.ValueOf(source)
}

func compileComponent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing source"})
	}

	code, err := compiler.Compile(args[0].String())
	if err != nil {
		return errResult(err)
	}
	return js.ValueOf(code)
}
