// Package codegen serializes a visual node tree into React component
// source. It walks the tree recursively, mapping node types to JSX tags and
// passing the open property bag's styling hints (className, layoutMode)
// through to the emitted markup. The output is plain TSX-compatible source;
// compilation to JS is the compiler package's job.
package codegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vectra/vectra/engine-go/internal/document"
)

// ErrRootNotFound is returned when the requested export root is absent
// from the tree.
var ErrRootNotFound = errors.New("codegen: export root not found")

// GenerateReact renders the subtree rooted at rootID as a standalone React
// component. A "page" root is skipped in favor of its first child, so
// exporting a page yields its canvas rather than a wrapper div. Icon nodes
// become lucide-react components and are gathered into one import line,
// sorted for deterministic output.
func GenerateReact(tree document.Tree, rootID string) (string, error) {
	exportRoot := rootID
	if node, ok := tree[rootID]; ok {
		if t, _ := node.StringField("type"); t == "page" && len(node.Children) > 0 {
			exportRoot = node.Children[0]
		}
	}

	if _, ok := tree[exportRoot]; !ok {
		return "", fmt.Errorf("%w: %q", ErrRootNotFound, exportRoot)
	}

	icons := map[string]struct{}{}
	collectIcons(tree, exportRoot, icons)

	var code strings.Builder
	code.WriteString("import React from 'react';\n")
	if len(icons) > 0 {
		names := make([]string, 0, len(icons))
		for name := range icons {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&code, "import { %s } from 'lucide-react';\n", strings.Join(names, ", "))
	}

	name := componentName(tree[exportRoot])
	fmt.Fprintf(&code, "\nexport default function %s() {\n  return (\n", name)
	code.WriteString(renderNode(tree, exportRoot, 2))
	code.WriteString("  );\n}")

	return code.String(), nil
}

// componentName derives a valid identifier from the root node's name,
// falling back to MyComponent.
func componentName(node document.Node) string {
	name, ok := node.StringField("name")
	if !ok || name == "" {
		name = "MyComponent"
	}
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "MyComponent"
	}
	return b.String()
}

func collectIcons(tree document.Tree, id string, icons map[string]struct{}) {
	node, ok := tree[id]
	if !ok {
		return
	}
	if icon, ok := propString(node, "iconName"); ok {
		icons[icon] = struct{}{}
	}
	for _, c := range node.Children {
		collectIcons(tree, c, icons)
	}
}

func renderNode(tree document.Tree, id string, indent int) string {
	node, ok := tree[id]
	if !ok {
		return ""
	}
	if hidden, _ := node.BoolField("hidden"); hidden {
		return ""
	}

	sp := strings.Repeat("  ", indent)
	nodeType, _ := node.StringField("type")
	if nodeType == "" {
		nodeType = "div"
	}
	content, _ := node.StringField("content")

	cls, _ := propString(node, "className")
	if mode, _ := propString(node, "layoutMode"); mode == "flex" && !strings.Contains(cls, "flex") {
		cls = "flex " + cls
	}

	var attrs string
	if cls != "" {
		attrs = fmt.Sprintf(" className=%q", strings.TrimSpace(cls))
	}

	if nodeType == "icon" {
		iconName, ok := propString(node, "iconName")
		if !ok || iconName == "" {
			iconName = "Star"
		}
		size, ok := propInt(node, "iconSize")
		if !ok {
			size = 24
		}
		return fmt.Sprintf("%s<%s%s size={%d} />\n", sp, iconName, attrs, size)
	}

	var tag string
	switch nodeType {
	case "text":
		tag = "p"
	case "heading":
		tag = "h1"
	case "button":
		tag = "button"
	case "image":
		tag = "img"
	case "input":
		tag = "input"
	case "canvas", "webpage":
		tag = "main"
	default:
		tag = "div"
	}

	if tag == "img" || tag == "input" {
		return fmt.Sprintf("%s<%s%s />\n", sp, tag, attrs)
	}

	var childCode string
	if content != "" {
		childCode = content
	}
	if len(node.Children) > 0 {
		if content != "" {
			childCode += "\n"
		}
		var rendered strings.Builder
		for _, c := range node.Children {
			rendered.WriteString(renderNode(tree, c, indent+1))
		}
		childCode += rendered.String()
		if strings.TrimSpace(rendered.String()) != "" && content != "" {
			childCode += sp
		}
	}

	switch {
	case childCode == "":
		return fmt.Sprintf("%s<%s%s />\n", sp, tag, attrs)
	case strings.Contains(childCode, "\n"):
		return fmt.Sprintf("%s<%s%s>\n%s%s</%s>\n", sp, tag, attrs, childCode, sp, tag)
	default:
		return fmt.Sprintf("%s<%s%s>%s</%s>\n", sp, tag, attrs, childCode, tag)
	}
}

// propString reads a string out of the node's nested props object.
func propString(node document.Node, key string) (string, bool) {
	props, ok := node.ObjectField("props")
	if !ok {
		return "", false
	}
	raw, ok := props[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// propInt reads an integer out of the node's nested props object.
func propInt(node document.Node, key string) (int, bool) {
	props, ok := node.ObjectField("props")
	if !ok {
		return 0, false
	}
	raw, ok := props[key]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}
