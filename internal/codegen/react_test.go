package codegen

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vectra/vectra/engine-go/internal/document"
)

func TestGenerateReactSampleTree(t *testing.T) {
	tree, root := document.NewSampleTree()

	code, err := GenerateReact(tree, root)
	if err != nil {
		t.Fatalf("GenerateReact: %v", err)
	}

	for _, want := range []string{
		"import React from 'react';",
		"import { ArrowRight } from 'lucide-react';",
		"export default function HeroSection() {",
		`className="flex gap-4 p-8"`,
		"<h1", "Build faster",
		"<p", "Design visually, ship real code.",
		"<button",
		"<ArrowRight size={16} />",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("output missing %q\n%s", want, code)
		}
	}
}

func TestGenerateReactSkipsPageWrapper(t *testing.T) {
	tree, root := document.NewSampleTree()

	code, err := GenerateReact(tree, root)
	if err != nil {
		t.Fatalf("GenerateReact: %v", err)
	}
	// The page node's own tag never appears; the canvas child becomes the
	// component root.
	if !strings.Contains(code, "<main") {
		t.Errorf("expected canvas root rendered as <main>\n%s", code)
	}
	if strings.Contains(code, "Landing") {
		t.Errorf("page wrapper leaked into output\n%s", code)
	}
}

func TestGenerateReactHiddenNodesElided(t *testing.T) {
	tree, root := document.NewSampleTree()
	node := tree["hero-copy"]
	node.Extra["hidden"] = []byte("true")
	tree["hero-copy"] = node

	code, err := GenerateReact(tree, root)
	if err != nil {
		t.Fatalf("GenerateReact: %v", err)
	}
	if strings.Contains(code, "Design visually") {
		t.Errorf("hidden node rendered\n%s", code)
	}
}

func TestGenerateReactRootNotFound(t *testing.T) {
	tree, _ := document.NewSampleTree()

	if _, err := GenerateReact(tree, "missing"); !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestComponentNameSanitized(t *testing.T) {
	tree := document.Tree{
		"n": {ID: "n", Extra: mustExtra(t, map[string]string{"name": "My Card #2!"})},
	}

	code, err := GenerateReact(tree, "n")
	if err != nil {
		t.Fatalf("GenerateReact: %v", err)
	}
	if !strings.Contains(code, "function MyCard2()") {
		t.Errorf("component name not sanitized\n%s", code)
	}
}

func mustExtra(t *testing.T, fields map[string]string) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %q: %v", k, err)
		}
		out[k] = raw
	}
	return out
}
