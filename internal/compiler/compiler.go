// Package compiler turns JSX/TSX-flavored component source into plain JS
// for live preview. It is a thin adapter over esbuild's Transform API; the
// engine core treats it as an opaque service and never inspects the source.
package compiler

import (
	"errors"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
)

// ErrEmptySource is returned when there is nothing to compile.
var ErrEmptySource = errors.New("compiler: empty source")

// Compile transforms TSX source into browser-ready JS: types are stripped
// and JSX is lowered to React.createElement calls. Every call builds its
// options from scratch; no compiler state is shared or re-entered across
// calls.
func Compile(source string) (string, error) {
	if source == "" {
		return "", ErrEmptySource
	}

	result := api.Transform(source, api.TransformOptions{
		Loader:     api.LoaderTSX,
		JSX:        api.JSXTransform,
		JSXFactory: "React.createElement",
		Sourcefile: "component.tsx",
	})

	if len(result.Errors) > 0 {
		first := result.Errors[0]
		if first.Location != nil {
			return "", fmt.Errorf("compile component.tsx:%d:%d: %s",
				first.Location.Line, first.Location.Column, first.Text)
		}
		return "", fmt.Errorf("compile component.tsx: %s", first.Text)
	}

	return string(result.Code), nil
}
