// Package render defines the renderer contract shared by the HTML and
// terminal front ends, plus a name-keyed registry for selecting one at
// runtime.
package render

import (
	"context"

	"github.com/goliatone/go-formschema/pkg/directive"
)

// Renderer turns a resolved form into bytes (an HTML fragment, a JSON
// answer sheet, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form directive.Form, options RenderOptions) ([]byte, error)
}
