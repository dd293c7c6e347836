package analysis

import (
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTML renders one of the Markdown summaries as a standalone HTML page.
// Cell text is data, so raw HTML in it is shown escaped and links are
// limited to safe schemes.
func HTML(title, md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Title:          title,
		Flags:          html.CommonFlags | html.CompletePage | html.Safelink,
		RenderNodeHook: escapeRawHTML,
	})
	return string(markdown.ToHTML([]byte(md), p, r))
}

func escapeRawHTML(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	switch n := node.(type) {
	case *ast.HTMLSpan:
		html.EscapeHTML(w, n.Literal)
		return ast.GoToNext, true
	case *ast.HTMLBlock:
		if entering {
			html.EscapeHTML(w, n.Literal)
		}
		return ast.GoToNext, true
	}
	return ast.GoToNext, false
}
