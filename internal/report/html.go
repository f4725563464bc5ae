package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// pageData holds template data for a rendered report page.
type pageData struct {
	Title   string
	Root    string
	Content template.HTML
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 1100px;
      line-height: 1.6;
    }
    code { font-size: 0.9em; }
    table { border-collapse: collapse; margin-bottom: 1.5rem; }
    th, td { border: 1px solid #ccc; padding: 0.25rem 0.6rem; text-align: left; }
    td:nth-child(n+3) { font-variant-numeric: tabular-nums; }
    .meta { color: #666; }
  </style>
</head>
<body>
  <p class="meta">Library: {{.Root}}</p>
  <article>{{.Content}}</article>
</body>
</html>`))

// Renderer turns report Markdown into an HTML page.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a renderer with table support. Raw HTML in the input
// is escaped, since tag text comes from untrusted files.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Page converts markdown to HTML and wraps it in a standalone page.
func (r *Renderer) Page(w io.Writer, title, root string, markdown []byte) error {
	var buf bytes.Buffer
	if err := r.md.Convert(markdown, &buf); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	return pageTemplate.Execute(w, pageData{
		Title:   title,
		Root:    root,
		Content: template.HTML(buf.String()),
	})
}

// HTML writes doc as a standalone HTML page.
func (r *Renderer) HTML(w io.Writer, doc Document) error {
	var md bytes.Buffer
	if err := Markdown(&md, doc); err != nil {
		return err
	}
	return r.Page(w, "Duplicate report", doc.Root, md.Bytes())
}
