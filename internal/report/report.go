// Package report renders duplicate and missing-song reports as plain text,
// Markdown or a standalone HTML page.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"song-deduper/internal/dedup"
	"song-deduper/internal/library"
)

// Document is everything a duplicate report shows.
type Document struct {
	Root    string
	Entries int
	Hash    []dedup.Report[string]
	Tags    []dedup.Report[dedup.TagKey]
}

// Build clusters store both ways and scores every group.
func Build(root string, store *library.RecordStore, cmp dedup.Comparator) Document {
	return Document{
		Root:    root,
		Entries: store.Len(),
		Hash:    dedup.Reports(store, dedup.ByContentHash(store), cmp),
		Tags:    dedup.Reports(store, dedup.ByTag(store), cmp),
	}
}

// Rel shows path relative to root when it lies under it.
func Rel(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func formatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%.3f", s)
	}
	return strings.Join(parts, " ")
}

// Text writes the report for a terminal.
func Text(w io.Writer, doc Document) error {
	ew := &errWriter{w: w}

	ew.printf("Scanned %d files under %s\n\n", doc.Entries, doc.Root)

	ew.printf("Identical files (same content hash): %d groups\n", len(doc.Hash))
	for _, g := range doc.Hash {
		ew.printf("\n%s\n", g.Key)
		writeTextRows(ew, doc.Root, g.Rows)
	}

	ew.printf("\nSame artist and title: %d groups\n", len(doc.Tags))
	for _, g := range doc.Tags {
		ew.printf("\n%s\n", g.Key)
		writeTextRows(ew, doc.Root, g.Rows)
	}
	return ew.err
}

func writeTextRows(ew *errWriter, root string, rows []dedup.SimilarityRow) {
	for i, row := range rows {
		if i == 0 {
			ew.printf("  [%d] %s\n", i+1, Rel(root, row.Path))
			continue
		}
		ew.printf("  [%d] %s\n      similarity to [1..%d]: %s\n", i+1, Rel(root, row.Path), i, formatScores(row.Scores))
	}
}

// Markdown writes the report as GitHub-flavored Markdown. Each group gets a
// table whose row i lists the similarity of member i to members 1..i-1.
func Markdown(w io.Writer, doc Document) error {
	ew := &errWriter{w: w}

	ew.printf("# Duplicate report\n\n")
	ew.printf("Scanned **%d** files under `%s`.\n\n", doc.Entries, doc.Root)

	ew.printf("## Identical files\n\n")
	if len(doc.Hash) == 0 {
		ew.printf("No files share a content hash.\n\n")
	}
	for _, g := range doc.Hash {
		ew.printf("### `%s`\n\n", g.Key)
		writeMarkdownTable(ew, doc.Root, g.Rows)
	}

	ew.printf("## Same artist and title\n\n")
	if len(doc.Tags) == 0 {
		ew.printf("No files share an artist and title.\n\n")
	}
	for _, g := range doc.Tags {
		ew.printf("### %s\n\n", escape(g.Key.String()))
		writeMarkdownTable(ew, doc.Root, g.Rows)
	}
	return ew.err
}

func writeMarkdownTable(ew *errWriter, root string, rows []dedup.SimilarityRow) {
	n := len(rows)
	ew.printf("| # | File |")
	for j := 1; j < n; j++ {
		ew.printf(" vs %d |", j)
	}
	ew.printf("\n|---|---|")
	for j := 1; j < n; j++ {
		ew.printf("---|")
	}
	ew.printf("\n")

	for i, row := range rows {
		ew.printf("| %d | %s |", i+1, codeCell(Rel(root, row.Path)))
		for j := 1; j < n; j++ {
			if j <= len(row.Scores) {
				ew.printf(" %.3f |", row.Scores[j-1])
			} else {
				ew.printf("  |")
			}
		}
		ew.printf("\n")
	}
	ew.printf("\n")
}

// MissingText lists tag keys present in the reference store but not locally.
func MissingText(w io.Writer, reference string, missing []dedup.TagKey) error {
	ew := &errWriter{w: w}
	ew.printf("%d songs in %s are missing here\n", len(missing), reference)
	for _, k := range missing {
		ew.printf("  %s\n", k)
	}
	return ew.err
}

// MissingMarkdown is MissingText as a Markdown list.
func MissingMarkdown(w io.Writer, reference string, missing []dedup.TagKey) error {
	ew := &errWriter{w: w}
	ew.printf("# Missing songs\n\n%d songs in `%s` are missing here.\n\n", len(missing), reference)
	for _, k := range missing {
		ew.printf("- %s\n", escape(k.String()))
	}
	return ew.err
}

// codeCell renders s as a code span that is safe inside a GFM table cell.
// A pipe would end the cell, so it is escaped; a backtick in s needs a
// longer fence.
func codeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`,
	"#", `\#`, "|", `\|`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
