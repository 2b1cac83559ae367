// Package printer renders legacy report documents to PDF.
//
// Reports are flattened to Markdown (headings, paragraphs and tables) and
// typeset with mdtopdf. Scripts and charts are dropped.
package printer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mandolyte/mdtopdf"
	"golang.org/x/net/html"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// PDF prints documents on A4 portrait pages.
type PDF struct {
	Orientation string
	PageSize    string
	Theme       mdtopdf.Theme
}

// New returns a printer with the default page setup.
func New() *PDF {
	return &PDF{Orientation: "P", PageSize: "A4", Theme: mdtopdf.LIGHT}
}

// PrintHTML writes document to path as PDF.
func (p *PDF) PrintHTML(document, path string) error {
	if path == "" {
		return errors.New("no output path")
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	md, err := Markdown(document)
	if err != nil {
		return err
	}

	renderer := mdtopdf.NewPdfRenderer(p.Orientation, p.PageSize, path, "", nil, p.Theme)
	if err := renderer.Process([]byte(md)); err != nil {
		return fmt.Errorf("renderer.Process() > %w", err)
	}
	return nil
}

// Markdown flattens an HTML report to Markdown.
func Markdown(document string) (string, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	w := &mdWriter{}
	w.walk(doc)
	return strings.TrimSpace(w.b.String()) + "\n", nil
}

type mdWriter struct {
	b strings.Builder
}

func (w *mdWriter) block(s string) {
	if s == "" {
		return
	}
	w.b.WriteString(s)
	w.b.WriteString("\n\n")
}

func (w *mdWriter) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "head", "script", "style", "link", "button", "select":
			return
		case "h1":
			w.block("# " + textOf(n))
			return
		case "h2":
			w.block("## " + textOf(n))
			return
		case "h3", "h4":
			w.block("### " + textOf(n))
			return
		case "p", "caption":
			w.block(textOf(n))
			return
		case "table":
			w.table(n)
			return
		case "div":
			if hasClass(n, "chart") {
				return
			}
		}
	}
	if n.Type == html.TextNode && n.Parent != nil && n.Parent.Data == "body" {
		w.block(cleanText(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *mdWriter) table(n *html.Node) {
	var rows [][]string
	collectRows(n, &rows)
	if len(rows) == 0 {
		return
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", `\|`)
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")
	for _, r := range rows[1:] {
		writeRow(r)
	}
	w.block(strings.TrimRight(b.String(), "\n"))
}

func collectRows(n *html.Node, rows *[][]string) {
	if n.Type == html.ElementNode && n.Data == "tr" {
		var cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cells = append(cells, textOf(c))
			}
		}
		if len(cells) > 0 {
			*rows = append(*rows, cells)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRows(c, rows)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, f := range strings.Fields(a.Val) {
				if f == class {
					return true
				}
			}
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return cleanText(b.String())
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
