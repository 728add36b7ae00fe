package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// TableRows parses an HTML document and returns every table row as the
// ordered list of its cell texts, in document order. Cells are the row's
// <td> and <th> elements; their text is normalized like Text. Rows without
// any cells are omitted. Malformed or partial markup never produces an
// error, just fewer rows; a document with no rows yields nil.
func TableRows(doc string) [][]string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		// html.Parse only fails on reader errors, which strings.Reader
		// cannot produce, but stay fail-soft regardless.
		return nil
	}

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if cells := rowCells(n); len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return rows
}

// rowCells collects the normalized text of each cell directly belonging to
// tr. Cells of a table nested inside a cell are left to their own <tr> walk.
func rowCells(tr *html.Node) []string {
	var cells []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "td", "th":
				cells = append(cells, nodeText(n))
				return
			case "table":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return cells
}

// nodeText flattens the text content under n, skipping script/style blocks
// and nested tables, and collapses whitespace.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case n.Type == html.ElementNode && (skippedElement(n.Data) || n.Data == "table"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return collapse(b.String())
}
