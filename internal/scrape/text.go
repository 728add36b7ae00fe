// Package scrape extracts structured records from the semi-structured HTML
// pages published by the meteorological and seismological authorities. The
// pages carry no schema contract, so everything here is best-effort: garbled
// markup produces fewer records, never an error.
package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// Text reduces a fragment of markup to plain text. Entities are decoded,
// <script> and <style> blocks are dropped along with their content, the
// remaining tags are stripped, and runs of whitespace collapse to a single
// space. Empty input yields empty output.
func Text(raw string) string {
	if raw == "" {
		return ""
	}

	tz := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	skip := 0

	for {
		switch tz.Next() {
		case html.ErrorToken:
			// io.EOF or malformed markup; either way we keep what we have.
			return collapse(b.String())
		case html.StartTagToken:
			name, _ := tz.TagName()
			if skippedElement(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			if skippedElement(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(tz.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func skippedElement(name string) bool {
	return name == "script" || name == "style"
}

// collapse squeezes all whitespace runs (including non-breaking spaces left
// by entity decoding) into single spaces and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
