// Package labels turns raw identifiers and markup from the API into display
// text. Nothing here is ever parsed back into data.
package labels

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/unicode/norm"
)

const chapterPrefix = "ตอนที่"

var (
	trailingNumber = regexp.MustCompile(`[-_ ]?(\d+(\.\d+)?)$`)
	anyNumber      = regexp.MustCompile(`(\d+(\.\d+)?)`)
	blankLines     = regexp.MustCompile(`\n{3,}`)
)

// Decode percent-decodes raw and normalizes it to NFC. Undecodable input is
// returned normalized but otherwise unchanged.
func Decode(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(decoded) {
		decoded = raw
	}
	return norm.NFC.String(decoded)
}

// ChapterLabel renders a chapter id or title as "ตอนที่ N".
//
// The number is taken from the end of the decoded text when present there
// (optionally preceded by '-', '_' or a space), otherwise from the first
// number anywhere. Text with no number at all is returned decoded.
func ChapterLabel(raw string) string {
	decoded := Decode(raw)
	if m := trailingNumber.FindStringSubmatch(decoded); m != nil {
		return fmt.Sprintf("%s %s", chapterPrefix, m[1])
	}
	if m := anyNumber.FindStringSubmatch(decoded); m != nil {
		return fmt.Sprintf("%s %s", chapterPrefix, m[1])
	}
	return decoded
}

// Truncate shortens s to at most width terminal cells, ending in an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad right-pads s with spaces to width cells, truncating when longer.
func Pad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// PlainText strips markup from a synopsis, keeping paragraph breaks.
func PlainText(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	text := strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}

// Wrap word-wraps s at width cells.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}
