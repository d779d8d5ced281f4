package content

import (
	"fmt"
	"html"
	"strings"
)

// Render is a pure transformation of a Document into display markup, one case
// per block type. Unknown variants render a visibly-marked placeholder and
// never abort the rest of the document.
//
// Inline-rich fields (paragraph text, list items, quote text) are emitted
// verbatim because the editor already constrains their markup to its inline
// toolset; everything else is escaped.
func Render(doc Document) string {
	var sb strings.Builder

	for _, b := range doc.Blocks {
		renderBlock(&sb, b)
	}

	return sb.String()
}

// RenderRaw parses a persisted content string and renders it. If the string
// cannot be parsed at all, the result is a single clearly-marked error
// placeholder instead of partial output.
func RenderRaw(raw string) string {
	doc, err := Parse(raw)
	if err != nil {
		return `<div class="content-error"><p>Error rendering content</p><p>The article content could not be displayed properly.</p></div>` + "\n"
	}

	return Render(doc)
}

func renderBlock(sb *strings.Builder, b Block) {
	switch {
	case b.Type == TypeHeader && b.Header != nil:
		level := b.Header.Level
		if level < 1 || level > 6 {
			level = 2
		}
		fmt.Fprintf(sb, "<h%d>%s</h%d>\n", level, html.EscapeString(b.Header.Text), level)

	case b.Type == TypeParagraph && b.Paragraph != nil:
		fmt.Fprintf(sb, "<p>%s</p>\n", b.Paragraph.Text)

	case b.Type == TypeList && b.List != nil:
		tag := "ul"
		if b.List.Style == "ordered" {
			tag = "ol"
		}
		fmt.Fprintf(sb, "<%s>\n", tag)
		for _, item := range b.List.Items {
			fmt.Fprintf(sb, "<li>%s</li>\n", item.Content)
		}
		fmt.Fprintf(sb, "</%s>\n", tag)

	case b.Type == TypeCode && b.Code != nil:
		class := ""
		if len(b.Code.Language) > 0 {
			class = fmt.Sprintf(` class="language-%s"`, html.EscapeString(b.Code.Language))
		}
		fmt.Fprintf(sb, "<pre><code%s>%s</code></pre>\n", class, html.EscapeString(b.Code.Code))

	case b.Type == TypeImage && b.Image != nil:
		url := b.Image.EffectiveURL()
		sb.WriteString("<figure>")
		fmt.Fprintf(sb, `<img src="%s" alt="%s"/>`, html.EscapeString(url), html.EscapeString(b.Image.Caption))
		if len(b.Image.Caption) > 0 {
			fmt.Fprintf(sb, "<figcaption>%s</figcaption>", html.EscapeString(b.Image.Caption))
		}
		sb.WriteString("</figure>\n")

	case b.Type == TypeQuote && b.Quote != nil:
		sb.WriteString("<blockquote>")
		fmt.Fprintf(sb, "<p>%s</p>", b.Quote.Text)
		if len(b.Quote.Caption) > 0 {
			fmt.Fprintf(sb, "<footer>— %s</footer>", html.EscapeString(b.Quote.Caption))
		}
		sb.WriteString("</blockquote>\n")

	case b.Type == TypeDelimiter:
		sb.WriteString("<hr/>\n")

	case b.Type == TypeWarning && b.Warning != nil:
		sb.WriteString(`<div class="content-warning">`)
		fmt.Fprintf(sb, "<h4>%s</h4>", html.EscapeString(b.Warning.Title))
		fmt.Fprintf(sb, "<p>%s</p>", html.EscapeString(b.Warning.Message))
		sb.WriteString("</div>\n")

	case b.Type == TypeTable && b.Table != nil:
		sb.WriteString("<table><tbody>\n")
		for i, row := range b.Table.Content {
			// row 0 gets header cells; presentation only, row and cell order
			// are preserved exactly
			cell := "td"
			if i == 0 {
				cell = "th"
			}
			sb.WriteString("<tr>")
			for _, c := range row {
				fmt.Fprintf(sb, "<%s>%s</%s>", cell, html.EscapeString(c), cell)
			}
			sb.WriteString("</tr>\n")
		}
		sb.WriteString("</tbody></table>\n")

	default:
		// unknown block types and known types with undecodable payloads are
		// surfaced, never silently dropped
		fmt.Fprintf(sb, `<div class="content-unsupported">[Unsupported block type: %s]</div>`+"\n", html.EscapeString(string(b.Type)))
	}
}
