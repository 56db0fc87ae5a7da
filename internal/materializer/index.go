package materializer

import "strings"

const IndexFile = "index.html"

// RenderIndex builds the index page: one unquoted <img> per name, in order,
// with no doctype and no trailing newline.
func RenderIndex(names []string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, name := range names {
		b.WriteString("<img src=")
		b.WriteString(name)
		b.WriteString(">")
	}
	b.WriteString("</body></html>")
	return b.String()
}
