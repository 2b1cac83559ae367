package surface

import (
	"fmt"
	"html"
	"strings"
)

// Document wraps markup in the legacy document shell, stylesheets first.
func Document(src Source) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	for _, href := range src.Styles {
		fmt.Fprintf(&b, "<link href=\"%s\" rel=\"stylesheet\" />\n", html.EscapeString(href))
	}
	for _, s := range src.Scripts {
		fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", html.EscapeString(s))
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(src.Markup)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
