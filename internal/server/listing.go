package server

import (
	"html"
	"net/url"
	"path"
	"strings"
)

// renderListing builds the HTML listing for a directory without an
// index file. Entries appear in the order they were enumerated, each as
// a link to dir/entry.
func renderListing(dir string, entries []string) string {
	title := html.EscapeString(dir)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Index of ")
	b.WriteString(title)
	b.WriteString("</title></head>\n<body>\n<h1>Index of ")
	b.WriteString(title)
	b.WriteString("</h1>\n<ul>\n")
	for _, name := range entries {
		href := (&url.URL{Path: path.Join(dir, name)}).EscapedPath()
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(href))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(name))
		b.WriteString("</a></li>\n")
	}
	b.WriteString("</ul>\n</body>\n</html>\n")
	return b.String()
}
