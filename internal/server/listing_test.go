package server

import (
	"strings"
	"testing"
)

func TestRenderListing(t *testing.T) {
	html := renderListing("/assets", []string{"app.js", "logo.png"})

	if !strings.Contains(html, "Index of /assets") {
		t.Errorf("missing title in %q", html)
	}
	wantLinks := []string{
		`<a href="/assets/app.js">app.js</a>`,
		`<a href="/assets/logo.png">logo.png</a>`,
	}
	for _, link := range wantLinks {
		if !strings.Contains(html, link) {
			t.Errorf("missing %q in %q", link, html)
		}
	}
	// Enumeration order is preserved.
	if strings.Index(html, "app.js") > strings.Index(html, "logo.png") {
		t.Error("entries reordered")
	}
}

func TestRenderListingEscapes(t *testing.T) {
	html := renderListing("/dir", []string{"a b.txt", "<script>.js"})

	if !strings.Contains(html, `href="/dir/a%20b.txt"`) {
		t.Errorf("space not path-escaped in %q", html)
	}
	if strings.Contains(html, "<script>.js") {
		t.Errorf("entry name not HTML-escaped in %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;.js") {
		t.Errorf("escaped entry name missing in %q", html)
	}
}

func TestRenderListingEmpty(t *testing.T) {
	html := renderListing("/empty", nil)
	if !strings.Contains(html, "<ul>") || !strings.Contains(html, "</ul>") {
		t.Errorf("empty listing should still render a list: %q", html)
	}
}
