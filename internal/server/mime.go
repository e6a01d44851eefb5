package server

import (
	"path/filepath"
	"strings"
)

const (
	typeHTML   = "text/html"
	typeCSS    = "text/css"
	typeJS     = "text/javascript"
	typeBinary = "application/octet-stream"
)

var contentTypes = map[string]string{
	".html": typeHTML,
	".css":  typeCSS,
	".js":   typeJS,
}

// contentTypeFor maps a file extension (case-insensitive) to a content
// type. Anything unrecognized is served as opaque binary.
func contentTypeFor(name string) string {
	if t, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return typeBinary
}
