package server

import (
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

// siteFs builds an in-memory tree:
//
//	/site/index.html
//	/site/style.css
//	/site/docs/index.html
//	/site/assets/app.js
//	/site/assets/logo.png
//	/etc/passwd (outside the served root)
func siteFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/site/index.html":      "<body>Hi</body>",
		"/site/style.css":       "body { margin: 0 }",
		"/site/docs/index.html": "<body>Docs</body>",
		"/site/assets/app.js":   "console.log(1)",
		"/site/assets/logo.png": "\x89PNG fake",
		"/etc/passwd":           "root:x:0:0",
	}
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fsys
}

func TestResolve(t *testing.T) {
	fsys := siteFs(t)

	tests := []struct {
		name        string
		requestPath string
		spa         bool
		wantKind    targetKind
		wantPath    string
		wantLogical string
	}{
		{
			name:        "regular file",
			requestPath: "/style.css",
			wantKind:    targetFile,
			wantPath:    "/site/style.css",
			wantLogical: "/style.css",
		},
		{
			name:        "nested file",
			requestPath: "/assets/app.js",
			wantKind:    targetFile,
			wantPath:    "/site/assets/app.js",
			wantLogical: "/assets/app.js",
		},
		{
			name:        "root with index",
			requestPath: "/",
			wantKind:    targetDirIndex,
			wantPath:    "/site/index.html",
			wantLogical: "/index.html",
		},
		{
			name:        "directory with index",
			requestPath: "/docs",
			wantKind:    targetDirIndex,
			wantPath:    "/site/docs/index.html",
			wantLogical: "/docs/index.html",
		},
		{
			name:        "directory without index",
			requestPath: "/assets",
			wantKind:    targetListing,
		},
		{
			name:        "missing without spa",
			requestPath: "/missing",
			wantKind:    targetNotFound,
		},
		{
			name:        "missing with spa",
			requestPath: "/app/route/42",
			spa:         true,
			wantKind:    targetSPA,
			wantPath:    "/site/index.html",
			wantLogical: "/index.html",
		},
		{
			name:        "traversal",
			requestPath: "/../../etc/passwd",
			wantKind:    targetNotFound,
		},
		{
			name:        "traversal with spa stays rejected",
			requestPath: "/../../etc/passwd",
			spa:         true,
			wantKind:    targetNotFound,
		},
		{
			name:        "embedded dotdot segment",
			requestPath: "/docs/../../../etc/passwd",
			wantKind:    targetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(fsys, "/site", tt.requestPath, tt.spa)
			if err != nil {
				t.Fatalf("resolve(%q) error: %v", tt.requestPath, err)
			}
			if got.kind != tt.wantKind {
				t.Fatalf("kind = %d, want %d", got.kind, tt.wantKind)
			}
			if tt.wantPath != "" && got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
			if tt.wantLogical != "" && got.logical != tt.wantLogical {
				t.Errorf("logical = %q, want %q", got.logical, tt.wantLogical)
			}
		})
	}
}

func TestResolveListingEntries(t *testing.T) {
	fsys := siteFs(t)

	got, err := resolve(fsys, "/site", "/assets", false)
	if err != nil {
		t.Fatalf("resolve(/assets) error: %v", err)
	}
	if got.kind != targetListing {
		t.Fatalf("kind = %d, want %d", got.kind, targetListing)
	}
	if got.dir != "/assets" {
		t.Errorf("dir = %q, want %q", got.dir, "/assets")
	}
	// afero.ReadDir sorts entries by name.
	want := []string{"app.js", "logo.png"}
	if !reflect.DeepEqual(got.entries, want) {
		t.Errorf("entries = %v, want %v", got.entries, want)
	}
}

func TestResolveSPAWithoutRootIndex(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/site/style.css", []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := resolve(fsys, "/site", "/missing", true)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if got.kind != targetNotFound {
		t.Errorf("kind = %d, want %d (no root index.html to fall back to)", got.kind, targetNotFound)
	}
}

func TestSecurePath(t *testing.T) {
	tests := []struct {
		name        string
		requestPath string
		want        string
		wantOK      bool
	}{
		{"root", "/", "/site", true},
		{"plain", "/a/b.css", "/site/a/b.css", true},
		{"dot segments collapse", "/a/./b", "/site/a/b", true},
		{"dotdot rejected", "/../x", "", false},
		{"inner dotdot rejected", "/a/../../x", "", false},
		{"bare dotdot", "..", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := securePath("/site", tt.requestPath)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}
