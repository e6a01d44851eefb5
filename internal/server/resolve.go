package server

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const indexFile = "index.html"

type targetKind int

const (
	targetNotFound targetKind = iota
	targetFile
	targetDirIndex
	targetListing
	targetSPA
)

// resolvedTarget is the outcome of resolving one request path. Exactly
// one is produced per request and consumed by the response stage.
type resolvedTarget struct {
	kind targetKind

	// File-like targets (file, directory index, SPA fallback).
	path    string // filesystem path
	logical string // request-visible path, e.g. "/docs/index.html"
	size    int64

	// Listing targets.
	dir     string // request path of the directory
	entries []string
}

// securePath joins root and the request path, keeping the result
// confined to root. Paths carrying ".." segments or escaping root are
// rejected as if the target did not exist, before any filesystem
// access and before SPA fallback can apply.
func securePath(root, requestPath string) (string, bool) {
	for _, seg := range strings.Split(filepath.ToSlash(requestPath), "/") {
		if seg == ".." {
			return "", false
		}
	}

	clean := filepath.Clean("/" + filepath.FromSlash(requestPath))
	full := filepath.Join(root, clean)

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// resolve classifies a request path against the served tree. Missing
// targets and traversal attempts come back as targetNotFound; any other
// filesystem failure is returned as an error for the caller to surface
// as a server error.
func resolve(fsys afero.Fs, root, requestPath string, spaEnabled bool) (resolvedTarget, error) {
	full, ok := securePath(root, requestPath)
	if !ok {
		return resolvedTarget{kind: targetNotFound}, nil
	}

	info, err := fsys.Stat(full)
	switch {
	case err == nil && !info.IsDir():
		return resolvedTarget{
			kind:    targetFile,
			path:    full,
			logical: path.Clean("/" + requestPath),
			size:    info.Size(),
		}, nil

	case err == nil:
		idx := filepath.Join(full, indexFile)
		if idxInfo, idxErr := fsys.Stat(idx); idxErr == nil && !idxInfo.IsDir() {
			return resolvedTarget{
				kind:    targetDirIndex,
				path:    idx,
				logical: path.Join("/", requestPath, indexFile),
				size:    idxInfo.Size(),
			}, nil
		}
		names, err := listNames(fsys, full)
		if err != nil {
			return resolvedTarget{}, fmt.Errorf("list %s: %w", full, err)
		}
		return resolvedTarget{
			kind:    targetListing,
			dir:     path.Clean("/" + requestPath),
			entries: names,
		}, nil

	case errors.Is(err, fs.ErrNotExist):
		if spaEnabled {
			idx := filepath.Join(root, indexFile)
			if idxInfo, idxErr := fsys.Stat(idx); idxErr == nil && !idxInfo.IsDir() {
				return resolvedTarget{
					kind:    targetSPA,
					path:    idx,
					logical: "/" + indexFile,
					size:    idxInfo.Size(),
				}, nil
			}
		}
		return resolvedTarget{kind: targetNotFound}, nil

	default:
		return resolvedTarget{}, fmt.Errorf("stat %s: %w", full, err)
	}
}

// listNames returns the directory's immediate entry names in the order
// the listing API yields them (sorted by name on the OS backend).
func listNames(fsys afero.Fs, dir string) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}
