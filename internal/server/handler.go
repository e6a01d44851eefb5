package server

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const corsHeader = "Access-Control-Allow-Origin"

// handleRequest resolves the request path and emits exactly one
// response, then logs the outcome. The request method is ignored for
// resolution.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var (
		status int
		size   int
		ctype  string
	)

	target, err := resolve(s.fs, s.cfg.Root, r.URL.Path, s.cfg.SPA)
	switch {
	case err != nil:
		s.logger.Warn("Resolution failed", "path", r.URL.Path, "error", err)
		status, size = s.serveServerError(w)
	case target.kind == targetNotFound:
		status, size, ctype = s.serveNotFound(w)
	case target.kind == targetListing:
		status, size, ctype = s.serveListing(w, target)
	default:
		status, size, ctype = s.serveFile(w, target)
	}

	s.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"size", size,
		"elapsed", time.Since(start).Round(time.Microsecond),
		"type", ctype,
	)
}

// serveFile reads the whole file before writing any header, so the
// reload script can be spliced in and the size is known up front.
func (s *Server) serveFile(w http.ResponseWriter, target resolvedTarget) (status, size int, ctype string) {
	body, err := afero.ReadFile(s.fs, target.path)
	if err != nil {
		// The file vanished or became unreadable between resolution
		// and read.
		s.logger.Warn("Read failed", "path", target.path, "error", err)
		status, size = s.serveServerError(w)
		return status, size, ""
	}

	ctype = contentTypeFor(target.path)
	if s.cfg.LiveReload && ctype == typeHTML {
		body = injectReloadScript(body)
	}

	if s.cfg.CORS {
		w.Header().Set(corsHeader, "*")
	}
	w.Header().Set("Content-Type", ctype)
	w.WriteHeader(http.StatusOK)
	// A client gone mid-response is not an error worth surfacing.
	_, _ = w.Write(body)
	return http.StatusOK, len(body), ctype
}

func (s *Server) serveListing(w http.ResponseWriter, target resolvedTarget) (status, size int, ctype string) {
	body := []byte(renderListing(target.dir, target.entries))
	if s.cfg.CORS {
		w.Header().Set(corsHeader, "*")
	}
	w.Header().Set("Content-Type", typeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return http.StatusOK, len(body), typeHTML
}

// serveNotFound answers with root/404.html when the site ships one,
// otherwise a minimal text body.
func (s *Server) serveNotFound(w http.ResponseWriter) (status, size int, ctype string) {
	body := []byte("404 - Page Not Found")
	ctype = typeBinary
	if custom, err := afero.ReadFile(s.fs, filepath.Join(s.cfg.Root, "404.html")); err == nil {
		body = custom
		ctype = typeHTML
		w.Header().Set("Content-Type", typeHTML)
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(body)
	return http.StatusNotFound, len(body), ctype
}

func (s *Server) serveServerError(w http.ResponseWriter) (status, size int) {
	body := []byte("500 - Internal Server Error")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(body)
	return http.StatusInternalServerError, len(body)
}
