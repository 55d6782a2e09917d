// compression.go - gzip compression for JSON API responses.
//
// Static assets are served verbatim and never compressed here.
package server

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// compressionResponseWriter gzips the body once the status allows one.
type compressionResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	wroteHeader bool
}

func (crw *compressionResponseWriter) WriteHeader(code int) {
	if crw.wroteHeader {
		return
	}
	crw.wroteHeader = true

	if bodyAllowed(code) {
		h := crw.Header()
		h.Set("Content-Encoding", "gzip")
		h.Del("Content-Length") // Length will change with compression
		crw.gz = gzip.NewWriter(crw.ResponseWriter)
	}
	crw.ResponseWriter.WriteHeader(code)
}

func (crw *compressionResponseWriter) Write(b []byte) (int, error) {
	if !crw.wroteHeader {
		crw.WriteHeader(http.StatusOK)
	}
	if crw.gz == nil {
		return crw.ResponseWriter.Write(b)
	}
	return crw.gz.Write(b)
}

func (crw *compressionResponseWriter) close() error {
	if crw.gz == nil {
		return nil
	}
	return crw.gz.Close()
}

// compressionMiddleware gzips responses for clients that accept it.
func compressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipCompression(r) {
			next.ServeHTTP(w, r)
			return
		}

		// Plain and gzip bodies share one ETag, so caches must key on encoding.
		w.Header().Add("Vary", "Accept-Encoding")
		if !acceptsCompression(r) {
			next.ServeHTTP(w, r)
			return
		}

		crw := &compressionResponseWriter{ResponseWriter: w}
		defer func() { _ = crw.close() }()

		next.ServeHTTP(crw, r)
	})
}

// acceptsCompression checks if the client accepts gzip encoding.
func acceptsCompression(r *http.Request) bool {
	acceptEncoding := r.Header.Get("Accept-Encoding")
	return strings.Contains(acceptEncoding, "gzip")
}

// shouldSkipCompression leaves everything outside the JSON API untouched.
func shouldSkipCompression(r *http.Request) bool {
	return !strings.HasPrefix(r.URL.Path, "/api/")
}

func bodyAllowed(code int) bool {
	switch {
	case code >= 100 && code < 200:
		return false
	case code == http.StatusNoContent, code == http.StatusNotModified:
		return false
	}
	return true
}
