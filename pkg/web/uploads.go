// Package web serves locally stored upload files.
package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Uploads returns a handler serving single files from dir under urlPrefix.
// Only flat file names are served: nested paths, dot files and directories
// answer 404, so the uploads directory is never listed.
func Uploads(dir, urlPrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, urlPrefix)
		name = strings.TrimPrefix(name, "/")

		if name == "" || strings.Contains(name, "/") || strings.HasPrefix(name, ".") || name != path.Base(name) {
			http.NotFound(w, r)
			return
		}

		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		f, err := os.Open(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		w.Header().Set("Cache-Control", "public, max-age=86400")
		http.ServeContent(w, r, name, info.ModTime(), f)
	}
}
