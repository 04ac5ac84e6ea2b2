package server

import (
	"bytes"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// uiFS holds the embedded game page filesystem. Set via SetUI before
// creating the server.
var uiFS fs.FS

// SetUI sets the embedded filesystem for serving the game page.
func SetUI(fsys fs.FS) {
	uiFS = fsys
}

// uiHandler serves static files from the embedded FS, falling back to
// index.html for unknown paths.
func uiHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uiFS == nil {
			http.Error(w, "UI not embedded", http.StatusNotFound)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		f, err := uiFS.Open(path)
		if err != nil {
			path = "index.html"
		} else {
			f.Close()
		}

		// http.ServeFileFS requires Go 1.22; serve the file contents
		// the same way on Go 1.21.
		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, path, time.Time{}, bytes.NewReader(data))
	}
}
