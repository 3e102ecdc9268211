package server

import (
	"io/fs"
	"net/http"
	"strings"
)

func spaRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/app/", http.StatusMovedPermanently)
}

// spaHandler serves a built frontend from fsys. Paths that do not name a
// file fall back to index.html so client-side routes resolve.
func spaHandler(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/app/")
		if path == "" {
			path = "index.html"
		}

		if f, err := fsys.Open(path); err != nil {
			path = "index.html"
		} else {
			f.Close()
		}

		http.ServeFileFS(w, r, fsys, path)
	}
}
