package dashboard

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
)

//go:embed web/*
var content embed.FS

// Handler returns an http.Handler that serves the dashboard web UI from
// the embedded go:embed FS.
//
// It implements SPA fallback: if a requested file doesn't exist, index.html
// is served so deep links land on the dashboard.
// Panics if the embedded web assets cannot be loaded (build error).
func Handler() http.Handler {
	webFS, err := fs.Sub(content, "web")
	if err != nil {
		panic(fmt.Sprintf("dashboard: failed to load embedded web assets: %v", err))
	}
	fileSystem := http.FS(webFS)
	fileServer := http.FileServer(fileSystem)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The snapshot behind the page changes every refresh cycle, so the
		// page itself must not be cached aggressively.
		w.Header().Set("Cache-Control", "no-cache, must-revalidate")

		// Clean the path
		upath := path.Clean(r.URL.Path)
		if upath == "." {
			upath = "/"
		}

		// For root, let FileServer handle it (serves index.html automatically)
		if upath == "/" {
			fileServer.ServeHTTP(w, r)
			return
		}

		// Try to open the requested file
		filePath := upath[1:] // strip leading /
		f, err := fileSystem.Open(filePath)
		if err != nil {
			// File not found — SPA fallback: serve index.html with 200
			r.URL.Path = "/"
			fileServer.ServeHTTP(w, r)
			return
		}
		f.Close()

		// File exists — serve it directly
		fileServer.ServeHTTP(w, r)
	})
}
