// Package dashboard serves the monitoring dashboard web UI as an embedded asset.
//
// The single-page dashboard is embedded into the Go binary using the go:embed
// directive, eliminating any runtime dependency on external files. The Handler
// function returns an http.Handler that serves these assets with SPA fallback
// routing: if a requested file does not exist, index.html is served.
//
// The page itself is self-contained (no external scripts): it fetches the
// current snapshot from /api/v1/snapshot, renders charts and tables, and
// subscribes to /api/v1/ws for live refresh pushes.
package dashboard
