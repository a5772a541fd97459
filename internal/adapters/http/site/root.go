// Package site serves the landing page of the simulator.
package site

import (
	"context"
	"net/http"
)

// Register attaches the landing page to mux. Only the exact root path is
// served; everything else under / is a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewRootHandler())
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// ServeHTTP handles GET / requests.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>MLB roster simulator</title>
  </head>
  <body>
    <h1>MLB roster simulator</h1>
    <ul>
      <li><code>POST /api/ranking</code> rank the season by a hitting and a pitching metric</li>
      <li><code>POST /api/simulation/ranking</code> rank after hypothetical trades</li>
      <li><code>GET /api/cache/status</code> roster cache state</li>
      <li><code>POST /api/matchup</code> head-to-head win probability</li>
      <li><code>POST /api/projection</code> regular season projection</li>
    </ul>
    <p><a href="/api-docs">API reference</a> · <a href="/stats">stats</a> · <a href="/healthz">metrics</a></p>
  </body>
</html>`
