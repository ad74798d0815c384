package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the Mini App shell: real files from the static dir when
// they exist, index.html for every other path.
type SPAHandler struct {
	staticDir string
}

func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{staticDir: staticDir}
}

func (h *SPAHandler) Serve(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.staticDir, "index.html")

	rel := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	if rel != "" && rel != "." {
		candidate := filepath.Join(h.staticDir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			http.ServeFile(w, r, candidate)
			return
		}
	}

	http.ServeFile(w, r, index)
}
