package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// StaticHandler serves the single page app with an index.html fallback
type StaticHandler struct {
	dir string
}

// NewStaticHandler creates a handler serving files from dir
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Serve returns the requested file or index.html for client side routes
func (h *StaticHandler) Serve(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		response.NotFound(c, "Route not found")
		return
	}
	if h.dir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		response.NotFound(c, "Route not found")
		return
	}

	// path.Clean on a rooted path cannot escape dir
	name := path.Clean("/" + c.Request.URL.Path)
	if name != "/" {
		full := filepath.Join(h.dir, filepath.FromSlash(name))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}
	}

	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		response.NotFound(c, "index.html not found")
		return
	}
	c.File(index)
}
