package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/reactflix/reactflix-server/internal/httputil"
	"github.com/reactflix/reactflix-server/internal/library"
)

func collectionParam(r *http.Request) string {
	if v := r.URL.Query().Get("series"); v != "" {
		return v
	}
	return library.MoviesCollection
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.version.Version,
		"clients": s.wsHub.ClientCount(),
	})
}

// GET /series — collection names, Movies first.
func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.resolver.Collections())
}

// GET /api/genres?series=<name>
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{
		"genres": s.resolver.Genres(collectionParam(r)),
	})
}

// GET /movies?series=<name>&genre=<g>
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK,
		s.resolver.Resolve(collectionParam(r), r.URL.Query().Get("genre")))
}

// GET /series_data?series=<name> — catalog plus genres in one round trip.
func (s *Server) handleCollectionData(w http.ResponseWriter, r *http.Request) {
	collection := collectionParam(r)
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"movies": s.resolver.Resolve(collection, ""),
		"genres": s.resolver.Genres(collection),
	})
}

// GET /api/updates.txt — static changelog.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.config.PublicDir, "updates.txt"))
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.config.StaticDir, "index.html"))
}

// handleMedia is the fallthrough for everything unrouted: it serves
// video and poster files straight from the library root.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, "/")
	clean := filepath.Clean(rel)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
		return
	}

	http.ServeFile(w, r, filepath.Join(s.config.LibraryRoot, clean))
}
