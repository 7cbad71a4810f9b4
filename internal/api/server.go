package api

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/reactflix/reactflix-server/internal/auth"
	"github.com/reactflix/reactflix-server/internal/cache"
	"github.com/reactflix/reactflix-server/internal/config"
	"github.com/reactflix/reactflix-server/internal/library"
	"github.com/reactflix/reactflix-server/internal/version"
	"github.com/reactflix/reactflix-server/internal/watcher"
)

// Server wires the catalog resolver, ingestion workflows, admin auth and
// static media serving into one HTTP handler.
type Server struct {
	config   *config.Config
	version  version.Info
	cache    *cache.Cache
	resolver *library.Resolver
	ingestor *library.Ingestor
	tokens   *auth.TokenService
	wsHub    *WSHub
	watcher  *watcher.Watcher
	router   chi.Router
}

func NewServer(cfg *config.Config, ver version.Info) (*Server, error) {
	c := cache.New(cfg.CacheTTL, cfg.CacheSize)
	tokens := auth.NewTokenService(cfg.AdminSecret, cfg.TokenTTL)

	s := &Server{
		config:   cfg,
		version:  ver,
		cache:    c,
		resolver: library.NewResolver(cfg.LibraryRoot, c),
		ingestor: library.NewIngestor(cfg.LibraryRoot, c),
		tokens:   tokens,
		wsHub:    NewWSHub(),
	}

	fw, err := watcher.New(cfg.LibraryRoot, s.onLibraryChange)
	if err != nil {
		return nil, err
	}
	s.watcher = fw

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(corsMiddleware(cfg.CORSOrigin))

	r.Get("/health", s.handleHealth)
	r.Get("/series", s.handleCollections)
	r.Get("/movies", s.handleCatalog)
	r.Get("/series_data", s.handleCollectionData)
	r.Get("/api/genres", s.handleGenres)
	r.Get("/api/updates.txt", s.handleUpdates)
	r.Get("/ws", s.handleWebSocket)

	r.Mount("/api/admin", auth.NewHandler(tokens, cfg.AdminPassword).Router())

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAdmin)
		r.Post("/add_movie", s.handleAddMovie)
		r.Post("/add_series", s.handleAddSeries)
	})

	r.Get("/", s.handleIndex)
	r.NotFound(s.handleMedia)

	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start launches the filesystem watcher.
func (s *Server) Start() {
	s.watcher.Start()
}

// Stop shuts down background work.
func (s *Server) Stop() {
	s.watcher.Stop()
}

// onLibraryChange handles debounced filesystem events: something changed
// under the library root outside (or inside) the API, so cached catalog
// state is stale and connected frontends should refresh.
func (s *Server) onLibraryChange(path string) {
	log.Printf("[api] library change detected: %s", filepath.Base(path))
	s.cache.Clear()
	s.wsHub.Broadcast("library:updated", map[string]string{"path": filepath.Base(path)})
}
