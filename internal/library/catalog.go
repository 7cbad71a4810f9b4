package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reactflix/reactflix-server/internal/cache"
)

// Entry is a descriptor joined with its discovered media files, eligible
// to be served. Paths are relative to the library root.
type Entry struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rating      string   `json:"rating"`
	Genres      []string `json:"genres"`
	VideoPath   string   `json:"video_path"`
	PosterPath  string   `json:"poster_path"`
}

// Directories under the library root that are never collections.
var ignoredDirs = map[string]bool{
	"static":       true,
	"public":       true,
	"node_modules": true,
	"src":          true,
	"packages":     true,
}

// Resolver answers catalog queries by joining descriptor records with
// on-disk file presence. It only reads; ingestion owns all writes.
type Resolver struct {
	root  string
	cache *cache.Cache
}

func NewResolver(root string, c *cache.Cache) *Resolver {
	return &Resolver{root: root, cache: c}
}

// Collections lists collection folders under the root, alphabetically,
// with the Movies collection moved to the front.
func (r *Resolver) Collections() []string {
	if v, ok := r.cache.Get("collections"); ok {
		return v.([]string)
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return []string{}
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || ignoredDirs[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if name == MoviesCollection {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	names = append([]string{MoviesCollection}, names...)

	r.cache.Set("collections", names)
	return names
}

// Genres aggregates the genres field across a collection's descriptors.
func (r *Resolver) Genres(collection string) []string {
	if !validCollectionName(collection) {
		return []string{}
	}
	key := "genres|" + collection
	if v, ok := r.cache.Get(key); ok {
		return v.([]string)
	}

	seen := make(map[string]bool)
	for _, d := range LoadDescriptors(filepath.Join(r.root, collection)) {
		for _, g := range d.Genres {
			seen[g] = true
		}
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	r.cache.Set(key, genres)
	return genres
}

// Resolve produces the servable catalog for a collection. Records lacking
// either a video or a poster on disk are silently dropped. An optional
// genre filter keeps only entries whose genre list contains it exactly.
func (r *Resolver) Resolve(collection, genreFilter string) []Entry {
	if !validCollectionName(collection) {
		return []Entry{}
	}
	key := "catalog|" + collection + "|" + genreFilter
	if v, ok := r.cache.Get(key); ok {
		return v.([]Entry)
	}

	collectionPath := filepath.Join(r.root, collection)
	movies := []Entry{}

	for _, d := range LoadDescriptors(collectionPath) {
		video, ok := FindMediaFile(collectionPath, collection, d.Name, VideoExtensions)
		if !ok {
			continue
		}

		var poster string
		if collection == MoviesCollection {
			poster, ok = FindMediaFile(collectionPath, collection, d.Name, PosterExtensions)
		} else {
			// Series use one poster per season, named S01.jpg etc.
			season, _, parsed := ParseEpisode(d.Name)
			if !parsed {
				continue
			}
			poster, ok = FindMediaFile(collectionPath, collection, SeasonPosterBase(season), PosterExtensions)
		}
		if !ok {
			continue
		}

		if genreFilter != "" && !containsGenre(d.Genres, genreFilter) {
			continue
		}

		movies = append(movies, Entry{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Rating:      d.Rating,
			Genres:      d.Genres,
			VideoPath:   video,
			PosterPath:  poster,
		})
	}

	r.cache.Set(key, movies)
	return movies
}

func containsGenre(genres []string, want string) bool {
	for _, g := range genres {
		if g == want {
			return true
		}
	}
	return false
}

// validCollectionName guards query parameters before they touch the
// filesystem. A legitimate collection folder survives sanitization
// unchanged; anything else is treated as nonexistent.
func validCollectionName(name string) bool {
	return name != "" && SanitizeCollectionName(name) == name
}
