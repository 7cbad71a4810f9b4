package library

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Error is a validation failure an HTTP handler can map directly onto a
// response.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func badRequest(code, msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Message: msg}
}

// Upload is one file received from a multipart form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// MovieUpload carries everything needed to add a single item to a flat
// collection.
type MovieUpload struct {
	Name        string
	Description string
	Rating      string
	Genres      []string
	Poster      Upload
	Video       Upload
}

// SeriesResult reports the outcome of a series batch import.
type SeriesResult struct {
	OK              bool   `json:"ok"`
	Series          string `json:"series"`
	Added           int    `json:"added"`
	SkippedExisting int    `json:"skipped_existing"`
	BadFiles        int    `json:"bad_files"`
}

// Invalidator is notified after any successful write so cached catalog
// state can be discarded.
type Invalidator interface {
	Clear()
}

// Ingestor owns all writes to collection folders and descriptor files.
// A per-collection mutex serializes concurrent admin uploads so two
// writers can't interleave read-modify-write cycles on the same
// descriptions.json.
type Ingestor struct {
	root  string
	cache Invalidator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewIngestor(root string, cache Invalidator) *Ingestor {
	return &Ingestor{
		root:  root,
		cache: cache,
		locks: make(map[string]*sync.Mutex),
	}
}

func (ing *Ingestor) collectionLock(collection string) *sync.Mutex {
	ing.mu.Lock()
	defer ing.mu.Unlock()
	l, ok := ing.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		ing.locks[collection] = l
	}
	return l
}

// AddMovie validates and stores a single item in the named collection
// (normally Movies). Extensions are checked before anything is persisted
// so a rejected upload can't leave an orphan descriptor behind.
func (ing *Ingestor) AddMovie(collection string, up MovieUpload) error {
	if collection == "" {
		collection = MoviesCollection
	}
	if !validCollectionName(collection) {
		return badRequest("INVALID_COLLECTION", "invalid collection name")
	}
	if up.Name == "" || up.Description == "" || up.Rating == "" || up.Genres == nil {
		return badRequest("MISSING_FIELDS", "name, description, rating and genres are required")
	}
	if up.Poster.Filename == "" || up.Video.Filename == "" {
		return badRequest("MISSING_FILES", "poster and video files are required")
	}

	posterExt := strings.ToLower(filepath.Ext(up.Poster.Filename))
	videoExt := strings.ToLower(filepath.Ext(up.Video.Filename))
	if !ExtensionAllowed(up.Poster.Filename, PosterExtensions) ||
		!ExtensionAllowed(up.Video.Filename, VideoExtensions) {
		return badRequest("UNSUPPORTED_MEDIA_TYPE", "unsupported file type")
	}

	collectionPath := filepath.Join(ing.root, collection)
	if fi, err := os.Stat(collectionPath); err != nil || !fi.IsDir() {
		return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "collection not found"}
	}

	lock := ing.collectionLock(collection)
	lock.Lock()
	defer lock.Unlock()

	if err := saveUpload(filepath.Join(collectionPath, up.Name+posterExt), up.Poster.Content); err != nil {
		return fmt.Errorf("save poster: %w", err)
	}
	if err := saveUpload(filepath.Join(collectionPath, up.Name+videoExt), up.Video.Content); err != nil {
		return fmt.Errorf("save video: %w", err)
	}

	records := LoadDescriptors(collectionPath)
	records = append(records, Descriptor{
		ID:          NextID(records),
		Name:        up.Name,
		Description: up.Description,
		Rating:      up.Rating,
		Genres:      up.Genres,
	})
	if err := SaveDescriptors(collectionPath, records); err != nil {
		return err
	}

	ing.cache.Clear()
	log.Printf("[ingest] added %q to collection %q", up.Name, collection)
	return nil
}

// AddSeries imports a batch of episode files (and optional season
// posters) into a new or existing series folder. Episodes whose filename
// doesn't parse or whose extension isn't allowed are counted as bad;
// episodes already present (case-insensitive label match) are counted as
// skipped and neither re-saved nor duplicated.
func (ing *Ingestor) AddSeries(mode, seriesName string, posters, episodes []Upload) (*SeriesResult, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != "new" && mode != "existing" {
		return nil, badRequest("INVALID_MODE", "invalid mode (use 'new' or 'existing')")
	}
	if strings.TrimSpace(seriesName) == "" {
		return nil, badRequest("MISSING_SERIES_NAME", "missing seriesName")
	}

	folder := SanitizeCollectionName(seriesName)
	if folder == "" {
		return nil, badRequest("INVALID_SERIES_NAME", "invalid seriesName")
	}

	lock := ing.collectionLock(folder)
	lock.Lock()
	defer lock.Unlock()

	seriesPath := filepath.Join(ing.root, folder)
	fi, err := os.Stat(seriesPath)
	exists := err == nil && fi.IsDir()

	var records []Descriptor
	switch mode {
	case "new":
		if exists {
			return nil, &Error{Status: http.StatusConflict, Code: "CONFLICT", Message: "series already exists"}
		}
		if err := os.MkdirAll(seriesPath, 0o755); err != nil {
			return nil, fmt.Errorf("create series folder: %w", err)
		}
	case "existing":
		if !exists {
			return nil, &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "series not found"}
		}
		records = LoadDescriptors(seriesPath)
	}

	nextID := NextID(records)

	existingNames := make(map[string]bool)
	for _, r := range records {
		if n := strings.ToLower(strings.TrimSpace(r.Name)); n != "" {
			existingNames[n] = true
		}
	}

	// Season posters: saved as S01.jpg etc, one per season, last one wins.
	// Unparseable or disallowed posters are ignored.
	for _, p := range posters {
		if p.Filename == "" || !ExtensionAllowed(p.Filename, PosterExtensions) {
			continue
		}
		season, ok := ParseSeasonPoster(p.Filename)
		if !ok {
			continue
		}
		ext := strings.ToLower(filepath.Ext(p.Filename))
		name := SeasonPosterBase(season) + ext
		if err := saveUpload(filepath.Join(seriesPath, name), p.Content); err != nil {
			return nil, fmt.Errorf("save poster %s: %w", name, err)
		}
	}

	if len(episodes) == 0 {
		return nil, badRequest("NO_EPISODES", "no episode files uploaded")
	}

	result := &SeriesResult{OK: true, Series: folder}

	for _, f := range episodes {
		if f.Filename == "" {
			continue
		}

		season, episode, ok := ParseEpisode(f.Filename)
		if !ok {
			result.BadFiles++
			continue
		}
		if !ExtensionAllowed(f.Filename, VideoExtensions) {
			result.BadFiles++
			continue
		}

		label := EpisodeLabel(season, episode)
		key := strings.ToLower(label)
		if existingNames[key] {
			result.SkippedExisting++
			continue
		}

		ext := strings.ToLower(filepath.Ext(f.Filename))
		if err := saveUpload(filepath.Join(seriesPath, label+ext), f.Content); err != nil {
			return nil, fmt.Errorf("save episode %s: %w", label, err)
		}

		records, _ = AppendUnique(records, Descriptor{
			ID:          nextID,
			Name:        label,
			Description: seriesName,
			Rating:      "0.0",
			Genres:      []string{fmt.Sprintf("Season %d", season)},
		})
		existingNames[key] = true
		nextID++
		result.Added++
	}

	SortEpisodes(records)
	if err := SaveDescriptors(seriesPath, records); err != nil {
		return nil, err
	}

	ing.cache.Clear()
	log.Printf("[ingest] series %q: added=%d skipped=%d bad=%d",
		folder, result.Added, result.SkippedExisting, result.BadFiles)
	return result, nil
}

func saveUpload(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
