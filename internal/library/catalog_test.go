package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reactflix/reactflix-server/internal/cache"
)

func newTestResolver(t *testing.T) (*Resolver, string, *cache.Cache) {
	t.Helper()
	root := t.TempDir()
	c := cache.New(time.Minute, 100)
	return NewResolver(root, c), root, c
}

func writeCollection(t *testing.T, root, name string, records []Descriptor, files ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if records != nil {
		if err := SaveDescriptors(dir, records); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollections_MoviesFirst(t *testing.T) {
	r, root, _ := newTestResolver(t)
	for _, name := range []string{"Zeta", "Alpha", MoviesCollection, "static", "node_modules", ".git"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	got := r.Collections()
	want := []string{MoviesCollection, "Alpha", "Zeta"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestGenres_AggregatedAndSorted(t *testing.T) {
	r, root, _ := newTestResolver(t)
	writeCollection(t, root, MoviesCollection, []Descriptor{
		{ID: 1, Name: "A", Genres: []string{"Horror", "Drama"}},
		{ID: 2, Name: "B", Genres: []string{"Action", "Horror"}},
	})

	got := r.Genres(MoviesCollection)
	want := []string{"Action", "Drama", "Horror"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestResolve_DropsRecordsMissingFiles(t *testing.T) {
	r, root, _ := newTestResolver(t)
	writeCollection(t, root, MoviesCollection, []Descriptor{
		{ID: 1, Name: "Complete", Genres: []string{"Drama"}},
		{ID: 2, Name: "NoVideo", Genres: []string{"Drama"}},
		{ID: 3, Name: "NoPoster", Genres: []string{"Drama"}},
	},
		"Complete.mp4", "Complete.jpg",
		"NoVideo.jpg",
		"NoPoster.mp4",
	)

	got := r.Resolve(MoviesCollection, "")
	if len(got) != 1 || got[0].Name != "Complete" {
		t.Fatalf("got %+v, want only Complete", got)
	}
	if got[0].VideoPath != filepath.Join(MoviesCollection, "Complete.mp4") {
		t.Fatalf("video path = %q", got[0].VideoPath)
	}
	if got[0].PosterPath != filepath.Join(MoviesCollection, "Complete.jpg") {
		t.Fatalf("poster path = %q", got[0].PosterPath)
	}
}

func TestResolve_SeriesUsesSeasonPoster(t *testing.T) {
	r, root, _ := newTestResolver(t)
	writeCollection(t, root, "Foo", []Descriptor{
		{ID: 1, Name: "S01E01", Genres: []string{"Season 1"}},
		{ID: 2, Name: "S02E01", Genres: []string{"Season 2"}},
	},
		"S01E01.mp4", "S01.jpg",
		"S02E01.mkv", // no S02 poster: dropped
	)

	got := r.Resolve("Foo", "")
	if len(got) != 1 || got[0].Name != "S01E01" {
		t.Fatalf("got %+v, want only S01E01", got)
	}
	if got[0].PosterPath != filepath.Join("Foo", "S01.jpg") {
		t.Fatalf("poster path = %q", got[0].PosterPath)
	}
}

func TestResolve_GenreFilterExactMatch(t *testing.T) {
	r, root, _ := newTestResolver(t)
	writeCollection(t, root, MoviesCollection, []Descriptor{
		{ID: 1, Name: "A", Genres: []string{"Horror"}},
		{ID: 2, Name: "B", Genres: []string{"horror"}}, // case differs: excluded
		{ID: 3, Name: "C", Genres: []string{"Drama"}},
	},
		"A.mp4", "A.jpg", "B.mp4", "B.jpg", "C.mp4", "C.jpg",
	)

	got := r.Resolve(MoviesCollection, "Horror")
	if len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("got %+v, want only A", got)
	}
}

func TestResolve_CachedUntilCleared(t *testing.T) {
	r, root, c := newTestResolver(t)
	writeCollection(t, root, MoviesCollection, []Descriptor{
		{ID: 1, Name: "A", Genres: []string{"Drama"}},
	}, "A.mp4", "A.jpg")

	if got := r.Resolve(MoviesCollection, ""); len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}

	// Removing the video is not visible through the cache...
	if err := os.Remove(filepath.Join(root, MoviesCollection, "A.mp4")); err != nil {
		t.Fatal(err)
	}
	if got := r.Resolve(MoviesCollection, ""); len(got) != 1 {
		t.Fatalf("expected cached result, got %d entries", len(got))
	}

	// ...until the cache is cleared, as ingestion does.
	c.Clear()
	if got := r.Resolve(MoviesCollection, ""); len(got) != 0 {
		t.Fatalf("expected empty after clear, got %d entries", len(got))
	}
}

func TestResolve_RejectsUnsafeCollectionNames(t *testing.T) {
	r, _, _ := newTestResolver(t)
	for _, name := range []string{"..", "../Movies", "a/b", ""} {
		if got := r.Resolve(name, ""); len(got) != 0 {
			t.Errorf("Resolve(%q) returned %d entries, want 0", name, len(got))
		}
		if got := r.Genres(name); len(got) != 0 {
			t.Errorf("Genres(%q) returned %d entries, want 0", name, len(got))
		}
	}
}
