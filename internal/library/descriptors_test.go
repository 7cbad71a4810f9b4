package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDescriptors_MissingFile(t *testing.T) {
	if got := LoadDescriptors(t.TempDir()); len(got) != 0 {
		t.Fatalf("expected empty slice for missing file, got %d records", len(got))
	}
}

func TestLoadDescriptors_Malformed(t *testing.T) {
	dir := t.TempDir()
	for _, content := range []string{"not json", `{"id": 1}`, `"just a string"`} {
		if err := os.WriteFile(filepath.Join(dir, DescriptorFile), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if got := LoadDescriptors(dir); len(got) != 0 {
			t.Errorf("content %q: expected empty slice, got %d records", content, len(got))
		}
	}
}

func TestSaveLoadDescriptors_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	records := []Descriptor{
		{ID: 1, Name: "Alien", Description: "In space", Rating: "8.5", Genres: []string{"Horror", "Sci-Fi"}},
		{ID: 2, Name: "Heat", Description: "Crime", Rating: "8.3", Genres: []string{"Crime"}},
	}
	if err := SaveDescriptors(dir, records); err != nil {
		t.Fatal(err)
	}

	got := LoadDescriptors(dir)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Name != "Alien" || got[1].ID != 2 || got[0].Genres[1] != "Sci-Fi" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != DescriptorFile {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestNextID(t *testing.T) {
	if got := NextID(nil); got != 1 {
		t.Errorf("NextID(empty) = %d, want 1", got)
	}
	records := []Descriptor{{ID: 3}, {ID: 7}}
	if got := NextID(records); got != 8 {
		t.Errorf("NextID([3,7]) = %d, want 8", got)
	}
}

func TestAppendUnique(t *testing.T) {
	records := []Descriptor{{ID: 1, Name: "S01E01"}}

	records, added := AppendUnique(records, Descriptor{ID: 2, Name: "S01E02"})
	if !added || len(records) != 2 {
		t.Fatalf("expected append, got added=%v len=%d", added, len(records))
	}

	records, added = AppendUnique(records, Descriptor{ID: 3, Name: "s01e01"})
	if added || len(records) != 2 {
		t.Fatalf("expected case-insensitive rejection, got added=%v len=%d", added, len(records))
	}
}

func TestSortEpisodes(t *testing.T) {
	records := []Descriptor{
		{Name: "S02E01"},
		{Name: "extras"},
		{Name: "S01E02"},
		{Name: "S01E01"},
	}
	SortEpisodes(records)

	want := []string{"S01E01", "S01E02", "S02E01", "extras"}
	for i, w := range want {
		if records[i].Name != w {
			t.Fatalf("position %d: got %q, want %q (full: %+v)", i, records[i].Name, w, records)
		}
	}
}
