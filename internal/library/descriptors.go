package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Descriptor is one catalog item's metadata record as stored in a
// collection's descriptions.json. For series collections Name is the
// canonical episode label (S01E02).
type Descriptor struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rating      string   `json:"rating"`
	Genres      []string `json:"genres"`
}

// LoadDescriptors reads a collection's descriptor file. A missing file or
// anything that is not a top-level JSON array yields an empty slice —
// malformed data is treated as "no data", not an error.
func LoadDescriptors(collectionPath string) []Descriptor {
	data, err := os.ReadFile(filepath.Join(collectionPath, DescriptorFile))
	if err != nil {
		return nil
	}
	var records []Descriptor
	if err := json.Unmarshal(data, &records); err != nil {
		return nil
	}
	return records
}

// SaveDescriptors replaces a collection's descriptor file. The write goes
// through a temp file in the same directory followed by a rename, so a
// crash mid-write never leaves a truncated descriptor file behind.
func SaveDescriptors(collectionPath string, records []Descriptor) error {
	if records == nil {
		records = []Descriptor{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode descriptors: %w", err)
	}

	tmp, err := os.CreateTemp(collectionPath, ".descriptions-*.json")
	if err != nil {
		return fmt.Errorf("create temp descriptor file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write descriptors: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close descriptor file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(collectionPath, DescriptorFile)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace descriptor file: %w", err)
	}
	return nil
}

// NextID returns max(existing ids)+1, or 1 for an empty set. IDs are only
// unique within one collection.
func NextID(records []Descriptor) int {
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// AppendUnique appends the candidate unless a record with the same name
// (case-insensitive) already exists. Reports whether the append happened.
func AppendUnique(records []Descriptor, candidate Descriptor) ([]Descriptor, bool) {
	key := strings.ToLower(strings.TrimSpace(candidate.Name))
	for _, r := range records {
		if strings.ToLower(strings.TrimSpace(r.Name)) == key {
			return records, false
		}
	}
	return append(records, candidate), true
}

// episodeSortSentinel sorts records whose name doesn't parse after every
// real episode.
const episodeSortSentinel = 9999

// SortEpisodes orders series descriptors by (season, episode), derived by
// re-parsing each record's name.
func SortEpisodes(records []Descriptor) {
	key := func(d Descriptor) (int, int) {
		season, episode, ok := ParseEpisode(d.Name)
		if !ok {
			return episodeSortSentinel, episodeSortSentinel
		}
		return season, episode
	}
	sort.SliceStable(records, func(i, j int) bool {
		si, ei := key(records[i])
		sj, ej := key(records[j])
		if si != sj {
			return si < sj
		}
		return ei < ej
	})
}
