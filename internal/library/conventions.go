package library

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// MoviesCollection is the flat collection that catalog queries default to.
// Every other collection is a series folder holding per-episode items.
const MoviesCollection = "Movies"

// DescriptorFile is the per-collection metadata file name.
const DescriptorFile = "descriptions.json"

// Extension allow-lists, in lookup priority order.
var (
	VideoExtensions  = []string{".mp4", ".mkv", ".m4v"}
	PosterExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// ──────────────────── Compiled Regex (init once) ────────────────────

// Episode marker: S01E02, s1e2, S01E103 — anywhere in the filename.
var episodeRx = regexp.MustCompile(`(?i)s(\d{1,2})e(\d{1,3})`)

// Season poster marker: S01, s2 — matched against the filename stem.
var seasonRx = regexp.MustCompile(`(?i)s(\d{1,2})`)

// Characters that break Windows or Linux paths.
var forbiddenCharsRx = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var whitespaceRx = regexp.MustCompile(`\s+`)

// SanitizeCollectionName turns a user-supplied series name into a safe
// folder name. Returns "" when nothing usable remains: empty input,
// dot-only names, or anything still carrying a traversal sequence.
func SanitizeCollectionName(raw string) string {
	name := strings.TrimSpace(raw)
	name = forbiddenCharsRx.ReplaceAllString(name, "")
	name = strings.TrimSpace(whitespaceRx.ReplaceAllString(name, " "))

	if name == "" || name == "." || name == ".." || strings.Contains(name, "..") {
		return ""
	}
	return name
}

// EpisodeLabel formats the canonical episode name, e.g. S01E02.
// Values of 100 or more keep all their digits.
func EpisodeLabel(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// SeasonPosterBase formats the base name of a season poster, e.g. S01.
func SeasonPosterBase(season int) string {
	return fmt.Sprintf("S%02d", season)
}

// ParseEpisode extracts season and episode numbers from a filename.
// The first SxxEyy match wins; ok is false when no marker is present.
func ParseEpisode(filename string) (season, episode int, ok bool) {
	m := episodeRx.FindStringSubmatch(filename)
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}

// ParseSeasonPoster extracts the season number from a poster filename
// such as S01.jpg. Only the stem is considered so the extension's digits
// can never match.
func ParseSeasonPoster(filename string) (season int, ok bool) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	m := seasonRx.FindStringSubmatch(stem)
	if m == nil {
		return 0, false
	}
	season, _ = strconv.Atoi(m[1])
	return season, true
}

// FindMediaFile returns the library-relative path of base+ext for the
// first allowed extension that exists inside the collection directory.
func FindMediaFile(collectionPath, collection, base string, exts []string) (string, bool) {
	for _, ext := range exts {
		name := base + ext
		if _, err := os.Stat(filepath.Join(collectionPath, name)); err == nil {
			return filepath.Join(collection, name), true
		}
	}
	return "", false
}

// ExtensionAllowed reports whether the filename's extension is in the
// allow-list. Comparison is case-insensitive.
func ExtensionAllowed(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
