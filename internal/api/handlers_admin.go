package api

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/reactflix/reactflix-server/internal/httputil"
	"github.com/reactflix/reactflix-server/internal/library"
)

// Memory threshold for multipart parsing; larger uploads spill to disk.
const maxMultipartMemory = 100 << 20

// writeIngestError maps validation failures onto their status codes and
// collapses anything unexpected into a generic 500. Files already
// written stay where they are; there is no rollback.
func writeIngestError(w http.ResponseWriter, op string, err error) {
	var ie *library.Error
	if errors.As(err, &ie) {
		httputil.WriteError(w, ie.Status, ie.Code, ie.Message)
		return
	}
	log.Printf("[api] %s failed: %v", op, err)
	httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", op+" failed")
}

// POST /add_movie?series=<collection> — admin only.
func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FORM", "could not parse multipart form")
		return
	}

	var genres []string
	if raw := r.FormValue("genres"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &genres); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "INVALID_GENRES", "genres must be a JSON array")
			return
		}
	}

	up := library.MovieUpload{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Rating:      r.FormValue("rating"),
		Genres:      genres,
	}

	poster, posterHeader, err := r.FormFile("poster")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_FILES", "poster file is required")
		return
	}
	defer poster.Close()
	up.Poster = library.Upload{Filename: posterHeader.Filename, Content: poster}

	video, videoHeader, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_FILES", "video file is required")
		return
	}
	defer video.Close()
	up.Video = library.Upload{Filename: videoHeader.Filename, Content: video}

	if err := s.ingestor.AddMovie(r.URL.Query().Get("series"), up); err != nil {
		writeIngestError(w, "add movie", err)
		return
	}

	s.wsHub.Broadcast("library:updated", map[string]string{"collection": r.URL.Query().Get("series")})
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// POST /add_series — admin only. Multipart fields: mode (new|existing),
// seriesName, posters[] and files[].
func (s *Server) handleAddSeries(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FORM", "could not parse multipart form")
		return
	}

	posters, closePosters, err := openUploads(r.MultipartForm.File["posters"])
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FORM", "could not read poster upload")
		return
	}
	defer closePosters()

	episodes, closeEpisodes, err := openUploads(r.MultipartForm.File["files"])
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_FORM", "could not read episode upload")
		return
	}
	defer closeEpisodes()

	result, err := s.ingestor.AddSeries(r.FormValue("mode"), r.FormValue("seriesName"), posters, episodes)
	if err != nil {
		writeIngestError(w, "add series", err)
		return
	}

	s.wsHub.Broadcast("library:updated", map[string]string{"collection": result.Series})
	httputil.WriteJSON(w, http.StatusOK, result)
}

func openUploads(headers []*multipart.FileHeader) ([]library.Upload, func(), error) {
	var uploads []library.Upload
	var open []multipart.File

	closeAll := func() {
		for _, f := range open {
			f.Close()
		}
	}

	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		open = append(open, f)
		uploads = append(uploads, library.Upload{Filename: fh.Filename, Content: f})
	}
	return uploads, closeAll, nil
}
