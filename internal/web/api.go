package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ytget/yt-downloader-web/internal/download"
	"github.com/ytget/yt-downloader-web/internal/formats"
	"github.com/ytget/yt-downloader-web/internal/model"
	"github.com/ytget/yt-downloader-web/internal/platform"
)

// Error kinds reported in JSON error bodies
const (
	KindValidation = "validation"
	KindNoFormats  = "no_formats"
	KindExtraction = "extraction"
	KindDownload   = "download"
	KindInternal   = "internal"
)

const maxJSONBody = 1 << 20

// JSON schema
type formatsRequest struct {
	URL string `json:"url"`
}

type downloadRequest struct {
	URL         string `json:"url"`
	FormatID    string `json:"format_id"`
	Destination string `json:"destination"`
}

type errorResponse struct {
	Error string              `json:"error"`
	Kind  string              `json:"kind"`
	Task  *model.DownloadTask `json:"task,omitempty"`
}

type destinationResponse struct {
	Directory string `json:"directory"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Suggested string `json:"suggested,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, kind string, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error(), Kind: kind})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// POST /api/formats
func (s *Server) handleAPIFormats(w http.ResponseWriter, r *http.Request) {
	var req formatsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err)
		return
	}

	listing, err := s.lister.FetchListing(r.Context(), req.URL)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, listing)
	case formats.IsValidation(err):
		writeError(w, http.StatusBadRequest, KindValidation, err)
	case errors.Is(err, formats.ErrNoFormats):
		writeError(w, http.StatusNotFound, KindNoFormats, err)
	case formats.IsExtraction(err):
		writeError(w, http.StatusBadGateway, KindExtraction, err)
	default:
		writeError(w, http.StatusInternalServerError, KindInternal, err)
	}
}

// POST /api/downloads
func (s *Server) handleAPIDownloads(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, KindValidation, err)
		return
	}

	task, err := s.dispatch.Dispatch(r.Context(), model.DownloadRequest{
		URL:         req.URL,
		FormatID:    req.FormatID,
		Destination: req.Destination,
	})
	if err == nil {
		writeJSON(w, http.StatusCreated, task)
		return
	}

	resp := errorResponse{Error: err.Error(), Task: task}
	code := http.StatusInternalServerError
	switch {
	case formats.IsValidation(err):
		code, resp.Kind = http.StatusBadRequest, KindValidation
	case formats.IsExtraction(err):
		code, resp.Kind = http.StatusBadGateway, KindExtraction
	case download.IsDownload(err):
		code, resp.Kind = http.StatusInternalServerError, KindDownload
	default:
		resp.Kind = KindInternal
	}
	writeJSON(w, code, resp)
}

// GET /destination?dir=...
// Validates and creates the directory a later download will write into.
func (s *Server) handleDestination(w http.ResponseWriter, r *http.Request) {
	dir, err := s.chooser.ChooseDirectory(r.Context(), r.URL.Query().Get("dir"))
	switch {
	case errors.Is(err, platform.ErrOutsideRoot):
		writeError(w, http.StatusBadRequest, KindValidation, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, KindDownload, err)
		return
	}

	if dir == "" {
		suggested := s.opts.DefaultDir
		if suggested == "" {
			suggested, _ = platform.GetHomeDownloadsDir()
		}
		writeJSON(w, http.StatusOK, destinationResponse{Cancelled: true, Suggested: suggested})
		return
	}
	writeJSON(w, http.StatusOK, destinationResponse{Directory: dir})
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.opts.Version})
}
