package web

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-downloader-web/internal/download"
	"github.com/ytget/yt-downloader-web/internal/formats"
	"github.com/ytget/yt-downloader-web/internal/model"
)

// pageData is the template context shared by all pages
type pageData struct {
	Lang       string
	Flashes    []Flash
	URL        string
	Title      string
	DefaultDir string
	Formats    []model.CuratedFormat
}

func (s *Server) newPage(w http.ResponseWriter, r *http.Request) pageData {
	return pageData{
		Lang:       s.texts.GetCurrentLanguage(),
		Flashes:    s.flash.Pop(w, r),
		DefaultDir: s.opts.DefaultDir,
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.WithError(err).WithField("template", name).Error("failed to render template")
	}
}

// redirectWithFlash stores a message and sends the browser back to the index
func (s *Server) redirectWithFlash(w http.ResponseWriter, r *http.Request, category, key string) {
	s.flash.Add(w, r, category, key)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := s.newPage(w, r)
	page.URL = r.URL.Query().Get("url")
	s.render(w, "index", page)
}

// POST /fetch_formats
func (s *Server) handleFetchFormats(w http.ResponseWriter, r *http.Request) {
	videoURL := r.PostFormValue("url")
	if videoURL == "" {
		s.redirectWithFlash(w, r, FlashDanger, KeyPleaseEnterURL)
		return
	}

	listing, err := s.lister.FetchListing(r.Context(), videoURL)
	switch {
	case formats.IsValidation(err):
		s.redirectWithFlash(w, r, FlashDanger, KeyPleaseEnterURL)
		return
	case errors.Is(err, formats.ErrNoFormats):
		s.redirectWithFlash(w, r, FlashDanger, KeyNoFormats)
		return
	case err != nil:
		s.logger.WithError(err).WithField("url", videoURL).Warn("format lookup failed")
		s.redirectWithFlash(w, r, FlashDanger, KeyFormatsError)
		return
	}

	page := s.newPage(w, r)
	page.URL = listing.URL
	page.Title = listing.Title
	page.Formats = listing.Formats
	s.render(w, "formats", page)
}

// GET /download_video/{format_id}?url=...&dir=...
// GET /download_video/?format_id=...&url=...&dir=...
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	formatID := r.PathValue("format_id")
	if formatID == "" {
		formatID = query.Get("format_id")
	}

	req := model.DownloadRequest{
		URL:         query.Get("url"),
		FormatID:    formatID,
		Destination: query.Get("dir"),
	}

	task, err := s.dispatch.Dispatch(r.Context(), req)
	if err != nil {
		key := flashKeyForDispatchError(err)
		category := FlashDanger
		if key == KeyLocationNotSelected {
			category = FlashInfo
		}
		s.redirectWithFlash(w, r, category, key)
		return
	}

	s.serveAttachment(w, r, task)
}

// serveAttachment streams the written file back to the browser
func (s *Server) serveAttachment(w http.ResponseWriter, r *http.Request, task *model.DownloadTask) {
	f, err := s.fs.Open(task.OutputPath)
	if err != nil {
		s.logger.WithError(err).WithField("path", task.OutputPath).Error("failed to open downloaded file")
		s.redirectWithFlash(w, r, FlashDanger, KeyDownloadError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.redirectWithFlash(w, r, FlashDanger, KeyDownloadError)
		return
	}

	name := filepath.Base(task.OutputPath)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("X-Task-ID", task.ID)
	s.logger.WithFields(logrus.Fields{
		"task": task.ID,
		"file": name,
		"size": info.Size(),
	}).Debug("serving attachment")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// flashKeyForDispatchError maps dispatcher error kinds to user messages
func flashKeyForDispatchError(err error) string {
	var ve *download.ValidationError
	if errors.As(err, &ve) {
		switch ve.Field {
		case "url":
			return KeyPleaseEnterURL
		case "format_id":
			return KeySelectFormat
		case "destination":
			if errors.Is(err, download.ErrDestinationNotSelected) {
				return KeyLocationNotSelected
			}
			return KeyInvalidDestination
		}
	}
	return KeyDownloadError
}
