package web

import "net/http"

// Route patterns
const (
	RouteIndex        = "GET /{$}"
	RouteFetchFormats = "POST /fetch_formats"
	RouteDownload     = "GET /download_video/{format_id}"
	RouteDownloadForm = "GET /download_video/{$}"
	RouteDestination  = "GET /destination"
	RouteAPIFormats   = "POST /api/formats"
	RouteAPIDownloads = "POST /api/downloads"
	RouteHealth       = "GET /healthz"
	RouteMetrics      = "GET /metrics"
)

// registerRoutes attaches all handlers to mux
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc(RouteIndex, s.handleIndex)
	mux.HandleFunc(RouteFetchFormats, s.handleFetchFormats)
	mux.HandleFunc(RouteDownload, s.handleDownload)
	mux.HandleFunc(RouteDownloadForm, s.handleDownload)
	mux.HandleFunc(RouteDestination, s.handleDestination)
	mux.HandleFunc(RouteAPIFormats, s.handleAPIFormats)
	mux.HandleFunc(RouteAPIDownloads, s.handleAPIDownloads)
	mux.HandleFunc(RouteHealth, s.handleHealth)
	if s.metrics != nil {
		mux.Handle(RouteMetrics, s.metrics.Handler())
	}
}
