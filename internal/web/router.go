package web

import nethttp "net/http"

// NewRouter registers the UI routes on a ServeMux.
func NewRouter(handler *Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/", handler.Index)
	mux.HandleFunc("/leagues", handler.FetchLeagues)
	mux.HandleFunc("/games", handler.FetchGames)
	mux.HandleFunc("/roster", handler.UploadRoster)
	mux.HandleFunc("/venues", handler.UploadVenues)
	mux.HandleFunc("/reports", handler.GenerateReports)
	mux.HandleFunc("/archive", handler.GenerateArchive)
	mux.HandleFunc("/downloads/", handler.Download)
	mux.HandleFunc("/healthz", handler.Health)
	mux.HandleFunc("/readyz", handler.Ready)
	return mux
}
