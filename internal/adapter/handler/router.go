package handler

import "net/http"

func NewRouter(site *SiteHandler, api *APIHandler, mode *ModeHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", site.Index)
	mux.HandleFunc("GET /sites/{site}", site.Show)
	mux.HandleFunc("POST /sites/{site}/refresh", site.Refresh)

	mux.HandleFunc("GET /api/sites/{site}/coins", api.Coins)
	mux.HandleFunc("GET /api/sites/{site}/loads", api.Loads)

	mux.HandleFunc("GET /mode", mode.Current)
	mux.HandleFunc("POST /mode/test", mode.SwitchToTest)
	mux.HandleFunc("POST /mode/live", mode.SwitchToLive)
	mux.HandleFunc("GET /health", health.Check)

	return mux
}
