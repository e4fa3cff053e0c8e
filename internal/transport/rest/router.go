package rest

import (
	"net/http"

	"github.com/heartmarshall/wordsync-backend/internal/transport/middleware"
)

// NewRouter registers every route on a ServeMux and wraps it with mw.
func NewRouter(health *HealthHandler, sync *SyncHandler, words *WordHandler, mw middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("GET /sync/status", sync.Status)
	mux.HandleFunc("GET /sync/status/stream", sync.Stream)
	mux.HandleFunc("POST /sync/force", sync.Force)
	mux.HandleFunc("POST /sync/start", sync.Start)
	mux.HandleFunc("POST /sync/stop", sync.Stop)
	mux.HandleFunc("GET /sync/pending", sync.Pending)

	mux.HandleFunc("POST /words", words.Add)
	mux.HandleFunc("GET /words", words.Find)
	mux.HandleFunc("DELETE /words", words.DeleteByWord)
	mux.HandleFunc("PATCH /words/{id}", words.Update)
	mux.HandleFunc("DELETE /words/{id}", words.DeleteByID)
	mux.HandleFunc("POST /words/{id}/quiz", words.Quiz)
	mux.HandleFunc("POST /words/{id}/mark", words.Mark)
	mux.HandleFunc("GET /stats", words.Stats)

	return mw(mux)
}
