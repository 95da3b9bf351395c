package gateway

import (
	"net/http"

	"github.com/rs/cors"
)

// NewServer assembles the HTTP surface: the room and deck API, the
// health check, and the websocket session endpoint.
func NewServer(addr string, allowedOrigins []string, h *Handler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", h.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{id}", h.handleGetRoom)
	mux.HandleFunc("GET /api/rooms/{id}/ws", h.ServeWS)
	mux.HandleFunc("GET /api/decks", h.handleGetDecks)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:    addr,
		Handler: c.Handler(mux),
	}
}
