package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sudheer2004/PollProject/internal/adapters/handler/ws"
)

func NewHandler(pollHandler *PollHandler, gateway *ws.Gateway) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "healthy",
			"connections": gateway.ClientCount(),
		})
	})

	r.Get("/ws", gateway.HandleWS)

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.GetHistory)
		})
		r.Get("/students", pollHandler.GetStudents)
	})

	return r
}
