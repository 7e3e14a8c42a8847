package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sudheer2004/PollProject/internal/core/ports"
)

const defaultHistoryLimit = 50

type PollHandler struct {
	engine ports.PollEngine
}

func NewPollHandler(engine ports.PollEngine) *PollHandler {
	return &PollHandler{engine: engine}
}

// GetHistory returns recently archived polls, newest first.
func (h *PollHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	history, err := h.engine.History(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to load poll history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(history); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// GetStudents returns the currently connected roster.
func (h *PollHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.engine.Students()); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
