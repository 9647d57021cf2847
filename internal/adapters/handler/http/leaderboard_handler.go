package http

import (
	"net/http"
	"strconv"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

type LeaderboardHandler struct {
	service ports.TallyService
}

func NewLeaderboardHandler(service ports.TallyService) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
	}
}

func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	var opts ports.TallyOptions
	if raw := r.URL.Query().Get("include_zero"); raw != "" {
		includeZero, err := strconv.ParseBool(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "include_zero must be a boolean")
			return
		}
		opts.IncludeZero = includeZero
	}

	tally, err := h.service.ComputeTally(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tally)
}
