package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type castVoteRequest struct {
	CandidateID uuid.UUID `json:"candidateId"`
	PositionID  uuid.UUID `json:"positionId"`
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := voterFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CandidateID == uuid.Nil || req.PositionID == uuid.Nil {
		writeMessage(w, http.StatusBadRequest, "candidateId and positionId are required")
		return
	}

	ballot, err := h.service.CastVote(r.Context(), ports.CastVoteInput{
		Voter:       voter,
		CandidateID: req.CandidateID,
		PositionID:  req.PositionID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ballot)
}

func (h *VoteHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	voter, ok := voterFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	positionID, err := uuid.Parse(chi.URLParam(r, "positionId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid position id")
		return
	}

	status, err := h.service.VoteStatus(r.Context(), voter, positionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
