package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

type createPositionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createCandidateRequest struct {
	PositionID uuid.UUID `json:"positionId"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio"`
}

func (h *CatalogHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	actor, ok := voterFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req createPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	position, err := h.service.CreatePosition(r.Context(), actor, ports.CreatePositionInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, position)
}

func (h *CatalogHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.ListPositions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, positions)
}

func (h *CatalogHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid position id")
		return
	}

	position, err := h.service.GetPosition(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, position)
}

func (h *CatalogHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	actor, ok := voterFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req createCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate, err := h.service.CreateCandidate(r.Context(), actor, ports.CreateCandidateInput{
		PositionID: req.PositionID,
		Name:       req.Name,
		Bio:        req.Bio,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, candidate)
}

func (h *CatalogHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	var positionID *uuid.UUID
	if raw := r.URL.Query().Get("positionId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid position id")
			return
		}
		positionID = &id
	}

	candidates, err := h.service.ListCandidates(r.Context(), positionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, candidates)
}

func (h *CatalogHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid candidate id")
		return
	}

	candidate, err := h.service.GetCandidate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}
