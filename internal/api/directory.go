package api

import (
	"encoding/json"
	"net/http"

	"github.com/goldenaura/aura-server/internal/api/respond"
	"github.com/goldenaura/aura-server/internal/api/validate"
	"github.com/goldenaura/aura-server/internal/services"
)

// DirectoryHandler serves neighborhood assignment.
type DirectoryHandler struct {
	svc *services.DirectoryService
}

func NewDirectoryHandler(svc *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

// SetNeighborhood handles POST /api/set-neighborhood.
func (h *DirectoryHandler) SetNeighborhood(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID       string `json:"user_id"`
		Neighborhood string `json:"neighborhood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.UserID(in.UserID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("neighborhood", in.Neighborhood); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.MaxLen("neighborhood", in.Neighborhood, 100); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.SetNeighborhood(r.Context(), in.UserID, in.Neighborhood)
	if err != nil {
		respond.WriteInternalError(w, "failed to set neighborhood")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
