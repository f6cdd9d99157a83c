package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/goldenaura/aura-server/internal/api/respond"
	"github.com/goldenaura/aura-server/internal/api/validate"
	"github.com/goldenaura/aura-server/internal/services"
)

// SummaryHandler serves the aggregate read endpoints.
type SummaryHandler struct {
	svc *services.SummaryService
}

func NewSummaryHandler(svc *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{svc: svc}
}

// UserSummary handles GET /api/user-summary/{userId}.
func (h *SummaryHandler) UserSummary(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.UserSummary(r.Context(), userID)
	if err != nil {
		respond.WriteInternalError(w, "summary unavailable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// CitySummary handles GET /api/city-summary.
func (h *SummaryHandler) CitySummary(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.CitySummary(r.Context())
	if err != nil {
		respond.WriteInternalError(w, "summary unavailable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
