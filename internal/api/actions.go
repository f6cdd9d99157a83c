package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goldenaura/aura-server/internal/api/respond"
	"github.com/goldenaura/aura-server/internal/api/validate"
	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/services"
)

// maxImageBytes bounds each uploaded cleanup photo.
const maxImageBytes = 10 << 20

// ActionHandler serves the submission endpoints.
type ActionHandler struct {
	svc *services.ActionService
}

func NewActionHandler(svc *services.ActionService) *ActionHandler { return &ActionHandler{svc: svc} }

// LogAction handles POST /api/log-action.
func (h *ActionHandler) LogAction(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID     string `json:"user_id"`
		ActionType string `json:"action_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.UserID(in.UserID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("action_type", in.ActionType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	res, err := h.svc.LogAction(r.Context(), in.UserID, in.ActionType)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

type activityRequest struct {
	UserID      string  `json:"user_id"`
	DistanceM   float64 `json:"distance_m"`
	DurationS   float64 `json:"duration_s"`
	AvgSpeedKmh float64 `json:"avg_speed_kmh"`
}

func decodeActivity(w http.ResponseWriter, r *http.Request) (*activityRequest, bool) {
	var in activityRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return nil, false
	}
	if err := validate.UserID(in.UserID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return nil, false
	}
	if err := validate.ActivityMetrics(in.DistanceM, in.DurationS, in.AvgSpeedKmh); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return nil, false
	}
	return &in, true
}

// VerifiedWalk handles POST /api/verified-walk.
func (h *ActionHandler) VerifiedWalk(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeActivity(w, r)
	if !ok {
		return
	}
	res, err := h.svc.SubmitVerifiedWalk(r.Context(), in.UserID, in.DistanceM, in.DurationS, in.AvgSpeedKmh)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// VerifiedBike handles POST /api/verified-bike.
func (h *ActionHandler) VerifiedBike(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeActivity(w, r)
	if !ok {
		return
	}
	res, err := h.svc.SubmitVerifiedBike(r.Context(), in.UserID, in.DistanceM, in.DurationS, in.AvgSpeedKmh)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// VerifiedWaste handles POST /api/verified-waste. The request is
// multipart form data: user_id plus before/after images.
func (h *ActionHandler) VerifiedWaste(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2 * maxImageBytes); err != nil {
		respond.WriteBadRequest(w, "invalid multipart form")
		return
	}
	userID := r.FormValue("user_id")
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	before, ok := readImage(w, r, "before")
	if !ok {
		return
	}
	after, ok := readImage(w, r, "after")
	if !ok {
		return
	}
	res, err := h.svc.SubmitVerifiedWaste(r.Context(), userID, before, after)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

func readImage(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	f, _, err := r.FormFile(field)
	if err != nil {
		respond.WriteBadRequest(w, field+" image is required")
		return nil, false
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		respond.WriteBadRequest(w, "failed to read "+field+" image")
		return nil, false
	}
	if len(data) == 0 {
		respond.WriteBadRequest(w, field+" image is empty")
		return nil, false
	}
	if len(data) > maxImageBytes {
		respond.WriteBadRequest(w, field+" image too large")
		return nil, false
	}
	return data, true
}

func writeSubmitError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrValidation) {
		respond.WriteBadRequest(w, "missing or malformed fields")
		return
	}
	respond.WriteInternalError(w, "submission failed")
}
