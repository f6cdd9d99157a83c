package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/goldenaura/aura-server/internal/api/respond"
	"github.com/goldenaura/aura-server/internal/api/validate"
	"github.com/goldenaura/aura-server/internal/recap"
	"github.com/goldenaura/aura-server/internal/services"
	"github.com/goldenaura/aura-server/internal/speech"
)

// RecapHandler narrates summaries through the TTS collaborator.
type RecapHandler struct {
	summaries *services.SummaryService
	tts       speech.Synthesizer
	log       zerolog.Logger
}

func NewRecapHandler(summaries *services.SummaryService, tts speech.Synthesizer, log zerolog.Logger) *RecapHandler {
	return &RecapHandler{summaries: summaries, tts: tts, log: log}
}

// VoiceRecap handles GET /api/voice-recap/{userId}: builds the recap
// sentence from the user's summary and returns synthesized audio.
func (h *RecapHandler) VoiceRecap(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	summary, err := h.summaries.UserSummary(r.Context(), userID)
	if err != nil {
		respond.WriteInternalError(w, "summary unavailable")
		return
	}
	audio, err := h.tts.Synthesize(r.Context(), recap.Text(summary))
	if err != nil {
		// Collaborator failure stays internal; the caller sees a
		// generic error.
		h.log.Error().Err(err).Str("user_id", userID).Msg("speech synthesis failed")
		respond.WriteError(w, http.StatusBadGateway, "narration unavailable")
		return
	}
	respond.WriteAudio(w, audio)
}

// Narrate handles POST /api/narrate: synthesizes caller-provided text.
func (h *RecapHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.NonEmpty("text", in.Text); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.MaxLen("text", in.Text, 2000); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	audio, err := h.tts.Synthesize(r.Context(), in.Text)
	if err != nil {
		h.log.Error().Err(err).Msg("speech synthesis failed")
		respond.WriteError(w, http.StatusBadGateway, "narration unavailable")
		return
	}
	respond.WriteAudio(w, audio)
}
