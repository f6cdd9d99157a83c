package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/goldenaura/aura-server/internal/api/recovery"
	"github.com/goldenaura/aura-server/internal/services"
	"github.com/goldenaura/aura-server/internal/speech"
)

// NewRouter wires HTTP routes to handlers.
func NewRouter(actions *services.ActionService, summaries *services.SummaryService, dir *services.DirectoryService, tts speech.Synthesizer, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	actionHandler := NewActionHandler(actions)
	root.HandleFunc("/api/log-action", actionHandler.LogAction).Methods("POST")
	root.HandleFunc("/api/verified-walk", actionHandler.VerifiedWalk).Methods("POST")
	root.HandleFunc("/api/verified-bike", actionHandler.VerifiedBike).Methods("POST")
	root.HandleFunc("/api/verified-waste", actionHandler.VerifiedWaste).Methods("POST")

	summaryHandler := NewSummaryHandler(summaries)
	root.HandleFunc("/api/user-summary/{userId}", summaryHandler.UserSummary).Methods("GET")
	root.HandleFunc("/api/city-summary", summaryHandler.CitySummary).Methods("GET")

	dirHandler := NewDirectoryHandler(dir)
	root.HandleFunc("/api/set-neighborhood", dirHandler.SetNeighborhood).Methods("POST")

	recapHandler := NewRecapHandler(summaries, tts, log)
	root.HandleFunc("/api/voice-recap/{userId}", recapHandler.VoiceRecap).Methods("GET")
	root.HandleFunc("/api/narrate", recapHandler.Narrate).Methods("POST")

	healthHandler := NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	root.HandleFunc("/", Root).Methods("GET")

	return root
}
