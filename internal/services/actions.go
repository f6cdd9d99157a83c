package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/ratelimit"
	"github.com/goldenaura/aura-server/internal/rules"
	"github.com/goldenaura/aura-server/internal/store"
	"github.com/goldenaura/aura-server/internal/verifier"
)

// SubmitResult is the engine's answer to a single submission. A
// rejection is a final answer, not retried server-side.
type SubmitResult struct {
	Accepted       bool   `json:"success"`
	AwardedPoints  int    `json:"awarded_points"`
	NewTotalPoints int    `json:"new_total_points"`
	Reason         string `json:"reason,omitempty"`
}

// ActionService coordinates scoring, rate limiting, external
// verification and the event log for incoming submissions.
type ActionService struct {
	store     store.Store
	engine    *rules.Engine
	limiter   *ratelimit.Limiter
	verifier  verifier.CleanupVerifier
	directory *DirectoryService
	log       zerolog.Logger
}

func NewActionService(s store.Store, engine *rules.Engine, limiter *ratelimit.Limiter, v verifier.CleanupVerifier, dir *DirectoryService, log zerolog.Logger) *ActionService {
	return &ActionService{store: s, engine: engine, limiter: limiter, verifier: v, directory: dir, log: log}
}

// LogAction handles the basic action path: wellbeing (rate limited),
// unverified walk/waste telemetry, and the explicit default branch for
// unrecognized action types (logged at zero points).
func (s *ActionService) LogAction(ctx context.Context, userID, actionType string) (*SubmitResult, error) {
	if userID == "" || actionType == "" {
		return nil, model.ErrValidation
	}
	cat := model.Category(actionType)
	decision := s.engine.ScoreBasic(cat)
	rec, err := decision.Record(userID, nil)
	if err != nil {
		return nil, err
	}

	if cat == model.CategoryWellbeing {
		// Counter increment and log append are one atomic step.
		_, err = s.store.Events().AppendRateLimited(ctx, rec, s.limiter.Today(), s.limiter.Cap())
		if errors.Is(err, model.ErrDailyLimit) {
			return s.rejected(ctx, userID, rules.ReasonDailyLimit)
		}
	} else {
		_, err = s.store.Events().Append(ctx, rec)
	}
	if err != nil {
		return nil, err
	}
	return s.accepted(ctx, userID, decision.Points)
}

// SubmitVerifiedWalk scores a walk claim by duration.
func (s *ActionService) SubmitVerifiedWalk(ctx context.Context, userID string, distanceM, durationS, avgSpeedKmh float64) (*SubmitResult, error) {
	if userID == "" {
		return nil, model.ErrValidation
	}
	decision := s.engine.ScoreWalk(durationS)
	if !decision.Accepted {
		return s.rejected(ctx, userID, decision.Reason)
	}
	rec, err := decision.Record(userID, activityMetadata(distanceM, durationS, avgSpeedKmh))
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Events().Append(ctx, rec); err != nil {
		return nil, err
	}
	return s.accepted(ctx, userID, decision.Points)
}

// SubmitVerifiedBike scores a bike claim against the duration, distance
// and speed bounds.
func (s *ActionService) SubmitVerifiedBike(ctx context.Context, userID string, distanceM, durationS, avgSpeedKmh float64) (*SubmitResult, error) {
	if userID == "" {
		return nil, model.ErrValidation
	}
	decision := s.engine.ScoreBike(distanceM, durationS, avgSpeedKmh)
	if !decision.Accepted {
		return s.rejected(ctx, userID, decision.Reason)
	}
	rec, err := decision.Record(userID, activityMetadata(distanceM, durationS, avgSpeedKmh))
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Events().Append(ctx, rec); err != nil {
		return nil, err
	}
	return s.accepted(ctx, userID, decision.Points)
}

// SubmitVerifiedWaste sends the before/after image pair to the external
// verifier and scores its verdict. A collaborator failure is reported as
// a generic rejection and logged internally for diagnosis.
func (s *ActionService) SubmitVerifiedWaste(ctx context.Context, userID string, before, after []byte) (*SubmitResult, error) {
	if userID == "" || len(before) == 0 || len(after) == 0 {
		return nil, model.ErrValidation
	}
	verdict, callErr := s.verifier.Verify(ctx, before, after)
	if callErr != nil {
		s.log.Error().Err(callErr).Str("user_id", userID).Msg("cleanup verifier call failed")
	}
	decision := s.engine.ScoreWaste(verdict, callErr)
	if !decision.Accepted {
		return s.rejected(ctx, userID, decision.Reason)
	}
	rec, err := decision.Record(userID, map[string]interface{}{
		"confidence":   verdict.Confidence,
		"short_reason": verdict.Reason,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Events().Append(ctx, rec); err != nil {
		return nil, err
	}
	return s.accepted(ctx, userID, decision.Points)
}

func activityMetadata(distanceM, durationS, avgSpeedKmh float64) map[string]interface{} {
	return map[string]interface{}{
		"distance_m":    distanceM,
		"duration_s":    durationS,
		"avg_speed_kmh": avgSpeedKmh,
	}
}

func (s *ActionService) accepted(ctx context.Context, userID string, points int) (*SubmitResult, error) {
	// Active submitters show up in the city rollup even before they set
	// a neighborhood.
	if _, err := s.directory.EnsureNeighborhood(ctx, userID); err != nil {
		return nil, err
	}
	total, err := s.totalPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Accepted: true, AwardedPoints: points, NewTotalPoints: total}, nil
}

func (s *ActionService) rejected(ctx context.Context, userID, reason string) (*SubmitResult, error) {
	total, err := s.totalPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Accepted: false, Reason: reason, NewTotalPoints: total}, nil
}

func (s *ActionService) totalPoints(ctx context.Context, userID string) (int, error) {
	recs, err := s.store.Events().ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range recs {
		total += r.Points
	}
	return total, nil
}
