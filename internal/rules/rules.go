// Package rules holds the pure scoring decisions for action submissions.
// All thresholds come from configuration; bounds are inclusive at both
// edges, so a value exactly equal to a threshold is accepted.
package rules

import (
	"fmt"

	"github.com/goldenaura/aura-server/internal/config"
	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/verifier"
)

// Rejection reasons reported to callers.
const (
	ReasonDailyLimit        = "daily limit reached"
	ReasonTooShort          = "too short"
	ReasonDistanceDuration  = "distance or duration below minimum"
	ReasonSpeedOutOfRange   = "speed out of plausible range"
	ReasonVerifierFailed    = "verification unavailable"
	ReasonVerifierRejection = "cleanup not verified"
)

// Decision is the outcome of scoring a submission. Rejected submissions
// are never appended to the event log.
type Decision struct {
	Accepted bool
	Category model.Category
	Points   int
	Reason   string
}

func accept(cat model.Category, points int) Decision {
	return Decision{Accepted: true, Category: cat, Points: points}
}

func reject(cat model.Category, reason string) Decision {
	return Decision{Accepted: false, Category: cat, Reason: reason}
}

// Engine evaluates submissions against the configured policy.
type Engine struct {
	cfg *config.Config
}

func NewEngine(cfg *config.Config) *Engine { return &Engine{cfg: cfg} }

// ScoreBasic handles the simple log-action path. Wellbeing earns its
// configured points here; the per-day cap is enforced atomically at
// append time, not in this pure function. Unverified walk and waste are
// telemetry: always accepted at zero points. Anything else falls through
// to the default branch: accepted at zero points and still logged, the
// historical behavior for unrecognized action types.
func (e *Engine) ScoreBasic(cat model.Category) Decision {
	switch cat {
	case model.CategoryWellbeing:
		return accept(cat, e.cfg.WellbeingPoints)
	case model.CategoryWalk, model.CategoryWaste:
		return accept(cat, 0)
	default:
		return accept(cat, 0)
	}
}

// ScoreWalk validates a verified walk by duration alone.
func (e *Engine) ScoreWalk(durationS float64) Decision {
	if durationS < e.cfg.MinWalkSeconds {
		return reject(model.CategoryVerifiedWalk, ReasonTooShort)
	}
	return accept(model.CategoryVerifiedWalk, e.cfg.WalkPoints)
}

// ScoreBike validates a verified bike ride. The rejection reason
// identifies whether the distance/duration floor or the speed band
// failed.
func (e *Engine) ScoreBike(distanceM, durationS, avgSpeedKmh float64) Decision {
	if durationS < e.cfg.MinBikeSeconds || distanceM < e.cfg.MinBikeMeters {
		return reject(model.CategoryVerifiedBike, ReasonDistanceDuration)
	}
	if avgSpeedKmh < e.cfg.MinBikeKmh || avgSpeedKmh > e.cfg.MaxBikeKmh {
		return reject(model.CategoryVerifiedBike, ReasonSpeedOutOfRange)
	}
	return accept(model.CategoryVerifiedBike, e.cfg.BikePoints)
}

// ScoreWaste maps an external verifier verdict to a decision. The
// verdict must affirm the same scene, a successful cleanup, and meet the
// confidence floor. callErr marks a collaborator failure (timeout,
// transport error, unparseable output); it yields a generic rejection so
// internal detail never reaches the caller.
func (e *Engine) ScoreWaste(verdict *verifier.Verdict, callErr error) Decision {
	if callErr != nil || verdict == nil {
		return reject(model.CategoryVerifiedWaste, ReasonVerifierFailed)
	}
	if verdict.SameScene && verdict.CleanupSuccessful && verdict.Confidence >= e.cfg.MinWasteConfidence {
		return accept(model.CategoryVerifiedWaste, e.cfg.WastePoints)
	}
	reason := verdict.Reason
	if reason == "" {
		reason = ReasonVerifierRejection
	}
	return reject(model.CategoryVerifiedWaste, reason)
}

// Record materializes an accepted decision as an event log record.
// Panics are avoided: calling Record on a rejected decision is a
// programming error surfaced as an explicit error.
func (d Decision) Record(userID string, metadata map[string]interface{}) (*model.ActionRecord, error) {
	if !d.Accepted {
		return nil, fmt.Errorf("cannot record rejected decision: %s", d.Reason)
	}
	return &model.ActionRecord{
		UserID:   userID,
		Category: d.Category,
		Points:   d.Points,
		Metadata: metadata,
	}, nil
}
