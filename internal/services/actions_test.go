package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenaura/aura-server/internal/config"
	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/ratelimit"
	"github.com/goldenaura/aura-server/internal/rules"
	"github.com/goldenaura/aura-server/internal/store"
	"github.com/goldenaura/aura-server/internal/store/memory"
	"github.com/goldenaura/aura-server/internal/verifier"
)

// fakeVerifier returns a canned verdict or error.
type fakeVerifier struct {
	verdict *verifier.Verdict
	err     error
	calls   int
}

func (f *fakeVerifier) Verify(ctx context.Context, before, after []byte) (*verifier.Verdict, error) {
	f.calls++
	return f.verdict, f.err
}

type fixture struct {
	store    store.Store
	actions  *ActionService
	summary  *SummaryService
	dir      *DirectoryService
	verifier *fakeVerifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.NewForTesting()
	st := memory.New()
	t.Cleanup(func() { _ = st.Close() })

	fv := &fakeVerifier{verdict: &verifier.Verdict{SameScene: true, CleanupSuccessful: true, Confidence: 0.9}}
	dir := NewDirectoryService(st, cfg.DefaultNeighborhood)
	actions := NewActionService(st, rules.NewEngine(cfg), ratelimit.New(st.Counters(), cfg.MindfulnessDailyCap, nil), fv, dir, zerolog.Nop())
	return &fixture{
		store:    st,
		actions:  actions,
		summary:  NewSummaryService(st, dir),
		dir:      dir,
		verifier: fv,
	}
}

func TestLogAction_WellbeingDailyCap(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	for i := 0; i < 2; i++ {
		res, err := fx.actions.LogAction(ctx, "u1", "wellbeing")
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, 5, res.AwardedPoints)
		assert.Equal(t, 5*(i+1), res.NewTotalPoints)
	}

	// Third submission the same day is rejected and not logged.
	res, err := fx.actions.LogAction(ctx, "u1", "wellbeing")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, rules.ReasonDailyLimit, res.Reason)
	assert.Equal(t, 10, res.NewTotalPoints)

	recs, err := fx.store.Events().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestLogAction_CapIsPerUser(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	for i := 0; i < 2; i++ {
		_, err := fx.actions.LogAction(ctx, "u1", "wellbeing")
		require.NoError(t, err)
	}
	res, err := fx.actions.LogAction(ctx, "u2", "wellbeing")
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestLogAction_TelemetryAndUnknown(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	for _, at := range []string{"walk", "waste", "composting"} {
		res, err := fx.actions.LogAction(ctx, "u1", at)
		require.NoError(t, err)
		assert.True(t, res.Accepted, at)
		assert.Zero(t, res.AwardedPoints, at)
	}

	// All three hit the log even though none score.
	recs, err := fx.store.Events().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	res, err := fx.actions.LogAction(ctx, "u1", "wellbeing")
	require.NoError(t, err)
	assert.Equal(t, 5, res.NewTotalPoints, "telemetry must not inflate the total")
}

func TestLogAction_Validation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.actions.LogAction(ctx, "", "wellbeing")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = fx.actions.LogAction(ctx, "u1", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSubmitVerifiedWalk(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	res, err := fx.actions.SubmitVerifiedWalk(ctx, "u1", 1200, 900, 4.8)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, 20, res.AwardedPoints)
	assert.Equal(t, 20, res.NewTotalPoints)

	res, err = fx.actions.SubmitVerifiedWalk(ctx, "u1", 300, 200, 5.4)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, rules.ReasonTooShort, res.Reason)
	assert.Equal(t, 20, res.NewTotalPoints)

	recs, err := fx.store.Events().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 900.0, recs[0].Metadata["duration_s"])
}

func TestSubmitVerifiedBike(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	res, err := fx.actions.SubmitVerifiedBike(ctx, "u1", 5000, 900, 20)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, 20, res.AwardedPoints)

	res, err = fx.actions.SubmitVerifiedBike(ctx, "u1", 5000, 900, 40)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, rules.ReasonSpeedOutOfRange, res.Reason)
}

func TestSubmitVerifiedWaste(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	before, after := []byte("img-before"), []byte("img-after")

	res, err := fx.actions.SubmitVerifiedWaste(ctx, "u1", before, after)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, 25, res.AwardedPoints)
	assert.Equal(t, 1, fx.verifier.calls)

	// Verifier rejection propagates its short reason.
	fx.verifier.verdict = &verifier.Verdict{SameScene: false, CleanupSuccessful: false, Confidence: 0.2, Reason: "scenes differ"}
	res, err = fx.actions.SubmitVerifiedWaste(ctx, "u1", before, after)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, "scenes differ", res.Reason)

	// Collaborator failure turns into a generic rejection.
	fx.verifier.verdict = nil
	fx.verifier.err = errors.New("dial tcp: connection refused")
	res, err = fx.actions.SubmitVerifiedWaste(ctx, "u1", before, after)
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, rules.ReasonVerifierFailed, res.Reason)

	_, err = fx.actions.SubmitVerifiedWaste(ctx, "u1", nil, after)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAcceptedSubmissionRegistersUser(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.dir.Lookup(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = fx.actions.LogAction(ctx, "u1", "wellbeing")
	require.NoError(t, err)

	n, err := fx.dir.Lookup(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "unassigned", n)
}
