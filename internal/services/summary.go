package services

import (
	"context"

	"github.com/goldenaura/aura-server/internal/model"
	"github.com/goldenaura/aura-server/internal/store"
)

// SummaryService derives per-user and per-city aggregates by folding
// over the event log. Reads are side-effect free apart from lazy default
// registration of first-seen users in the directory.
type SummaryService struct {
	store     store.Store
	directory *DirectoryService
}

func NewSummaryService(s store.Store, dir *DirectoryService) *SummaryService {
	return &SummaryService{store: s, directory: dir}
}

// UserSummary buckets the user's points into the three reporting
// categories. Unverified walk/waste records never reach a bucket;
// total_points is the bucket sum, so telemetry cannot inflate it.
func (s *SummaryService) UserSummary(ctx context.Context, userID string) (*model.UserSummary, error) {
	if userID == "" {
		return nil, model.ErrValidation
	}
	if _, err := s.directory.EnsureNeighborhood(ctx, userID); err != nil {
		return nil, err
	}
	recs, err := s.store.Events().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	by := map[string]int{
		model.BucketTransport: 0,
		model.BucketWaste:     0,
		model.BucketWellbeing: 0,
	}
	for _, r := range recs {
		switch r.Category {
		case model.CategoryVerifiedWalk, model.CategoryVerifiedBike:
			by[model.BucketTransport] += r.Points
		case model.CategoryVerifiedWaste:
			by[model.BucketWaste] += r.Points
		case model.CategoryWellbeing:
			by[model.BucketWellbeing] += r.Points
		}
	}

	total := 0
	for _, v := range by {
		total += v
	}
	return &model.UserSummary{UserID: userID, TotalPoints: total, ByCategory: by}, nil
}

// CitySummary accumulates every directory user's full (unfiltered) point
// total into per-neighborhood rollups plus a grand total.
//
// This is a full scan over users and log. It is fine at civic-app load;
// a large deployment would maintain incremental per-neighborhood running
// totals with identical output.
func (s *SummaryService) CitySummary(ctx context.Context) (*model.CitySummary, error) {
	entries, err := s.store.Directory().List(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.store.Events().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	for _, r := range recs {
		totals[r.UserID] += r.Points
	}

	idx := make(map[string]int)
	out := &model.CitySummary{Neighborhoods: []model.NeighborhoodSummary{}}
	for _, e := range entries {
		i, ok := idx[e.Neighborhood]
		if !ok {
			i = len(out.Neighborhoods)
			idx[e.Neighborhood] = i
			out.Neighborhoods = append(out.Neighborhoods, model.NeighborhoodSummary{Name: e.Neighborhood})
		}
		out.Neighborhoods[i].TotalPoints += totals[e.UserID]
		out.Neighborhoods[i].UserCount++
		out.OverallTotalPoints += totals[e.UserID]
	}
	return out, nil
}
