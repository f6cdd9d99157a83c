package model

import "time"

// Category is the closed set of action kinds the engine scores.
type Category string

const (
	// Rate-limited mindfulness actions, verified by submission alone.
	CategoryWellbeing Category = "wellbeing"

	// Server-side plausibility checked activities.
	CategoryVerifiedWalk Category = "verified_walk"
	CategoryVerifiedBike Category = "verified_bike"

	// Externally verified cleanup claims.
	CategoryVerifiedWaste Category = "verified_waste"

	// Unverified telemetry. Logged with zero points, never rewarded.
	CategoryWalk  Category = "walk"
	CategoryWaste Category = "waste"
)

// Known reports whether c is one of the closed category set.
func (c Category) Known() bool {
	switch c {
	case CategoryWellbeing, CategoryVerifiedWalk, CategoryVerifiedBike,
		CategoryVerifiedWaste, CategoryWalk, CategoryWaste:
		return true
	}
	return false
}

// ActionRecord is an immutable fact once appended to the event log.
// Points are fixed at append time and never recomputed.
type ActionRecord struct {
	EventID   string                 `json:"eventId"`
	UserID    string                 `json:"userId"`
	Category  Category               `json:"category"`
	Points    int                    `json:"points"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// DirectoryEntry maps a user to a neighborhood. One neighborhood per
// user, last write wins.
type DirectoryEntry struct {
	UserID       string    `json:"userId"`
	Neighborhood string    `json:"neighborhood"`
	UpdateTime   time.Time `json:"updateTime"`
}

// UserSummary buckets a user's points into the three reporting
// categories. Unverified walk/waste records contribute to no bucket.
type UserSummary struct {
	UserID      string         `json:"user_id"`
	TotalPoints int            `json:"total_points"`
	ByCategory  map[string]int `json:"by_category"`
}

// Summary bucket names.
const (
	BucketTransport = "transport"
	BucketWaste     = "waste"
	BucketWellbeing = "wellbeing"
)

// NeighborhoodSummary aggregates points across a neighborhood's users.
type NeighborhoodSummary struct {
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
	UserCount   int    `json:"user_count"`
}

// CitySummary is the city-wide rollup of all directory users.
type CitySummary struct {
	Neighborhoods      []NeighborhoodSummary `json:"neighborhoods"`
	OverallTotalPoints int                   `json:"overall_total_points"`
}
