package validate

import (
	"fmt"
	"regexp"
)

// UserID must be printable, non-empty and reasonably short. The app
// treats identifiers as opaque strings.
var userIDRx = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,64}$`)

func UserID(v string) error {
	if v == "" {
		return fmt.Errorf("user_id is required")
	}
	if !userIDRx.MatchString(v) {
		return fmt.Errorf("user_id must match %s", userIDRx.String())
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func NonNegative(field string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%s must be non-negative", field)
	}
	return nil
}

func Positive(field string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive", field)
	}
	return nil
}

// ActivityMetrics validates the shared verified-walk/bike payload
// fields before any scoring logic runs.
func ActivityMetrics(distanceM, durationS, avgSpeedKmh float64) error {
	if err := Positive("duration_s", durationS); err != nil {
		return err
	}
	if err := NonNegative("distance_m", distanceM); err != nil {
		return err
	}
	if err := NonNegative("avg_speed_kmh", avgSpeedKmh); err != nil {
		return err
	}
	return nil
}

// MaxLen bounds free-text fields such as neighborhood names.
func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}
