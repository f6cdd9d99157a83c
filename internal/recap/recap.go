// Package recap builds the weekly voice-recap narration text.
package recap

import (
	"fmt"
	"strings"

	"github.com/goldenaura/aura-server/internal/model"
)

// Text renders the recap sentence for a user summary. The strongest
// category is the bucket (or buckets, joined with " and ") holding the
// maximum non-zero value; with nothing logged it falls back to "all
// categories".
func Text(s *model.UserSummary) string {
	transport := s.ByCategory[model.BucketTransport]
	waste := s.ByCategory[model.BucketWaste]
	wellbeing := s.ByCategory[model.BucketWellbeing]

	max := transport
	if waste > max {
		max = waste
	}
	if wellbeing > max {
		max = wellbeing
	}

	var strongest []string
	if max > 0 {
		// Fixed order keeps the sentence deterministic.
		if transport == max {
			strongest = append(strongest, model.BucketTransport)
		}
		if waste == max {
			strongest = append(strongest, model.BucketWaste)
		}
		if wellbeing == max {
			strongest = append(strongest, model.BucketWellbeing)
		}
	}
	strongestText := "all categories"
	if len(strongest) > 0 {
		strongestText = strings.Join(strongest, " and ")
	}

	return fmt.Sprintf(
		"This week, you logged %d transport, %d waste, and %d wellbeing actions. Your Golden Aura is strongest in %s.",
		transport, waste, wellbeing, strongestText,
	)
}
