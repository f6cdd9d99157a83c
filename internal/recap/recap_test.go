package recap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goldenaura/aura-server/internal/model"
)

func summaryWith(transport, waste, wellbeing int) *model.UserSummary {
	return &model.UserSummary{
		UserID: "u1",
		ByCategory: map[string]int{
			model.BucketTransport: transport,
			model.BucketWaste:     waste,
			model.BucketWellbeing: wellbeing,
		},
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		name                        string
		transport, waste, wellbeing int
		want                        string
	}{
		{
			"single strongest",
			40, 25, 5,
			"This week, you logged 40 transport, 25 waste, and 5 wellbeing actions. Your Golden Aura is strongest in transport.",
		},
		{
			"two-way tie",
			25, 25, 5,
			"This week, you logged 25 transport, 25 waste, and 5 wellbeing actions. Your Golden Aura is strongest in transport and waste.",
		},
		{
			"three-way tie",
			10, 10, 10,
			"This week, you logged 10 transport, 10 waste, and 10 wellbeing actions. Your Golden Aura is strongest in transport and waste and wellbeing.",
		},
		{
			"nothing logged",
			0, 0, 0,
			"This week, you logged 0 transport, 0 waste, and 0 wellbeing actions. Your Golden Aura is strongest in all categories.",
		},
		{
			"wellbeing only",
			0, 0, 10,
			"This week, you logged 0 transport, 0 waste, and 10 wellbeing actions. Your Golden Aura is strongest in wellbeing.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Text(summaryWith(tc.transport, tc.waste, tc.wellbeing))
			assert.Equal(t, tc.want, got)
		})
	}
}
