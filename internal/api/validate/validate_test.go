package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserID(t *testing.T) {
	assert.NoError(t, UserID("u1"))
	assert.NoError(t, UserID("alice.smith_42-x"))
	assert.NoError(t, UserID(strings.Repeat("a", 64)))

	assert.Error(t, UserID(""))
	assert.Error(t, UserID("has spaces"))
	assert.Error(t, UserID("tab\tchar"))
	assert.Error(t, UserID(strings.Repeat("a", 65)))
	assert.Error(t, UserID("émile"))
}

func TestActivityMetrics(t *testing.T) {
	assert.NoError(t, ActivityMetrics(1200, 900, 4.8))
	assert.NoError(t, ActivityMetrics(0, 900, 0), "zero distance and speed are valid telemetry")

	assert.Error(t, ActivityMetrics(1200, 0, 4.8), "duration must be positive")
	assert.Error(t, ActivityMetrics(-1, 900, 4.8))
	assert.Error(t, ActivityMetrics(1200, 900, -0.1))
}

func TestMaxLen(t *testing.T) {
	assert.NoError(t, MaxLen("neighborhood", "Portsmouth", 100))
	assert.Error(t, MaxLen("neighborhood", strings.Repeat("x", 101), 100))
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("text", "hi"))
	err := NonEmpty("text", "")
	assert.EqualError(t, err, "text is required")
}
