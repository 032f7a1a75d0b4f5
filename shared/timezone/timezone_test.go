package timezone_test

import (
	"hostel/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { timezone.Init("UTC") })

	timezone.Init("Africa/Accra")
	assert.Equal(t, "Africa/Accra", timezone.GetLocation().String())

	timezone.Init("Not/AZone")
	assert.Equal(t, time.UTC, timezone.GetLocation())

	timezone.Init("")
	assert.Equal(t, time.UTC, timezone.GetLocation())
}

func TestFormat(t *testing.T) {
	timezone.Init("UTC")

	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01 12:00:00", timezone.Format(testTime, "2006-01-02 15:04:05"))
	assert.Empty(t, timezone.Format(time.Time{}, time.RFC3339))
	assert.False(t, timezone.Now().IsZero())
}
