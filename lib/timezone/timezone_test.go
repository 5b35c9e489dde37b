package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowIsTornCityTime(t *testing.T) {
	require.Equal(t, time.UTC, Now().Location())
}

func TestAge(t *testing.T) {
	now := time.Date(2024, time.August, 26, 12, 0, 0, 0, Location)

	cases := []struct {
		t      time.Time
		expect time.Duration
	}{
		{t: now.Add(-time.Hour), expect: time.Hour},
		{t: now, expect: 0},
		{t: now.Add(time.Minute), expect: 0},
		{t: now.AddDate(0, 0, -8), expect: 8 * 24 * time.Hour},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, Age(now, test.t))
	}
}
