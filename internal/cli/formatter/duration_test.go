package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeconds(t *testing.T) {
	cases := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{42, "42s"},
		{300, "5m"},
		{3600, "1h00m"},
		{7500, "2h05m"},
		{-60, "0s"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Seconds(tc.secs), "secs=%d", tc.secs)
	}
}

func TestClock(t *testing.T) {
	assert.Equal(t, "0:02:05", Clock(125))
	assert.Equal(t, "1:00:00", Clock(3600))
	assert.Equal(t, "0:00:00", Clock(-5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 30))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
