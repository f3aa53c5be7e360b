package couple

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan("basic")
	require.NoError(t, err)
	require.Equal(t, PlanBasic, p)

	p, err = ParsePlan(" Pro ")
	require.NoError(t, err)
	require.Equal(t, PlanPro, p)

	_, err = ParsePlan("")
	require.ErrorIs(t, err, ErrInvalidPlan)
	_, err = ParsePlan("premium")
	require.ErrorIs(t, err, ErrInvalidPlan)
}

func TestParseAnniversary(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := ParseAnniversary("2020-06-15", "", loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2020, 6, 15, 0, 0, 0, 0, loc), got)

	got, err = ParseAnniversary("2020-06-15", "21:30", loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2020, 6, 15, 21, 30, 0, 0, loc), got)

	got, err = ParseAnniversary("2020-06-15", "21:30:05", loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2020, 6, 15, 21, 30, 5, 0, loc), got)

	_, err = ParseAnniversary("2020-02-30", "", loc)
	require.ErrorIs(t, err, ErrInvalidAnniversary)
}

func TestVideoID(t *testing.T) {
	tests := map[string]string{
		"":                                               "",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":     "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=1": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                    "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":       "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":      "dQw4w9WgXcQ",
		"https://example.com/video":                       "",
	}
	for raw, want := range tests {
		require.Equal(t, want, VideoID(raw), raw)
	}
}

func TestPhotoKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	require.Equal(t, "1700000000123-0-my_photo.jpg", photoKey(now, 0, "my photo.jpg"))
	require.Equal(t, "1700000000123-2-evil.jpg", photoKey(now, 2, `..\..\evil.jpg`))
	require.Equal(t, "1700000000123-3-photo", photoKey(now, 3, ""))
}
