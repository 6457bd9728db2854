package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_DayFirst(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"01.02.2025", date(2025, 2, 1)},
		{"1.2.2025", date(2025, 2, 1)},
		{"01.02.25", date(2025, 2, 1)},
		{"03/04/2025", date(2025, 4, 3)},
		{"03-04-2025", date(2025, 4, 3)},
		{"2025-04-03", date(2025, 4, 3)},
		{"2025/04/03", date(2025, 4, 3)},
		{"\"17.02.2025\"", date(2025, 2, 17)},
		{"17.02.2025 09:30:00", date(2025, 2, 17)},
		{"2025-02-17T09:30:00Z", date(2025, 2, 17)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, true)
		require.NoError(t, err, "ParseDate(%q)", tt.in)
		assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestParseDate_MonthFirst(t *testing.T) {
	got, err := ParseDate("03/04/2025", false)
	require.NoError(t, err)
	assert.True(t, date(2025, 3, 4).Equal(got))

	got, err = ParseDate("2025-04-03", false)
	require.NoError(t, err)
	assert.True(t, date(2025, 4, 3).Equal(got))
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "kein Datum", "32.13.2025", "2025-13-01", "99/99/2025"} {
		_, err := ParseDate(in, true)
		require.Error(t, err, "ParseDate(%q)", in)
		assert.ErrorIs(t, err, ErrInvalidDate)
	}
}

func TestParseDate_FallsBackToOtherOrder(t *testing.T) {
	tests := []struct {
		in       string
		dayFirst bool
		want     time.Time
	}{
		{"12/25/2024", true, date(2024, 12, 25)},
		{"01/31/2025", true, date(2025, 1, 31)},
		{"01.13.2025", true, date(2025, 1, 13)},
		{"25/12/2024", false, date(2024, 12, 25)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, tt.dayFirst)
		require.NoError(t, err, "ParseDate(%q)", tt.in)
		assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestParseDate_Textual(t *testing.T) {
	for _, in := range []string{"Jan 5, 2025", "5 Jan 2025", "January 5, 2025"} {
		got, err := ParseDate(in, true)
		require.NoError(t, err, "ParseDate(%q)", in)
		assert.True(t, date(2025, 1, 5).Equal(got), "ParseDate(%q) = %s", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}
