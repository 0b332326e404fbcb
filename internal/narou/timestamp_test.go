package narou

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input     string
		want      time.Time
		wantError bool
	}{
		{input: "2024-05-01T12:00:00+09:00", want: time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)},
		{input: "2024-05-01T12:00:00Z", want: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{input: "2024-05-01T12:00:00.250+09:00", want: time.Date(2024, 5, 1, 3, 0, 0, 250_000_000, time.UTC)},
		{input: "2024-05-01T12:00:00+0900", want: time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)},
		{input: "2024-05-01T12:00:00", want: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{input: "2024-05-01T12:00", want: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{input: "2024-05-01", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{input: "\n  2024-05-01T12:00:00Z  ", want: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{input: "Wed, 01 May 2024 12:00:00 +0900", wantError: true},
		{input: "2024-13-01", wantError: true},
		{input: "", wantError: true},
	}

	for _, tt := range tests {
		got, err := parseTimestamp(tt.input)
		if tt.wantError {
			assert.ErrorIs(t, err, ErrBadTimestamp, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.True(t, tt.want.Equal(got), "input %q: got %v", tt.input, got)
	}
}
