package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "days only", input: "2d", want: 48 * time.Hour},
		{name: "mixed", input: "1d12h", want: 36 * time.Hour},
		{name: "with spaces", input: "1h 30m 15s", want: time.Hour + 30*time.Minute + 15*time.Second},
		{name: "uppercase", input: "5M", want: 5 * time.Minute},
		{name: "empty", input: "", wantErr: true},
		{name: "no unit", input: "15", wantErr: true},
		{name: "unit without number", input: "d", wantErr: true},
		{name: "garbage", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{36 * time.Hour, "1 day 12 hours"},
		{90 * time.Second, "1 minute 30 seconds"},
		{time.Hour, "1 hour"},
		{0, "0 seconds"},
		{500 * time.Millisecond, "less than a second"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.input))
	}
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, "1st", Ordinal(1))
	assert.Equal(t, "2nd", Ordinal(2))
	assert.Equal(t, "3rd", Ordinal(3))
	assert.Equal(t, "11th", Ordinal(11))
	assert.Equal(t, "13th", Ordinal(13))
	assert.Equal(t, "22nd", Ordinal(22))
	assert.Equal(t, "104th", Ordinal(104))
}
