package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"0.5", 50, false},
		{"100", 10000, false},
		{"-42.50", -4250, false},
		{"+7", 700, false},
		{"0", 0, false},
		{"12.344", 1234, false}, // rounds down
		{"12.345", 1235, false}, // rounds up (half-up)
		{"12.346", 1235, false}, // rounds up
		{".99", 99, false},
		{"", 0, true},
		{"abc", 0, true},
		{"12.34.56", 0, true},
		{"12a", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCents(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParsePositiveCents(t *testing.T) {
	got, err := ParsePositiveCents("42.50")
	require.NoError(t, err)
	assert.Equal(t, int64(4250), got)

	_, err = ParsePositiveCents("-42.50")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParsePositiveCents("+42.50")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParsePositiveCents("0")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "12.34", FormatCents(1234))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "-3.50", FormatCents(-350))
	assert.Equal(t, "100.00", FormatCents(10000))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, -6789} {
		parsed, err := ParseCents(FormatCents(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, parsed)
	}
}
