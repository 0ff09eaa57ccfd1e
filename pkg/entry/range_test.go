package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		input   string
		want    Range
		wantErr bool
	}{
		{input: "10", want: Range{Count: 10, Unit: Entries}},
		{input: "3h", want: Range{Count: 3, Unit: Hours}},
		{input: "3Hours", want: Range{Count: 3, Unit: Hours}},
		{input: "1day", want: Range{Count: 1, Unit: Days}},
		{input: "d", want: Range{Count: 0, Unit: Days}},
		{input: "2months", want: Range{Count: 2, Unit: Months}},
		{input: "0m", want: Range{Count: 0, Unit: Months}},
		{input: "0", wantErr: true},
		{input: "", wantErr: true},
		{input: "5weeks", wantErr: true},
		{input: "-1d", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRange_Since(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, time.March, 15, 14, 30, 0, 0, loc)

	assert.Equal(t, now.Add(-2*time.Hour), Range{Count: 2, Unit: Hours}.Since(now, loc))
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, loc), Range{Count: 0, Unit: Days}.Since(now, loc))
	assert.Equal(t, time.Date(2025, time.March, 13, 0, 0, 0, 0, loc), Range{Count: 2, Unit: Days}.Since(now, loc))
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, loc), Range{Count: 0, Unit: Months}.Since(now, loc))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, loc), Range{Count: 2, Unit: Months}.Since(now, loc))
	assert.True(t, Range{Count: 5, Unit: Entries}.Since(now, loc).IsZero())
}

func TestRange_Select(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, time.March, 15, 14, 0, 0, 0, loc)
	entries := []Entry{
		End{Time: now.Add(-48 * time.Hour)},
		End{Time: now.Add(-3 * time.Hour)},
		End{Time: now.Add(-1 * time.Hour)},
	}

	assert.Equal(t, entries[1:], Range{Count: 2, Unit: Entries}.Select(entries, now, loc))
	assert.Equal(t, entries, Range{Count: 20, Unit: Entries}.Select(entries, now, loc))
	assert.Equal(t, entries[2:], Range{Count: 2, Unit: Hours}.Select(entries, now, loc))
	assert.Equal(t, entries[1:], Range{Count: 0, Unit: Days}.Select(entries, now, loc))
	assert.Nil(t, Range{Count: 0, Unit: Hours}.Select(entries, now, loc))
}

func TestRange_String(t *testing.T) {
	assert.Equal(t, "10", Range{Count: 10}.String())
	assert.Equal(t, "0m", Range{Unit: Months}.String())
}
