package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  Period
	}{
		{"", Period{time.March, 2025}},
		{"este mes", Period{time.March, 2025}},
		{"last month", Period{time.February, 2025}},
		{"mes pasado", Period{time.February, 2025}},
		{"2024-11", Period{time.November, 2024}},
		{"2025-1", Period{time.January, 2025}},
		{"07/2024", Period{time.July, 2024}},
		{"Marzo", Period{time.March, 2025}},
		{"marzo 2024", Period{time.March, 2024}},
		{"septiembre de 2024", Period{time.September, 2024}},
		{"december 2024", Period{time.December, 2024}},
		{"Jan", Period{time.January, 2025}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriod(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePeriod_LastMonthInJanuary(t *testing.T) {
	now := time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC)
	got, err := ParsePeriod("last month", now)
	require.NoError(t, err)
	assert.Equal(t, Period{time.December, 2024}, got)
}

func TestParsePeriod_Natural(t *testing.T) {
	now := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	got, err := ParsePeriod("yesterday", now)
	require.NoError(t, err)
	assert.Equal(t, Period{time.February, 2025}, got)
}

func TestParsePeriod_Invalid(t *testing.T) {
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	for _, input := range []string{"2025-13", "13/2025", "1999-05", "blorp"} {
		_, err := ParsePeriod(input, now)
		assert.Error(t, err, input)
	}
}

func TestPeriodRange(t *testing.T) {
	p := Period{Month: time.December, Year: 2024}
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), p.Start(time.UTC))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), p.End(time.UTC))
	assert.Equal(t, "2024-12", p.String())
}
