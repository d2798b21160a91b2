package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateScheduleDates_FixedCadences(t *testing.T) {
	start := day(2023, time.January, 1)
	end := day(2023, time.March, 1)

	cases := []struct {
		cadence  Cadence
		stepDays int
	}{
		{CadenceDaily, 1},
		{CadenceWeekly, 7},
		{CadenceBiweekly, 14},
	}

	for _, tc := range cases {
		t.Run(string(tc.cadence), func(t *testing.T) {
			dates, err := GenerateScheduleDates(start, end, tc.cadence)
			require.NoError(t, err)
			require.NotEmpty(t, dates)

			assert.Equal(t, start, dates[0], "schedule must contain the start date")
			for i := 1; i < len(dates); i++ {
				assert.True(t, dates[i].After(dates[i-1]), "dates must be strictly increasing")
				gap := dates[i].Sub(dates[i-1])
				assert.Equal(t, time.Duration(tc.stepDays)*24*time.Hour, gap)
			}
			assert.False(t, dates[len(dates)-1].After(end), "no date may exceed the end")
		})
	}
}

func TestGenerateScheduleDates_MonthlyGaps(t *testing.T) {
	dates, err := GenerateScheduleDates(day(2023, time.January, 15), day(2024, time.January, 15), CadenceMonthly)
	require.NoError(t, err)
	require.Len(t, dates, 13)

	for i := 1; i < len(dates); i++ {
		gap := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		assert.GreaterOrEqual(t, gap, 28)
		assert.LessOrEqual(t, gap, 31)
	}
}

func TestGenerateScheduleDates_MonthlyClampsShortMonths(t *testing.T) {
	dates, err := GenerateScheduleDates(day(2023, time.January, 31), day(2023, time.April, 30), CadenceMonthly)
	require.NoError(t, err)

	expected := []time.Time{
		day(2023, time.January, 31),
		day(2023, time.February, 28), // clamped, not overflowed to March 3
		day(2023, time.March, 31),    // anchor day recovered
		day(2023, time.April, 30),
	}
	assert.Equal(t, expected, dates)
}

func TestGenerateScheduleDates_MonthlyLeapYear(t *testing.T) {
	dates, err := GenerateScheduleDates(day(2024, time.January, 31), day(2024, time.March, 31), CadenceMonthly)
	require.NoError(t, err)

	expected := []time.Time{
		day(2024, time.January, 31),
		day(2024, time.February, 29),
		day(2024, time.March, 31),
	}
	assert.Equal(t, expected, dates)
}

func TestGenerateScheduleDates_MonthlyYearRollover(t *testing.T) {
	dates, err := GenerateScheduleDates(day(2023, time.November, 30), day(2024, time.February, 29), CadenceMonthly)
	require.NoError(t, err)

	expected := []time.Time{
		day(2023, time.November, 30),
		day(2023, time.December, 30),
		day(2024, time.January, 30),
		day(2024, time.February, 29),
	}
	assert.Equal(t, expected, dates)
}

func TestGenerateScheduleDates_EqualStartEnd(t *testing.T) {
	d := day(2023, time.June, 15)
	for _, cadence := range Cadences() {
		dates, err := GenerateScheduleDates(d, d, cadence)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{d}, dates, "equal start and end produce the single first event")
	}
}

func TestGenerateScheduleDates_StartAfterEnd(t *testing.T) {
	_, err := GenerateScheduleDates(day(2023, time.June, 2), day(2023, time.June, 1), CadenceDaily)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestGenerateScheduleDates_UnknownCadence(t *testing.T) {
	_, err := GenerateScheduleDates(day(2023, time.June, 1), day(2023, time.June, 2), Cadence("hourly"))
	assert.ErrorIs(t, err, ErrInvalidCadence)
}

func TestParseCadence(t *testing.T) {
	c, err := ParseCadence("  Monthly ")
	require.NoError(t, err)
	assert.Equal(t, CadenceMonthly, c)

	_, err = ParseCadence("fortnightly")
	assert.ErrorIs(t, err, ErrInvalidCadence)
}
