package helpers

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday 2024-03-13 14:30:15 UTC
var fixedNow = time.Date(2024, time.March, 13, 14, 30, 15, 0, time.UTC)

func TestWeekdayRange(t *testing.T) {
	lib, _ := newLibrary(fixedNow)

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"WED", "GMT"}, true},
		{[]string{"wed", "GMT"}, true},
		{[]string{"THU", "GMT"}, false},
		{[]string{"MON", "FRI", "GMT"}, true},
		{[]string{"THU", "SAT", "GMT"}, false},
		{[]string{"SAT", "WED", "GMT"}, true},
		{[]string{"THU", "TUE", "GMT"}, false},
		{[]string{"XYZ", "GMT"}, false},
		{[]string{"GMT"}, false},
		{[]string{"MON", "TUE", "WED", "GMT"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, lib.WeekdayRange(tt.args...), "%v", tt.args)
	}
}

func TestDateRange(t *testing.T) {
	lib, _ := newLibrary(fixedNow)

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"single day", []string{"13", "GMT"}, true},
		{"other day", []string{"1", "GMT"}, false},
		{"single month", []string{"MAR", "GMT"}, true},
		{"single year", []string{"2024", "GMT"}, true},
		{"other year", []string{"1995", "GMT"}, false},
		{"day range", []string{"1", "15", "GMT"}, true},
		{"day range miss", []string{"14", "20", "GMT"}, false},
		{"day range wraps", []string{"28", "13", "GMT"}, true},
		{"month range", []string{"JAN", "MAR", "GMT"}, true},
		{"month range wraps", []string{"NOV", "MAR", "GMT"}, true},
		{"month range miss", []string{"APR", "OCT", "GMT"}, false},
		{"year range", []string{"2020", "2025", "GMT"}, true},
		{"year range reversed", []string{"2025", "2020", "GMT"}, false},
		{"day month range", []string{"1", "MAR", "13", "MAR", "GMT"}, true},
		{"day month range miss", []string{"14", "MAR", "1", "APR", "GMT"}, false},
		{"day month wraps year end", []string{"1", "DEC", "15", "MAR", "GMT"}, true},
		{"month year range", []string{"JUN", "2023", "MAR", "2024", "GMT"}, true},
		{"full range", []string{"13", "MAR", "2024", "14", "MAR", "2024", "GMT"}, true},
		{"full range past", []string{"1", "JAN", "2023", "31", "DEC", "2023", "GMT"}, false},
		{"mismatched shapes", []string{"1", "MAR", "APR", "GMT"}, false},
		{"odd arity", []string{"1", "2", "3", "GMT"}, false},
		{"garbage", []string{"foo", "GMT"}, false},
		{"no args", []string{"GMT"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lib.DateRange(tt.args...))
		})
	}
}

func TestTimeRange(t *testing.T) {
	lib, _ := newLibrary(fixedNow)

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"current hour", []string{"14", "GMT"}, true},
		{"other hour", []string{"15", "GMT"}, false},
		{"hour range", []string{"9", "17", "GMT"}, true},
		{"end hour excluded", []string{"9", "14", "GMT"}, false},
		{"start hour included", []string{"14", "16", "GMT"}, true},
		{"wraps midnight", []string{"22", "15", "GMT"}, true},
		{"wraps midnight miss", []string{"22", "6", "GMT"}, false},
		{"minute range", []string{"14", "0", "14", "30", "GMT"}, true},
		{"minute range miss", []string{"14", "31", "15", "0", "GMT"}, false},
		{"second range", []string{"14", "30", "0", "14", "30", "15", "GMT"}, true},
		{"second range miss", []string{"14", "30", "16", "14", "31", "0", "GMT"}, false},
		{"bad arity", []string{"1", "2", "3", "GMT"}, false},
		{"negative", []string{"-1", "GMT"}, false},
		{"garbage", []string{"noon", "GMT"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lib.TimeRange(tt.args...))
		})
	}
}

func TestRangesUseLocalTimeWithoutGMT(t *testing.T) {
	lib, _ := newLibrary(fixedNow)
	local := fixedNow.Local()

	assert.True(t, lib.TimeRange(strconv.Itoa(local.Hour())))
	assert.True(t, lib.DateRange(strconv.Itoa(local.Day())))
}
