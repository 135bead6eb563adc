package helpers

import (
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"SUN": time.Sunday, "MON": time.Monday, "TUE": time.Tuesday, "WED": time.Wednesday,
	"THU": time.Thursday, "FRI": time.Friday, "SAT": time.Saturday,
}

var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March, "APR": time.April,
	"MAY": time.May, "JUN": time.June, "JUL": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// clock strips a trailing "GMT" and returns the current time in the zone
// the remaining arguments refer to
func (l *Library) clock(args []string) (time.Time, []string) {
	now := l.now()
	if n := len(args); n > 0 && strings.EqualFold(args[n-1], "GMT") {
		return now.UTC(), args[:n-1]
	}
	return now.Local(), args
}

// within reports lo <= v <= hi, wrapping when lo > hi
func within[T int | time.Weekday](v, lo, hi T) bool {
	if lo <= hi {
		return lo <= v && v <= hi
	}
	return v >= lo || v <= hi
}

// WeekdayRange reports whether today falls in wd1..wd2 (or equals wd1)
func (l *Library) WeekdayRange(args ...string) bool {
	now, args := l.clock(args)
	if len(args) == 0 || len(args) > 2 {
		return false
	}

	lo, ok := weekdays[strings.ToUpper(args[0])]
	if !ok {
		return false
	}
	hi := lo
	if len(args) == 2 {
		if hi, ok = weekdays[strings.ToUpper(args[1])]; !ok {
			return false
		}
	}
	return within(now.Weekday(), lo, hi)
}

// dateField is one parsed dateRange argument
type dateField struct {
	day   int
	month time.Month
	year  int
}

func parseDateField(arg string) (dateField, bool) {
	if m, ok := months[strings.ToUpper(arg)]; ok {
		return dateField{month: m}, true
	}
	n, err := strconv.Atoi(arg)
	switch {
	case err != nil || n < 1:
		return dateField{}, false
	case n <= 31:
		return dateField{day: n}, true
	default:
		return dateField{year: n}, true
	}
}

// bound folds the fields of one side of a range into a single spec
func bound(fields []dateField) (dateField, bool) {
	var b dateField
	for _, f := range fields {
		switch {
		case f.day != 0 && b.day == 0:
			b.day = f.day
		case f.month != 0 && b.month == 0:
			b.month = f.month
		case f.year != 0 && b.year == 0:
			b.year = f.year
		default:
			return dateField{}, false
		}
	}
	return b, true
}

func sameShape(a, b dateField) bool {
	return (a.day == 0) == (b.day == 0) && (a.month == 0) == (b.month == 0) && (a.year == 0) == (b.year == 0)
}

// DateRange implements every Netscape form: a single day, month or year,
// or a range between two values of the same shape (day, month, year,
// day+month, month+year, day+month+year). Ranges wrap when the start is
// after the end.
func (l *Library) DateRange(args ...string) bool {
	now, args := l.clock(args)
	if len(args) == 0 || len(args) > 6 {
		return false
	}

	fields := make([]dateField, len(args))
	for i, arg := range args {
		f, ok := parseDateField(arg)
		if !ok {
			return false
		}
		fields[i] = f
	}

	if len(fields) == 1 {
		f := fields[0]
		switch {
		case f.day != 0:
			return now.Day() == f.day
		case f.month != 0:
			return now.Month() == f.month
		default:
			return now.Year() == f.year
		}
	}

	if len(fields)%2 != 0 {
		return false
	}
	lo, ok := bound(fields[:len(fields)/2])
	if !ok {
		return false
	}
	hi, ok := bound(fields[len(fields)/2:])
	if !ok || !sameShape(lo, hi) {
		return false
	}

	// Compare only the fields the script named, most significant first
	key := func(year int, month time.Month, day int) int {
		k := 0
		if lo.year != 0 {
			k = year * 10000
		}
		if lo.month != 0 {
			k += int(month) * 100
		}
		if lo.day != 0 {
			k += day
		}
		return k
	}

	today := key(now.Year(), now.Month(), now.Day())
	start := key(lo.year, lo.month, lo.day)
	end := key(hi.year, hi.month, hi.day)

	// Year ranges never wrap
	if lo.year != 0 && start > end {
		return false
	}
	return within(today, start, end)
}

// TimeRange implements hour, hour range, hour:min range and hour:min:sec
// range forms. A bare hour range includes the start hour and excludes the
// end hour; the finer forms include both ends. All ranges wrap past
// midnight.
func (l *Library) TimeRange(args ...string) bool {
	now, args := l.clock(args)

	nums := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return false
		}
		nums[i] = n
	}

	seconds := func(h, m, s int) int { return h*3600 + m*60 + s }
	current := seconds(now.Hour(), now.Minute(), now.Second())

	switch len(nums) {
	case 1:
		return now.Hour() == nums[0]
	case 2:
		if nums[0] == nums[1] {
			return now.Hour() == nums[0]
		}
		hour := now.Hour()
		if nums[0] < nums[1] {
			return nums[0] <= hour && hour < nums[1]
		}
		return hour >= nums[0] || hour < nums[1]
	case 4:
		return within(current, seconds(nums[0], nums[1], 0), seconds(nums[2], nums[3], 59))
	case 6:
		return within(current, seconds(nums[0], nums[1], nums[2]), seconds(nums[3], nums[4], nums[5]))
	default:
		return false
	}
}
