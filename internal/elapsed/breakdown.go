// Package elapsed computes calendar-aware elapsed time between two instants.
package elapsed

import "time"

// Instant is a calendar date and time of day with no timezone attached.
type Instant struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// InstantOf reads the calendar fields of t in t's own location.
func InstantOf(t time.Time) Instant {
	return Instant{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Breakdown is an approximate decomposition of elapsed time into
// calendar units.
type Breakdown struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IsZero reports whether every field is zero.
func (b Breakdown) IsZero() bool {
	return b == Breakdown{}
}

// Compute subtracts start from end field by field and then applies a
// single borrow pass from seconds up to years. Each borrow is applied at
// most once and earlier fields are never re-checked, so pathological
// inputs (end before start, or a day borrow against a short month) can
// leave negative fields. The day borrow uses the length of the month
// preceding end's month.
func Compute(start, end Instant) Breakdown {
	yr := end.Year - start.Year
	mon := end.Month - start.Month
	day := end.Day - start.Day
	hr := end.Hour - start.Hour
	mn := end.Minute - start.Minute
	sec := end.Second - start.Second

	if sec < 0 {
		sec += 60
		mn--
	}
	if mn < 0 {
		mn += 60
		hr--
	}
	if hr < 0 {
		hr += 24
		day--
	}
	if day < 0 {
		day += DaysInMonth(end.Year, end.Month-1)
		mon--
	}
	if mon < 0 {
		mon += 12
		yr--
	}

	return Breakdown{
		Years:   yr,
		Months:  mon,
		Days:    day,
		Hours:   hr,
		Minutes: mn,
		Seconds: sec,
	}
}

// Between computes the breakdown between two wall-clock readings.
func Between(start, end time.Time) Breakdown {
	return Compute(InstantOf(start), InstantOf(end))
}

// DaysInMonth returns the number of days in the given month. Months
// outside 1..12 roll over into neighbouring years, so month 0 is
// December of the previous year.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
