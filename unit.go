package portfolio

import (
	"fmt"
	"strings"
)

// Unit is a calendar unit used to step through time.
//
// Hours and Minutes are not date-based: schedules and price walks reject them.
type Unit int

const (
	Days Unit = iota
	Weeks
	Months
	Years
	Hours
	Minutes
)

func (u Unit) String() string {
	switch u {
	case Days:
		return "days"
	case Weeks:
		return "weeks"
	case Months:
		return "months"
	case Years:
		return "years"
	case Hours:
		return "hours"
	case Minutes:
		return "minutes"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// IsDateBased reports whether the unit has at least a day granularity.
func (u Unit) IsDateBased() bool { return u >= Days && u <= Years }

// ParseUnit parses a unit name, singular, plural or abbreviated.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "day", "days", "daily":
		return Days, nil
	case "w", "week", "weeks", "weekly":
		return Weeks, nil
	case "m", "month", "months", "monthly":
		return Months, nil
	case "y", "year", "years", "yearly":
		return Years, nil
	case "h", "hour", "hours", "hourly":
		return Hours, nil
	case "min", "minute", "minutes":
		return Minutes, nil
	default:
		return Days, fmt.Errorf("unknown unit %q", s)
	}
}

// UnmarshalText lets units be written by name in scenario files.
func (u *Unit) UnmarshalText(text []byte) error {
	v, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// AddUnit returns d moved by n units. It panics if u is not date-based.
func (d Date) AddUnit(u Unit, n int) Date {
	switch u {
	case Days:
		return d.Add(n)
	case Weeks:
		return d.Add(7 * n)
	case Months:
		return d.AddMonth(n)
	case Years:
		return d.AddMonth(12 * n)
	default:
		panic("unit " + u.String() + " is not date-based")
	}
}

// Between returns the number of complete units between a and b.
//
// The result is negative when b is before a, and truncated toward zero.
func (u Unit) Between(a, b Date) int {
	switch u {
	case Days:
		return a.DaysUntil(b)
	case Weeks:
		return a.DaysUntil(b) / 7
	case Months:
		return monthsBetween(a, b)
	case Years:
		return monthsBetween(a, b) / 12
	case Hours:
		return a.DaysUntil(b) * 24
	case Minutes:
		return a.DaysUntil(b) * 24 * 60
	default:
		panic("unknown unit")
	}
}

func monthsBetween(a, b Date) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	// a month is only complete once the day of month is reached again.
	switch {
	case months > 0 && b.Day() < a.Day():
		months--
	case months < 0 && b.Day() > a.Day():
		months++
	}
	return months
}
