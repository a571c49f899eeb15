package market

import (
	"fmt"
	"time"
)

// Schedule is the regular session in US Eastern time
type Schedule struct {
	OpenHour  int
	OpenMin   int
	CloseHour int
	CloseMin  int
}

// DefaultSchedule returns NYSE/NASDAQ regular hours
func DefaultSchedule() Schedule {
	return Schedule{
		OpenHour:  9,
		OpenMin:   30,
		CloseHour: 16,
		CloseMin:  0,
	}
}

// Status describes the market at one instant
type Status struct {
	IsOpen      bool          `json:"is_open"`
	Now         time.Time     `json:"now"`
	OpenTime    time.Time     `json:"open_time"`
	CloseTime   time.Time     `json:"close_time"`
	TimeToOpen  time.Duration `json:"time_to_open,omitempty"`
	TimeToClose time.Duration `json:"time_to_close,omitempty"`
	Reason      string        `json:"reason"` // open, pre-market, after-hours, weekend, holiday
}

// Location returns US Eastern time
func Location() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// no tzdata; EST without DST
		loc = time.FixedZone("EST", -5*60*60)
	}
	return loc
}

func (s Schedule) open(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.OpenHour, s.OpenMin, 0, 0, day.Location())
}

func (s Schedule) close(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.CloseHour, s.CloseMin, 0, 0, day.Location())
}

// StatusAt reports the market status at now
func (s Schedule) StatusAt(now time.Time) Status {
	now = now.In(Location())
	today := midnight(now)

	st := Status{
		Now:       now,
		OpenTime:  s.open(today),
		CloseTime: s.close(today),
	}

	switch {
	case now.Weekday() == time.Saturday || now.Weekday() == time.Sunday:
		st.Reason = "weekend"
	case IsUSHoliday(now):
		st.Reason = "holiday"
	case now.Before(st.OpenTime):
		st.Reason = "pre-market"
	case !now.Before(st.CloseTime):
		st.Reason = "after-hours"
	default:
		st.IsOpen = true
		st.Reason = "open"
		st.TimeToClose = st.CloseTime.Sub(now)
		return st
	}

	next := today
	if st.Reason != "pre-market" {
		next = nextTradingDay(today)
	}
	st.TimeToOpen = s.open(next).Sub(now)
	return st
}

// LastSession returns the date (midnight Eastern) of the most recent
// trading day whose session has closed by now.
func (s Schedule) LastSession(now time.Time) time.Time {
	now = now.In(Location())
	day := midnight(now)
	if !IsTradingDay(day) || now.Before(s.close(day)) {
		day = prevTradingDay(day)
	}
	return day
}

// IsStale reports whether a daily bar dated asOf trails the last closed
// session at now by more than maxLag sessions. Bars are compared by their
// Eastern calendar date.
func (s Schedule) IsStale(asOf, now time.Time, maxLag int) bool {
	if asOf.IsZero() {
		return true
	}
	limit := s.LastSession(now)
	for i := 0; i < maxLag; i++ {
		limit = prevTradingDay(limit)
	}
	return midnight(asOf.In(Location())).Before(limit)
}

// IsTradingDay reports whether t falls on a weekday that is not a holiday
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday && !IsUSHoliday(t)
}

func nextTradingDay(day time.Time) time.Time {
	for {
		day = day.AddDate(0, 0, 1)
		if IsTradingDay(day) {
			return day
		}
	}
}

func prevTradingDay(day time.Time) time.Time {
	for {
		day = day.AddDate(0, 0, -1)
		if IsTradingDay(day) {
			return day
		}
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDuration formats d as "3h 20m" or "45m"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "0s"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
