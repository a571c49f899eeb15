package market

import "time"

// full-day NYSE closures, observed dates
var usHolidays = map[string]bool{
	"2024-01-01": true, // New Year's Day
	"2024-01-15": true, // MLK Day
	"2024-02-19": true, // Presidents Day
	"2024-03-29": true, // Good Friday
	"2024-05-27": true, // Memorial Day
	"2024-06-19": true, // Juneteenth
	"2024-07-04": true, // Independence Day
	"2024-09-02": true, // Labor Day
	"2024-11-28": true, // Thanksgiving
	"2024-12-25": true, // Christmas

	"2025-01-01": true,
	"2025-01-20": true,
	"2025-02-17": true,
	"2025-04-18": true,
	"2025-05-26": true,
	"2025-06-19": true,
	"2025-07-04": true,
	"2025-09-01": true,
	"2025-11-27": true,
	"2025-12-25": true,

	"2026-01-01": true,
	"2026-01-19": true,
	"2026-02-16": true,
	"2026-04-03": true,
	"2026-05-25": true,
	"2026-06-19": true,
	"2026-07-03": true,
	"2026-09-07": true,
	"2026-11-26": true,
	"2026-12-25": true,

	"2027-01-01": true,
	"2027-01-18": true,
	"2027-02-15": true,
	"2027-03-26": true,
	"2027-05-31": true,
	"2027-06-18": true,
	"2027-07-05": true,
	"2027-09-06": true,
	"2027-11-25": true,
	"2027-12-24": true,
}

// IsUSHoliday reports whether the calendar date of t is a market holiday
func IsUSHoliday(t time.Time) bool {
	return usHolidays[t.Format("2006-01-02")]
}
