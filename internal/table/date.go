package table

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// SerialDateThreshold is the spreadsheet serial for 1970-01-01 with the
// 1899-12-30 epoch. Larger numbers are treated as serial dates.
const SerialDateThreshold = 25569

var dateLayouts = []string{
	time.RFC3339, time.RFC3339Nano, "2006-01-02", "2006/01/02", "01/02/2006", "02/01/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05", "1/2/2006", "1/2/2006 15:04",
	"1/2/2006 15:04:05", "2006-01", "Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "02-Jan-2006",
	"Jan 2006", time.RFC1123, time.RFC1123Z,
}

// ParseDateString parses the calendar-date formats accepted for text cells.
func ParseDateString(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SerialToTime converts a spreadsheet serial date to UTC.
func SerialToTime(serial float64) (time.Time, error) {
	return excelize.ExcelDateToTime(serial, false)
}

// ParseDate interprets a cell as a date: Numbers above SerialDateThreshold
// as serial dates, Text via ParseDateString.
func ParseDate(c Cell) (time.Time, bool) {
	switch c.Kind() {
	case Number:
		if c.Float() <= SerialDateThreshold {
			return time.Time{}, false
		}
		t, err := SerialToTime(c.Float())
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case Text:
		return ParseDateString(c.String())
	default:
		return time.Time{}, false
	}
}

// IsDateLike reports whether ParseDate would accept c.
func IsDateLike(c Cell) bool {
	_, ok := ParseDate(c)
	return ok
}
