package parse

import (
	"strconv"
	"time"
)

// expandYear turns a possibly two-digit year into a full one. Two-digit
// years are anchored to the current century; anything below 100 after that
// would predate the documents this service reads, so "24" means 2024 and
// "99" means 2099 rather than 1999.
func expandYear(raw string, now time.Time) (int, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if len(raw) > 2 {
		return v, true
	}
	century := (now.Year() / 100) * 100
	return century + v, true
}

// Date extracts the first day-month-year occurrence from text. A missing
// year falls back to the current one.
func (p *Patterns) ParseDate(text string, now time.Time) (time.Time, bool) {
	m := p.Date.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}

	year := now.Year()
	if m[3] != "" {
		y, ok := expandYear(m[3], now)
		if !ok {
			return time.Time{}, false
		}
		year = y
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// ParseTimeRange extracts a "start-end" lesson slot, tolerating an en dash
// and missing leading zeros. Bounds come back zero-padded so string equality
// works downstream.
func (p *Patterns) ParseTimeRange(text string) (start, end string, ok bool) {
	m := p.Time.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return padClock(m[1]), padClock(m[2]), true
}

func padClock(v string) string {
	if len(v) == 4 {
		return "0" + v
	}
	return v
}

// ParseSlotNum extracts the leading lesson ordinal of a period header cell.
func (p *Patterns) ParseSlotNum(text string) (int, bool) {
	m := p.SlotNum.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
