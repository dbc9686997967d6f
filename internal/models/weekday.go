package models

import "time"

// Weekday is a day-of-week with Monday as the zero value, matching the
// column order of the source documents.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayRussian = [...]string{
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
	"Воскресенье",
}

var weekdayEnglish = [...]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// Weekdays lists all weekdays in source column order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return "unknown"
	}
	return weekdayEnglish[w]
}

// Russian returns the full Russian name used in document headers.
func (w Weekday) Russian() string {
	if w < Monday || w > Sunday {
		return ""
	}
	return weekdayRussian[w]
}

// WeekdayOf converts a calendar date to its Weekday.
func WeekdayOf(d time.Time) Weekday {
	switch d.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}
