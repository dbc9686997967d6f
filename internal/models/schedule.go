package models

import (
	"time"
)

// Kind tells which perspective a schedule page describes.
type Kind string

const (
	KindGroups   Kind = "groups"
	KindTeachers Kind = "teachers"
)

// Scope tells how wide the date range of a page is.
type Scope string

const (
	ScopeWeekly Scope = "weekly"
	ScopeDaily  Scope = "daily"
)

// Format is the lesson delivery format, recovered from cell background color.
type Format string

const (
	FormatFulltime Format = "fulltime"
	FormatRemote   Format = "remote"
	FormatUnknown  Format = "unknown"
)

// AttenderKind tells what a subject attender reference points at.
type AttenderKind string

const (
	AttenderTeacher AttenderKind = "teacher"
	AttenderGroup   AttenderKind = "group"
	AttenderVacancy AttenderKind = "vacancy"
)

// TimeRange is a lesson time slot, both bounds formatted as "HH:MM".
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Cabinet holds the room assignment for an attender or subject.
//
// Primary comes from the schedule this object was parsed from. Opposite is
// filled during complement from the other perspective: a group's subject gets
// the cabinet the teacher schedule claims, and vice versa. A mismatch between
// the two means the source documents disagree.
type Cabinet struct {
	Primary  string `json:"primary,omitempty"`
	Opposite string `json:"opposite,omitempty"`
}

// Swapped returns a copy with primary and opposite exchanged.
func (c Cabinet) Swapped() Cabinet {
	return Cabinet{Primary: c.Opposite, Opposite: c.Primary}
}

// Matches reports whether both perspectives agree on the room.
func (c Cabinet) Matches() bool {
	return c.Primary == c.Opposite
}

// Attender is a single teacher, group or vacancy mention inside a subject.
type Attender struct {
	Raw     string       `json:"raw" hash:"ignore"`
	Kind    AttenderKind `json:"kind"`
	Name    string       `json:"name"`
	Cabinet Cabinet      `json:"cabinet"`
}

// Subject is one lesson slot. Identity within a day is the slot number.
type Subject struct {
	Raw       string     `json:"raw" hash:"ignore"`
	Name      string     `json:"name"`
	Num       int        `json:"num"`
	Time      TimeRange  `json:"time"`
	Format    Format     `json:"format"`
	Attenders []Attender `json:"attenders"`
	Cabinet   Cabinet    `json:"cabinet"`
}

// Day groups the subjects of one calendar date. Identity is the date.
type Day struct {
	Raw      string    `json:"raw" hash:"ignore"`
	Weekday  Weekday   `json:"weekday"`
	Date     time.Time `json:"date"`
	Subjects []Subject `json:"subjects"`
}

// Formation is either a student group or a teacher, depending on the page
// kind. Identity is the canonical name.
type Formation struct {
	Raw  string `json:"raw" hash:"ignore"`
	Name string `json:"name"`
	Days []Day  `json:"days"`
}

// Page is a fully parsed schedule for one perspective.
type Page struct {
	Raw        string      `json:"raw" hash:"ignore"`
	Kind       Kind        `json:"kind"`
	Scope      Scope       `json:"scope"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
	Formations []Formation `json:"formations"`
}

// ContainsDate reports whether the page's date range covers the given date.
func (p *Page) ContainsDate(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Formation returns the formation with the given canonical name, or nil.
func (p *Page) Formation(name string) *Formation {
	for i := range p.Formations {
		if p.Formations[i].Name == name {
			return &p.Formations[i]
		}
	}
	return nil
}

// Day returns the day with the given date, or nil.
func (f *Formation) Day(date time.Time) *Day {
	for i := range f.Days {
		if f.Days[i].Date.Equal(date) {
			return &f.Days[i]
		}
	}
	return nil
}

// Subject returns the subject with the given slot number, or nil.
func (d *Day) Subject(num int) *Subject {
	for i := range d.Subjects {
		if d.Subjects[i].Num == num {
			return &d.Subjects[i]
		}
	}
	return nil
}
