package compare

import (
	"strconv"
	"time"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

// PageCompare is the detailed diff of two schedule pages of the same kind.
type PageCompare struct {
	Kind        models.Kind        `json:"kind"`
	Appeared    []models.Formation `json:"appeared"`
	Disappeared []models.Formation `json:"disappeared"`
	Changed     []FormationCompare `json:"changed"`
}

// FormationCompare is the diff of one group or teacher across snapshots.
type FormationCompare struct {
	Name        string       `json:"name"`
	Appeared    []models.Day `json:"appeared"`
	Disappeared []models.Day `json:"disappeared"`
	Changed     []DayCompare `json:"changed"`
}

// DayCompare is the diff of one calendar date inside a formation.
type DayCompare struct {
	Date        time.Time        `json:"date"`
	Appeared    []models.Subject `json:"appeared"`
	Disappeared []models.Subject `json:"disappeared"`
	Changed     []SubjectCompare `json:"changed"`
}

// SubjectCompare is the field-level diff of one lesson slot. Only fields
// that actually differ carry both sides; the rest stay nil.
type SubjectCompare struct {
	Num       int                          `json:"num"`
	Name      *Primitive[string]           `json:"name,omitempty"`
	Time      *Primitive[models.TimeRange] `json:"time,omitempty"`
	Format    *Primitive[models.Format]    `json:"format,omitempty"`
	Cabinet   *Primitive[models.Cabinet]   `json:"cabinet,omitempty"`
	Attenders *Changes[models.Attender]    `json:"attenders,omitempty"`
}

func (c PageCompare) HasChanges() bool {
	return len(c.Appeared) > 0 || len(c.Disappeared) > 0 || len(c.Changed) > 0
}

func (c FormationCompare) HasChanges() bool {
	return len(c.Appeared) > 0 || len(c.Disappeared) > 0 || len(c.Changed) > 0
}

func (c DayCompare) HasChanges() bool {
	return len(c.Appeared) > 0 || len(c.Disappeared) > 0 || len(c.Changed) > 0
}

func (c SubjectCompare) HasChanges() bool {
	return c.Name != nil || c.Time != nil || c.Format != nil ||
		c.Cabinet != nil || (c.Attenders != nil && c.Attenders.HasChanges())
}

// Pages produces the detailed diff between two snapshots of one page kind.
// A nil side stands for an absent snapshot, making everything on the other
// side appear or disappear.
func Pages(oldP, newP *models.Page) PageCompare {
	var oldF, newF []models.Formation
	kind := models.Kind("")

	if oldP != nil {
		oldF = oldP.Formations
		kind = oldP.Kind
	}
	if newP != nil {
		newF = newP.Formations
		kind = newP.Kind
	}

	c := PageCompare{Kind: kind}
	c.Appeared, c.Disappeared, c.Changed = detailed(oldF, newF, formationKey, compareFormations)
	return c
}

func compareFormations(oldF, newF models.Formation) FormationCompare {
	c := FormationCompare{Name: newF.Name}
	c.Appeared, c.Disappeared, c.Changed = detailed(oldF.Days, newF.Days, dayKey, compareDays)
	return c
}

func compareDays(oldD, newD models.Day) DayCompare {
	c := DayCompare{Date: newD.Date}
	c.Appeared, c.Disappeared, c.Changed = detailed(oldD.Subjects, newD.Subjects, subjectKey, compareSubjects)
	return c
}

func compareSubjects(oldS, newS models.Subject) SubjectCompare {
	c := SubjectCompare{Num: newS.Num}

	if oldS.Name != newS.Name {
		c.Name = primitivePtr(oldS.Name, newS.Name)
	}
	if oldS.Time != newS.Time {
		c.Time = primitivePtr(oldS.Time, newS.Time)
	}
	if oldS.Format != newS.Format {
		c.Format = primitivePtr(oldS.Format, newS.Format)
	}
	if oldS.Cabinet != newS.Cabinet {
		c.Cabinet = primitivePtr(oldS.Cabinet, newS.Cabinet)
	}
	if att := Flat(oldS.Attenders, newS.Attenders, attenderKey); att.HasChanges() {
		c.Attenders = &att
	}

	return c
}

func primitivePtr[T any](oldV, newV T) *Primitive[T] {
	p := NewPrimitive(&oldV, &newV)
	return &p
}

func formationKey(f models.Formation) string { return f.Name }

func dayKey(d models.Day) string { return d.Date.Format("2006-01-02") }

func subjectKey(s models.Subject) string { return strconv.Itoa(s.Num) }

// attenderKey includes the kind so a vacancy replaced by a named teacher
// reads as disappear plus appear rather than an in-place change.
func attenderKey(a models.Attender) string { return string(a.Kind) + ":" + a.Name }
