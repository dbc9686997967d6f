package parse

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

var (
	// ErrNoHeader means no row carries weekday and date cells.
	ErrNoHeader = errors.New("parse: no weekday header row found")
	// ErrNoPeriods means no row carries slot number and time cells.
	ErrNoPeriods = errors.New("parse: no period header row found")
)

// Mapper binds a reconstructed grid to the schedule model. Construct one
// per process and share it; it is stateless beyond configuration.
type Mapper struct {
	patterns         *Patterns
	classifier       FormatClassifier
	weekdayThreshold float64
	now              func() time.Time
	log              *zap.Logger
}

// NewMapper wires a mapper from its dependencies. The now callback supplies
// the reference year for dates missing one.
func NewMapper(p *Patterns, fc FormatClassifier, weekdayThreshold float64, log *zap.Logger) *Mapper {
	return &Mapper{
		patterns:         p,
		classifier:       fc,
		weekdayThreshold: weekdayThreshold,
		now:              time.Now,
		log:              log,
	}
}

// WithNow overrides the time source, for tests that pin the current year.
func (m *Mapper) WithNow(now func() time.Time) *Mapper {
	m.now = now
	return m
}

// Page maps a grid to a schedule page of the given kind and scope.
// Rows above the weekday header and rows whose label cell is not a valid
// formation are ignored; so are filler cells holding only punctuation.
func (m *Mapper) Page(schema [][]models.Cell, kind models.Kind, scope models.Scope) (*models.Page, error) {
	headerIdx, weekdayDates := m.findWeekdayRow(schema)
	if weekdayDates == nil {
		return nil, ErrNoHeader
	}

	periodIdx, numTimes := m.findPeriodRow(schema, headerIdx+1)
	if numTimes == nil {
		return nil, ErrNoPeriods
	}

	mappings := m.bindBody(schema[periodIdx+1:], kind, weekdayDates, numTimes)

	page := m.assemble(mappings, kind, scope)
	page.StartDate, page.EndDate = dateBounds(weekdayDates)
	if len(schema[headerIdx]) > 0 {
		page.Raw = schema[headerIdx][0].Text
	}

	m.log.Debug("mapped schedule page",
		zap.String("kind", string(kind)),
		zap.String("scope", string(scope)),
		zap.Int("formations", len(page.Formations)),
		zap.Int("mappings", len(mappings)),
	)

	return page, nil
}

// findWeekdayRow returns the first row holding at least one cell that
// names both a weekday and a date.
func (m *Mapper) findWeekdayRow(schema [][]models.Cell) (int, []models.WeekdayDate) {
	now := m.now()
	for i, row := range schema {
		var found []models.WeekdayDate
		for _, cell := range row {
			wd, okWd := m.patterns.GuessWeekday(cell.Text, m.weekdayThreshold)
			date, okDate := m.patterns.ParseDate(cell.Text, now)
			if !okWd || !okDate {
				continue
			}
			found = append(found, models.WeekdayDate{
				Cell:    cell,
				Index:   len(found),
				Weekday: wd,
				Date:    date,
			})
		}
		if found != nil {
			return i, found
		}
	}
	return 0, nil
}

// findPeriodRow returns the first row at or after `from` holding at least
// one cell with a slot number and a time range.
func (m *Mapper) findPeriodRow(schema [][]models.Cell, from int) (int, []models.NumTime) {
	for i := from; i < len(schema); i++ {
		var found []models.NumTime
		for _, cell := range schema[i] {
			num, okNum := m.patterns.ParseSlotNum(cell.Text)
			start, end, okTime := m.patterns.ParseTimeRange(cell.Text)
			if !okNum || !okTime {
				continue
			}
			found = append(found, models.NumTime{
				Cell:  cell,
				Index: len(found),
				Num:   num,
				Time:  models.TimeRange{Start: start, End: end},
			})
		}
		if found != nil {
			return i, found
		}
	}
	return 0, nil
}

// bindBody walks the body rows and produces one mapping per covered
// period column of every subject cell. A cell spanning several period
// columns yields several mappings, one per column, each resolved to the
// weekday column above it.
func (m *Mapper) bindBody(rows [][]models.Cell, kind models.Kind, weekdayDates []models.WeekdayDate, numTimes []models.NumTime) []models.SubjectMapping {
	var mappings []models.SubjectMapping

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		label := row[0]
		formation, ok := m.formationName(kind, label.Text)
		if !ok {
			continue
		}

		for _, cell := range row[1:] {
			if m.patterns.Filler.MatchString(cell.Text) {
				continue
			}

			for _, nt := range numTimes {
				if !cell.OverlapsX(nt.Cell) {
					continue
				}
				wd, ok := weekdayFor(weekdayDates, nt)
				if !ok {
					continue
				}
				mappings = append(mappings, models.SubjectMapping{
					Cell:        cell,
					Formation:   formation,
					RawLabel:    label.Text,
					NumTime:     nt,
					WeekdayDate: wd,
				})
			}
		}
	}

	return mappings
}

func (m *Mapper) formationName(kind models.Kind, label string) (string, bool) {
	switch kind {
	case models.KindTeachers:
		return m.patterns.NormalizeTeacher(label)
	default:
		return m.patterns.NormalizeGroup(label)
	}
}

// weekdayFor resolves the weekday column standing above a period column.
func weekdayFor(weekdayDates []models.WeekdayDate, nt models.NumTime) (models.WeekdayDate, bool) {
	for _, wd := range weekdayDates {
		if wd.Cell.CoversX(nt.Cell.X) {
			return wd, true
		}
	}
	return models.WeekdayDate{}, false
}

// assemble folds mappings into the formation/day/subject tree. Formations
// keep document order; days sort by date and subjects by slot number. When
// a spanned cell lands twice on the same slot the first mapping wins.
func (m *Mapper) assemble(mappings []models.SubjectMapping, kind models.Kind, scope models.Scope) *models.Page {
	page := &models.Page{Kind: kind, Scope: scope}

	formationIdx := map[string]int{}
	dayIdx := map[string]map[time.Time]int{}

	for _, mp := range mappings {
		fi, ok := formationIdx[mp.Formation]
		if !ok {
			fi = len(page.Formations)
			formationIdx[mp.Formation] = fi
			dayIdx[mp.Formation] = map[time.Time]int{}
			page.Formations = append(page.Formations, models.Formation{
				Raw:  mp.RawLabel,
				Name: mp.Formation,
			})
		}
		formation := &page.Formations[fi]

		di, ok := dayIdx[mp.Formation][mp.WeekdayDate.Date]
		if !ok {
			di = len(formation.Days)
			dayIdx[mp.Formation][mp.WeekdayDate.Date] = di
			formation.Days = append(formation.Days, models.Day{
				Raw:     mp.WeekdayDate.Cell.Text,
				Weekday: mp.WeekdayDate.Weekday,
				Date:    mp.WeekdayDate.Date,
			})
		}
		day := &formation.Days[di]

		if day.Subject(mp.NumTime.Num) != nil {
			continue
		}

		format := m.classifier.Classify(mp.Cell.Color)
		var subject models.Subject
		if kind == models.KindTeachers {
			subject = m.patterns.TeacherSubject(mp, format)
		} else {
			subject = m.patterns.GroupSubject(mp, format)
		}
		day.Subjects = append(day.Subjects, subject)
	}

	for fi := range page.Formations {
		formation := &page.Formations[fi]
		sort.Slice(formation.Days, func(i, j int) bool {
			return formation.Days[i].Date.Before(formation.Days[j].Date)
		})
		for di := range formation.Days {
			day := &formation.Days[di]
			sort.Slice(day.Subjects, func(i, j int) bool {
				return day.Subjects[i].Num < day.Subjects[j].Num
			})
		}
	}

	return page
}

func dateBounds(weekdayDates []models.WeekdayDate) (start, end time.Time) {
	for i, wd := range weekdayDates {
		if i == 0 || wd.Date.Before(start) {
			start = wd.Date
		}
		if i == 0 || wd.Date.After(end) {
			end = wd.Date
		}
	}
	return start, end
}
