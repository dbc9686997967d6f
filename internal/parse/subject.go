package parse

import (
	"strings"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

// FormatClassifier maps cell background colors to lesson formats using
// reference colors from configuration. With Exact set only component-equal
// colors match; otherwise the nearest reference within MaxDistance wins.
type FormatClassifier struct {
	Fulltime    models.Color
	Remote      models.Color
	MaxDistance float64
	Exact       bool
}

// Classify resolves a cell color to a lesson format, FormatUnknown when
// nothing is close enough.
func (fc FormatClassifier) Classify(c models.Color) models.Format {
	if fc.Exact {
		switch {
		case c.Equal(fc.Fulltime):
			return models.FormatFulltime
		case c.Equal(fc.Remote):
			return models.FormatRemote
		default:
			return models.FormatUnknown
		}
	}

	dFull := c.DistanceTo(fc.Fulltime)
	dRemote := c.DistanceTo(fc.Remote)

	switch {
	case dFull <= dRemote && dFull <= fc.MaxDistance:
		return models.FormatFulltime
	case dRemote < dFull && dRemote <= fc.MaxDistance:
		return models.FormatRemote
	default:
		return models.FormatUnknown
	}
}

// GroupSubject decomposes a group-view cell: the subject name comes first,
// then teacher or vacancy mentions with optional cabinet annotations. Cells
// without any mention may still end with a room designator, which becomes
// the subject-level cabinet.
func (p *Patterns) GroupSubject(m models.SubjectMapping, format models.Format) models.Subject {
	text := m.Cell.Text

	subj := models.Subject{
		Raw:    text,
		Num:    m.NumTime.Num,
		Time:   m.NumTime.Time,
		Format: format,
	}

	if start, attenders, ok := p.Attenders(text); ok {
		subj.Name = p.trimFragment(text[:start])
		subj.Attenders = attenders
		return subj
	}

	name := strings.TrimSpace(text)
	if tail := p.CabinetTail.FindString(name); tail != "" {
		subj.Cabinet.Primary = strings.TrimSpace(tail)
		name = strings.TrimSpace(strings.TrimSuffix(name, tail))
	}
	subj.Name = p.trimFragment(name)
	return subj
}

// TeacherSubject decomposes a teacher-view cell: group codes lead the text,
// possibly as an abbreviated sequence, and the remainder is the subject
// name with an optional trailing room designator.
func (p *Patterns) TeacherSubject(m models.SubjectMapping, format models.Format) models.Subject {
	text := m.Cell.Text

	subj := models.Subject{
		Raw:    text,
		Num:    m.NumTime.Num,
		Time:   m.NumTime.Time,
		Format: format,
	}

	rest := text
	if matches, consumed, ok := p.MultiGroups(text); ok {
		for _, g := range matches {
			subj.Attenders = append(subj.Attenders, models.Attender{
				Raw:  text[g.Start:g.End],
				Kind: models.AttenderGroup,
				Name: g.Name,
			})
		}
		rest = text[consumed:]
	}

	name := strings.TrimSpace(rest)
	if tail := p.CabinetTail.FindString(name); tail != "" {
		subj.Cabinet.Primary = strings.TrimSpace(tail)
		name = strings.TrimSpace(strings.TrimSuffix(name, tail))
	}
	subj.Name = p.trimFragment(name)
	return subj
}
