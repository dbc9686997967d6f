// Package merge cross-populates group and teacher schedule pages and folds
// several pages of one kind into a single one.
//
// The two perspectives of the same timetable each carry data the other one
// lacks: group pages have full subject names, teacher pages have the room
// the teacher claims. Complement moves both across.
package merge

import (
	"fmt"
	"time"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

// InvalidKindError reports a page passed on the wrong side of Complement.
type InvalidKindError struct {
	Kind models.Kind
}

func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("merge: unexpected page kind %q", e.Kind)
}

// NonOverlappingDatesError reports pages whose date ranges never intersect,
// naming the kind of the page that is further ahead.
type NonOverlappingDatesError struct {
	Latest models.Kind
}

func (e *NonOverlappingDatesError) Error() string {
	return fmt.Sprintf("merge: page date ranges do not overlap, %s page is ahead", e.Latest)
}

// Complement mutates both pages in place:
//
//   - teacher subjects take the full subject name the group page has;
//   - the group attender of a teacher subject and the teacher attender of
//     the matching group subject exchange cabinets through the opposite
//     slot, so disagreements between the documents stay visible;
//   - a teacher subject missing its group attender gets one synthesized
//     from the group side, cabinet swapped.
func Complement(groups, teachers *models.Page) error {
	if groups.Kind != models.KindGroups {
		return &InvalidKindError{Kind: groups.Kind}
	}
	if teachers.Kind != models.KindTeachers {
		return &InvalidKindError{Kind: teachers.Kind}
	}

	if !teachers.ContainsDate(groups.StartDate) {
		latest := models.KindTeachers
		if groups.StartDate.After(teachers.EndDate) {
			latest = models.KindGroups
		}
		return &NonOverlappingDatesError{Latest: latest}
	}

	for gi := range groups.Formations {
		group := &groups.Formations[gi]
		for di := range group.Days {
			groupDay := &group.Days[di]
			for si := range groupDay.Subjects {
				groupSubject := &groupDay.Subjects[si]
				for ai := range groupSubject.Attenders {
					complementAttender(group, groupDay, groupSubject, &groupSubject.Attenders[ai], teachers)
				}
			}
		}
	}

	return nil
}

// complementAttender resolves one teacher mention of a group subject
// against the teacher page and exchanges what both sides know.
func complementAttender(group *models.Formation, groupDay *models.Day, groupSubject *models.Subject, groupAttender *models.Attender, teachers *models.Page) {
	if groupAttender.Kind != models.AttenderTeacher {
		return
	}

	teacher := teachers.Formation(groupAttender.Name)
	if teacher == nil {
		return
	}
	teacherDay := teacher.Day(groupDay.Date)
	if teacherDay == nil {
		return
	}
	teacherSubject := teacherDay.Subject(groupSubject.Num)
	if teacherSubject == nil {
		return
	}

	// Group pages carry the full subject wording.
	teacherSubject.Name = groupSubject.Name

	teacherAttender := findAttender(teacherSubject.Attenders, models.AttenderGroup, group.Name)
	if teacherAttender == nil {
		teacherSubject.Attenders = append(teacherSubject.Attenders, models.Attender{
			Raw:     group.Raw,
			Kind:    models.AttenderGroup,
			Name:    group.Name,
			Cabinet: groupAttender.Cabinet.Swapped(),
		})
		return
	}

	teacherCabinet := teacherSubject.Cabinet.Primary
	if teacherCabinet == "" {
		teacherCabinet = teacherAttender.Cabinet.Primary
	}
	teacherAttender.Cabinet.Opposite = groupAttender.Cabinet.Primary
	groupAttender.Cabinet.Opposite = teacherCabinet
}

func findAttender(attenders []models.Attender, kind models.AttenderKind, name string) *models.Attender {
	for i := range attenders {
		if attenders[i].Kind == kind && attenders[i].Name == name {
			return &attenders[i]
		}
	}
	return nil
}

// Combine folds pages of one kind into a single page covering the given
// date range. Formations, days and subjects merge by identity; colliding
// subjects union their attenders and concatenate disagreeing cabinets.
func Combine(pages []*models.Page, start, end time.Time, kind models.Kind) *models.Page {
	combined := &models.Page{
		Kind:      kind,
		Scope:     models.ScopeWeekly,
		StartDate: start,
		EndDate:   end,
	}

	for _, page := range pages {
		if page == nil {
			continue
		}
		for _, formation := range page.Formations {
			existing := combined.Formation(formation.Name)
			if existing == nil {
				combined.Formations = append(combined.Formations, formation)
				continue
			}
			combineDays(existing, formation.Days)
		}
	}

	return combined
}

func combineDays(dst *models.Formation, src []models.Day) {
	for _, srcDay := range src {
		existing := dst.Day(srcDay.Date)
		if existing == nil {
			dst.Days = append(dst.Days, srcDay)
			continue
		}
		combineSubjects(existing, srcDay.Subjects)
	}
}

func combineSubjects(dst *models.Day, src []models.Subject) {
	for _, srcSubject := range src {
		existing := findSubject(dst.Subjects, srcSubject.Num, srcSubject.Format)
		if existing == nil {
			dst.Subjects = append(dst.Subjects, srcSubject)
			continue
		}
		combineAttenders(existing, srcSubject.Attenders)
	}
}

func findSubject(subjects []models.Subject, num int, format models.Format) *models.Subject {
	for i := range subjects {
		if subjects[i].Num == num && subjects[i].Format == format {
			return &subjects[i]
		}
	}
	return nil
}

func combineAttenders(dst *models.Subject, src []models.Attender) {
	for _, srcAttender := range src {
		existing := findAttender(dst.Attenders, srcAttender.Kind, srcAttender.Name)
		if existing == nil {
			dst.Attenders = append(dst.Attenders, srcAttender)
			continue
		}
		existing.Cabinet = combineCabinets(existing.Cabinet, srcAttender.Cabinet)
	}
}

// combineCabinets joins disagreeing non-empty rooms with a comma so neither
// claim is lost.
func combineCabinets(dst, src models.Cabinet) models.Cabinet {
	dst.Primary = joinDistinct(dst.Primary, src.Primary)
	dst.Opposite = joinDistinct(dst.Opposite, src.Opposite)
	return dst
}

func joinDistinct(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" || a == b {
		return a
	}
	return a + ", " + b
}
