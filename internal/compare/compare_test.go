package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

func day(date time.Time, subjects ...models.Subject) models.Day {
	return models.Day{
		Weekday:  models.WeekdayOf(date),
		Date:     date,
		Subjects: subjects,
	}
}

func subject(num int, name string, attenders ...models.Attender) models.Subject {
	return models.Subject{
		Name:      name,
		Num:       num,
		Time:      models.TimeRange{Start: "08:00", End: "09:30"},
		Format:    models.FormatFulltime,
		Attenders: attenders,
	}
}

func teacher(name, cabinet string) models.Attender {
	return models.Attender{
		Kind:    models.AttenderTeacher,
		Name:    name,
		Cabinet: models.Cabinet{Primary: cabinet},
	}
}

func page(formations ...models.Formation) *models.Page {
	return &models.Page{
		Kind:       models.KindGroups,
		Scope:      models.ScopeWeekly,
		Formations: formations,
	}
}

var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPagesIdenticalSnapshots(t *testing.T) {
	build := func() *models.Page {
		return page(models.Formation{
			Name: "1КДД69",
			Days: []models.Day{day(monday, subject(1, "Математика", teacher("Иванова А.А.", "14")))},
		})
	}

	diff := Pages(build(), build())
	assert.False(t, diff.HasChanges())
}

func TestPagesRawTextIgnored(t *testing.T) {
	oldP := page(models.Formation{Raw: "1кдд69", Name: "1КДД69", Days: []models.Day{day(monday)}})
	newP := page(models.Formation{Raw: "1КДД-69 ", Name: "1КДД69", Days: []models.Day{day(monday)}})

	assert.False(t, Pages(oldP, newP).HasChanges())
}

func TestPagesFormationAppearedDisappeared(t *testing.T) {
	oldP := page(
		models.Formation{Name: "1КДД69"},
		models.Formation{Name: "2КДД70"},
	)
	newP := page(
		models.Formation{Name: "2КДД70"},
		models.Formation{Name: "3КДД48"},
	)

	diff := Pages(oldP, newP)
	require.True(t, diff.HasChanges())
	require.Len(t, diff.Appeared, 1)
	assert.Equal(t, "3КДД48", diff.Appeared[0].Name)
	require.Len(t, diff.Disappeared, 1)
	assert.Equal(t, "1КДД69", diff.Disappeared[0].Name)
	assert.Empty(t, diff.Changed)
}

func TestPagesNilSides(t *testing.T) {
	p := page(models.Formation{Name: "1КДД69"})

	fromNothing := Pages(nil, p)
	require.Len(t, fromNothing.Appeared, 1)
	assert.True(t, fromNothing.HasChanges())

	toNothing := Pages(p, nil)
	require.Len(t, toNothing.Disappeared, 1)

	assert.False(t, Pages(nil, nil).HasChanges())
}

func TestPagesSubjectFieldDiff(t *testing.T) {
	oldP := page(models.Formation{
		Name: "1КДД69",
		Days: []models.Day{day(monday,
			subject(1, "Математика", teacher("Иванова А.А.", "14")),
			subject(2, "Физика"),
		)},
	})

	changedSubject := subject(1, "Математика", teacher("Иванова А.А.", "21"))
	changedSubject.Format = models.FormatRemote
	newP := page(models.Formation{
		Name: "1КДД69",
		Days: []models.Day{day(monday,
			changedSubject,
			subject(2, "Физика"),
		)},
	})

	diff := Pages(oldP, newP)
	require.True(t, diff.HasChanges())
	require.Len(t, diff.Changed, 1)

	formation := diff.Changed[0]
	assert.Equal(t, "1КДД69", formation.Name)
	require.Len(t, formation.Changed, 1)

	dayDiff := formation.Changed[0]
	assert.True(t, dayDiff.Date.Equal(monday))
	require.Len(t, dayDiff.Changed, 1)

	subjDiff := dayDiff.Changed[0]
	assert.Equal(t, 1, subjDiff.Num)
	assert.Nil(t, subjDiff.Name)
	assert.Nil(t, subjDiff.Time)

	require.NotNil(t, subjDiff.Format)
	assert.Equal(t, models.FormatFulltime, *subjDiff.Format.Old)
	assert.Equal(t, models.FormatRemote, *subjDiff.Format.New)

	require.NotNil(t, subjDiff.Attenders)
	require.Len(t, subjDiff.Attenders.Changed, 1)
	assert.Equal(t, "21", subjDiff.Attenders.Changed[0].Cabinet.Primary)
}

func TestPagesVacancyReplacedByTeacher(t *testing.T) {
	vacancy := models.Attender{Kind: models.AttenderVacancy, Name: "Вакансия"}

	oldP := page(models.Formation{
		Name: "1КДД69",
		Days: []models.Day{day(monday, subject(1, "Математика", vacancy))},
	})
	newP := page(models.Formation{
		Name: "1КДД69",
		Days: []models.Day{day(monday, subject(1, "Математика", teacher("Иванова А.А.", "")))},
	})

	diff := Pages(oldP, newP)
	require.Len(t, diff.Changed, 1)

	subjDiff := diff.Changed[0].Changed[0].Changed[0]
	require.NotNil(t, subjDiff.Attenders)
	require.Len(t, subjDiff.Attenders.Appeared, 1)
	require.Len(t, subjDiff.Attenders.Disappeared, 1)
	assert.Empty(t, subjDiff.Attenders.Changed)
}

func TestFlatPartitionsKeyUnion(t *testing.T) {
	oldS := []models.Subject{
		subject(1, "Математика"),
		subject(2, "Физика"),
		subject(3, "История"),
	}
	newS := []models.Subject{
		subject(2, "Физика"),
		subject(3, "Химия"),
		subject(4, "Биология"),
	}

	diff := Flat(oldS, newS, subjectKey)

	require.Len(t, diff.Appeared, 1)
	assert.Equal(t, 4, diff.Appeared[0].Num)
	require.Len(t, diff.Disappeared, 1)
	assert.Equal(t, 1, diff.Disappeared[0].Num)
	require.Len(t, diff.Changed, 1)
	assert.Equal(t, 3, diff.Changed[0].Num)
	require.Len(t, diff.Unchanged, 1)
	assert.Equal(t, 2, diff.Unchanged[0].Num)

	// The four buckets exactly cover the union of both key sets.
	total := len(diff.Appeared) + len(diff.Disappeared) + len(diff.Changed) + len(diff.Unchanged)
	assert.Equal(t, 4, total)
}

func TestFlatIdenticalInputs(t *testing.T) {
	build := func() []models.Attender {
		return []models.Attender{
			teacher("Иванова А.А.", "14"),
			teacher("Петров Б.Б.", "21"),
		}
	}

	diff := Flat(build(), build(), attenderKey)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.Appeared)
	assert.Empty(t, diff.Disappeared)
	assert.Empty(t, diff.Changed)
	assert.Len(t, diff.Unchanged, 2)
}

func TestPrimitiveChanged(t *testing.T) {
	a, b := "x", "y"

	assert.False(t, NewPrimitive[string](nil, nil).Changed())
	assert.True(t, NewPrimitive(&a, nil).Changed())
	assert.True(t, NewPrimitive(&a, &b).Changed())
	assert.False(t, NewPrimitive(&a, &a).Changed())
}

func TestNotifyHasChanges(t *testing.T) {
	empty := &Notify{Nonce: "n1"}
	assert.False(t, empty.HasChanges())

	withDiff := &Notify{
		Nonce:  "n2",
		Groups: &PageCompare{Appeared: []models.Formation{{Name: "1КДД69"}}},
	}
	assert.True(t, withDiff.HasChanges())
}
