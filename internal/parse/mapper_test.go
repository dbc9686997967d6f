package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

func testMapper() *Mapper {
	fc := FormatClassifier{
		Fulltime:    models.MustParseColor("#fce5cd"),
		Remote:      models.MustParseColor("#c9daf8"),
		MaxDistance: 50,
	}
	m := NewMapper(NewPatterns(), fc, 0.6, zap.NewNop())
	return m.WithNow(func() time.Time { return testNow })
}

func cellAt(x, width int, text string) models.Cell {
	return models.Cell{X: x, Width: width, Height: 1, Text: text, Color: models.White}
}

func coloredCellAt(x, width int, text, color string) models.Cell {
	c := cellAt(x, width, text)
	c.Color = models.MustParseColor(color)
	return c
}

// groupSchema builds a minimal two-day grid: a title row above the header,
// two weekday columns of two periods each, and two group rows. The second
// group's Tuesday cell spans both period columns.
func groupSchema() [][]models.Cell {
	return [][]models.Cell{
		{cellAt(0, 5, "Расписание занятий")},
		{
			cellAt(0, 1, "Группа"),
			cellAt(1, 2, "Понедельник 01.01.24"),
			cellAt(3, 2, "Вторник 02.01.24"),
		},
		{
			cellAt(0, 1, ""),
			cellAt(1, 1, "1 8:00-9:30"),
			cellAt(2, 1, "2 9:40-11:10"),
			cellAt(3, 1, "1 8:00-9:30"),
			cellAt(4, 1, "2 9:40-11:10"),
		},
		{
			cellAt(0, 1, "1кдд69"),
			coloredCellAt(1, 1, "Математика Иванова А.А. 14", "#fce5cd"),
			cellAt(2, 1, "-"),
			coloredCellAt(3, 1, "Ин. язык Костина С.В. 25", "#c9daf8"),
			cellAt(4, 1, ""),
		},
		{
			cellAt(0, 1, "3дд48"),
			cellAt(1, 1, ""),
			coloredCellAt(2, 1, "Физика ауд.5", "#fce5cd"),
			coloredCellAt(3, 2, "Деловой англ. Коняева А.С.37а/Хачатрян Н.В.", "#fce5cd"),
		},
	}
}

func TestMapperGroupPage(t *testing.T) {
	page, err := testMapper().Page(groupSchema(), models.KindGroups, models.ScopeWeekly)
	require.NoError(t, err)

	assert.Equal(t, models.KindGroups, page.Kind)
	assert.Equal(t, models.ScopeWeekly, page.Scope)
	assert.True(t, page.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, page.EndDate.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	require.Len(t, page.Formations, 2)

	first := page.Formation("1КДД69")
	require.NotNil(t, first)
	assert.Equal(t, "1кдд69", first.Raw)
	require.Len(t, first.Days, 2)

	monday := first.Day(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, monday)
	assert.Equal(t, models.Monday, monday.Weekday)
	require.Len(t, monday.Subjects, 1)
	assert.Equal(t, "Математика", monday.Subjects[0].Name)
	assert.Equal(t, 1, monday.Subjects[0].Num)
	assert.Equal(t, models.TimeRange{Start: "08:00", End: "09:30"}, monday.Subjects[0].Time)
	assert.Equal(t, models.FormatFulltime, monday.Subjects[0].Format)
	require.Len(t, monday.Subjects[0].Attenders, 1)
	assert.Equal(t, "Иванова А.А.", monday.Subjects[0].Attenders[0].Name)
	assert.Equal(t, "14", monday.Subjects[0].Attenders[0].Cabinet.Primary)

	tuesday := first.Day(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, tuesday)
	require.Len(t, tuesday.Subjects, 1)
	assert.Equal(t, models.FormatRemote, tuesday.Subjects[0].Format)

	second := page.Formation("3КДД48")
	require.NotNil(t, second)

	// The spanning Tuesday cell covers both period columns, so the same
	// text shows up as slot 1 and slot 2.
	secondTuesday := second.Day(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, secondTuesday)
	require.Len(t, secondTuesday.Subjects, 2)
	assert.Equal(t, 1, secondTuesday.Subjects[0].Num)
	assert.Equal(t, 2, secondTuesday.Subjects[1].Num)
	assert.Equal(t, "Деловой англ.", secondTuesday.Subjects[0].Name)
	assert.Equal(t, "Деловой англ.", secondTuesday.Subjects[1].Name)
}

func TestMapperTeacherPage(t *testing.T) {
	schema := [][]models.Cell{
		{
			cellAt(0, 1, "Преподаватель"),
			cellAt(1, 2, "Среда 03.01.24"),
		},
		{
			cellAt(0, 1, ""),
			cellAt(1, 1, "1 8:00-9:30"),
			cellAt(2, 1, "2 9:40-11:10"),
		},
		{
			cellAt(0, 1, "Иванова А.А."),
			coloredCellAt(1, 1, "1крд2/4/6 истор", "#fce5cd"),
			cellAt(2, 1, "3дд48 жив каб 17а"),
		},
		{
			// Not a teacher label, the row must be ignored.
			cellAt(0, 1, "итого часов"),
			cellAt(1, 1, "Математика"),
		},
	}

	page, err := testMapper().Page(schema, models.KindTeachers, models.ScopeWeekly)
	require.NoError(t, err)
	require.Len(t, page.Formations, 1)

	teacher := page.Formation("Иванова А.А.")
	require.NotNil(t, teacher)
	require.Len(t, teacher.Days, 1)

	day := teacher.Days[0]
	assert.Equal(t, models.Wednesday, day.Weekday)
	require.Len(t, day.Subjects, 2)

	first := day.Subjects[0]
	assert.Equal(t, "истор", first.Name)
	require.Len(t, first.Attenders, 3)
	assert.Equal(t, "1КРД2", first.Attenders[0].Name)

	second := day.Subjects[1]
	assert.Equal(t, "жив", second.Name)
	assert.Equal(t, "каб 17а", second.Cabinet.Primary)
	assert.Equal(t, models.FormatUnknown, second.Format)
}

func TestMapperMissingHeaders(t *testing.T) {
	m := testMapper()

	_, err := m.Page([][]models.Cell{{cellAt(0, 1, "пусто")}}, models.KindGroups, models.ScopeWeekly)
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = m.Page([][]models.Cell{
		{cellAt(0, 1, "Понедельник 01.01.24")},
	}, models.KindGroups, models.ScopeWeekly)
	assert.ErrorIs(t, err, ErrNoPeriods)
}
