package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

func TestAttenders(t *testing.T) {
	p := NewPatterns()

	t.Run("two teachers with cabinet annotation", func(t *testing.T) {
		raw := "Деловой англ. Коняева А.С.37а/Хачатрян Н.В."
		start, attenders, ok := p.Attenders(raw)
		require.True(t, ok)
		require.Len(t, attenders, 2)

		assert.Equal(t, "Деловой англ.", p.trimFragment(raw[:start]))

		assert.Equal(t, models.AttenderTeacher, attenders[0].Kind)
		assert.Equal(t, "Коняева А.С.", attenders[0].Name)
		assert.Equal(t, "37а", attenders[0].Cabinet.Primary)

		assert.Equal(t, "Хачатрян Н.В.", attenders[1].Name)
		assert.Empty(t, attenders[1].Cabinet.Primary)
	})

	t.Run("vacancy with cabinet", func(t *testing.T) {
		_, attenders, ok := p.Attenders("Математика Вакансия ауд.29")
		require.True(t, ok)
		require.Len(t, attenders, 1)

		assert.Equal(t, models.AttenderVacancy, attenders[0].Kind)
		assert.Equal(t, "Вакансия", attenders[0].Name)
		assert.Equal(t, "ауд.29", attenders[0].Cabinet.Primary)
	})

	t.Run("teacher and vacancy keep document order", func(t *testing.T) {
		_, attenders, ok := p.Attenders("Физика Вакансия 12/Иванова А.А. 14")
		require.True(t, ok)
		require.Len(t, attenders, 2)

		assert.Equal(t, models.AttenderVacancy, attenders[0].Kind)
		assert.Equal(t, "12", attenders[0].Cabinet.Primary)
		assert.Equal(t, models.AttenderTeacher, attenders[1].Kind)
		assert.Equal(t, "14", attenders[1].Cabinet.Primary)
	})

	t.Run("raw spans mention and annotation", func(t *testing.T) {
		raw := "Ин. язык Костина С.В. 25/Вакансия"
		_, attenders, ok := p.Attenders(raw)
		require.True(t, ok)
		require.Len(t, attenders, 2)
		assert.Equal(t, "Костина С.В. 25/", attenders[0].Raw)
		assert.Equal(t, "Вакансия", attenders[1].Raw)
	})

	t.Run("no mentions", func(t *testing.T) {
		_, _, ok := p.Attenders("Физкультура спортзал")
		assert.False(t, ok)
	})
}
