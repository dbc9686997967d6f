package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

func TestGuessWeekday(t *testing.T) {
	p := NewPatterns()
	const threshold = 0.6

	tests := []struct {
		name string
		raw  string
		want models.Weekday
		ok   bool
	}{
		{name: "exact", raw: "Понедельник 01.01.24", want: models.Monday, ok: true},
		{name: "case insensitive", raw: "СУББОТА 06.01.24", want: models.Saturday, ok: true},
		{name: "typo", raw: "Четверк 04.01.24", want: models.Thursday, ok: true},
		{name: "truncated", raw: "Воскресень", want: models.Sunday, ok: true},
		{name: "unrelated word", raw: "Расписание", ok: false},
		{name: "no cyrillic", raw: "01.01.24", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.GuessWeekday(tt.raw, threshold)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
