package parse

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

// weekdayMetric compares header words against reference weekday names.
// Trigrams keep short garbage words from accidentally matching.
var weekdayMetric = func() *metrics.SorensenDice {
	m := metrics.NewSorensenDice()
	m.NgramSize = 3
	return m
}()

// GuessWeekday fuzzy-matches the first Cyrillic word of a header cell
// against the Russian weekday names. Exported documents routinely carry
// typos like "Среда " or "Четверк", hence similarity instead of equality.
func (p *Patterns) GuessWeekday(text string, threshold float64) (models.Weekday, bool) {
	word := p.CyrillicWord.FindString(text)
	if word == "" {
		return 0, false
	}
	word = strings.ToLower(word)

	best := models.Weekday(0)
	bestScore := 0.0
	for _, wd := range models.Weekdays() {
		score := strutil.Similarity(word, strings.ToLower(wd.Russian()), weekdayMetric)
		if score > bestScore {
			best = wd
			bestScore = score
		}
	}

	if bestScore < threshold {
		return 0, false
	}
	return best, true
}
