// Package parse turns reconstructed grid cells into schedule pages:
// header isolation, body binding and free-text decomposition of subjects
// into names, attenders and cabinets.
package parse

import "regexp"

// Patterns is the compiled regex set shared by all parsing routines.
// It is built once at startup and passed in explicitly; nothing in this
// package reaches for process-wide state.
type Patterns struct {
	// Group matches raw group codes: "1КДД69", "1-кДД-69", "3дд48".
	Group *regexp.Regexp
	// GroupPrefix anchors Group at the string head.
	GroupPrefix *regexp.Regexp
	// Date matches day-month-year with any single separator: "01.01.24".
	Date *regexp.Regexp
	// Time matches lesson slots: "8:00-9:00", also with an en dash.
	Time *regexp.Regexp
	// SlotNum matches the leading slot ordinal of a period header cell.
	SlotNum *regexp.Regexp
	// Teacher matches surname plus initials: "Иванова А.А.", "Ебланов Х."
	Teacher *regexp.Regexp
	// Vacancy matches unstaffed slot markers.
	Vacancy *regexp.Regexp
	// CabinetTail matches a trailing room designator: "ауд.29", "каб 17а".
	CabinetTail *regexp.Regexp
	// NonWord splits on anything outside letters and digits, Unicode-aware.
	// Go's \W is ASCII-only, which would split inside Cyrillic words.
	NonWord *regexp.Regexp
	// DigitPrefix and DigitSuffix pick bare digit runs at string edges.
	DigitPrefix *regexp.Regexp
	DigitSuffix *regexp.Regexp
	// SepPrefix matches list punctuation at the head of a group sequence.
	SepPrefix *regexp.Regexp
	// SepTrim strips separator punctuation hanging off either end of a
	// fragment, trailing dots excluded so abbreviations survive.
	SepTrimLeft  *regexp.Regexp
	SepTrimRight *regexp.Regexp
	// Filler recognizes cells holding only dashes or punctuation.
	Filler *regexp.Regexp
	// CyrillicWord picks the first Cyrillic word of a header cell.
	CyrillicWord *regexp.Regexp
}

// NewPatterns compiles the default pattern set.
func NewPatterns() *Patterns {
	group := `(\d)-?([а-яёА-ЯЁ]{2,3})-?(\d{1,2})`

	return &Patterns{
		Group:        regexp.MustCompile(group),
		GroupPrefix:  regexp.MustCompile(`^` + group),
		Date:         regexp.MustCompile(`(\d{1,2})[.\-/](\d{1,2})(?:[.\-/](\d{2,4}))?`),
		Time:         regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-–]\s*(\d{1,2}:\d{2})`),
		SlotNum:      regexp.MustCompile(`^\s*(\d{1,2})`),
		Teacher:      regexp.MustCompile(`([А-ЯЁ][а-яё]+)[\s.]+([А-ЯЁ])\s*[.](?:\s*([А-ЯЁ])\s*[.]?)?`),
		Vacancy:      regexp.MustCompile(`[Вв]акансия`),
		CabinetTail:  regexp.MustCompile(`(?:[Аа][УуYy][Дд]|[Кк][Аа][Бб])[.\s]\s*\S.*$`),
		NonWord:      regexp.MustCompile(`[^\p{L}\p{N}]+`),
		DigitPrefix:  regexp.MustCompile(`^\d+`),
		DigitSuffix:  regexp.MustCompile(`\d+$`),
		SepPrefix:    regexp.MustCompile(`^[,/]+`),
		SepTrimLeft:  regexp.MustCompile(`^[\s,/]+`),
		SepTrimRight: regexp.MustCompile(`[\s,/]+$`),
		Filler:       regexp.MustCompile(`^[\s\-–—_.,+]*$`),
		CyrillicWord: regexp.MustCompile(`[А-Яа-яЁё]+`),
	}
}

// trimFragment removes surrounding whitespace and separator punctuation
// from a decomposed text fragment.
func (p *Patterns) trimFragment(s string) string {
	s = p.SepTrimLeft.ReplaceAllString(s, "")
	s = p.SepTrimRight.ReplaceAllString(s, "")
	return s
}
