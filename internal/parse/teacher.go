package parse

import "strings"

// NormalizeTeacher canonicalizes a teacher mention to "Фамилия И.О." form.
// The second initial is optional; separators between the parts vary wildly
// in the source documents ("Ебланов Х.Й.", "Ебланов.Х..Й", "Ебланов Х. Й.").
func (p *Patterns) NormalizeTeacher(raw string) (string, bool) {
	m := p.Teacher.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return rebuildTeacher(m), true
}

func rebuildTeacher(m []string) string {
	var b strings.Builder
	b.WriteString(m[1])
	b.WriteByte(' ')
	b.WriteString(m[2])
	b.WriteByte('.')
	if m[3] != "" {
		b.WriteString(m[3])
		b.WriteByte('.')
	}
	return b.String()
}
