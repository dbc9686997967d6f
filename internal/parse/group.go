package parse

import (
	"strings"
)

// GroupMatch is one group code extracted from a teacher-view cell,
// with the byte range it occupied in the original text.
type GroupMatch struct {
	Name  string
	Start int
	End   int
}

// NormalizeGroup canonicalizes a raw group mention: uppercase, separators
// stripped, and the institution-wide "К" marker restored as the second
// character when the source omitted it. Returns false when the text holds
// no group code at all.
func (p *Patterns) NormalizeGroup(raw string) (string, bool) {
	m := p.Group.FindString(raw)
	if m == "" {
		return "", false
	}
	return p.canonicalGroup(m), true
}

func (p *Patterns) canonicalGroup(matched string) string {
	clean := p.NonWord.ReplaceAllString(matched, "")
	clean = strings.ToUpper(clean)

	runes := []rune(clean)
	if len(runes) > 1 && runes[1] != 'К' {
		with := make([]rune, 0, len(runes)+1)
		with = append(with, runes[0], 'К')
		with = append(with, runes[1:]...)
		runes = with
	}
	return string(runes)
}

// MultiGroups walks a comma- or slash-separated group sequence at the head
// of the text. Bare digit runs inherit the prefix of the previous full code,
// so "1крд2/4/6" yields 1КРД2, 1КРД4, 1КРД6. Consumed is the byte offset
// where the sequence ends; the caller treats the remainder as the subject
// name. The walk stops at the first fragment that is neither a group code,
// a separator nor digits, which bounds it by the input length.
func (p *Patterns) MultiGroups(raw string) (matches []GroupMatch, consumed int, ok bool) {
	offset := 0

	for offset < len(raw) {
		rest := raw[offset:]

		if m := p.GroupPrefix.FindString(rest); m != "" {
			matches = append(matches, GroupMatch{
				Name:  p.canonicalGroup(m),
				Start: offset,
				End:   offset + len(m),
			})
			offset += len(m)
			continue
		}

		if sep := p.SepPrefix.FindString(rest); sep != "" {
			if len(matches) == 0 {
				return nil, 0, false
			}
			offset += len(sep)
			continue
		}

		if digits := p.DigitPrefix.FindString(rest); digits != "" && len(matches) > 0 {
			last := matches[len(matches)-1].Name
			prefix := p.DigitSuffix.ReplaceAllString(last, "")
			matches = append(matches, GroupMatch{
				Name:  prefix + digits,
				Start: offset,
				End:   offset + len(digits),
			})
			offset += len(digits)
			continue
		}

		break
	}

	if len(matches) == 0 {
		return nil, 0, false
	}
	return matches, offset, true
}
