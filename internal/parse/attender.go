package parse

import (
	"sort"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

type attenderHit struct {
	kind  models.AttenderKind
	name  string
	start int
	end   int
}

// Attenders extracts every teacher and vacancy mention from a group-view
// subject cell. Text trailing a mention up to the next one is that
// mention's annotation, usually a cabinet ("Коняева А.С.37а/Хачатрян Н.В."
// gives Коняева the cabinet "37а"). Start is the byte offset of the first
// mention; everything before it belongs to the subject name.
func (p *Patterns) Attenders(text string) (start int, attenders []models.Attender, ok bool) {
	var hits []attenderHit

	for _, loc := range p.Teacher.FindAllStringSubmatchIndex(text, -1) {
		m := submatchesAt(text, loc)
		hits = append(hits, attenderHit{
			kind:  models.AttenderTeacher,
			name:  rebuildTeacher(m),
			start: loc[0],
			end:   loc[1],
		})
	}
	for _, loc := range p.Vacancy.FindAllStringIndex(text, -1) {
		hits = append(hits, attenderHit{
			kind:  models.AttenderVacancy,
			name:  text[loc[0]:loc[1]],
			start: loc[0],
			end:   loc[1],
		})
	}

	if len(hits) == 0 {
		return 0, nil, false
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	for i, hit := range hits {
		relatedEnd := len(text)
		if i+1 < len(hits) {
			relatedEnd = hits[i+1].start
		}
		related := text[hit.end:relatedEnd]

		attenders = append(attenders, models.Attender{
			Raw:     text[hit.start:relatedEnd],
			Kind:    hit.kind,
			Name:    hit.name,
			Cabinet: models.Cabinet{Primary: p.trimFragment(related)},
		})
	}

	return hits[0].start, attenders, true
}

// submatchesAt rebuilds the []string submatch view from an index result.
func submatchesAt(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] < 0 {
			m[i] = ""
			continue
		}
		m[i] = text[loc[2*i]:loc[2*i+1]]
	}
	return m
}
