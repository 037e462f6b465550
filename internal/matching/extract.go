package matching

import (
	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

// NamePair is a target that carries both an English and a Chinese name.
type NamePair struct {
	English string
	Chinese string
}

// Candidates are the normalized names extracted from one change event.
// Judgment events carry only Title; all other shapes carry name lists.
type Candidates struct {
	English []string
	Chinese []string
	Pairs   []NamePair
	Title   string
}

// IsTitle reports whether the candidates come from a judgment title.
func (c Candidates) IsTitle() bool { return c.Title != "" }

// Empty reports whether nothing can be compared against a subject.
func (c Candidates) Empty() bool {
	return c.Title == "" && len(c.English) == 0 && len(c.Chinese) == 0
}

// Extract returns the candidate names of a decoded payload. Unknown payloads
// yield empty candidates.
func Extract(p domain.Payload) Candidates {
	var c Candidates
	switch v := p.(type) {
	case domain.ListTargets:
		for _, t := range v.Targets {
			en := domain.NormalizeName(t.NameEN)
			zh := domain.NormalizeName(t.NameZH)
			if en != "" {
				c.English = append(c.English, en)
			}
			if zh != "" {
				c.Chinese = append(c.Chinese, zh)
			}
			if en != "" && zh != "" {
				c.Pairs = append(c.Pairs, NamePair{English: en, Chinese: zh})
			}
		}
	case domain.ScriptKeyedTargets:
		c.English = normalizeAll(v.English)
		c.Chinese = normalizeAll(v.Chinese)
	case domain.JudgmentTitle:
		c.Title = domain.NormalizeName(v.Title)
	case domain.UnknownPayload:
	}
	return c
}

// ExtractEvent decodes the event payload and extracts its candidates.
func ExtractEvent(e domain.ChangeEvent) (Candidates, domain.Payload) {
	p := domain.ParsePayload(e.Payload)
	return Extract(p), p
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s := domain.NormalizeName(n); s != "" {
			out = append(out, s)
		}
	}
	return out
}
