// Package matching cross-references watch-list subjects against change events
// and groups the matches into monitoring records.
package matching

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
	"github.com/heartmarshall/ongoing-monitor/internal/similarity"
)

// Field names the subject/candidate comparison that produced a score.
type Field string

const (
	FieldEnglish  Field = "english"
	FieldChinese  Field = "chinese"
	FieldCombined Field = "combined"
	FieldTitle    Field = "title"
)

// MatchedPair is a (subject, event) combination judged a match, carrying the
// best score observed across fields and modes.
type MatchedPair struct {
	SubjectID uuid.UUID
	EventID   uuid.UUID
	Score     int
	Field     Field
}

// Stats summarizes one Match call.
type Stats struct {
	SubjectsTotal    int
	SubjectsSkipped  int
	EventsScanned    int
	EventsUnparsable int
	PairsMatched     int
}

// Matcher computes matched pairs over the full subjects x events cross product.
type Matcher struct {
	opts Options
	log  *slog.Logger
}

// NewMatcher creates a Matcher with the given options.
func NewMatcher(log *slog.Logger, opts Options) *Matcher {
	return &Matcher{
		opts: opts,
		log:  log.With("component", "matcher"),
	}
}

// Match returns one MatchedPair per qualifying (subject, event) combination.
// Subjects are fanned out across workers; inputs are never mutated. Subjects
// without any searchable name and events with unrecognized payloads are
// logged and counted, never returned as errors. The only error is ctx's.
func (m *Matcher) Match(ctx context.Context, subjects []domain.Subject, events []domain.ChangeEvent) ([]MatchedPair, Stats, error) {
	stats := Stats{
		SubjectsTotal: len(subjects),
		EventsScanned: len(events),
	}

	candidates := make([]Candidates, len(events))
	for i, e := range events {
		if err := e.Validate(); err != nil {
			stats.EventsUnparsable++
			m.log.WarnContext(ctx, "malformed event, skipped",
				slog.String("event_id", e.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		c, p := ExtractEvent(e)
		if unknown, ok := p.(domain.UnknownPayload); ok {
			stats.EventsUnparsable++
			m.log.WarnContext(ctx, "unrecognized event payload",
				slog.String("event_id", e.ID.String()),
				slog.String("reason", unknown.Reason),
			)
		}
		candidates[i] = c
	}

	workers := max(m.opts.Workers, 1)
	perSubject := make([][]MatchedPair, len(subjects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range subjects {
		if !s.Searchable() {
			stats.SubjectsSkipped++
			m.log.InfoContext(ctx, "subject has no searchable name, skipped",
				slog.String("subject_id", s.ID.String()),
			)
			continue
		}

		q := newQuery(s)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perSubject[i] = m.matchSubject(gctx, s.ID, q, events, candidates)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var pairs []MatchedPair
	for _, ps := range perSubject {
		pairs = append(pairs, ps...)
	}
	stats.PairsMatched = len(pairs)

	return pairs, stats, nil
}

func (m *Matcher) matchSubject(ctx context.Context, subjectID uuid.UUID, q query, events []domain.ChangeEvent, candidates []Candidates) []MatchedPair {
	var pairs []MatchedPair
	for i, c := range candidates {
		if c.Empty() {
			continue
		}
		score, field, ok := m.score(q, c)
		if !ok {
			continue
		}
		pairs = append(pairs, MatchedPair{
			SubjectID: subjectID,
			EventID:   events[i].ID,
			Score:     score,
			Field:     field,
		})
		m.log.DebugContext(ctx, "pair matched",
			slog.String("subject_id", subjectID.String()),
			slog.String("event_id", events[i].ID.String()),
			slog.Int("score", score),
			slog.String("field", string(field)),
		)
	}
	return pairs
}

// query holds the normalized names of one subject.
type query struct {
	english  string
	chinese  string
	combined string
}

func newQuery(s domain.Subject) query {
	q := query{
		english: domain.NormalizeName(s.NameEN),
		chinese: domain.NormalizeName(s.NameZH),
	}
	if q.english != "" && q.chinese != "" {
		q.combined = q.english + " " + q.chinese
	}
	return q
}

// score applies the containment pre-filter and then every configured mode to
// each field. It returns the best qualifying score.
func (m *Matcher) score(q query, c Candidates) (int, Field, bool) {
	t := m.opts.Thresholds

	var (
		best      int
		bestField Field
		found     bool
	)
	consider := func(name string, candidates []string, threshold int, field Field) {
		if len(candidates) == 0 {
			return
		}
		for _, mode := range m.opts.Modes {
			for _, hit := range similarity.Qualifies(name, candidates, mode, threshold, t.Comparator) {
				if !found || hit.Score > best {
					best, bestField, found = hit.Score, field, true
				}
			}
		}
	}

	if c.IsTitle() {
		folded := strings.ToLower(c.Title)
		if q.english != "" && strings.Contains(folded, q.english) {
			consider(q.english, []string{folded}, t.Title, FieldTitle)
		}
		if q.chinese != "" && strings.Contains(c.Title, q.chinese) {
			consider(q.chinese, []string{c.Title}, t.Title, FieldTitle)
		}
		return best, bestField, found
	}

	if q.english != "" {
		var contained []string
		for _, name := range c.English {
			if folded := strings.ToLower(name); strings.Contains(folded, q.english) {
				contained = append(contained, folded)
			}
		}
		consider(q.english, contained, t.English, FieldEnglish)
	}
	if q.chinese != "" {
		var contained []string
		for _, name := range c.Chinese {
			if strings.Contains(name, q.chinese) {
				contained = append(contained, name)
			}
		}
		consider(q.chinese, contained, t.Chinese, FieldChinese)
	}
	if m.opts.Combined && q.combined != "" {
		var contained []string
		for _, p := range c.Pairs {
			en := strings.ToLower(p.English)
			if strings.Contains(en, q.english) || strings.Contains(p.Chinese, q.chinese) {
				contained = append(contained, en+" "+p.Chinese)
			}
		}
		consider(q.combined, contained, t.Combined, FieldCombined)
	}

	return best, bestField, found
}
