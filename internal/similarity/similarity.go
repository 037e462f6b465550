// Package similarity scores how alike two normalized names are on a 0-100
// scale and filters candidate lists against a threshold.
package similarity

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Mode selects how two strings are compared.
type Mode string

const (
	// ModeOrderSensitive compares the strings character by character.
	ModeOrderSensitive Mode = "ratio"
	// ModeOrderInsensitive sorts whitespace-separated tokens before comparing,
	// so reordered name components score the same.
	ModeOrderInsensitive Mode = "token_sort"
)

func (m Mode) String() string { return string(m) }

func (m Mode) IsValid() bool {
	switch m {
	case ModeOrderSensitive, ModeOrderInsensitive:
		return true
	}
	return false
}

// Comparator decides whether a score clears a threshold.
type Comparator string

const (
	AtLeast     Comparator = ">="
	GreaterThan Comparator = ">"
)

func (c Comparator) String() string { return string(c) }

func (c Comparator) IsValid() bool {
	return c == AtLeast || c == GreaterThan
}

// Passes reports whether score clears threshold under c.
// An unknown comparator behaves like AtLeast.
func (c Comparator) Passes(score, threshold int) bool {
	if c == GreaterThan {
		return score > threshold
	}
	return score >= threshold
}

// ParseComparator converts a configuration value into a Comparator.
func ParseComparator(s string) (Comparator, error) {
	c := Comparator(strings.TrimSpace(s))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown comparator %q (want >= or >)", s)
	}
	return c, nil
}

// Ratio returns the edit-distance similarity of a and b:
// 100 * (1 - distance / longer length), rounded to the nearest integer.
// Two empty strings are identical; one empty string scores 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if la == 0 || lb == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// TokenSortRatio is Ratio over the inputs with their whitespace-separated
// tokens sorted.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

// Score compares query and candidate under mode. Identical inputs always
// produce identical scores.
func Score(query, candidate string, mode Mode) int {
	if mode == ModeOrderInsensitive {
		return TokenSortRatio(query, candidate)
	}
	return Ratio(query, candidate)
}

// Match is a candidate that cleared the threshold, with its score.
type Match struct {
	Candidate string
	Score     int
}

// Qualifies scores query against every candidate and keeps those that pass
// threshold under cmp, preserving candidate order.
func Qualifies(query string, candidates []string, mode Mode, threshold int, cmp Comparator) []Match {
	var matches []Match
	for _, c := range candidates {
		score := Score(query, c, mode)
		if cmp.Passes(score, threshold) {
			matches = append(matches, Match{Candidate: c, Score: score})
		}
	}
	return matches
}
