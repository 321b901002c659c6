package analysis

import (
	"strings"

	"wilcli/pkg/contracts/domain"
)

// LevelRules is the pattern table the classifier consults. DefaultLevelRules
// matches the course-code conventions observed in WIL extracts; callers with
// a different catalog swap in their own table without touching the pipeline.
type LevelRules struct {
	// NonAwardTokens mark explicit non-award offerings anywhere in the code.
	NonAwardTokens []string
	// NonAwardSuffix is the catalog tail reserved for non-award enrollments.
	NonAwardSuffix string
	// CareerDevTokens mark career-development courses, undergraduate by
	// university convention regardless of catalog number.
	CareerDevTokens []string
	// ResearchTokens mark research degrees outright.
	ResearchTokens []string
	// ResearchPairToken marks research only in combination with one of
	// ResearchPairDigits.
	ResearchPairToken  string
	ResearchPairDigits []string
	// PostgraduateTokens mark masters and graduate-diploma offerings.
	PostgraduateTokens []string
	// PostgraduateWindow is the inclusive two-digit catalog window claimed
	// by postgraduate coursework.
	PostgraduateWindow [2]int
}

// DefaultLevelRules returns the rule table for WIL course codes.
func DefaultLevelRules() *LevelRules {
	return &LevelRules{
		NonAwardTokens:     []string{"NON-AWARD", "0000"},
		NonAwardSuffix:     "00",
		CareerDevTokens:    []string{"CDEV"},
		ResearchTokens:     []string{"PHD", "RESEARCH"},
		ResearchPairToken:  "RES",
		ResearchPairDigits: []string{"80", "90"},
		PostgraduateTokens: []string{"MAST", "GRAD", "PG"},
		PostgraduateWindow: [2]int{90, 99},
	}
}

// Classifier derives the academic level of a course code. The rules are
// heuristic pattern matches against naming conventions, not a lookup in an
// authoritative catalog, so codes outside the observed conventions can
// misclassify; consumers treat the derived level as best-effort and the
// pipeline flags it as derived wherever it is logged.
type Classifier struct {
	rules *LevelRules
}

// NewClassifier creates a classifier. A nil rules table uses
// DefaultLevelRules.
func NewClassifier(rules *LevelRules) *Classifier {
	if rules == nil {
		rules = DefaultLevelRules()
	}
	return &Classifier{rules: rules}
}

// Classify maps a course code to its academic level. Rules are checked in
// order and the first match wins; blank codes and codes claimed by no rule
// default to Undergraduate, the dominant level in WIL data.
func (c *Classifier) Classify(code string) domain.AcademicLevel {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.LevelUndergraduate
	}
	r := c.rules
	if containsAny(code, r.NonAwardTokens) ||
		(r.NonAwardSuffix != "" && strings.HasSuffix(code, r.NonAwardSuffix)) {
		return domain.LevelNonAward
	}
	if containsAny(code, r.CareerDevTokens) {
		return domain.LevelUndergraduate
	}
	if containsAny(code, r.ResearchTokens) ||
		(r.ResearchPairToken != "" && strings.Contains(code, r.ResearchPairToken) &&
			containsAny(code, r.ResearchPairDigits)) {
		return domain.LevelResearch
	}
	if hasDigitWindow(code, r.PostgraduateWindow) || containsAny(code, r.PostgraduateTokens) {
		return domain.LevelPostgraduate
	}
	// Bachelor and diploma tokens, the 10-89 catalog window, and the
	// 1000-8999 numeric tail all resolve to Undergraduate, as does any
	// code the rules above left unclaimed.
	return domain.LevelUndergraduate
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if tok != "" && strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// hasDigitWindow reports whether any two adjacent digits in the code read
// as a number inside the inclusive window.
func hasDigitWindow(code string, window [2]int) bool {
	for i := 0; i+1 < len(code); i++ {
		hi := code[i]
		lo := code[i+1]
		if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
			continue
		}
		n := int(hi-'0')*10 + int(lo-'0')
		if n >= window[0] && n <= window[1] {
			return true
		}
	}
	return false
}
