package service

import (
	"strings"

	"github.com/medready/enroll-advisor-api/internal/models"
)

// CanonicalCNA is the canonical label every CNA/NAT synonym folds into.
const CanonicalCNA models.CertificateGoal = "nursing assistant training"

// cmaMarker gates the one track the bot must never recommend.
const cmaMarker = "clinical medical assistant"

// defaultCNASynonyms are matched as substrings, not whole words: a goal
// containing "cna" anywhere is folded.
var defaultCNASynonyms = []string{
	"cna",
	"nat",
	"nursing assistant",
	"nursing assistant training",
	"certified nursing assistant",
}

// GoalNormalizer canonicalizes free-text certificate goals into the fixed
// vocabulary shared by learner answers and catalog rows.
type GoalNormalizer struct {
	synonyms  []string
	canonical models.CertificateGoal
}

// NewGoalNormalizer returns a normalizer with the default CNA synonym set.
func NewGoalNormalizer() *GoalNormalizer {
	return &GoalNormalizer{synonyms: defaultCNASynonyms, canonical: CanonicalCNA}
}

// NewGoalNormalizerWithSynonyms overrides the synonym vocabulary; empty
// input keeps the defaults.
func NewGoalNormalizerWithSynonyms(synonyms []string, canonical models.CertificateGoal) *GoalNormalizer {
	if len(synonyms) == 0 {
		return NewGoalNormalizer()
	}
	lowered := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			lowered = append(lowered, s)
		}
	}
	if canonical == "" {
		canonical = CanonicalCNA
	}
	return &GoalNormalizer{synonyms: lowered, canonical: canonical}
}

// NormalizeOne canonicalizes a single raw goal label.
func (n *GoalNormalizer) NormalizeOne(raw string) models.CertificateGoal {
	g := strings.ToLower(strings.TrimSpace(raw))
	for _, syn := range n.synonyms {
		if strings.Contains(g, syn) {
			return n.canonical
		}
	}
	return models.CertificateGoal(g)
}

// Normalize canonicalizes and deduplicates a goal list, dropping empties.
// First-appearance order is kept so output is deterministic for a given
// input sequence.
func (n *GoalNormalizer) Normalize(raw []string) []models.CertificateGoal {
	seen := make(map[models.CertificateGoal]struct{}, len(raw))
	out := make([]models.CertificateGoal, 0, len(raw))
	for _, r := range raw {
		g := n.NormalizeOne(r)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// ContainsCMA reports whether any normalized goal names the clinical
// medical assistant track. That track always escalates to staff.
func ContainsCMA(goals []models.CertificateGoal) bool {
	for _, g := range goals {
		if strings.Contains(strings.ToLower(string(g)), cmaMarker) {
			return true
		}
	}
	return false
}
