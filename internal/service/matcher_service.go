package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
)

// CourseMatcher maps a normalized goal set to a ranked course selection.
// Policy, in order: CMA staff handoff, perfect match (exact certificate-set
// equality), greedy cover of the remaining goals, and a last-resort
// most-comprehensive-course pick so a non-empty catalog never yields an
// empty recommendation.
type CourseMatcher struct {
	normalizer *GoalNormalizer
	maxCourses int
	logger     *zap.Logger
}

// NewCourseMatcher constructs the matcher. maxCourses bounds the greedy
// cover; values below 1 fall back to 3.
func NewCourseMatcher(normalizer *GoalNormalizer, maxCourses int, logger *zap.Logger) *CourseMatcher {
	if normalizer == nil {
		normalizer = NewGoalNormalizer()
	}
	if maxCourses < 1 {
		maxCourses = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseMatcher{normalizer: normalizer, maxCourses: maxCourses, logger: logger}
}

// Match evaluates the catalog against the goal set. The CMA gate fires
// before any catalog scan; it is a business rule, not a ranking choice.
func (m *CourseMatcher) Match(catalog []models.CourseRow, goals []models.CertificateGoal) models.MatchOutcome {
	if ContainsCMA(goals) {
		m.logger.Info("cma goal detected, escalating to staff")
		return models.MatchOutcome{RequiresStaffHandoff: true}
	}

	goalSet := make(map[models.CertificateGoal]struct{}, len(goals))
	for _, g := range goals {
		goalSet[g] = struct{}{}
	}

	// Catalog certificates pass through the same normalizer so typos in
	// casing or synonyms cannot split the vocabulary.
	rowCerts := make([]map[models.CertificateGoal]struct{}, len(catalog))
	for i, row := range catalog {
		certs := make(map[models.CertificateGoal]struct{}, len(row.CertificatesIncluded))
		for _, c := range row.CertificatesIncluded {
			certs[m.normalizer.NormalizeOne(string(c))] = struct{}{}
		}
		rowCerts[i] = certs
	}

	if perfect := m.perfectMatches(catalog, rowCerts, goalSet); len(perfect) > 0 {
		return models.MatchOutcome{MatchType: models.MatchPerfect, Courses: perfect}
	}

	if covered := m.greedyCover(catalog, rowCerts, goalSet); len(covered) > 0 {
		return models.MatchOutcome{MatchType: models.MatchFallback, Courses: covered}
	}

	if last := mostComprehensive(catalog); last != nil {
		m.logger.Info("no goal overlap, falling back to most comprehensive course",
			zap.String("course_code", last.CourseCode))
		return models.MatchOutcome{MatchType: models.MatchFallback, Courses: []models.CourseRow{*last}}
	}

	return models.MatchOutcome{MatchType: models.MatchFallback}
}

// perfectMatches returns rows whose certificate set equals the goal set,
// priority ascending. Equality already fixes the overlap count, so priority
// is the only meaningful tie-break; the sort is stable to keep catalog
// order on equal priority.
func (m *CourseMatcher) perfectMatches(
	catalog []models.CourseRow,
	rowCerts []map[models.CertificateGoal]struct{},
	goalSet map[models.CertificateGoal]struct{},
) []models.CourseRow {
	if len(goalSet) == 0 {
		return nil
	}
	var matches []models.CourseRow
	for i, row := range catalog {
		if setsEqual(rowCerts[i], goalSet) {
			matches = append(matches, row)
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Priority < matches[b].Priority
	})
	return matches
}

// greedyCover repeatedly picks the row with the highest overlap against the
// still-uncovered goals, lower priority winning ties. Every pick strictly
// shrinks the uncovered set, so the loop terminates.
func (m *CourseMatcher) greedyCover(
	catalog []models.CourseRow,
	rowCerts []map[models.CertificateGoal]struct{},
	goalSet map[models.CertificateGoal]struct{},
) []models.CourseRow {
	remaining := make(map[models.CertificateGoal]struct{}, len(goalSet))
	for g := range goalSet {
		remaining[g] = struct{}{}
	}

	picked := make([]models.CourseRow, 0, m.maxCourses)
	used := make(map[int]struct{}, m.maxCourses)

	for len(remaining) > 0 && len(picked) < m.maxCourses {
		best := -1
		bestOverlap := 0
		for i := range catalog {
			if _, taken := used[i]; taken {
				continue
			}
			overlap := overlapCount(rowCerts[i], remaining)
			if overlap == 0 {
				continue
			}
			if overlap > bestOverlap ||
				(overlap == bestOverlap && best >= 0 && catalog[i].Priority < catalog[best].Priority) {
				best = i
				bestOverlap = overlap
			}
		}
		if best < 0 {
			break
		}
		used[best] = struct{}{}
		picked = append(picked, catalog[best])
		for c := range rowCerts[best] {
			delete(remaining, c)
		}
	}
	return picked
}

func mostComprehensive(catalog []models.CourseRow) *models.CourseRow {
	var best *models.CourseRow
	bestCount := -1
	for i := range catalog {
		// Ties keep the earliest catalog row.
		if count := len(catalog[i].CertificatesIncluded); count > bestCount {
			best = &catalog[i]
			bestCount = count
		}
	}
	return best
}

func setsEqual(a, b map[models.CertificateGoal]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func overlapCount(certs, goals map[models.CertificateGoal]struct{}) int {
	n := 0
	for c := range certs {
		if _, ok := goals[c]; ok {
			n++
		}
	}
	return n
}
