package models

// MatchType labels how a course selection was produced.
type MatchType string

const (
	// MatchPerfect means a course's certificate set exactly equals the goal set.
	MatchPerfect MatchType = "perfect"
	// MatchFallback covers greedy-cover picks and the last-resort
	// most-comprehensive-course recommendation.
	MatchFallback MatchType = "fallback"
)

// MatchOutcome is the matcher's verdict. Either RequiresStaffHandoff is set
// and Courses is empty, or Courses holds the ranked selection with the
// primary recommendation at index 0.
type MatchOutcome struct {
	RequiresStaffHandoff bool        `json:"requires_staff_handoff"`
	MatchType            MatchType   `json:"match_type,omitempty"`
	Courses              []CourseRow `json:"courses,omitempty"`
}

// Primary returns the canonical single recommendation, nil when escalated
// or when the catalog was empty.
func (o MatchOutcome) Primary() *CourseRow {
	if o.RequiresStaffHandoff || len(o.Courses) == 0 {
		return nil
	}
	return &o.Courses[0]
}

// PaymentSummary is the deterministic tuition breakdown for the primary
// course. All amounts are integer currency units; the same inputs always
// produce the identical summary because this text is quoted verbatim to
// the learner and must never drift between turns.
type PaymentSummary struct {
	CourseCode        string           `json:"course_code"`
	TuitionPrice      int              `json:"tuition_price"`
	DiscountEligible  bool             `json:"discount_eligible"`
	PayInFullDiscount int              `json:"pay_in_full_discount,omitempty"`
	PayInFullPrice    int              `json:"pay_in_full_price,omitempty"`
	PlanAvailable     bool             `json:"plan_available"`
	DownPayment       int              `json:"down_payment,omitempty"`
	RemainingBalance  int              `json:"remaining_balance,omitempty"`
	Installments      int              `json:"installments,omitempty"`
	InstallmentAmount int              `json:"installment_amount,omitempty"`
	Frequency         PaymentFrequency `json:"frequency,omitempty"`
}

// RecommendationBundle is the engine's complete output, consumed by prompt
// assembly and by the CRM decision log. Built fresh per request, never
// persisted by the engine itself.
type RecommendationBundle struct {
	NormalizedGoals []CertificateGoal `json:"normalized_goals"`
	Match           MatchOutcome      `json:"match"`
	Payment         *PaymentSummary   `json:"payment,omitempty"`
	ScheduleOptions []ScheduleOption  `json:"schedule_options"`
}
