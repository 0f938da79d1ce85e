package models

import "time"

// CertificateGoal is a canonical lowercase certificate label, e.g.
// "nursing assistant training". Normalization is the only place these are
// created; everything downstream compares them by value.
type CertificateGoal string

// DefaultPriority is assumed when a catalog row has a missing or
// non-numeric priority column. Lower values are preferred.
const DefaultPriority = 999

// CourseRow is one offered course from the catalog snapshot.
type CourseRow struct {
	CourseCode           string            `json:"course_code"`
	CourseName           string            `json:"course_name"`
	CertificatesIncluded []CertificateGoal `json:"certificates_included"`
	Link                 string            `json:"link,omitempty"`
	Priority             int               `json:"priority"`
	PIFDiscountAvailable bool              `json:"pif_discount_available"`
}

// PaymentFrequency enumerates installment cadences.
type PaymentFrequency string

const (
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "biweekly"
)

// DefaultPlanLengthWeeks is assumed when the payment table omits or
// mangles the plan length.
const DefaultPlanLengthWeeks = 10

// PaymentRow is one payment-terms record keyed by course code. At most one
// row is expected per code; on duplicates the first row in table order wins.
type PaymentRow struct {
	CourseCode            string           `json:"course_code"`
	TuitionPrice          int              `json:"tuition_price"`
	DiscountApplicable    bool             `json:"discount_applicable"`
	PaymentPlanApplicable bool             `json:"payment_plan_applicable"`
	PlanLengthWeeks       int              `json:"plan_length_weeks"`
	Frequency             PaymentFrequency `json:"frequency"`
}

// CatalogSnapshot bundles the course catalog and payment table fetched at
// one instant. A snapshot is immutable once published; the engine never
// mutates it and concurrent requests may share one freely.
type CatalogSnapshot struct {
	Courses   []CourseRow  `json:"courses"`
	Payments  []PaymentRow `json:"payments"`
	FetchedAt time.Time    `json:"fetched_at"`
}
