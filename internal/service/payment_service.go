package service

import (
	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
)

// PaymentPlannerConfig carries the school's pricing levers.
type PaymentPlannerConfig struct {
	// DownPaymentPercent of tuition due up front when financing.
	DownPaymentPercent int
	// PayInFullDiscount is a fixed currency amount. Regulatory language
	// requires presenting this as a "discount", never a rate or fee.
	PayInFullDiscount int
}

// PaymentPlanner computes the deterministic tuition summary for a course.
// All arithmetic is integer-only so identical inputs always produce a
// byte-identical summary.
type PaymentPlanner struct {
	cfg    PaymentPlannerConfig
	logger *zap.Logger
}

// NewPaymentPlanner applies config defaults.
func NewPaymentPlanner(cfg PaymentPlannerConfig, logger *zap.Logger) *PaymentPlanner {
	if cfg.DownPaymentPercent <= 0 {
		cfg.DownPaymentPercent = 10
	}
	if cfg.PayInFullDiscount < 0 {
		cfg.PayInFullDiscount = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentPlanner{cfg: cfg, logger: logger}
}

// ComputePayment looks up the course in the payment table (first row wins
// on duplicate codes) and returns the summary, or nil when no row exists;
// the caller must then offer "contact staff for pricing" instead of ever
// fabricating a price.
func (p *PaymentPlanner) ComputePayment(course models.CourseRow, table []models.PaymentRow) *models.PaymentSummary {
	var row *models.PaymentRow
	for i := range table {
		if table[i].CourseCode == course.CourseCode {
			row = &table[i]
			break
		}
	}
	if row == nil {
		p.logger.Warn("no payment row for course", zap.String("course_code", course.CourseCode))
		return nil
	}

	summary := &models.PaymentSummary{
		CourseCode:       course.CourseCode,
		TuitionPrice:     row.TuitionPrice,
		DiscountEligible: row.DiscountApplicable || course.PIFDiscountAvailable,
		PlanAvailable:    row.PaymentPlanApplicable,
	}

	if summary.DiscountEligible {
		summary.PayInFullDiscount = p.cfg.PayInFullDiscount
		summary.PayInFullPrice = row.TuitionPrice - p.cfg.PayInFullDiscount
		if summary.PayInFullPrice < 0 {
			summary.PayInFullPrice = 0
		}
	}

	if !row.PaymentPlanApplicable {
		return summary
	}

	weeks := row.PlanLengthWeeks
	if weeks <= 0 {
		weeks = models.DefaultPlanLengthWeeks
	}

	down := roundHalfUp(row.TuitionPrice*p.cfg.DownPaymentPercent, 100)
	remaining := row.TuitionPrice - down
	if remaining < 0 {
		remaining = 0
	}

	installments := weeks
	frequency := row.Frequency
	if frequency == models.FrequencyBiweekly {
		installments = ceilDiv(weeks, 2)
	} else {
		frequency = models.FrequencyWeekly
	}
	if installments < 1 {
		installments = 1
	}

	summary.DownPayment = down
	summary.RemainingBalance = remaining
	summary.Installments = installments
	summary.InstallmentAmount = ceilDiv(remaining, installments)
	summary.Frequency = frequency

	return summary
}

// roundHalfUp divides num by den rounding .5 away from zero, integer-only.
func roundHalfUp(num, den int) int {
	return (num + den/2) / den
}

func ceilDiv(num, den int) int {
	return (num + den - 1) / den
}
