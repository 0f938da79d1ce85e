package service

import (
	"fmt"
	"strings"

	"github.com/medready/enroll-advisor-api/internal/models"
)

// BuildSystemPrompt assembles the instruction block for the language model.
// Every pricing and schedule fact is rendered here from the deterministic
// bundle; the model is told to quote them verbatim and never to invent
// numbers of its own.
func BuildSystemPrompt(language string, programs []string, bundle *models.RecommendationBundle) string {
	if language == "" {
		language = "en"
	}
	programList := "none"
	if len(programs) > 0 {
		programList = strings.Join(programs, ", ")
	}

	var b strings.Builder
	b.WriteString("You are an enrollment assistant for a healthcare training school.\n")
	fmt.Fprintf(&b, "You speak to users in their preferred language: %s.\n", language)
	fmt.Fprintf(&b, "Programs of interest: %s.\n", programList)
	b.WriteString("Answer briefly, clearly, and always encourage them to enroll.\n")
	b.WriteString("If you don't know something (like specific schedule dates), say you'll have a staff member follow up.\n")

	if bundle != nil {
		b.WriteString("\n")
		b.WriteString(renderBundle(bundle))
	}

	return b.String()
}

// renderBundle turns the decision bundle into plain-text facts for the
// prompt. The wording around the pay-in-full reduction must always be
// "discount" for regulatory reasons.
func renderBundle(bundle *models.RecommendationBundle) string {
	var b strings.Builder

	if bundle.Match.RequiresStaffHandoff {
		b.WriteString("This learner asked about a program that requires a staff member. Do not recommend a course; tell them a staff member will reach out shortly.\n")
		return b.String()
	}

	primary := bundle.Match.Primary()
	if primary == nil {
		b.WriteString("No course recommendation is available. Tell the learner a staff member will help them pick a program.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Recommended course: %s (%s).\n", primary.CourseName, primary.CourseCode)
	if primary.Link != "" {
		fmt.Fprintf(&b, "Course page: %s\n", primary.Link)
	}
	if len(bundle.Match.Courses) > 1 {
		extras := make([]string, 0, len(bundle.Match.Courses)-1)
		for _, c := range bundle.Match.Courses[1:] {
			extras = append(extras, c.CourseName)
		}
		fmt.Fprintf(&b, "Also relevant: %s.\n", strings.Join(extras, ", "))
	}

	if p := bundle.Payment; p != nil {
		fmt.Fprintf(&b, "Tuition: $%d.\n", p.TuitionPrice)
		if p.DiscountEligible {
			fmt.Fprintf(&b, "Paying in full earns a $%d discount (always call it a discount), bringing tuition to $%d.\n", p.PayInFullDiscount, p.PayInFullPrice)
		}
		if p.PlanAvailable {
			fmt.Fprintf(&b, "Payment plan: $%d down, then %d %s payments of $%d.\n", p.DownPayment, p.Installments, p.Frequency, p.InstallmentAmount)
		} else {
			b.WriteString("No installment plan is offered for this course.\n")
		}
		b.WriteString("Quote these amounts exactly; never compute or invent prices.\n")
	} else {
		b.WriteString("Pricing is not on file for this course. Tell the learner to contact staff for pricing; never guess a price.\n")
	}

	if len(bundle.ScheduleOptions) > 0 {
		b.WriteString("Upcoming sessions to offer:\n")
		for _, opt := range bundle.ScheduleOptions {
			line := opt.Label
			if line == "" {
				line = opt.StartDate + " " + opt.StartTime
			}
			if opt.DayOfWeek != "" {
				line += " (" + opt.DayOfWeek + ")"
			}
			if opt.Location != "" {
				line += " at " + opt.Location
			}
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(line))
		}
	} else {
		b.WriteString("No session dates are available right now; say the school will help them choose a session after enrollment.\n")
	}

	return b.String()
}
