package models

// ScheduleOption is one offered session instance, already scoped to a
// single course by the calendar bridge. Start fields stay raw strings until
// the selector parses them; a bad timestamp must drop the option, not the
// request.
type ScheduleOption struct {
	StartDateTimeISO string `json:"startDateTimeISO,omitempty"`
	StartDate        string `json:"startDate,omitempty"`
	StartTime        string `json:"startTime,omitempty"`
	DayOfWeek        string `json:"dayOfWeek"`
	Label            string `json:"label,omitempty"`
	Location         string `json:"location,omitempty"`
}

// AvailabilityType enumerates the pre-screen availability answers.
type AvailabilityType string

const (
	AvailabilityDaysOff       AvailabilityType = "daysOff"
	AvailabilityNoSetSchedule AvailabilityType = "noSetSchedule"
	AvailabilityNotWorking    AvailabilityType = "notWorking"
)

// Availability is the learner's scheduling constraint. DaysOff carries the
// weekday names the learner has free; for the other two variants it is
// empty and no day filter applies.
type Availability struct {
	Type    AvailabilityType `json:"type"`
	DaysOff []string         `json:"daysOff,omitempty"`
}
