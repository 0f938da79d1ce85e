package service

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medready/enroll-advisor-api/internal/models"
)

// maxPresentedOptions caps how many session slots the bot ever presents.
const maxPresentedOptions = 2

// startLayouts are tried in order when an option lacks a full ISO instant.
var startLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ScheduleSelector filters and ranks session offerings against the
// learner's availability and returns at most two, soonest first.
type ScheduleSelector struct {
	logger *zap.Logger
}

// NewScheduleSelector constructs the selector.
func NewScheduleSelector(logger *zap.Logger) *ScheduleSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleSelector{logger: logger}
}

// SelectBestTwo applies the day-off filter when one is given, falls back to
// the full set when the filter empties the candidates (availability is a
// soft preference; a learner should never see "no options" while any
// exist), drops unparseable starts, and returns the two soonest.
func (s *ScheduleSelector) SelectBestTwo(options []models.ScheduleOption, availability models.Availability) []models.ScheduleOption {
	candidates := options

	if availability.Type == models.AvailabilityDaysOff && len(availability.DaysOff) > 0 {
		days := make(map[string]struct{}, len(availability.DaysOff))
		for _, d := range availability.DaysOff {
			days[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
		}
		filtered := make([]models.ScheduleOption, 0, len(options))
		for _, opt := range options {
			if _, ok := days[strings.ToLower(strings.TrimSpace(opt.DayOfWeek))]; ok {
				filtered = append(filtered, opt)
			}
		}
		// An empty filter result falls through to the unfiltered set; a
		// non-empty one is ranked as-is even if it holds a single slot.
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	ranked := s.rankBySoonest(candidates)
	if len(ranked) > maxPresentedOptions {
		ranked = ranked[:maxPresentedOptions]
	}
	return ranked
}

type datedOption struct {
	opt   models.ScheduleOption
	start time.Time
}

// rankBySoonest sorts parseable options by start instant ascending.
// Options whose start cannot be parsed are excluded entirely rather than
// sorted as "now".
func (s *ScheduleSelector) rankBySoonest(options []models.ScheduleOption) []models.ScheduleOption {
	dated := make([]datedOption, 0, len(options))
	for _, opt := range options {
		start, ok := parseStart(opt)
		if !ok {
			s.logger.Debug("dropping schedule option with unparseable start",
				zap.String("label", opt.Label),
				zap.String("start_date", opt.StartDate))
			continue
		}
		dated = append(dated, datedOption{opt: opt, start: start})
	}

	sort.SliceStable(dated, func(a, b int) bool {
		return dated[a].start.Before(dated[b].start)
	})

	out := make([]models.ScheduleOption, len(dated))
	for i, d := range dated {
		out[i] = d.opt
	}
	return out
}

// parseStart prefers the combined ISO instant, then falls back to joining
// the separate date and time-of-day fields.
func parseStart(opt models.ScheduleOption) (time.Time, bool) {
	if iso := strings.TrimSpace(opt.StartDateTimeISO); iso != "" {
		if t, err := time.Parse(time.RFC3339, iso); err == nil {
			return t, true
		}
		for _, layout := range startLayouts {
			if t, err := time.Parse(layout, iso); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	date := strings.TrimSpace(opt.StartDate)
	clock := strings.TrimSpace(opt.StartTime)
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, date+"T"+clock); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
