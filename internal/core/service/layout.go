package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bookline/booking-gateway/internal/core/domain"
)

// The grid is a fixed window of 16 hourly rows starting at 07:00. Vertical
// positions are expressed in minutes since grid start; pixel values derive
// from HourHeight.
const (
	GridStartHour   = 7
	GridHours       = 16
	HourHeight      = 80
	gridStartMinute = GridStartHour * 60
	gridSpanMinutes = GridHours * 60
)

// ViewMode selects how many columns the grid renders.
type ViewMode string

const (
	ViewDay  ViewMode = "day"
	ViewWeek ViewMode = "week"
)

// PositionedEvent is an appointment with its resolved vertical placement and
// visual kind. Events starting before 07:00 are clamped to offset zero; no
// bottom clip is applied, an event running past 23:00 simply overflows.
type PositionedEvent struct {
	domain.Appointment
	Kind            domain.EventKind `json:"kind"`
	OffsetMinutes   int              `json:"offset_minutes"`
	DurationMinutes int              `json:"duration_minutes"`
}

// OffsetPx converts the vertical offset to pixels at HourHeight per hour.
func (p PositionedEvent) OffsetPx() float64 {
	return float64(p.OffsetMinutes) / 60 * HourHeight
}

// HeightPx converts the duration to pixels at HourHeight per hour.
func (p PositionedEvent) HeightPx() float64 {
	return float64(p.DurationMinutes) / 60 * HourHeight
}

// Column is one vertical lane of the grid: a calendar day, or one
// professional (swimlane) in resource day view.
type Column struct {
	Key            string            `json:"key"`
	Title          string            `json:"title"`
	Subtitle       string            `json:"subtitle"`
	Date           time.Time         `json:"date"`
	ProfessionalID string            `json:"professional_id,omitempty"`
	IsToday        bool              `json:"is_today"`
	Events         []PositionedEvent `json:"events"`
}

// Grid is the fully computed layout for one view.
type Grid struct {
	Columns []Column `json:"columns"`
	// NowOffsetMinutes positions the current-time indicator; nil when the
	// current time falls outside the 07:00–23:00 window.
	NowOffsetMinutes *int `json:"now_offset_minutes,omitempty"`
}

// BuildGrid lays out events for the requested view. It is a pure function of
// its inputs: no clock reads, no fetching, no styling.
//
// Column resolution: day view with a non-empty lane list produces one column
// per professional, each filtered to the anchor date and that professional;
// otherwise one column per visible day (1 in day view, 7 in week view, week
// starting on Sunday).
//
// Overlapping events in the same column are positioned independently and may
// collide; no lateral de-overlap is applied.
func BuildGrid(events []domain.Appointment, mode ViewMode, anchor time.Time, lanes []domain.Professional, now time.Time) Grid {
	var cols []Column

	if mode == ViewDay && len(lanes) > 0 {
		for _, lane := range lanes {
			cols = append(cols, Column{
				Key:            lane.ID,
				Title:          lane.Name,
				Subtitle:       anchor.Format("02/01"),
				Date:           dateOf(anchor),
				ProfessionalID: lane.ID,
				IsToday:        sameDay(anchor, now),
				Events:         positionAll(filterEvents(events, anchor, lane.ID), now),
			})
		}
	} else {
		for _, day := range visibleDays(mode, anchor) {
			cols = append(cols, Column{
				Key:      day.Format(domain.DateLayout),
				Title:    strings.ToUpper(day.Format("Mon")),
				Subtitle: fmt.Sprintf("%d", day.Day()),
				Date:     day,
				IsToday:  sameDay(day, now),
				Events:   positionAll(filterEvents(events, day, ""), now),
			})
		}
	}

	return Grid{Columns: cols, NowOffsetMinutes: NowIndicatorOffset(now)}
}

// NowIndicatorOffset returns the current-time line position in minutes since
// grid start, or nil when now lies outside the grid window.
func NowIndicatorOffset(now time.Time) *int {
	mins := now.Hour()*60 + now.Minute() - gridStartMinute
	if mins < 0 || mins > gridSpanMinutes {
		return nil
	}
	return &mins
}

// positionAll resolves placement and kind for every event of a column.
func positionAll(events []domain.Appointment, now time.Time) []PositionedEvent {
	out := make([]PositionedEvent, 0, len(events))
	for _, e := range events {
		offset := minutesSinceMidnight(e.StartTime) - gridStartMinute
		if offset < 0 {
			offset = 0
		}
		out = append(out, PositionedEvent{
			Appointment:     e,
			Kind:            domain.Classify(e, now),
			OffsetMinutes:   offset,
			DurationMinutes: int(e.EndTime.Sub(e.StartTime) / time.Minute),
		})
	}
	return out
}

// filterEvents keeps events starting on day, optionally narrowed to one
// professional. Events with an inverted or empty interval are dropped; the
// upstream feed is not trusted to uphold that invariant.
func filterEvents(events []domain.Appointment, day time.Time, professionalID string) []domain.Appointment {
	var out []domain.Appointment
	for _, e := range events {
		if e.Validate() != nil {
			continue
		}
		if !sameDay(e.StartTime, day) {
			continue
		}
		if professionalID != "" && e.ProfessionalID != professionalID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// visibleDays expands the anchor into the days the view renders.
func visibleDays(mode ViewMode, anchor time.Time) []time.Time {
	if mode == ViewWeek {
		start := startOfWeek(anchor)
		days := make([]time.Time, 7)
		for i := range days {
			days[i] = start.AddDate(0, 0, i)
		}
		return days
	}
	return []time.Time{dateOf(anchor)}
}

// startOfWeek truncates to the preceding (or same) Sunday.
func startOfWeek(t time.Time) time.Time {
	return dateOf(t).AddDate(0, 0, -int(t.Weekday()))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
