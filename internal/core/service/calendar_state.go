package service

import "time"

// CalendarState is the navigation state of a calendar view: the anchor date
// and the view mode. Transitions are pure; the only downstream effect is
// that a changed visible range triggers a refetch by the caller.
type CalendarState struct {
	Anchor time.Time
	Mode   ViewMode
}

// Previous shifts the anchor back by one day in day view, seven in week view.
func (s CalendarState) Previous() CalendarState {
	return s.shift(-1)
}

// Next shifts the anchor forward by one day in day view, seven in week view.
func (s CalendarState) Next() CalendarState {
	return s.shift(1)
}

// Today resets the anchor to the current date, keeping the view mode.
func (s CalendarState) Today(now time.Time) CalendarState {
	s.Anchor = dateOf(now)
	return s
}

// VisibleRange returns the half-open [from, to) interval of days the view
// covers, for fetching the matching appointment list.
func (s CalendarState) VisibleRange() (from, to time.Time) {
	if s.Mode == ViewWeek {
		from = startOfWeek(s.Anchor)
		return from, from.AddDate(0, 0, 7)
	}
	from = dateOf(s.Anchor)
	return from, from.AddDate(0, 0, 1)
}

func (s CalendarState) shift(direction int) CalendarState {
	days := 1
	if s.Mode == ViewWeek {
		days = 7
	}
	s.Anchor = s.Anchor.AddDate(0, 0, direction*days)
	return s
}
