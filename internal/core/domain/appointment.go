package domain

import (
	"time"
)

// AppointmentStatus represents the lifecycle state of a calendar entry.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCanceled  AppointmentStatus = "CANCELED"
	StatusBlocked   AppointmentStatus = "BLOCKED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// Appointment is a single entry on the calendar: a booking for a customer,
// or an agenda block when Status is BLOCKED. Collections of appointments are
// ephemeral — replaced wholesale on every refetch, never mutated in place.
type Appointment struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
	Status           AppointmentStatus `json:"status"`
	ProfessionalID   string            `json:"professional_id,omitempty"`
	ProfessionalName string            `json:"professional_name,omitempty"`
	CustomerName     string            `json:"customer_name,omitempty"`
}

// IsBlock reports whether the appointment is an agenda block: a reservation
// with no service or customer association, created only to mark the
// professional unavailable.
func (a Appointment) IsBlock() bool {
	return a.Status == StatusBlocked
}

// Validate checks the structural invariant every calendar entry must hold.
func (a Appointment) Validate() error {
	if !a.StartTime.Before(a.EndTime) {
		return ErrInvalidInterval
	}
	return nil
}

// EventKind is the visual classification of an appointment on the grid.
// Which kind wins is a semantic contract, not cosmetics: the precedence
// order decides the styling token and must stay stable.
type EventKind string

const (
	KindBlocked  EventKind = "blocked"
	KindCanceled EventKind = "canceled"
	KindPast     EventKind = "past"
	KindUpcoming EventKind = "upcoming"
)

// Classify resolves the visual kind of an appointment relative to now.
// Precedence, highest first: BLOCKED > CANCELED > past > upcoming. A block
// whose end time has already elapsed is still classified as blocked, never
// as past.
func Classify(a Appointment, now time.Time) EventKind {
	switch {
	case a.Status == StatusBlocked:
		return KindBlocked
	case a.Status == StatusCanceled:
		return KindCanceled
	case a.EndTime.Before(now):
		return KindPast
	default:
		return KindUpcoming
	}
}
