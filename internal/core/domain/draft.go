package domain

import (
	"fmt"
	"time"
)

// DateLayout is the civil-date format used on the availability wire
// ("2024-05-01"). SlotLayout is the opaque time label a slot carries
// ("14:30"). TimestampLayout is the zone-less local timestamp the platform
// expects in appointment bodies.
const (
	DateLayout      = "2006-01-02"
	SlotLayout      = "15:04"
	TimestampLayout = "2006-01-02T15:04:05"
)

// GuestContact is the identity an unauthenticated customer types into the
// storefront wizard.
type GuestContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Complete reports whether all three contact fields were filled in.
func (g GuestContact) Complete() bool {
	return g.Name != "" && g.Email != "" && g.Phone != ""
}

// BookingDraft accumulates the selections made across wizard steps. It is
// owned by exactly one wizard instance and discarded on success or cancel.
//
// Date is a civil date in DateLayout; Slot is the opaque label picked from
// the availability response. Start and end timestamps are derived, never
// stored.
type BookingDraft struct {
	Service      *Service
	Professional *Professional
	Customer     *Customer
	Guest        GuestContact
	Date         string
	Slot         string
}

// SlotKey is the full (professional, date, service) triple the availability
// query is keyed by. Changing any one of the three produces a different key,
// which is how stale in-flight slot responses are recognised and dropped.
func (d BookingDraft) SlotKey() string {
	var prof, svc string
	if d.Professional != nil {
		prof = d.Professional.ID
	}
	if d.Service != nil {
		svc = d.Service.ID
	}
	return prof + "|" + d.Date + "|" + svc
}

// Interval derives the start and end timestamps of the drafted booking:
// date + slot combined, plus the service duration.
func (d BookingDraft) Interval() (start, end time.Time, err error) {
	if d.Service == nil || d.Date == "" || d.Slot == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("draft incomplete: service, date and slot are required")
	}
	start, err = time.ParseInLocation(TimestampLayout, d.Date+"T"+d.Slot+":00", time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse draft start: %w", err)
	}
	end = start.Add(time.Duration(d.Service.DurationMinutes) * time.Minute)
	return start, end, nil
}
