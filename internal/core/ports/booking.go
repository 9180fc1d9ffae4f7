package ports

import "context"

// SlotSource answers the dependent availability query a wizard issues when
// the (professional, date, service) triple changes.
type SlotSource interface {
	QuerySlots(ctx context.Context, q SlotQuery) ([]string, error)
}

// StaffBooker is the submission surface of the staff-initiated wizard.
type StaffBooker interface {
	SlotSource
	Book(ctx context.Context, req AppointmentRequest) error
}

// GuestBooker is the submission surface of the guest-initiated wizard,
// including the optional post-booking account creation.
type GuestBooker interface {
	SlotSource
	BookGuest(ctx context.Context, req GuestAppointmentRequest) error
	RegisterAccount(ctx context.Context, email, password string) error
}
