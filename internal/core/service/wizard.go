package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

// WizardVariant tags which step table a wizard runs.
type WizardVariant string

const (
	VariantStaff WizardVariant = "staff"
	VariantGuest WizardVariant = "guest"
)

// WizardStep identifies one state of the booking machine.
type WizardStep string

const (
	StepSelectService      WizardStep = "SELECT_SERVICE"
	StepSelectProfessional WizardStep = "SELECT_PROFESSIONAL"
	StepSelectCustomer     WizardStep = "SELECT_CUSTOMER"
	StepSelectDateTime     WizardStep = "SELECT_DATE_TIME"
	StepGuestDetails       WizardStep = "GUEST_DETAILS"
	StepConfirm            WizardStep = "CONFIRM"
	StepSubmitted          WizardStep = "SUBMITTED"
)

// wizardSteps is the ordered step table per variant. The staff flow selects
// an existing customer; the guest flow collects contact details instead.
var wizardSteps = map[WizardVariant][]WizardStep{
	VariantStaff: {StepSelectService, StepSelectProfessional, StepSelectCustomer, StepSelectDateTime, StepConfirm, StepSubmitted},
	VariantGuest: {StepSelectService, StepSelectProfessional, StepSelectDateTime, StepGuestDetails, StepConfirm, StepSubmitted},
}

// stepGuards holds the completion predicate of each step: Advance only moves
// past a step whose guard accepts the draft. Confirm has no guard entry —
// the only way out of Confirm is a successful submission.
var stepGuards = map[WizardStep]func(domain.BookingDraft) bool{
	StepSelectService:      func(d domain.BookingDraft) bool { return d.Service != nil },
	StepSelectProfessional: func(d domain.BookingDraft) bool { return d.Professional != nil },
	StepSelectCustomer:     func(d domain.BookingDraft) bool { return d.Customer != nil },
	StepSelectDateTime:     func(d domain.BookingDraft) bool { return d.Date != "" && d.Slot != "" },
	StepGuestDetails:       func(d domain.BookingDraft) bool { return d.Guest.Complete() },
}

// Wizard is one live booking flow: a finite-state machine over a single
// draft. An instance is owned by one caller; the mutex only serialises the
// handful of operations that can overlap with an in-flight network call.
type Wizard struct {
	mu      sync.Mutex
	id      string
	variant WizardVariant
	// tenant is the storefront tenant a guest wizard was opened for; empty on
	// the staff variant, whose scope comes from the session.
	tenant string
	steps  []WizardStep
	idx    int
	draft  domain.BookingDraft

	// slots holds the last availability answer together with the triple key
	// it answered; an answer arriving for a superseded key is dropped.
	slots    []string
	slotsKey string

	// submitting implements the single-flight rule: while one submission is
	// in flight a second Submit is rejected instead of racing it.
	submitting bool

	// accountEmail survives the draft reset so the guest can attach a
	// password to the contact used for the booking.
	accountEmail string
	accountDone  bool

	staff ports.StaffBooker
	guest ports.GuestBooker
	log   zerolog.Logger
}

// NewStaffWizard creates a staff-initiated wizard driving the authenticated
// booking surface.
func NewStaffWizard(id string, booker ports.StaffBooker, log zerolog.Logger) *Wizard {
	return &Wizard{id: id, variant: VariantStaff, steps: wizardSteps[VariantStaff], staff: booker, log: log}
}

// NewGuestWizard creates a guest-initiated wizard driving the public
// storefront surface of one tenant. The wizard stays bound to that tenant
// for its whole life.
func NewGuestWizard(id, tenantID string, booker ports.GuestBooker, log zerolog.Logger) *Wizard {
	return &Wizard{id: id, variant: VariantGuest, tenant: tenantID, steps: wizardSteps[VariantGuest], guest: booker, log: log}
}

func (w *Wizard) ID() string             { return w.id }
func (w *Wizard) Variant() WizardVariant { return w.variant }

// TenantID returns the tenant a guest wizard is bound to; empty for the
// staff variant.
func (w *Wizard) TenantID() string { return w.tenant }

// Step returns the current state.
func (w *Wizard) Step() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.idx]
}

// Progress reports the 1-based step position and the number of interactive
// steps ("step 2 of 5"); the terminal Submitted state is not counted.
func (w *Wizard) Progress() (current, total int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	total = len(w.steps) - 1
	current = w.idx + 1
	if current > total {
		current = total
	}
	return current, total
}

// Draft returns a copy of the accumulated selections.
func (w *Wizard) Draft() domain.BookingDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Slots returns the last applied availability answer.
func (w *Wizard) Slots() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slots
}

// SelectService records the service choice. A previously selected slot is
// deliberately left in place even though the service influences slot
// feasibility; see the pinned-behavior note in DESIGN.md.
func (w *Wizard) SelectService(s domain.Service) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Service = &s
}

// SelectProfessional records the professional choice.
func (w *Wizard) SelectProfessional(p domain.Professional) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Professional = &p
}

// SelectCustomer records the customer choice (staff variant).
func (w *Wizard) SelectCustomer(c domain.Customer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Customer = &c
}

// SelectDate records the civil date choice.
func (w *Wizard) SelectDate(date string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Date = date
}

// SelectSlot records the chosen time label.
func (w *Wizard) SelectSlot(slot string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Slot = slot
}

// SetGuestDetails records the storefront contact fields (guest variant).
func (w *Wizard) SetGuestDetails(contact domain.GuestContact) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Guest = contact
}

// Advance moves to the next step when the current step's guard accepts the
// draft; otherwise it is a no-op and the current step is returned unchanged.
// Entering the date/time step triggers the dependent slot query; a fetch
// failure is reported but does not undo the transition.
func (w *Wizard) Advance(ctx context.Context) (WizardStep, error) {
	w.mu.Lock()
	step := w.steps[w.idx]
	guard, ok := stepGuards[step]
	if !ok || !guard(w.draft) {
		w.mu.Unlock()
		return step, nil
	}
	w.idx++
	entered := w.steps[w.idx]
	w.mu.Unlock()

	if entered == StepSelectDateTime {
		if _, err := w.RefreshSlots(ctx); err != nil {
			return entered, err
		}
	}
	return entered, nil
}

// Retreat moves to the previous step unconditionally. At the first step, and
// after a completed submission, it is a no-op.
func (w *Wizard) Retreat() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.idx > 0 && w.steps[w.idx] != StepSubmitted {
		w.idx--
	}
	return w.steps[w.idx]
}

// RefreshSlots re-issues the availability query for the draft's current
// (professional, date, service) triple. If the triple changed while the
// request was in flight the answer is stale and discarded — the caller sees
// whatever slots are currently applied. With an incomplete triple nothing is
// queried.
func (w *Wizard) RefreshSlots(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	q, key, ok := w.slotQueryLocked()
	w.mu.Unlock()
	if !ok {
		return nil, nil
	}

	slots, err := w.slotSource().QuerySlots(ctx, q)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft.SlotKey() != key {
		w.log.Debug().Str("wizard_id", w.id).Str("stale_key", key).Msg("dropping superseded slot response")
		return w.slots, nil
	}
	w.slots = slots
	w.slotsKey = key
	return slots, nil
}

// Submit sends the accumulated draft to the booking endpoint of the wizard's
// variant. Only valid on the confirmation step. On success the machine moves
// to Submitted and the draft is cleared; on failure the machine stays on
// Confirm with the draft preserved so the user can retry.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.steps[w.idx] == StepSubmitted:
		w.mu.Unlock()
		return domain.ErrAlreadySubmitted
	case w.steps[w.idx] != StepConfirm:
		w.mu.Unlock()
		return domain.ErrNotConfirmable
	case w.submitting:
		w.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	w.submitting = true
	draft := w.draft
	w.mu.Unlock()

	err := w.submitDraft(ctx, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.log.Warn().Err(err).Str("wizard_id", w.id).Str("variant", string(w.variant)).Msg("booking submission failed")
		return err
	}

	w.accountEmail = draft.Guest.Email
	w.idx = len(w.steps) - 1
	w.draft = domain.BookingDraft{}
	w.slots = nil
	w.slotsKey = ""
	w.log.Info().Str("wizard_id", w.id).Str("variant", string(w.variant)).Msg("booking submitted")
	return nil
}

// SetupAccount attaches a password to the guest contact email used for the
// just-submitted booking. Independent of the booking itself: a failure here
// never rolls the booking back.
func (w *Wizard) SetupAccount(ctx context.Context, password string) error {
	w.mu.Lock()
	if w.variant != VariantGuest || w.steps[w.idx] != StepSubmitted {
		w.mu.Unlock()
		return domain.ErrNotConfirmable
	}
	email := w.accountEmail
	w.mu.Unlock()

	if err := w.guest.RegisterAccount(ctx, email, password); err != nil {
		return err
	}

	w.mu.Lock()
	w.accountDone = true
	w.mu.Unlock()
	return nil
}

// AccountCreated reports whether the optional post-booking account setup
// completed.
func (w *Wizard) AccountCreated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accountDone
}

func (w *Wizard) submitDraft(ctx context.Context, draft domain.BookingDraft) error {
	start, end, err := draft.Interval()
	if err != nil {
		return err
	}

	if w.variant == VariantGuest {
		return w.guest.BookGuest(ctx, ports.GuestAppointmentRequest{
			ProfessionalID:  draft.Professional.ID,
			ServiceID:       draft.Service.ID,
			CustomerName:    draft.Guest.Name,
			CustomerEmail:   draft.Guest.Email,
			CustomerPhone:   draft.Guest.Phone,
			AppointmentTime: start.Format(domain.TimestampLayout),
		})
	}

	serviceID := draft.Service.ID
	customerID := draft.Customer.ID
	return w.staff.Book(ctx, ports.AppointmentRequest{
		ProfessionalID:    draft.Professional.ID,
		BusinessServiceID: &serviceID,
		CustomerID:        &customerID,
		StartDate:         start.Format(domain.TimestampLayout),
		EndDate:           end.Format(domain.TimestampLayout),
		Status:            string(domain.StatusScheduled),
	})
}

// slotQueryLocked assembles the availability query; ok is false while the
// triple is incomplete. Callers must hold the mutex.
func (w *Wizard) slotQueryLocked() (q ports.SlotQuery, key string, ok bool) {
	if w.draft.Professional == nil || w.draft.Date == "" || w.draft.Service == nil {
		return ports.SlotQuery{}, "", false
	}
	return ports.SlotQuery{
		ProfessionalID: w.draft.Professional.ID,
		Date:           w.draft.Date,
		ServiceID:      w.draft.Service.ID,
	}, w.draft.SlotKey(), true
}

func (w *Wizard) slotSource() ports.SlotSource {
	if w.variant == VariantGuest {
		return w.guest
	}
	return w.staff
}
