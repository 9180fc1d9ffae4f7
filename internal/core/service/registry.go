package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

// WizardRegistry tracks live wizard instances by id. Each draft is owned by
// exactly one wizard; dropping the wizard discards the draft.
type WizardRegistry struct {
	mu      sync.RWMutex
	wizards map[string]*Wizard
	log     zerolog.Logger
}

func NewWizardRegistry(log zerolog.Logger) *WizardRegistry {
	return &WizardRegistry{wizards: make(map[string]*Wizard), log: log}
}

// StartStaff creates and registers a staff-variant wizard.
func (r *WizardRegistry) StartStaff(booker ports.StaffBooker) *Wizard {
	w := NewStaffWizard(uuid.NewString(), booker, r.log)
	r.put(w)
	return w
}

// StartGuest creates and registers a guest-variant wizard bound to tenantID.
func (r *WizardRegistry) StartGuest(tenantID string, booker ports.GuestBooker) *Wizard {
	w := NewGuestWizard(uuid.NewString(), tenantID, booker, r.log)
	r.put(w)
	return w
}

// Get looks up a live wizard.
func (r *WizardRegistry) Get(id string) (*Wizard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wizards[id]
	if !ok {
		return nil, domain.ErrWizardNotFound
	}
	return w, nil
}

// Drop removes a wizard, discarding its draft.
func (r *WizardRegistry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wizards, id)
}

func (r *WizardRegistry) put(w *Wizard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wizards[w.ID()] = w
}
