package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/api/metrics"
	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/service"
)

// StorefrontFactory binds a storefront service to one tenant id per request.
type StorefrontFactory func(tenantID string) *service.StorefrontService

// wizardCatalog is the subset of the catalog a wizard needs to resolve
// selection ids into full records.
type wizardCatalog interface {
	Services(ctx context.Context) ([]domain.Service, error)
	Professionals(ctx context.Context) ([]domain.Professional, error)
}

// WizardHandler drives both wizard variants over HTTP. The staff variant
// lives under the authenticated admin surface, the guest variant under the
// public storefront; both share the same machine.
type WizardHandler struct {
	registry   *service.WizardRegistry
	schedule   *service.ScheduleService
	storefront StorefrontFactory
	log        zerolog.Logger
}

func NewWizardHandler(registry *service.WizardRegistry, schedule *service.ScheduleService, storefront StorefrontFactory, log zerolog.Logger) *WizardHandler {
	return &WizardHandler{registry: registry, schedule: schedule, storefront: storefront, log: log}
}

type wizardSelectRequest struct {
	ServiceID      string `json:"service_id,omitempty"`
	ProfessionalID string `json:"professional_id,omitempty"`
	CustomerID     string `json:"customer_id,omitempty"`
	Date           string `json:"date,omitempty"       validate:"omitempty,datetime=2006-01-02"`
	Slot           string `json:"slot,omitempty"`
	GuestName      string `json:"guest_name,omitempty"`
	GuestEmail     string `json:"guest_email,omitempty" validate:"omitempty,email"`
	GuestPhone     string `json:"guest_phone,omitempty"`
}

type accountRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// StartStaff opens a staff-initiated wizard.
func (h *WizardHandler) StartStaff(c echo.Context) error {
	w := h.registry.StartStaff(h.schedule)
	return c.JSON(http.StatusCreated, wizardView(w))
}

// StartGuest opens a guest-initiated wizard for the tenant in the path.
func (h *WizardHandler) StartGuest(c echo.Context) error {
	tenantID := c.Param("tenantId")
	w := h.registry.StartGuest(tenantID, h.storefront(tenantID))
	return c.JSON(http.StatusCreated, wizardView(w))
}

// lookup resolves the wizard id for the surface the request arrived on.
// Admin routes carry no tenant segment and reach staff wizards only; public
// routes reach guest wizards bound to the tenant in the path. A wizard that
// exists but belongs to the other surface, or to another tenant, is
// indistinguishable from a missing one.
func (h *WizardHandler) lookup(c echo.Context) (*service.Wizard, error) {
	w, err := h.registry.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	if tenantID := c.Param("tenantId"); tenantID != "" {
		if w.Variant() != service.VariantGuest || w.TenantID() != tenantID {
			return nil, domain.ErrWizardNotFound
		}
		return w, nil
	}
	if w.Variant() != service.VariantStaff {
		return nil, domain.ErrWizardNotFound
	}
	return w, nil
}

// Get returns the wizard's current step, draft and slots.
func (h *WizardHandler) Get(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wizardView(w))
}

// SelectStaff applies selections on a staff wizard, resolving ids through
// the tenant's own catalog.
func (h *WizardHandler) SelectStaff(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}
	return h.applySelections(c, w, h.schedule, true)
}

// SelectGuest applies selections on a guest wizard through the public
// catalog of the tenant it was opened for.
func (h *WizardHandler) SelectGuest(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}
	return h.applySelections(c, w, h.storefront(w.TenantID()), false)
}

// Advance asks the machine to move forward. A step whose guard does not
// hold leaves the state unchanged; that is not an error.
func (h *WizardHandler) Advance(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}
	if _, err := w.Advance(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wizardView(w))
}

// Retreat moves one step back.
func (h *WizardHandler) Retreat(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}
	w.Retreat()
	return c.JSON(http.StatusOK, wizardView(w))
}

// Slots re-issues the availability query for the draft's current triple.
func (h *WizardHandler) Slots(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}
	slots, err := h.refreshSlots(c.Request().Context(), w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]string{"slots": slots})
}

// Submit sends the draft to the booking endpoint of the wizard's variant.
func (h *WizardHandler) Submit(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}

	err = w.Submit(c.Request().Context())
	metrics.BookingsSubmittedTotal.WithLabelValues(string(w.Variant()), submitOutcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, wizardView(w))
}

// Account performs the guest's optional post-booking password setup.
func (h *WizardHandler) Account(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}

	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := w.SetupAccount(c.Request().Context(), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wizardView(w))
}

// Cancel drops the wizard, discarding its draft.
func (h *WizardHandler) Cancel(c echo.Context) error {
	w, err := h.lookup(c)
	if err != nil {
		return err
	}
	h.registry.Drop(w.ID())
	return c.NoContent(http.StatusNoContent)
}

// applySelections records every selection present in the body. Changing the
// professional, date or service while on the date/time step re-issues the
// dependent slot query; a previously chosen slot is intentionally left in
// place.
func (h *WizardHandler) applySelections(c echo.Context, w *service.Wizard, catalog wizardCatalog, allowCustomer bool) error {
	var req wizardSelectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	tripleChanged := false

	if req.ServiceID != "" {
		svc, err := findService(ctx, catalog, req.ServiceID)
		if err != nil {
			return err
		}
		w.SelectService(*svc)
		tripleChanged = true
	}
	if req.ProfessionalID != "" {
		prof, err := findProfessional(ctx, catalog, req.ProfessionalID)
		if err != nil {
			return err
		}
		w.SelectProfessional(*prof)
		tripleChanged = true
	}
	if req.CustomerID != "" {
		if !allowCustomer {
			return echo.NewHTTPError(http.StatusBadRequest, "customer selection is not part of the guest flow")
		}
		cust, err := h.findCustomer(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		w.SelectCustomer(*cust)
	}
	if req.Date != "" {
		w.SelectDate(req.Date)
		tripleChanged = true
	}
	if req.Slot != "" {
		w.SelectSlot(req.Slot)
	}
	if req.GuestName != "" || req.GuestEmail != "" || req.GuestPhone != "" {
		contact := w.Draft().Guest
		if req.GuestName != "" {
			contact.Name = req.GuestName
		}
		if req.GuestEmail != "" {
			contact.Email = req.GuestEmail
		}
		if req.GuestPhone != "" {
			contact.Phone = req.GuestPhone
		}
		w.SetGuestDetails(contact)
	}

	if tripleChanged && w.Step() == service.StepSelectDateTime {
		if _, err := h.refreshSlots(ctx, w); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, wizardView(w))
}

func (h *WizardHandler) refreshSlots(ctx context.Context, w *service.Wizard) ([]string, error) {
	metrics.SlotQueriesTotal.WithLabelValues(string(w.Variant())).Inc()
	return w.RefreshSlots(ctx)
}

func (h *WizardHandler) findCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customers, err := h.schedule.Customers(ctx)
	if err != nil {
		return nil, err
	}
	for _, cust := range customers {
		if cust.ID == id {
			return &cust, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusNotFound, "unknown customer")
}

func findService(ctx context.Context, catalog wizardCatalog, id string) (*domain.Service, error) {
	services, err := catalog.Services(ctx)
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		if svc.ID == id {
			return &svc, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusNotFound, "unknown service")
}

func findProfessional(ctx context.Context, catalog wizardCatalog, id string) (*domain.Professional, error) {
	professionals, err := catalog.Professionals(ctx)
	if err != nil {
		return nil, err
	}
	for _, prof := range professionals {
		if prof.ID == id {
			return &prof, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusNotFound, "unknown professional")
}

func submitOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSlotTaken):
		return "conflict"
	default:
		return "error"
	}
}
