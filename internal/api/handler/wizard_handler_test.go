package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
	"github.com/bookline/booking-gateway/internal/core/service"
)

type stubStorefrontAPI struct {
	services []domain.Service
	profs    []domain.Professional
	slots    []string

	guestBooked []ports.GuestAppointmentRequest
	accounts    []string
	tenants     []string // tenant id of every call, for scoping assertions
}

func (s *stubStorefrontAPI) CompanyBySlug(_ context.Context, slug string) (*domain.Company, error) {
	if slug != "acme" {
		return nil, domain.ErrNotFound
	}
	return &domain.Company{ID: "t1", LegalName: "Acme Salon SA", Slug: "acme"}, nil
}

func (s *stubStorefrontAPI) PublicServices(_ context.Context, tenantID string) ([]domain.Service, error) {
	s.tenants = append(s.tenants, tenantID)
	return s.services, nil
}

func (s *stubStorefrontAPI) PublicProfessionals(_ context.Context, tenantID string) ([]domain.Professional, error) {
	s.tenants = append(s.tenants, tenantID)
	return s.profs, nil
}

func (s *stubStorefrontAPI) PublicSlots(_ context.Context, tenantID string, _ ports.SlotQuery) ([]string, error) {
	s.tenants = append(s.tenants, tenantID)
	return s.slots, nil
}

func (s *stubStorefrontAPI) CreateGuestAppointment(_ context.Context, tenantID string, req ports.GuestAppointmentRequest) error {
	s.tenants = append(s.tenants, tenantID)
	s.guestBooked = append(s.guestBooked, req)
	return nil
}

func (s *stubStorefrontAPI) RegisterGuestAccount(_ context.Context, tenantID, email, password string) error {
	s.tenants = append(s.tenants, tenantID)
	s.accounts = append(s.accounts, email+":"+password)
	return nil
}

func newWizardHandler(platform *stubPlatform, store *stubStorefrontAPI) (*WizardHandler, *service.WizardRegistry) {
	registry := service.NewWizardRegistry(zerolog.Nop())
	factory := func(tenantID string) *service.StorefrontService {
		return service.NewStorefrontService(store, noopCache{}, tenantID, time.Minute, zerolog.Nop())
	}
	return NewWizardHandler(registry, newTestSchedule(platform), factory, zerolog.Nop()), registry
}

func wizardContext(e *echo.Echo, method, target, body, wizardID string, extra ...string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(method, target, body), rec)
	names := []string{"id"}
	values := []string{wizardID}
	for i := 0; i+1 < len(extra); i += 2 {
		names = append(names, extra[i])
		values = append(values, extra[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decodeWizard(t *testing.T, rec *httptest.ResponseRecorder) wizardResponse {
	t.Helper()
	var resp wizardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid wizard response: %v", err)
	}
	return resp
}

func TestWizardHandler_StaffFlow(t *testing.T) {
	e := newEcho()
	platform := &stubPlatform{
		services:  []domain.Service{{ID: "svc-1", Name: "Cut", DurationMinutes: 30}},
		profs:     []domain.Professional{{ID: "pro-1", Name: "Ana"}},
		customers: []domain.Customer{{ID: "cus-1", Name: "Bob"}},
		slots:     []string{"09:00", "09:30"},
	}
	h, _ := newWizardHandler(platform, &stubStorefrontAPI{})

	rec := httptest.NewRecorder()
	if err := h.StartStaff(e.NewContext(jsonRequest(http.MethodPost, "/admin/wizard", ""), rec)); err != nil {
		t.Fatalf("StartStaff: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	start := decodeWizard(t, rec)
	if start.Variant != "staff" || start.Step != "SELECT_SERVICE" {
		t.Fatalf("initial snapshot = %+v", start)
	}
	id := start.ID

	// Selections resolve ids through the catalog.
	c, rec := wizardContext(e, http.MethodPost, "/admin/wizard/"+id+"/select", `{"service_id":"svc-1"}`, id)
	if err := h.SelectStaff(c); err != nil {
		t.Fatalf("SelectStaff: %v", err)
	}
	if got := decodeWizard(t, rec).Draft.Service; got == nil || got.Name != "Cut" {
		t.Fatalf("draft service = %+v", got)
	}

	c, _ = wizardContext(e, http.MethodPost, "/admin/wizard/"+id+"/advance", "", id)
	if err := h.Advance(c); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	c, _ = wizardContext(e, http.MethodPost, "/admin/wizard/"+id+"/select",
		`{"professional_id":"pro-1","customer_id":"cus-1","date":"2025-03-10"}`, id)
	if err := h.SelectStaff(c); err != nil {
		t.Fatalf("SelectStaff: %v", err)
	}

	// professional -> customer -> date/time; two advances land on date/time
	// and the dependent slot query fires.
	for i := 0; i < 2; i++ {
		c, rec = wizardContext(e, http.MethodPost, "/admin/wizard/"+id+"/advance", "", id)
		if err := h.Advance(c); err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}
	snap := decodeWizard(t, rec)
	if snap.Step != "SELECT_DATE_TIME" {
		t.Fatalf("step = %s", snap.Step)
	}
	if len(snap.Slots) != 2 {
		t.Fatalf("slots = %v", snap.Slots)
	}

	c, _ = wizardContext(e, http.MethodPost, "/admin/wizard/"+id+"/select", `{"slot":"09:30"}`, id)
	if err := h.SelectStaff(c); err != nil {
		t.Fatal(err)
	}
	c, rec = wizardContext(e, http.MethodPost, "/admin/wizard/"+id+"/advance", "", id)
	if err := h.Advance(c); err != nil {
		t.Fatal(err)
	}
	if got := decodeWizard(t, rec).Step; got != "CONFIRM" {
		t.Fatalf("step = %s", got)
	}

	c, rec = wizardContext(e, http.MethodPost, "/admin/wizard/"+id+"/submit", "", id)
	if err := h.Submit(c); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d", rec.Code)
	}
	if got := decodeWizard(t, rec).Step; got != "SUBMITTED" {
		t.Fatalf("step = %s", got)
	}
	if len(platform.created) != 1 {
		t.Fatalf("bookings = %d", len(platform.created))
	}
}

func TestWizardHandler_UnknownWizard(t *testing.T) {
	e := newEcho()
	h, _ := newWizardHandler(&stubPlatform{}, &stubStorefrontAPI{})

	c, _ := wizardContext(e, http.MethodGet, "/admin/wizard/nope", "", "nope")
	if err := h.Get(c); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Fatalf("error = %v, want ErrWizardNotFound", err)
	}
}

func TestWizardHandler_UnknownSelectionID(t *testing.T) {
	e := newEcho()
	h, registry := newWizardHandler(&stubPlatform{services: []domain.Service{{ID: "svc-1"}}}, &stubStorefrontAPI{})
	w := registry.StartStaff(newTestSchedule(&stubPlatform{services: []domain.Service{{ID: "svc-1"}}}))

	c, _ := wizardContext(e, http.MethodPost, "/x", `{"service_id":"svc-404"}`, w.ID())
	err := h.SelectStaff(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown service id, got %v", err)
	}
}

func TestWizardHandler_GuestFlowIsTenantScoped(t *testing.T) {
	e := newEcho()
	store := &stubStorefrontAPI{
		services: []domain.Service{{ID: "svc-1", Name: "Cut", DurationMinutes: 30}},
		profs:    []domain.Professional{{ID: "pro-1", Name: "Ana"}},
		slots:    []string{"10:00"},
	}
	h, _ := newWizardHandler(&stubPlatform{}, store)

	c, rec := wizardContext(e, http.MethodPost, "/public/t1/wizard", "", "", "tenantId", "t1")
	if err := h.StartGuest(c); err != nil {
		t.Fatalf("StartGuest: %v", err)
	}
	start := decodeWizard(t, rec)
	if start.Variant != "guest" {
		t.Fatalf("variant = %s", start.Variant)
	}
	id := start.ID

	steps := []struct {
		body string
	}{
		{`{"service_id":"svc-1"}`},
		{`{"professional_id":"pro-1","date":"2025-04-01"}`},
	}
	for _, st := range steps {
		c, _ = wizardContext(e, http.MethodPost, "/x", st.body, id, "tenantId", "t1")
		if err := h.SelectGuest(c); err != nil {
			t.Fatalf("SelectGuest(%s): %v", st.body, err)
		}
		c, _ = wizardContext(e, http.MethodPost, "/x", "", id, "tenantId", "t1")
		if err := h.Advance(c); err != nil {
			t.Fatal(err)
		}
	}

	c, _ = wizardContext(e, http.MethodPost, "/x",
		`{"slot":"10:00","guest_name":"Eva","guest_email":"eva@example.com","guest_phone":"555-0101"}`, id, "tenantId", "t1")
	if err := h.SelectGuest(c); err != nil {
		t.Fatal(err)
	}
	// date/time -> guest details -> confirm
	for i := 0; i < 2; i++ {
		c, rec = wizardContext(e, http.MethodPost, "/x", "", id, "tenantId", "t1")
		if err := h.Advance(c); err != nil {
			t.Fatal(err)
		}
	}
	if got := decodeWizard(t, rec).Step; got != "CONFIRM" {
		t.Fatalf("step = %s", got)
	}

	c, _ = wizardContext(e, http.MethodPost, "/x", "", id, "tenantId", "t1")
	if err := h.Submit(c); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(store.guestBooked) != 1 {
		t.Fatalf("guest bookings = %d", len(store.guestBooked))
	}
	if store.guestBooked[0].AppointmentTime != "2025-04-01T10:00:00" {
		t.Errorf("appointmentTime = %q", store.guestBooked[0].AppointmentTime)
	}
	for _, tenant := range store.tenants {
		if tenant != "t1" {
			t.Fatalf("a storefront call escaped the tenant scope: %q", tenant)
		}
	}

	// Customer selection is a staff-only concept.
	c, _ = wizardContext(e, http.MethodPost, "/x", `{"customer_id":"cus-1"}`, id, "tenantId", "t1")
	err := h.SelectGuest(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for customer selection on a guest wizard, got %v", err)
	}

	// Opt-in account setup.
	c, rec = wizardContext(e, http.MethodPost, "/x", `{"password":"s3cret1"}`, id, "tenantId", "t1")
	if err := h.Account(c); err != nil {
		t.Fatalf("Account: %v", err)
	}
	if !decodeWizard(t, rec).AccountCreated {
		t.Error("account_created not reported")
	}
	if len(store.accounts) != 1 || store.accounts[0] != "eva@example.com:s3cret1" {
		t.Errorf("accounts = %v", store.accounts)
	}
}

func TestWizardHandler_SurfaceAndTenantBinding(t *testing.T) {
	e := newEcho()
	store := &stubStorefrontAPI{
		services: []domain.Service{{ID: "svc-1", Name: "Cut", DurationMinutes: 30}},
	}
	h, registry := newWizardHandler(&stubPlatform{}, store)

	staff := registry.StartStaff(newTestSchedule(&stubPlatform{}))
	guest := registry.StartGuest("t1", service.NewStorefrontService(store, noopCache{}, "t1", time.Minute, zerolog.Nop()))

	// A staff wizard id is invisible on the public surface, whatever the
	// tenant segment says.
	c, _ := wizardContext(e, http.MethodPost, "/public/t1/wizard/"+staff.ID()+"/submit", "", staff.ID(), "tenantId", "t1")
	if err := h.Submit(c); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Fatalf("staff wizard reached through the public surface: %v", err)
	}

	// A guest wizard bound to one tenant is invisible under another tenant's
	// path, so no selection can resolve through the wrong catalog.
	c, _ = wizardContext(e, http.MethodPost, "/public/t2/wizard/"+guest.ID()+"/select", `{"service_id":"svc-1"}`, guest.ID(), "tenantId", "t2")
	if err := h.SelectGuest(c); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Fatalf("guest wizard reached through another tenant: %v", err)
	}
	if len(store.tenants) != 0 {
		t.Fatalf("storefront was called for a mismatched tenant: %v", store.tenants)
	}

	// And a guest wizard id is invisible on the admin surface.
	c, _ = wizardContext(e, http.MethodGet, "/admin/wizard/"+guest.ID(), "", guest.ID())
	if err := h.Get(c); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Fatalf("guest wizard reached through the admin surface: %v", err)
	}

	// Both wizards stay registered and reachable on their own surface.
	c, _ = wizardContext(e, http.MethodGet, "/admin/wizard/"+staff.ID(), "", staff.ID())
	if err := h.Get(c); err != nil {
		t.Fatalf("staff wizard lost on its own surface: %v", err)
	}
	c, _ = wizardContext(e, http.MethodGet, "/public/t1/wizard/"+guest.ID(), "", guest.ID(), "tenantId", "t1")
	if err := h.Get(c); err != nil {
		t.Fatalf("guest wizard lost on its own surface: %v", err)
	}
}

func TestWizardHandler_Cancel(t *testing.T) {
	e := newEcho()
	h, registry := newWizardHandler(&stubPlatform{}, &stubStorefrontAPI{})
	w := registry.StartStaff(newTestSchedule(&stubPlatform{}))

	c, rec := wizardContext(e, http.MethodDelete, "/x", "", w.ID())
	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := registry.Get(w.ID()); !errors.Is(err, domain.ErrWizardNotFound) {
		t.Error("cancelled wizard still registered")
	}
}
