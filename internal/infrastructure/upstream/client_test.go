package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

type staticCreds struct {
	token  string
	tenant string
}

func (c staticCreds) Token() string    { return c.token }
func (c staticCreds) TenantID() string { return c.tenant }

func TestScopingHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok-123", tenant: "t1"}, zerolog.Nop())
	if _, err := c.Appointments(context.Background()); err != nil {
		t.Fatalf("Appointments: %v", err)
	}

	if auth := got.Get("Authorization"); auth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", auth)
	}
	if tenant := got.Get(TenantHeader); tenant != "t1" {
		t.Errorf("%s = %q", TenantHeader, tenant)
	}
	if ct := got.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestUnresolvedIdentitySendsNoScopingHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{}, zerolog.Nop())
	if _, err := c.Appointments(context.Background()); err != nil {
		t.Fatalf("Appointments: %v", err)
	}

	if _, ok := got["Authorization"]; ok {
		t.Error("no Authorization header expected while unauthenticated")
	}
	if _, ok := got[TenantHeader]; ok {
		t.Errorf("no %s header expected while the tenant is unresolved", TenantHeader)
	}
}

func TestStatusTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad token"}`, domain.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"message":"no such thing"}`, domain.ErrNotFound},
		{"conflict", http.StatusConflict, `{"message":"slot taken"}`, domain.ErrSlotTaken},
		{"server error", http.StatusInternalServerError, ``, domain.ErrUpstream},
		{"bad gateway", http.StatusBadGateway, `not json`, domain.ErrUpstream},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(srv.URL, staticCreds{token: "tok"}, zerolog.Nop())
			_, err := c.Appointments(context.Background())
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSlotsQueryEncoding(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"professionalId": r.URL.Query().Get("professionalId"),
			"date":           r.URL.Query().Get("date"),
			"serviceId":      r.URL.Query().Get("serviceId"),
		}
		_, _ = w.Write([]byte(`["09:00","09:30"]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", tenant: "t1"}, zerolog.Nop())
	slots, err := c.Slots(context.Background(), ports.SlotQuery{
		ProfessionalID: "pro-1",
		Date:           "2025-03-10",
		ServiceID:      "svc-1",
	})
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}

	if gotQuery["professionalId"] != "pro-1" || gotQuery["date"] != "2025-03-10" || gotQuery["serviceId"] != "svc-1" {
		t.Errorf("query = %v", gotQuery)
	}
	// Server ordering is preserved as-is.
	if len(slots) != 2 || slots[0] != "09:00" || slots[1] != "09:30" {
		t.Errorf("slots = %v", slots)
	}
}

func TestCreateAppointmentBlockBody(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", tenant: "t1"}, zerolog.Nop())
	err := c.CreateAppointment(context.Background(), ports.AppointmentRequest{
		ProfessionalID: "pro-1",
		StartDate:      "2025-03-10T13:00:00",
		EndDate:        "2025-03-10T14:00:00",
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	// Explicit JSON nulls mark the record as a block; the keys must be
	// present, not omitted.
	for _, key := range []string{"businessServiceId", "customerId"} {
		v, ok := raw[key]
		if !ok {
			t.Errorf("%s missing from the wire body", key)
		} else if v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}
	if raw["startDate"] != "2025-03-10T13:00:00" {
		t.Errorf("startDate = %v", raw["startDate"])
	}
	if _, ok := raw["status"]; ok {
		t.Error("empty status must be omitted")
	}
}

func TestAppointmentMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{
				"id": "a1",
				"title": "Cut",
				"startDate": "2025-03-10T09:00:00",
				"endDate": "2025-03-10T09:30:00",
				"status": "BLOCKED",
				"professionalId": "pro-1",
				"professionalName": "Ana",
				"customerName": "Bob"
			}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{token: "tok", tenant: "t1"}, zerolog.Nop())
	appts, err := c.Appointments(context.Background())
	if err != nil {
		t.Fatalf("Appointments: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("got %d appointments", len(appts))
	}
	a := appts[0]
	if a.ID != "a1" || a.Status != domain.StatusBlocked || a.ProfessionalID != "pro-1" {
		t.Errorf("appointment = %+v", a)
	}
	if a.StartTime.Hour() != 9 || a.StartTime.Minute() != 0 {
		t.Errorf("start = %v", a.StartTime)
	}
	if !a.IsBlock() {
		t.Error("BLOCKED status must classify as a block")
	}
}

func TestCompanyBySlugNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"unknown storefront"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticCreds{}, zerolog.Nop())
	_, err := c.CompanyBySlug(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
