package ports

import (
	"context"

	"github.com/bookline/booking-gateway/internal/core/domain"
)

// LoginInput carries the credentials forwarded to the platform login
// endpoint.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the platform's login response: the bearer token plus the
// tenant scoping values the session layer persists alongside it.
type LoginResult struct {
	Token      string `json:"token"`
	TenantID   string `json:"companyId"`
	Role       string `json:"role"`
	TenantSlug string `json:"slug"`
	TenantName string `json:"companyName"`
}

// RegisterInput is the tenant self-registration payload forwarded to the
// platform.
type RegisterInput struct {
	CompanyName string `json:"companyName"`
	TaxID       string `json:"taxId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

// SlotQuery is the full triple an availability lookup is keyed by.
type SlotQuery struct {
	ProfessionalID string
	Date           string // domain.DateLayout
	ServiceID      string
}

// AppointmentRequest is the wire body of POST /appointments. A block is the
// same shape with BusinessServiceID and CustomerID both nil. Timestamps are
// zone-less local strings in domain.TimestampLayout.
type AppointmentRequest struct {
	ProfessionalID    string  `json:"professionalId"`
	BusinessServiceID *string `json:"businessServiceId"`
	CustomerID        *string `json:"customerId"`
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	Status            string  `json:"status,omitempty"`
}

// GuestAppointmentRequest is the wire body of the public guest-booking
// endpoint.
type GuestAppointmentRequest struct {
	ProfessionalID  string `json:"professionalId"`
	ServiceID       string `json:"serviceId"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	AppointmentTime string `json:"appointmentTime"`
}

// AuthAPI is the identity surface of the platform: login plus tenant
// self-registration.
type AuthAPI interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
}

// CatalogAPI reads the tenant's own resource catalog (admin scope).
type CatalogAPI interface {
	Services(ctx context.Context) ([]domain.Service, error)
	Professionals(ctx context.Context) ([]domain.Professional, error)
	Customers(ctx context.Context) ([]domain.Customer, error)
}

// ScheduleAPI is the authenticated scheduling surface: appointment lists,
// appointment creation (bookings and blocks) and slot availability.
type ScheduleAPI interface {
	Appointments(ctx context.Context) ([]domain.Appointment, error)
	CreateAppointment(ctx context.Context, req AppointmentRequest) error
	Slots(ctx context.Context, q SlotQuery) ([]string, error)
}

// StorefrontAPI is the unauthenticated public surface, parameterised by
// tenant id (or slug for the storefront lookup itself).
type StorefrontAPI interface {
	CompanyBySlug(ctx context.Context, slug string) (*domain.Company, error)
	PublicServices(ctx context.Context, tenantID string) ([]domain.Service, error)
	PublicProfessionals(ctx context.Context, tenantID string) ([]domain.Professional, error)
	PublicSlots(ctx context.Context, tenantID string, q SlotQuery) ([]string, error)
	CreateGuestAppointment(ctx context.Context, tenantID string, req GuestAppointmentRequest) error
	RegisterGuestAccount(ctx context.Context, tenantID, email, password string) error
}
