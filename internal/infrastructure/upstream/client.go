// Package upstream implements the scoped client for the collaborator
// platform API. It is the single enforcement point for multi-tenant request
// scoping: every call carries the bearer credential when a token is present
// and the tenant header when a tenant id is resolved. A resolved tenant is
// never sent without its header.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

// TenantHeader carries the tenant scope on every authenticated request.
const TenantHeader = "X-Company-Id"

const defaultHTTPTimeout = 15 * time.Second

// Credentials resolves the identity stamped onto outbound requests. Both
// methods may return empty strings while unauthenticated.
type Credentials interface {
	Token() string
	TenantID() string
}

// Client talks to the platform API. All failure translation to domain
// errors is centralised here.
type Client struct {
	base  string
	http  *http.Client
	creds Credentials
	log   zerolog.Logger
}

// New builds a Client for the given base URL.
func New(baseURL string, creds Credentials, log zerolog.Logger) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: defaultHTTPTimeout},
		creds: creds,
		log:   log,
	}
}

// Login exchanges credentials for a token plus tenant scoping values.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	var out ports.LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new tenant account.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/register", nil, in, nil)
}

// Appointments lists the tenant's appointments.
func (c *Client) Appointments(ctx context.Context) ([]domain.Appointment, error) {
	var out []appointmentDTO
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, nil, &out); err != nil {
		return nil, err
	}
	return mapAppointments(out), nil
}

// CreateAppointment posts a booking or an agenda block.
func (c *Client) CreateAppointment(ctx context.Context, req ports.AppointmentRequest) error {
	return c.do(ctx, http.MethodPost, "/appointments", nil, req, nil)
}

// Slots fetches the availability labels for a (professional, date, service)
// triple. Order is server-defined and preserved.
func (c *Client) Slots(ctx context.Context, q ports.SlotQuery) ([]string, error) {
	query := url.Values{}
	query.Set("professionalId", q.ProfessionalID)
	query.Set("date", q.Date)
	query.Set("serviceId", q.ServiceID)

	var out []string
	if err := c.do(ctx, http.MethodGet, "/availability/slots", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Services lists the tenant's service catalog.
func (c *Client) Services(ctx context.Context) ([]domain.Service, error) {
	var out []serviceDTO
	if err := c.do(ctx, http.MethodGet, "/services", nil, nil, &out); err != nil {
		return nil, err
	}
	return mapServices(out), nil
}

// Professionals lists the tenant's staff.
func (c *Client) Professionals(ctx context.Context) ([]domain.Professional, error) {
	var out []personDTO
	if err := c.do(ctx, http.MethodGet, "/professionals", nil, nil, &out); err != nil {
		return nil, err
	}
	return mapProfessionals(out), nil
}

// Customers lists the tenant's customers.
func (c *Client) Customers(ctx context.Context) ([]domain.Customer, error) {
	var out []personDTO
	if err := c.do(ctx, http.MethodGet, "/customers", nil, nil, &out); err != nil {
		return nil, err
	}
	return mapCustomers(out), nil
}

// CompanyBySlug resolves a public storefront by its slug.
func (c *Client) CompanyBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	var out companyDTO
	if err := c.do(ctx, http.MethodGet, "/public/company/"+url.PathEscape(slug), nil, nil, &out); err != nil {
		return nil, err
	}
	return &domain.Company{ID: out.ID, LegalName: out.LegalName, Slug: out.Slug}, nil
}

// PublicServices lists a tenant's publicly bookable services.
func (c *Client) PublicServices(ctx context.Context, tenantID string) ([]domain.Service, error) {
	var out []serviceDTO
	if err := c.do(ctx, http.MethodGet, "/public/"+url.PathEscape(tenantID)+"/services", nil, nil, &out); err != nil {
		return nil, err
	}
	return mapServices(out), nil
}

// PublicProfessionals lists a tenant's publicly bookable professionals.
func (c *Client) PublicProfessionals(ctx context.Context, tenantID string) ([]domain.Professional, error) {
	var out []personDTO
	if err := c.do(ctx, http.MethodGet, "/public/"+url.PathEscape(tenantID)+"/professionals", nil, nil, &out); err != nil {
		return nil, err
	}
	return mapProfessionals(out), nil
}

// PublicSlots fetches availability through the public surface.
func (c *Client) PublicSlots(ctx context.Context, tenantID string, q ports.SlotQuery) ([]string, error) {
	query := url.Values{}
	query.Set("professionalId", q.ProfessionalID)
	query.Set("date", q.Date)
	query.Set("serviceId", q.ServiceID)

	var out []string
	if err := c.do(ctx, http.MethodGet, "/public/"+url.PathEscape(tenantID)+"/availability/slots", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateGuestAppointment books through the public storefront.
func (c *Client) CreateGuestAppointment(ctx context.Context, tenantID string, req ports.GuestAppointmentRequest) error {
	return c.do(ctx, http.MethodPost, "/public/"+url.PathEscape(tenantID)+"/appointments/guest", nil, req, nil)
}

// RegisterGuestAccount attaches a password to a guest email.
func (c *Client) RegisterGuestAccount(ctx context.Context, tenantID, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/public/"+url.PathEscape(tenantID)+"/customers/register", nil, body, nil)
}

// do performs one scoped request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if tenantID := c.creds.TenantID(); tenantID != "" {
		req.Header.Set(TenantHeader, tenantID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if err := translateStatus(resp); err != nil {
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("upstream error")
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// translateStatus maps upstream HTTP failures onto domain errors. This is
// the only place status codes are interpreted.
func translateStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	msg := readErrorMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrSlotTaken, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, msg)
	}
}

// readErrorMessage extracts the platform's error envelope, falling back to a
// generic message.
func readErrorMessage(body io.Reader) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return "request rejected"
}
