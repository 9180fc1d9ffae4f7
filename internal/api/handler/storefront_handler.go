package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

// StorefrontHandler serves the public, unauthenticated storefront reads:
// slug resolution plus the per-tenant service and professional catalogs.
type StorefrontHandler struct {
	api        ports.StorefrontAPI
	storefront StorefrontFactory
	log        zerolog.Logger
}

func NewStorefrontHandler(api ports.StorefrontAPI, storefront StorefrontFactory, log zerolog.Logger) *StorefrontHandler {
	return &StorefrontHandler{api: api, storefront: storefront, log: log}
}

type companyResponse struct {
	ID        string `json:"id"`
	LegalName string `json:"legal_name"`
	Slug      string `json:"slug"`
}

// Company resolves a storefront slug to the tenant behind it. An unknown
// slug is a plain 404; nothing about other tenants leaks.
func (h *StorefrontHandler) Company(c echo.Context) error {
	company, err := h.api.CompanyBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companyResponse{ID: company.ID, LegalName: company.LegalName, Slug: company.Slug})
}

// Services lists the tenant's publicly bookable services.
func (h *StorefrontHandler) Services(c echo.Context) error {
	services, err := h.storefront(c.Param("tenantId")).Services(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]serviceResponse, 0, len(services))
	for _, svc := range services {
		views = append(views, serviceResponse{
			ID:              svc.ID,
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// Professionals lists the tenant's publicly bookable professionals.
func (h *StorefrontHandler) Professionals(c echo.Context) error {
	professionals, err := h.storefront(c.Param("tenantId")).Professionals(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]personResponse, 0, len(professionals))
	for _, prof := range professionals {
		views = append(views, personResponse{ID: prof.ID, Name: prof.Name})
	}
	return c.JSON(http.StatusOK, views)
}

// Slots answers a standalone public availability query outside a wizard.
func (h *StorefrontHandler) Slots(c echo.Context) error {
	q := ports.SlotQuery{
		ProfessionalID: c.QueryParam("professional_id"),
		Date:           c.QueryParam("date"),
		ServiceID:      c.QueryParam("service_id"),
	}
	if q.ProfessionalID == "" || q.ServiceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "professional_id and service_id are required")
	}
	if _, err := time.Parse(domain.DateLayout, q.Date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be formatted as 2006-01-02")
	}

	slots, err := h.storefront(c.Param("tenantId")).QuerySlots(c.Request().Context(), q)
	if err != nil {
		return err
	}
	if slots == nil {
		slots = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"slots": slots})
}
