package upstream

import (
	"time"

	"github.com/bookline/booking-gateway/internal/core/domain"
)

// Wire DTOs mirror the platform's JSON field names; domain types stay free
// of upstream naming.

type appointmentDTO struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Status           string `json:"status"`
	ProfessionalID   string `json:"professionalId"`
	ProfessionalName string `json:"professionalName"`
	CustomerName     string `json:"customerName"`
}

type serviceDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

type personDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type companyDTO struct {
	ID        string `json:"id"`
	LegalName string `json:"legalName"`
	Slug      string `json:"slug"`
}

func mapAppointments(in []appointmentDTO) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(in))
	for _, dto := range in {
		out = append(out, domain.Appointment{
			ID:               dto.ID,
			Title:            dto.Title,
			StartTime:        parseTimestamp(dto.StartDate),
			EndTime:          parseTimestamp(dto.EndDate),
			Status:           domain.AppointmentStatus(dto.Status),
			ProfessionalID:   dto.ProfessionalID,
			ProfessionalName: dto.ProfessionalName,
			CustomerName:     dto.CustomerName,
		})
	}
	return out
}

func mapServices(in []serviceDTO) []domain.Service {
	out := make([]domain.Service, 0, len(in))
	for _, dto := range in {
		out = append(out, domain.Service{
			ID:              dto.ID,
			Name:            dto.Name,
			DurationMinutes: dto.DurationMinutes,
			Price:           dto.Price,
		})
	}
	return out
}

func mapProfessionals(in []personDTO) []domain.Professional {
	out := make([]domain.Professional, 0, len(in))
	for _, dto := range in {
		out = append(out, domain.Professional{ID: dto.ID, Name: dto.Name})
	}
	return out
}

func mapCustomers(in []personDTO) []domain.Customer {
	out := make([]domain.Customer, 0, len(in))
	for _, dto := range in {
		out = append(out, domain.Customer{ID: dto.ID, Name: dto.Name})
	}
	return out
}

// parseTimestamp accepts both the platform's zone-less local timestamps and
// full RFC 3339 strings.
func parseTimestamp(s string) time.Time {
	if t, err := time.ParseInLocation(domain.TimestampLayout, s, time.Local); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
