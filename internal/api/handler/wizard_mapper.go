package handler

import (
	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/service"
)

type wizardResponse struct {
	ID             string        `json:"id"`
	Variant        string        `json:"variant"`
	Step           string        `json:"step"`
	StepNumber     int           `json:"step_number"`
	TotalSteps     int           `json:"total_steps"`
	Draft          draftResponse `json:"draft"`
	Slots          []string      `json:"slots"`
	AccountCreated bool          `json:"account_created,omitempty"`
}

type draftResponse struct {
	Service      *serviceResponse `json:"service"`
	Professional *personResponse  `json:"professional"`
	Customer     *personResponse  `json:"customer,omitempty"`
	Guest        *guestResponse   `json:"guest,omitempty"`
	Date         string           `json:"date,omitempty"`
	Slot         string           `json:"slot,omitempty"`
}

type serviceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

type personResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type guestResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func wizardView(w *service.Wizard) wizardResponse {
	current, total := w.Progress()
	slots := w.Slots()
	if slots == nil {
		slots = []string{}
	}
	return wizardResponse{
		ID:             w.ID(),
		Variant:        string(w.Variant()),
		Step:           string(w.Step()),
		StepNumber:     current,
		TotalSteps:     total,
		Draft:          draftView(w.Draft()),
		Slots:          slots,
		AccountCreated: w.AccountCreated(),
	}
}

func draftView(d domain.BookingDraft) draftResponse {
	resp := draftResponse{Date: d.Date, Slot: d.Slot}
	if d.Service != nil {
		resp.Service = &serviceResponse{
			ID:              d.Service.ID,
			Name:            d.Service.Name,
			DurationMinutes: d.Service.DurationMinutes,
			Price:           d.Service.Price,
		}
	}
	if d.Professional != nil {
		resp.Professional = &personResponse{ID: d.Professional.ID, Name: d.Professional.Name}
	}
	if d.Customer != nil {
		resp.Customer = &personResponse{ID: d.Customer.ID, Name: d.Customer.Name}
	}
	if d.Guest.Name != "" || d.Guest.Email != "" || d.Guest.Phone != "" {
		resp.Guest = &guestResponse{Name: d.Guest.Name, Email: d.Guest.Email, Phone: d.Guest.Phone}
	}
	return resp
}
