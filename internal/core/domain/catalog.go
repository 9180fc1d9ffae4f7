package domain

// Service is a bookable treatment offered by a tenant. DurationMinutes
// drives the derived end timestamp of a booking.
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

// Professional is a staff member; in day view each professional becomes one
// calendar swimlane.
type Professional struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Customer is a registered client of the tenant.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Company is the public storefront identity of a tenant, addressed by slug.
type Company struct {
	ID        string `json:"id"`
	LegalName string `json:"legal_name"`
	Slug      string `json:"slug"`
}
