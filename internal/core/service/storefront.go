package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

// StorefrontService is the unauthenticated counterpart of ScheduleService:
// it serves one tenant's public storefront and is the GuestBooker behind the
// guest wizard. Reads share the same keyed cache and the same invalidation
// table as the admin surface.
type StorefrontService struct {
	api      ports.StorefrontAPI
	cache    ports.Cache
	tenantID string
	ttl      time.Duration
	log      zerolog.Logger
}

// NewStorefrontService binds a storefront service to one tenant id.
func NewStorefrontService(api ports.StorefrontAPI, cache ports.Cache, tenantID string, ttl time.Duration, log zerolog.Logger) *StorefrontService {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &StorefrontService{api: api, cache: cache, tenantID: tenantID, ttl: ttl, log: log}
}

// Services lists the tenant's publicly bookable services.
func (s *StorefrontService) Services(ctx context.Context) ([]domain.Service, error) {
	return fetchCached(ctx, s.cache, s.log, cacheKey(kindServices, s.tenantID), s.ttl, func() ([]domain.Service, error) {
		return s.api.PublicServices(ctx, s.tenantID)
	})
}

// Professionals lists the tenant's publicly bookable professionals.
func (s *StorefrontService) Professionals(ctx context.Context) ([]domain.Professional, error) {
	return fetchCached(ctx, s.cache, s.log, cacheKey(kindProfessionals, s.tenantID), s.ttl, func() ([]domain.Professional, error) {
		return s.api.PublicProfessionals(ctx, s.tenantID)
	})
}

// QuerySlots answers the guest wizard's availability query.
func (s *StorefrontService) QuerySlots(ctx context.Context, q ports.SlotQuery) ([]string, error) {
	key := slotKey(cacheKey(kindSlots, s.tenantID), q)
	return fetchCached(ctx, s.cache, s.log, key, s.ttl, func() ([]string, error) {
		return s.api.PublicSlots(ctx, s.tenantID, q)
	})
}

// BookGuest submits the guest booking and invalidates the affected caches.
func (s *StorefrontService) BookGuest(ctx context.Context, req ports.GuestAppointmentRequest) error {
	if err := s.api.CreateGuestAppointment(ctx, s.tenantID, req); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, MutationCreateBooking, s.tenantID)
	return nil
}

// RegisterAccount attaches a password to a guest email after a booking.
// Deliberately uncached and unrelated to any invalidation.
func (s *StorefrontService) RegisterAccount(ctx context.Context, email, password string) error {
	return s.api.RegisterGuestAccount(ctx, s.tenantID, email, password)
}
