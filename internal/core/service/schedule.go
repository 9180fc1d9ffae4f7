package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

// Mutation names a write that invalidates cached reads.
type Mutation string

const (
	MutationCreateBooking Mutation = "create_booking"
	MutationCreateBlock   Mutation = "create_block"
)

// cacheKind names one family of cache keys.
type cacheKind string

const (
	kindAppointments  cacheKind = "appointments"
	kindServices      cacheKind = "services"
	kindProfessionals cacheKind = "professionals"
	kindCustomers     cacheKind = "customers"
	kindSlots         cacheKind = "slots"
)

// invalidations is the declared table of which key families each mutation
// drops. Invalidation happens synchronously, immediately after the mutation
// succeeds; there is no background revalidation.
var invalidations = map[Mutation][]cacheKind{
	MutationCreateBooking: {kindAppointments, kindSlots},
	MutationCreateBlock:   {kindAppointments, kindSlots},
}

const defaultCacheTTL = 5 * time.Minute

// PlatformScheduleAPI is the authenticated upstream surface the schedule
// service consumes.
type PlatformScheduleAPI interface {
	ports.ScheduleAPI
	ports.CatalogAPI
}

// ScheduleService wraps the authenticated scheduling surface with a keyed
// read cache and the invalidation table above. It is the StaffBooker behind
// the staff wizard and the data source behind the calendar view.
type ScheduleService struct {
	api    PlatformScheduleAPI
	cache  ports.Cache
	tenant func() string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewScheduleService builds a ScheduleService. tenant resolves the current
// tenant id per call so the cache keys always follow the live session.
func NewScheduleService(api PlatformScheduleAPI, cache ports.Cache, tenant func() string, ttl time.Duration, log zerolog.Logger) *ScheduleService {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ScheduleService{api: api, cache: cache, tenant: tenant, ttl: ttl, log: log}
}

// Appointments returns the tenant's appointment list, served from cache when
// fresh.
func (s *ScheduleService) Appointments(ctx context.Context) ([]domain.Appointment, error) {
	return fetchCached(ctx, s.cache, s.log, s.key(kindAppointments), s.ttl, func() ([]domain.Appointment, error) {
		return s.api.Appointments(ctx)
	})
}

// Services returns the tenant's service catalog.
func (s *ScheduleService) Services(ctx context.Context) ([]domain.Service, error) {
	return fetchCached(ctx, s.cache, s.log, s.key(kindServices), s.ttl, func() ([]domain.Service, error) {
		return s.api.Services(ctx)
	})
}

// Professionals returns the tenant's staff list (the day-view swimlanes).
func (s *ScheduleService) Professionals(ctx context.Context) ([]domain.Professional, error) {
	return fetchCached(ctx, s.cache, s.log, s.key(kindProfessionals), s.ttl, func() ([]domain.Professional, error) {
		return s.api.Professionals(ctx)
	})
}

// Customers returns the tenant's customer list.
func (s *ScheduleService) Customers(ctx context.Context) ([]domain.Customer, error) {
	return fetchCached(ctx, s.cache, s.log, s.key(kindCustomers), s.ttl, func() ([]domain.Customer, error) {
		return s.api.Customers(ctx)
	})
}

// QuerySlots answers the wizard's availability query, cached under the full
// (professional, date, service) triple.
func (s *ScheduleService) QuerySlots(ctx context.Context, q ports.SlotQuery) ([]string, error) {
	key := slotKey(s.key(kindSlots), q)
	return fetchCached(ctx, s.cache, s.log, key, s.ttl, func() ([]string, error) {
		return s.api.Slots(ctx, q)
	})
}

// Book submits a staff booking and invalidates the affected caches.
func (s *ScheduleService) Book(ctx context.Context, req ports.AppointmentRequest) error {
	if err := s.api.CreateAppointment(ctx, req); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, MutationCreateBooking, s.tenant())
	return nil
}

// CreateBlock submits an agenda block and invalidates the affected caches.
func (s *ScheduleService) CreateBlock(ctx context.Context, req ports.AppointmentRequest) error {
	if err := s.api.CreateAppointment(ctx, req); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.log, MutationCreateBlock, s.tenant())
	return nil
}

func (s *ScheduleService) key(kind cacheKind) string {
	return cacheKey(kind, s.tenant())
}

// fetchCached serves a read from the cache, falling back to fetch and
// filling the entry. Cache failures degrade to a direct fetch; they never
// fail the read itself.
func fetchCached[T any](ctx context.Context, cache ports.Cache, log zerolog.Logger, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	var out T
	if hit, err := cache.Get(ctx, key, &out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if hit {
		return out, nil
	}

	out, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	if err := cache.Set(ctx, key, out, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache fill failed")
	}
	return out, nil
}

// invalidate drops the key families the mutation is declared to touch for
// one tenant.
func invalidate(ctx context.Context, cache ports.Cache, log zerolog.Logger, m Mutation, tenantID string) {
	for _, kind := range invalidations[m] {
		var err error
		switch kind {
		case kindSlots:
			err = cache.DeletePrefix(ctx, cacheKey(kindSlots, tenantID)+":")
		default:
			err = cache.Delete(ctx, cacheKey(kind, tenantID))
		}
		if err != nil {
			log.Warn().Err(err).Str("mutation", string(m)).Str("kind", string(kind)).Msg("cache invalidation failed")
		}
	}
}

func cacheKey(kind cacheKind, tenantID string) string {
	return fmt.Sprintf("%s:%s", kind, tenantID)
}

func slotKey(prefix string, q ports.SlotQuery) string {
	return fmt.Sprintf("%s:%s:%s:%s", prefix, q.ProfessionalID, q.Date, q.ServiceID)
}
