package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/core/domain"
	"github.com/bookline/booking-gateway/internal/core/ports"
)

// SessionManager owns the authenticated identity and the per-tenant scoping
// values. It is an explicit, injectable object with a defined bootstrap
// (decode-on-load) and teardown (Logout); never ambient state.
//
// The gateway does not hold the platform's signing secret, so token claims
// are decoded without signature verification — the platform re-verifies
// every scoped request anyway. What the manager does enforce is expiry: an
// expired token found at bootstrap is torn down before any call uses it.
type SessionManager struct {
	mu      sync.RWMutex
	store   ports.SessionStore
	session domain.Session
	log     zerolog.Logger
	now     func() time.Time
}

func NewSessionManager(store ports.SessionStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, log: log, now: time.Now}
}

// Bootstrap restores the session from durable storage. An absent record
// leaves the manager unauthenticated; a present but expired or undecodable
// token is logged out immediately, with no authenticated call attempted
// first.
func (m *SessionManager) Bootstrap(ctx context.Context) error {
	rec, ok, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok || rec.Token == "" {
		return nil
	}
	return m.apply(ctx, rec)
}

// Login persists the token and all tenant scoping values in one store write,
// then swaps the in-memory identity before returning — a request issued
// right after Login observes the new scoping.
func (m *SessionManager) Login(ctx context.Context, token, tenantID, tenantSlug, tenantName string) error {
	rec := ports.SessionRecord{
		Token:      token,
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		TenantName: tenantName,
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return m.apply(ctx, rec)
}

// Logout clears durable storage and the in-memory identity atomically.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.mu.Lock()
	m.session = domain.Session{}
	m.mu.Unlock()
	m.log.Info().Msg("session torn down")
	return nil
}

// Current returns a copy of the effective session.
func (m *SessionManager) Current() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// IsAuthenticated reports token presence, nothing more.
func (m *SessionManager) IsAuthenticated() bool {
	return m.Current().IsAuthenticated()
}

// Token satisfies the upstream credentials surface.
func (m *SessionManager) Token() string {
	return m.Current().Token
}

// TenantID satisfies the upstream credentials surface.
func (m *SessionManager) TenantID() string {
	return m.Current().TenantID
}

// apply decodes the record's token and installs the effective identity.
// Persisted tenant slug/name overlay any same-named claim inside the token:
// a tenant can rebrand without reissuing credentials.
func (m *SessionManager) apply(ctx context.Context, rec ports.SessionRecord) error {
	sess, err := decodeToken(rec.Token)
	if err != nil {
		m.log.Warn().Err(err).Msg("undecodable session token, tearing down")
		return m.Logout(ctx)
	}
	if sess.Expired(m.now()) {
		m.log.Info().Time("expired_at", sess.ExpiresAt).Msg("expired session token, tearing down")
		return m.Logout(ctx)
	}

	if rec.TenantID != "" {
		sess.TenantID = rec.TenantID
	}
	if rec.TenantSlug != "" {
		sess.TenantSlug = rec.TenantSlug
	}
	if rec.TenantName != "" {
		sess.TenantName = rec.TenantName
	}

	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()
	return nil
}

// decodeToken extracts the identity claims from a platform JWT without
// verifying its signature.
func decodeToken(token string) (domain.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.Session{}, fmt.Errorf("decode token: %w", err)
	}

	sess := domain.Session{Token: token}
	sess.SubjectID, _ = claims["sub"].(string)
	sess.Role, _ = claims["role"].(string)
	sess.TenantID, _ = claims["companyId"].(string)
	sess.TenantSlug, _ = claims["slug"].(string)
	sess.TenantName, _ = claims["companyName"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
	return sess, nil
}
