package domain

import "time"

// Session is the authenticated identity plus the per-tenant scoping values
// stamped onto every outbound platform request.
//
// Invariant: an empty Token means unauthenticated, and every other field is
// zero. A session whose ExpiresAt lies in the past must be torn down before
// it is used for any call.
type Session struct {
	Token      string    `json:"token"`
	SubjectID  string    `json:"subject_id"`
	Role       string    `json:"role"`
	TenantID   string    `json:"tenant_id"`
	TenantSlug string    `json:"tenant_slug"`
	TenantName string    `json:"tenant_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsAuthenticated is defined purely as "token present"; expiry is only
// re-checked at bootstrap, not here.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Expired reports whether the session carries an expiry that has passed.
// A zero ExpiresAt (token without an exp claim) never expires client-side.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}
