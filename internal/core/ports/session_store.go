package ports

import "context"

// SessionRecord is the persisted shape of a session: the token plus the
// tenant scoping values saved next to it at login. The decoded identity is
// always re-derived from the token at load, never stored.
type SessionRecord struct {
	Token      string `json:"token"`
	TenantID   string `json:"tenant_id"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`
}

// SessionStore is the durable client storage behind the session manager.
// Save and Clear replace the whole record atomically — partial writes must
// not be observable.
type SessionStore interface {
	Save(ctx context.Context, rec SessionRecord) error
	// Load returns the stored record and whether one exists.
	Load(ctx context.Context) (SessionRecord, bool, error)
	Clear(ctx context.Context) error
}
