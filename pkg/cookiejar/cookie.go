package cookiejar

import (
	"net/http"
	"time"
)

// StoredCookie is the canonical in-jar record: name/value identity, the
// domain/path/expiry scopes that govern where and when it's sent, its
// secure/http-only flags, the raw cookie it was parsed from (kept for
// round-trip of attributes the canonical fields don't capture, e.g.
// SameSite), and its creation/last-access bookkeeping (spec section 3).
type StoredCookie struct {
	name       string
	value      string
	domain     DomainScope
	path       PathScope
	expires    ExpiryScope
	secure     bool
	httpOnly   bool
	sameSite   http.SameSite
	rawCookie  *http.Cookie
	creation   time.Time
	lastAccess time.Time
}

// Name is the cookie's name. Never empty for a stored cookie (spec
// invariant 2).
func (c *StoredCookie) Name() string { return c.name }

// Value is the cookie's opaque value.
func (c *StoredCookie) Value() string { return c.value }

// Domain is the domain attribute scope. Always HostOnly or Suffix for a
// stored cookie (spec invariant on DomainScope).
func (c *StoredCookie) Domain() DomainScope { return c.domain }

// Path is the path attribute scope.
func (c *StoredCookie) Path() PathScope { return c.path }

// Expires is the expiration scope.
func (c *StoredCookie) Expires() ExpiryScope { return c.expires }

// Secure reports the Secure flag.
func (c *StoredCookie) Secure() bool { return c.secure }

// HttpOnly reports the HttpOnly flag.
func (c *StoredCookie) HttpOnly() bool { return c.httpOnly }

// SameSite is informational only: it never participates in matching (spec
// section 9, open question (i)).
func (c *StoredCookie) SameSite() http.SameSite { return c.sameSite }

// RawCookie is the original parsed cookie, retained so exported records can
// reproduce attributes the canonical fields above don't capture.
func (c *StoredCookie) RawCookie() *http.Cookie { return c.rawCookie }

// Creation is when this identity key was first inserted (preserved across
// UpdatedExisting overwrites).
func (c *StoredCookie) Creation() time.Time { return c.creation }

// LastAccess is when this cookie was last selected by Matches or
// overwritten by an insert; for a freshly inserted cookie it equals its
// creation time.
func (c *StoredCookie) LastAccess() time.Time { return c.lastAccess }

// IsExpiredAt reports whether the cookie is expired as of now.
func (c *StoredCookie) IsExpiredAt(now time.Time) bool { return c.expires.IsExpiredAt(now) }

// Persistent reports whether the cookie carries an absolute expiration and
// so should survive a session-end sweep (spec section 4.6/4.8).
func (c *StoredCookie) Persistent() bool { return c.expires.Persistent() }

// domainKey is the map key the store groups this cookie under (spec
// section 3, "Effective domain key").
func (c *StoredCookie) domainKey() string { return c.domain.EffectiveKey() }

// identity returns the (effective_domain_key, path, name) triple that
// uniquely identifies this cookie's slot in the store (spec invariant 1).
func (c *StoredCookie) identity() (domainKey, path, name string) {
	return c.domainKey(), c.path.Value(), c.name
}

// shouldSend implements the per-cookie half of spec section 4.4's matching
// selection: domain-match, path-match, and secure gating against a
// request scope. Expiry is checked by the caller.
func (c *StoredCookie) shouldSend(scope RequestScope) bool {
	return c.domain.DomainMatch(scope.Host) &&
		c.path.PathMatch(scope.Path) &&
		(!c.secure || scope.Secure)
}
