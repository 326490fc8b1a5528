package cookiejar

import "time"

// ExpiryKind tags the variant held by an ExpiryScope.
type ExpiryKind int

const (
	// ExpirySessionEnd means no explicit expiration was observed; the
	// cookie is removed on an explicit session-end sweep.
	ExpirySessionEnd ExpiryKind = iota
	// ExpiryAtUtc means the cookie carries an absolute UTC expiration.
	ExpiryAtUtc
	// ExpiryExpired is a synthetic marker: Max-Age<=0, or Expires parsed
	// to a past instant. Never persisted as-is; an insert carrying it
	// removes any matching existing entry instead of storing anything.
	ExpiryExpired
)

// maxRepresentableInstant is the clamp ceiling for AtUtc expirations that
// would otherwise overflow. Chosen the way the teacher's endOfTime and
// original_source/cookie_expiration.rs's Duration::max_value clamp do:
// far enough in the future to never be reached in practice, but still a
// valid, comparable time.Time.
var maxRepresentableInstant = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// maxDuration is the largest time.Duration; a Max-Age whose nanosecond
// count would exceed it is clamped instead of overflowing.
const maxDuration = time.Duration(1<<63 - 1)

// ExpiryScope is the expiration attribute of a stored cookie.
type ExpiryScope struct {
	kind ExpiryKind
	at   time.Time
}

// Kind reports which variant is held.
func (e ExpiryScope) Kind() ExpiryKind { return e.kind }

// At returns the held absolute instant. Zero value unless Kind is ExpiryAtUtc.
func (e ExpiryScope) At() time.Time { return e.at }

// AtUTCExpiry builds an ExpiryScope with an absolute expiration, clamped to
// the maximum representable instant.
func AtUTCExpiry(at time.Time) ExpiryScope {
	if at.After(maxRepresentableInstant) {
		at = maxRepresentableInstant
	}
	return ExpiryScope{kind: ExpiryAtUtc, at: at}
}

// SessionEndExpiry builds a session-scoped ExpiryScope.
func SessionEndExpiry() ExpiryScope {
	return ExpiryScope{kind: ExpirySessionEnd}
}

// ExpiredExpiry builds the synthetic "already expired" marker.
func ExpiredExpiry() ExpiryScope {
	return ExpiryScope{kind: ExpiryExpired}
}

// BuildExpiryScope implements spec section 4.2's ExpiryScope.build.
// Max-Age takes precedence over Expires per RFC 6265 section 5.3: hasMaxAge
// with maxAge<=0 yields Expired; hasMaxAge with maxAge>0 yields
// now+maxAge, clamped. Otherwise hasExpires selects Expired (if expires is
// not after now) or AtUtc(expires), clamped. Absent both, SessionEnd.
func BuildExpiryScope(hasMaxAge bool, maxAge int, hasExpires bool, expires time.Time, now time.Time) ExpiryScope {
	if hasMaxAge {
		if maxAge <= 0 {
			return ExpiredExpiry()
		}
		if time.Duration(maxAge) > maxDuration/time.Second {
			return AtUTCExpiry(maxRepresentableInstant)
		}
		return AtUTCExpiry(now.Add(time.Duration(maxAge) * time.Second))
	}
	if hasExpires {
		if !expires.After(now) {
			return ExpiredExpiry()
		}
		return AtUTCExpiry(expires)
	}
	return SessionEndExpiry()
}

// IsExpiredAt reports whether the scope is expired as of now. SessionEnd
// never reports expired this way; it's removed only by an explicit
// session-end sweep (spec section 4.5).
func (e ExpiryScope) IsExpiredAt(now time.Time) bool {
	switch e.kind {
	case ExpiryAtUtc:
		return !e.at.After(now)
	case ExpiryExpired:
		return true
	default:
		return false
	}
}

// Persistent reports whether the cookie should survive a session-end sweep
// and be eligible for persistent-only export (spec section 4.6/4.8).
func (e ExpiryScope) Persistent() bool {
	return e.kind == ExpiryAtUtc
}
