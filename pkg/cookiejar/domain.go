package cookiejar

import (
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// DomainKind tags the variant held by a DomainScope.
type DomainKind int

const (
	// DomainEmpty is the construction-time-only zero value. A cookie
	// carrying it must never be stored.
	DomainEmpty DomainKind = iota
	// DomainHostOnly matches the exact request host only.
	DomainHostOnly
	// DomainSuffix matches the held domain and any of its subdomains.
	DomainSuffix
)

// DomainScope is the domain attribute of a stored cookie: either a bare
// host (no Domain attribute was observed) or a domain suffix (an explicit
// Domain attribute), per RFC 6265 section 5.1.3.
//
// Modeled as a tagged variant rather than an interface hierarchy: matching
// is a switch over Kind, never a virtual dispatch.
type DomainScope struct {
	kind  DomainKind
	value string
}

// Kind reports which variant is held.
func (d DomainScope) Kind() DomainKind { return d.kind }

// Value returns the held host or domain string. Empty for DomainEmpty.
func (d DomainScope) Value() string { return d.value }

// HostOnlyDomain builds a DomainScope tied to exactly host.
func HostOnlyDomain(host string) DomainScope {
	return DomainScope{kind: DomainHostOnly, value: host}
}

// SuffixDomain builds a DomainScope matching domain and its subdomains.
func SuffixDomain(domain string) DomainScope {
	return DomainScope{kind: DomainSuffix, value: domain}
}

// BuildDomainScope implements spec section 4.2's DomainScope.build: absent
// or empty attr yields a HostOnly scope tied to requestHost; otherwise the
// attribute is normalized (strip one leading dot, IDNA-canonicalize,
// lowercase) into a Suffix scope, after verifying it domain-matches
// requestHost and, if psg is non-nil, isn't a registered public suffix.
func BuildDomainScope(attr string, requestHost string, psg *PublicSuffixGuard) (DomainScope, error) {
	if attr == "" {
		return HostOnlyDomain(requestHost), nil
	}

	d := attr
	if d[0] == '.' {
		d = d[1:]
	}
	if d == "" {
		return DomainScope{}, newError("BuildDomainScope", ErrDomainMismatch, nil)
	}

	ascii, err := idna.Lookup.ToASCII(d)
	if err != nil {
		ascii = d
	}
	d = strings.ToLower(ascii)

	if psg != nil && psg.IsPublicSuffix(d) {
		// One exception (original_source/cookie_store.rs insert()): a
		// domain-attribute identical to the request host is a host cookie
		// even if it happens to equal a registered public suffix.
		if d == requestHost {
			return HostOnlyDomain(requestHost), nil
		}
		return DomainScope{}, newError("BuildDomainScope", ErrPublicSuffix, nil)
	}

	if !HostDomainMatch(requestHost, d) {
		return DomainScope{}, newError("BuildDomainScope", ErrDomainMismatch, nil)
	}

	return SuffixDomain(d), nil
}

// DomainMatch reports whether the scope matches host, per RFC 6265
// section 5.1.3: a HostOnly scope matches only the exact host it was built
// with; a Suffix scope matches the held domain and any of its subdomains.
func (d DomainScope) DomainMatch(host string) bool {
	switch d.kind {
	case DomainHostOnly:
		return d.value == host
	case DomainSuffix:
		return HostDomainMatch(host, d.value)
	default:
		return false
	}
}

// EffectiveKey returns the map key the store groups this scope's cookies
// under (spec section 3, "Effective domain key").
func (d DomainScope) EffectiveKey() string { return d.value }

// HostDomainMatch implements RFC 6265 section 5.1.3 domain-match: host
// domain-matches d iff host == d, or host ends with "."+d and host is not
// an IP address.
func HostDomainMatch(host, d string) bool {
	if host == d {
		return true
	}
	if isIPLiteral(host) {
		return false
	}
	return strings.HasSuffix(host, "."+d)
}

func isIPLiteral(host string) bool {
	return net.ParseIP(host) != nil
}
