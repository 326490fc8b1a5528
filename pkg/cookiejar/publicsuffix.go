package cookiejar

import "golang.org/x/net/publicsuffix"

// PublicSuffixGuard is the injected capability that rejects cookies whose
// Domain attribute equals a registered public suffix (RFC 6265 section 5.3
// point 5). It holds a predicate rather than being a global: absent guard
// means never reject, matching spec section 9's "capability, not a global".
type PublicSuffixGuard struct {
	isSuffix func(domain string) bool
}

// NewPublicSuffixGuard wraps an arbitrary predicate.
func NewPublicSuffixGuard(isSuffix func(domain string) bool) *PublicSuffixGuard {
	if isSuffix == nil {
		panic("cookiejar: nil public suffix predicate")
	}
	return &PublicSuffixGuard{isSuffix: isSuffix}
}

// DefaultPublicSuffixGuard wraps golang.org/x/net/publicsuffix's bundled
// list, the same list the teacher's jar.go defaults to for its
// PublicSuffixList option.
func DefaultPublicSuffixGuard() *PublicSuffixGuard {
	return NewPublicSuffixGuard(func(domain string) bool {
		suffix, _ := publicsuffix.PublicSuffix(domain)
		return suffix == domain
	})
}

// IsPublicSuffix reports whether domain is exactly a registered public
// suffix (e.g. "com", "co.uk"), not merely a domain that ends with one.
func (g *PublicSuffixGuard) IsPublicSuffix(domain string) bool {
	if g == nil {
		return false
	}
	return g.isSuffix(domain)
}
