package cookiejar

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/pfernie/cookie-store/internal/ascii"
)

// RequestScope is what the URL scope extractor derives from a request URL:
// the canonicalized host, the RFC 6265 default-path, and whether the
// request is in a secure context (spec section 4.1).
type RequestScope struct {
	Host string
	// Path is the request URL's actual path, "/" if empty. Used at match
	// time (spec section 4.4) — distinct from DefaultPath, which is only
	// used to derive a stored cookie's path when no Path attribute was
	// present (spec section 4.2).
	Path        string
	DefaultPath string
	Secure      bool
	// HTTPScheme reports whether the URL's scheme was http or https, as
	// opposed to a non-HTTP API setting cookies programmatically (spec
	// section 3's supplemented HttpOnly/non-HTTP-API rejection rule).
	HTTPScheme bool
}

// ExtractRequestScope derives a RequestScope from a request URL, per spec
// section 4.1. Grounded on the teacher's canonicalHost/hasPort/defaultPath
// helpers, generalized to real IDNA (golang.org/x/net/idna) instead of
// bare ASCII lowering, and to the loopback-exemption secure rule from
// original_source/utils.rs.
func ExtractRequestScope(u *url.URL) (RequestScope, error) {
	if u == nil || u.Host == "" {
		return RequestScope{}, newError("ExtractRequestScope", ErrUnsupportedURL, nil)
	}

	host, err := canonicalHost(u.Host)
	if err != nil {
		return RequestScope{}, newError("ExtractRequestScope", ErrUnsupportedURL, err)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	return RequestScope{
		Host:        host,
		Path:        path,
		DefaultPath: DefaultRequestPath(u.Path),
		Secure:      isSecureContext(u.Scheme, host),
		HTTPScheme:  u.Scheme == "http" || u.Scheme == "https",
	}, nil
}

// canonicalHost strips the port (if any) and a trailing dot, then
// IDNA-canonicalizes and ASCII-lowercases the result. IP literals (with or
// without brackets) are returned verbatim, lowercased.
func canonicalHost(host string) (string, error) {
	var err error
	if hasPort(host) {
		host, _, err = net.SplitHostPort(host)
		if err != nil {
			return "", err
		}
	}
	host = strings.TrimSuffix(host, ".")

	if stripped := strings.Trim(host, "[]"); isIPLiteral(stripped) {
		return strings.ToLower(stripped), nil
	}

	encoded, err := idna.Lookup.ToASCII(host)
	if err != nil {
		// Fall back to the raw host: IDNA is a canonicalization nicety, not
		// a validity gate the store should reject requests over. Use
		// Unicode-safe lowering here (like domain.go's equivalent fallback)
		// since ascii.ToLower would silently drop any non-ASCII host that
		// idna.Lookup's strict profile rejects.
		return strings.ToLower(host), nil
	}
	lower, _ := ascii.ToLower(encoded)
	return lower, nil
}

// hasPort reports whether host contains a port number. host may be a host
// name, an IPv4, or a bracketed IPv6 address.
func hasPort(host string) bool {
	colons := strings.Count(host, ":")
	if colons == 0 {
		return false
	}
	if colons == 1 {
		return true
	}
	return len(host) > 0 && host[0] == '[' && strings.Contains(host, "]:")
}

// isSecureContext implements spec section 4.1's is_secure: true iff scheme
// is https, or host is a loopback host/IP per the 2021 browser relaxation
// (localhost, *.localhost, 127.0.0.0/8, ::1).
func isSecureContext(scheme, host string) bool {
	if scheme == "https" {
		return true
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4[0] == 127
		}
		return ip.Equal(net.IPv6loopback)
	}
	return false
}
