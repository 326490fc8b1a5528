package cookiejar

import (
	"fmt"
	"net/http"
	"time"
)

// Record is the format-agnostic, flat persistence schema a StoredCookie is
// bridged through for import/export (spec section 6, "Persistence
// schema"). Both serialization adapters (cookiejar_file, cookiejar_snapshot)
// operate on slices of Record, tagged for both encoding/json and yaml.v3 so
// either adapter can round-trip the same shape.
type Record struct {
	Name        string     `json:"name" yaml:"name"`
	Value       string     `json:"value" yaml:"value"`
	DomainKind  string     `json:"domain_kind" yaml:"domain_kind"`
	DomainValue string     `json:"domain_value,omitempty" yaml:"domain_value,omitempty"`
	PathKind    string     `json:"path_kind" yaml:"path_kind"`
	PathValue   string     `json:"path_value" yaml:"path_value"`
	ExpiryKind  string     `json:"expiry_kind" yaml:"expiry_kind"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Secure      bool       `json:"secure,omitempty" yaml:"secure,omitempty"`
	HTTPOnly    bool       `json:"http_only,omitempty" yaml:"http_only,omitempty"`
	SameSite    string     `json:"same_site,omitempty" yaml:"same_site,omitempty"`
	RawCookie   string     `json:"raw_cookie,omitempty" yaml:"raw_cookie,omitempty"`
	Creation    time.Time  `json:"creation" yaml:"creation"`
	LastAccess  time.Time  `json:"last_access" yaml:"last_access"`
}

const (
	domainKindHostOnly = "HostOnly"
	domainKindSuffix   = "Suffix"

	pathKindDefault = "Default"
	pathKindExact   = "Exact"

	expiryKindAtUtc      = "AtUtc"
	expiryKindSessionEnd = "SessionEnd"
)

func sameSiteString(s http.SameSite) string {
	switch s {
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

// ToRecord flattens a StoredCookie into its persistence schema. The raw
// cookie is round-tripped via its canonical http.Cookie.String() form
// rather than the original header bytes, since the generic cookie grammar
// parser that produced it is an external collaborator (spec section 1) the
// store never retains the original text of.
func ToRecord(c *StoredCookie) Record {
	r := Record{
		Name:       c.name,
		Value:      c.value,
		PathValue:  c.path.Value(),
		Secure:     c.secure,
		HTTPOnly:   c.httpOnly,
		SameSite:   sameSiteString(c.sameSite),
		Creation:   c.creation,
		LastAccess: c.lastAccess,
	}
	if c.rawCookie != nil {
		r.RawCookie = c.rawCookie.String()
	}

	switch c.domain.Kind() {
	case DomainHostOnly:
		r.DomainKind = domainKindHostOnly
		r.DomainValue = c.domain.Value()
	case DomainSuffix:
		r.DomainKind = domainKindSuffix
		r.DomainValue = c.domain.Value()
	}

	switch c.path.Kind() {
	case PathDefault:
		r.PathKind = pathKindDefault
	case PathExact:
		r.PathKind = pathKindExact
	}

	switch c.expires.Kind() {
	case ExpiryAtUtc:
		r.ExpiryKind = expiryKindAtUtc
		at := c.expires.At()
		r.ExpiresAt = &at
	case ExpirySessionEnd:
		r.ExpiryKind = expiryKindSessionEnd
	}

	return r
}

// FromRecord rebuilds a StoredCookie from its persistence schema.
func FromRecord(r Record) (*StoredCookie, error) {
	c := &StoredCookie{
		name:       r.Name,
		value:      r.Value,
		secure:     r.Secure,
		httpOnly:   r.HTTPOnly,
		sameSite:   parseSameSite(r.SameSite),
		creation:   r.Creation,
		lastAccess: r.LastAccess,
	}

	switch r.DomainKind {
	case domainKindHostOnly:
		c.domain = HostOnlyDomain(r.DomainValue)
	case domainKindSuffix:
		c.domain = SuffixDomain(r.DomainValue)
	default:
		return nil, fmt.Errorf("cookiejar: FromRecord: unknown domain kind %q", r.DomainKind)
	}

	switch r.PathKind {
	case pathKindDefault:
		c.path = DefaultPathScope(r.PathValue)
	case pathKindExact:
		c.path = ExactPathScope(r.PathValue)
	default:
		return nil, fmt.Errorf("cookiejar: FromRecord: unknown path kind %q", r.PathKind)
	}

	switch r.ExpiryKind {
	case expiryKindAtUtc:
		if r.ExpiresAt == nil {
			return nil, fmt.Errorf("cookiejar: FromRecord: AtUtc record missing expires_at")
		}
		c.expires = AtUTCExpiry(*r.ExpiresAt)
	case expiryKindSessionEnd:
		c.expires = SessionEndExpiry()
	default:
		return nil, fmt.Errorf("cookiejar: FromRecord: unknown expiry kind %q", r.ExpiryKind)
	}

	if r.RawCookie != "" {
		header := http.Header{}
		header.Add("Set-Cookie", r.RawCookie)
		if parsed := (&http.Response{Header: header}).Cookies(); len(parsed) > 0 {
			c.rawCookie = parsed[0]
		}
	}

	return c, nil
}
