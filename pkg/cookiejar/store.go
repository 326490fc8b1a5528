// Package cookiejar implements the RFC 6265 cookie storage and matching
// engine: the attribute parser/validator that turns a raw Set-Cookie plus a
// request URL into a canonical StoredCookie, and the Store that enforces
// domain/path/expiry/secure/http-only rules across insertion, update,
// eviction, and retrieval.
//
// The store is single-owner and synchronous; sharing across goroutines is
// the caller's concern (wrap it in a sync.Mutex or sync.RWMutex), matching
// the teacher's own separation of the matching engine from concurrency.
package cookiejar

import (
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pfernie/cookie-store/internal/util"
)

type nameMap map[string]*StoredCookie
type pathMap map[string]nameMap
type domainMap map[string]pathMap

// Options configure a new Store.
type Options struct {
	publicSuffixGuard *PublicSuffixGuard
	logf              func(format string, args ...interface{})
	logSecureValues   bool
}

// Option configures a Store at construction time.
type Option func(*Options)

// OptionPublicSuffixGuard installs the public-suffix guard used to reject
// cookies whose Domain attribute is a registered public suffix. Defaults to
// nil: absent guard means never reject (spec section 9).
func OptionPublicSuffixGuard(g *PublicSuffixGuard) Option {
	return func(o *Options) { o.publicSuffixGuard = g }
}

// OptionLogFunc installs a debug-level logging sink, called when an insert
// is attempted and when an expired insert removes an existing entry.
// Rejections and sweeps are not logged. Defaults to a no-op.
func OptionLogFunc(f func(format string, args ...interface{})) Option {
	return func(o *Options) { o.logf = f }
}

// OptionLogSecureValues opts into logging the values of secure cookies.
// Defaults to false: secure cookie values are elided from logs unless this
// is set (spec section 7).
func OptionLogSecureValues(v bool) Option {
	return func(o *Options) { o.logSecureValues = v }
}

func newOptions(opts ...Option) *Options {
	o := &Options{
		logf: func(string, ...interface{}) {},
	}
	for _, apply := range opts {
		apply(o)
	}
	return o
}

// Store is the jar: it owns a nested domain -> path -> name mapping of
// StoredCookie and enforces RFC 6265's storage model over it (spec
// section 4.7). It is not safe for concurrent use; wrap it externally if
// sharing is required (spec section 5).
type Store struct {
	cookies domainMap
	psg     *PublicSuffixGuard
	logf    func(format string, args ...interface{})
	logSec  bool
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	o := newOptions(opts...)
	return &Store{
		cookies: make(domainMap),
		psg:     o.publicSuffixGuard,
		logf:    o.logf,
		logSec:  o.logSecureValues,
	}
}

func (s *Store) logCookie(op string, c *http.Cookie) {
	if c.Secure && !s.logSec {
		s.logf("cookiejar: %s: secure cookie %q", op, c.Name)
		return
	}
	s.logf("cookiejar: %s: %s", op, c.String())
}

// InsertRaw parses cookie's attributes against requestURL and inserts the
// result, using the current wall-clock time (spec section 6).
func (s *Store) InsertRaw(cookie *http.Cookie, requestURL *url.URL) (StoreAction, error) {
	return s.InsertRawAt(cookie, requestURL, time.Now())
}

// InsertRawAt is InsertRaw with an injected clock, so tests are
// deterministic (spec section 9, "injected clock").
func (s *Store) InsertRawAt(cookie *http.Cookie, requestURL *url.URL, now time.Time) (StoreAction, error) {
	s.logCookie("insert", cookie)

	scope, err := ExtractRequestScope(requestURL)
	if err != nil {
		return 0, err
	}

	sc, err := s.buildStoredCookie(cookie, scope, now)
	if err != nil {
		return 0, err
	}

	domainKey, path, name := sc.identity()

	if old := s.getAnyLocked(domainKey, path, name); old != nil {
		if old.httpOnly && !scope.HTTPScheme {
			return 0, newError("InsertRawAt", ErrHTTPOnlyFromNonHTTP, nil)
		}
	}

	if sc.expires.Kind() == ExpiryExpired {
		if s.removeLocked(domainKey, path, name) {
			s.logf("cookiejar: insert: expired existing %s/%s/%s", domainKey, path, name)
			return ExpiredExisting, nil
		}
		return ExpiredNoExisting, nil
	}

	if old := s.getAnyLocked(domainKey, path, name); old != nil {
		sc.creation = old.creation
		sc.lastAccess = now
		s.putLocked(domainKey, path, name, sc)
		return UpdatedExisting, nil
	}

	sc.creation = now
	sc.lastAccess = now
	s.putLocked(domainKey, path, name, sc)
	return Inserted, nil
}

// buildStoredCookie runs steps 1-6 of spec section 4.3's insert pipeline:
// scope extraction already done by the caller, so this builds the
// Domain/Path/Expiry scopes, validates the name, and carries over flags.
func (s *Store) buildStoredCookie(cookie *http.Cookie, scope RequestScope, now time.Time) (*StoredCookie, error) {
	if cookie.Name == "" {
		return nil, newError("buildStoredCookie", ErrEmptyName, nil)
	}
	if cookie.HttpOnly && !scope.HTTPScheme {
		return nil, newError("buildStoredCookie", ErrHTTPOnlyFromNonHTTP, nil)
	}

	domain, err := BuildDomainScope(cookie.Domain, scope.Host, s.psg)
	if err != nil {
		return nil, err
	}

	path := BuildPathScope(cookie.Path, scope.DefaultPath)

	hasMaxAge := cookie.MaxAge != 0
	expires := BuildExpiryScope(hasMaxAge, cookie.MaxAge, !cookie.Expires.IsZero(), cookie.Expires, now)

	return &StoredCookie{
		name:      cookie.Name,
		value:     cookie.Value,
		domain:    domain,
		path:      path,
		expires:   expires,
		secure:    cookie.Secure,
		httpOnly:  cookie.HttpOnly,
		sameSite:  cookie.SameSite,
		rawCookie: cookie,
	}, nil
}

// Remove deletes exactly the entry identified by (domain, path, name),
// reporting whether one was present (spec section 4.5).
func (s *Store) Remove(domain, path, name string) bool {
	return s.removeLocked(domain, path, name)
}

// Clear removes every stored cookie (spec section 4.5).
func (s *Store) Clear() {
	s.cookies = make(domainMap)
}

// ClearSession removes every stored cookie whose ExpiryScope is SessionEnd,
// in addition to anything SweepExpired(now) would remove (spec
// section 4.5: "additionally removes every SessionEnd cookie").
func (s *Store) ClearSession(now time.Time) int {
	return s.sweep(func(c *StoredCookie, now time.Time) bool {
		return c.expires.Kind() == ExpirySessionEnd || (c.expires.Kind() == ExpiryAtUtc && c.expires.IsExpiredAt(now))
	}, now)
}

// SweepExpired removes every stored cookie whose ExpiryScope is AtUtc(t)
// with t <= now (spec section 4.5).
func (s *Store) SweepExpired(now time.Time) int {
	return s.sweep(func(c *StoredCookie, now time.Time) bool {
		return c.expires.Kind() == ExpiryAtUtc && c.expires.IsExpiredAt(now)
	}, now)
}

func (s *Store) sweep(shouldRemove func(c *StoredCookie, now time.Time) bool, now time.Time) int {
	var removed int
	for domainKey, paths := range s.cookies {
		for path, names := range paths {
			for name, c := range names {
				if shouldRemove(c, now) {
					delete(names, name)
					removed++
				}
			}
			if len(names) == 0 {
				delete(paths, path)
			}
		}
		if len(paths) == 0 {
			delete(s.cookies, domainKey)
		}
	}
	return removed
}

// Get returns the stored cookie for (domain, path, name), if any and if it
// is unexpired as of the current wall-clock time.
func (s *Store) Get(domain, path, name string) (*StoredCookie, bool) {
	c := s.getAnyLocked(domain, path, name)
	if c == nil || c.IsExpiredAt(time.Now()) {
		return nil, false
	}
	return c, true
}

// GetAny returns the stored cookie for (domain, path, name) even if it is
// expired, for observability (spec section 3 supplement).
func (s *Store) GetAny(domain, path, name string) (*StoredCookie, bool) {
	c := s.getAnyLocked(domain, path, name)
	return c, c != nil
}

// Contains reports whether an unexpired cookie exists for the identity.
func (s *Store) Contains(domain, path, name string) bool {
	_, ok := s.Get(domain, path, name)
	return ok
}

// ContainsAny reports whether any (even expired) cookie exists for the
// identity.
func (s *Store) ContainsAny(domain, path, name string) bool {
	_, ok := s.GetAny(domain, path, name)
	return ok
}

func (s *Store) getAnyLocked(domain, path, name string) *StoredCookie {
	paths, ok := s.cookies[domain]
	if !ok {
		return nil
	}
	names, ok := paths[path]
	if !ok {
		return nil
	}
	return names[name]
}

func (s *Store) putLocked(domain, path, name string, c *StoredCookie) {
	paths, ok := s.cookies[domain]
	if !ok {
		paths = make(pathMap)
		s.cookies[domain] = paths
	}
	names, ok := paths[path]
	if !ok {
		names = make(nameMap)
		paths[path] = names
	}
	names[name] = c
}

func (s *Store) removeLocked(domain, path, name string) bool {
	paths, ok := s.cookies[domain]
	if !ok {
		return false
	}
	names, ok := paths[path]
	if !ok {
		return false
	}
	if _, ok := names[name]; !ok {
		return false
	}
	delete(names, name)
	if len(names) == 0 {
		delete(paths, path)
	}
	if len(paths) == 0 {
		delete(s.cookies, domain)
	}
	return true
}

// Matches returns the ordered set of currently-unexpired stored cookies to
// attach to a request against requestURL, using the current wall-clock
// time, and updates each returned cookie's last-access time (spec
// section 4.4).
func (s *Store) Matches(requestURL *url.URL) ([]*StoredCookie, error) {
	return s.MatchesAt(requestURL, time.Now())
}

// MatchesAt is Matches with an injected clock.
func (s *Store) MatchesAt(requestURL *url.URL, now time.Time) ([]*StoredCookie, error) {
	scope, err := ExtractRequestScope(requestURL)
	if err != nil {
		return nil, err
	}

	// Candidate domain keys: the request host itself, plus every proper
	// domain-suffix ancestor, per spec section 4.4. A full domain-match
	// check against each candidate's stored cookies still runs below, so
	// this is just a search-space narrowing, not the source of truth.
	var selected []*StoredCookie
	seen := util.NewSet[*StoredCookie](nil)
	for _, key := range candidateDomainKeys(scope.Host) {
		paths, ok := s.cookies[key]
		if !ok {
			continue
		}
		for _, names := range paths {
			for _, c := range names {
				if seen.Has(c) {
					continue
				}
				if c.IsExpiredAt(now) {
					continue
				}
				if !c.shouldSend(scope) {
					continue
				}
				seen.Add(c)
				selected = append(selected, c)
			}
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		li, lj := len(selected[i].path.Value()), len(selected[j].path.Value())
		if li != lj {
			return li > lj
		}
		return selected[i].creation.Before(selected[j].creation)
	})

	for _, c := range selected {
		c.lastAccess = now
	}

	return selected, nil
}

// candidateDomainKeys returns host plus every proper domain-suffix
// ancestor, stripping one leading label at a time (spec section 4.4).
func candidateDomainKeys(host string) []string {
	keys := []string{host}
	rest := host
	for {
		i := indexByte(rest, '.')
		if i < 0 {
			break
		}
		rest = rest[i+1:]
		if rest == "" {
			break
		}
		keys = append(keys, rest)
	}
	return keys
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// IterAny returns every stored cookie, expired or not, for observability
// (spec section 4.6/6).
func (s *Store) IterAny() []*StoredCookie {
	var out []*StoredCookie
	for _, paths := range s.cookies {
		for _, names := range paths {
			for _, c := range names {
				out = append(out, c)
			}
		}
	}
	return out
}

// IterUnexpired returns every unexpired stored cookie as of now.
func (s *Store) IterUnexpired(now time.Time) []*StoredCookie {
	var out []*StoredCookie
	for _, c := range s.IterAny() {
		if !c.IsExpiredAt(now) {
			out = append(out, c)
		}
	}
	return out
}
