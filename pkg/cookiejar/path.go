package cookiejar

import "strings"

// PathKind tags the variant held by a PathScope.
type PathKind int

const (
	// PathDefault means no explicit Path attribute was observed, or it
	// did not start with "/"; the held value was derived from the
	// request URL (RFC 6265 section 5.1.4).
	PathDefault PathKind = iota
	// PathExact means an explicit Path attribute was observed.
	PathExact
)

// PathScope is the path attribute of a stored cookie.
type PathScope struct {
	kind  PathKind
	value string
}

// Kind reports which variant is held.
func (p PathScope) Kind() PathKind { return p.kind }

// Value returns the held path string.
func (p PathScope) Value() string { return p.value }

// DefaultPathScope builds a PathScope derived from a request URL path.
func DefaultPathScope(path string) PathScope {
	return PathScope{kind: PathDefault, value: path}
}

// ExactPathScope builds a PathScope from an explicit Path attribute.
func ExactPathScope(path string) PathScope {
	return PathScope{kind: PathExact, value: path}
}

// BuildPathScope implements spec section 4.2's PathScope.build: an absent
// attribute, or one that doesn't start with "/", falls back to
// defaultPath; otherwise the attribute is used verbatim.
func BuildPathScope(attr string, defaultPath string) PathScope {
	if attr == "" || attr[0] != '/' {
		return DefaultPathScope(defaultPath)
	}
	return ExactPathScope(attr)
}

// DefaultRequestPath derives the RFC 6265 section 5.1.4 default-path for a
// request URL path: "/" if the path is empty, doesn't start with "/", or is
// itself "/"; otherwise the path up to (excluding) the last "/" segment.
func DefaultRequestPath(path string) string {
	if len(path) == 0 || path[0] != '/' || path == "/" {
		return "/"
	}
	i := strings.LastIndex(path, "/")
	if i == 0 {
		return "/"
	}
	return path[:i]
}

// PathMatch implements RFC 6265 section 5.1.4 path-match: requestPath
// path-matches p iff they're identical, or requestPath has p as a prefix
// and either p ends in "/" or the next character in requestPath is "/".
func (p PathScope) PathMatch(requestPath string) bool {
	c := p.value
	if requestPath == c {
		return true
	}
	if !strings.HasPrefix(requestPath, c) {
		return false
	}
	if c == "" {
		return false
	}
	if c[len(c)-1] == '/' {
		return true
	}
	return requestPath[len(c)] == '/'
}
