package cookiejar

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	creation := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	lastAccess := creation.Add(time.Hour)
	expiresAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	original := &StoredCookie{
		name:       "sid",
		value:      "abc123",
		domain:     SuffixDomain("example.com"),
		path:       ExactPathScope("/app"),
		expires:    AtUTCExpiry(expiresAt),
		secure:     true,
		httpOnly:   true,
		sameSite:   http.SameSiteLaxMode,
		creation:   creation,
		lastAccess: lastAccess,
		rawCookie: &http.Cookie{
			Name: "sid", Value: "abc123", Domain: "example.com", Path: "/app",
			Secure: true, HttpOnly: true, SameSite: http.SameSiteLaxMode,
			Expires: expiresAt,
		},
	}

	r := ToRecord(original)
	assert.Equal(t, domainKindSuffix, r.DomainKind)
	assert.Equal(t, "example.com", r.DomainValue)
	assert.Equal(t, pathKindExact, r.PathKind)
	assert.Equal(t, expiryKindAtUtc, r.ExpiryKind)
	require.NotNil(t, r.ExpiresAt)
	assert.True(t, expiresAt.Equal(*r.ExpiresAt))
	assert.Equal(t, "Lax", r.SameSite)

	rebuilt, err := FromRecord(r)
	require.NoError(t, err)
	assert.Equal(t, original.name, rebuilt.name)
	assert.Equal(t, original.value, rebuilt.value)
	assert.Equal(t, original.domain, rebuilt.domain)
	assert.Equal(t, original.path, rebuilt.path)
	assert.True(t, original.expires.At().Equal(rebuilt.expires.At()))
	assert.Equal(t, original.secure, rebuilt.secure)
	assert.Equal(t, original.httpOnly, rebuilt.httpOnly)
	assert.Equal(t, original.sameSite, rebuilt.sameSite)
	require.NotNil(t, rebuilt.rawCookie)
	assert.Equal(t, "sid", rebuilt.rawCookie.Name)
}

func TestFromRecordSessionEnd(t *testing.T) {
	r := Record{
		Name:       "a",
		DomainKind: domainKindHostOnly,
		DomainValue: "example.com",
		PathKind:   pathKindDefault,
		PathValue:  "/",
		ExpiryKind: expiryKindSessionEnd,
	}
	c, err := FromRecord(r)
	require.NoError(t, err)
	assert.Equal(t, ExpirySessionEnd, c.expires.Kind())
}

func TestFromRecordUnknownKinds(t *testing.T) {
	_, err := FromRecord(Record{DomainKind: "bogus"})
	assert.Error(t, err)

	_, err = FromRecord(Record{DomainKind: domainKindHostOnly, PathKind: "bogus"})
	assert.Error(t, err)

	_, err = FromRecord(Record{DomainKind: domainKindHostOnly, PathKind: pathKindDefault, ExpiryKind: "bogus"})
	assert.Error(t, err)
}
