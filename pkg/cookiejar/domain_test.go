package cookiejar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDomainScope(t *testing.T) {
	psg := DefaultPublicSuffixGuard()

	t.Run("absent attribute yields host-only", func(t *testing.T) {
		d, err := BuildDomainScope("", "example.com", psg)
		require.NoError(t, err)
		assert.Equal(t, DomainHostOnly, d.Kind())
		assert.Equal(t, "example.com", d.Value())
	})

	t.Run("leading dot is stripped", func(t *testing.T) {
		d, err := BuildDomainScope(".example.com", "www.example.com", psg)
		require.NoError(t, err)
		assert.Equal(t, DomainSuffix, d.Kind())
		assert.Equal(t, "example.com", d.Value())
	})

	t.Run("rejects mismatched domain", func(t *testing.T) {
		_, err := BuildDomainScope("other.com", "example.com", psg)
		require.Error(t, err)
		assert.True(t, isErrorKind(err, ErrDomainMismatch))
	})

	t.Run("rejects registered public suffix", func(t *testing.T) {
		_, err := BuildDomainScope("com", "example.com", psg)
		require.Error(t, err)
		assert.True(t, isErrorKind(err, ErrPublicSuffix))
	})

	t.Run("public suffix identical to host is host-only", func(t *testing.T) {
		d, err := BuildDomainScope("com", "com", psg)
		require.NoError(t, err)
		assert.Equal(t, DomainHostOnly, d.Kind())
		assert.Equal(t, "com", d.Value())
	})

	t.Run("nil guard never rejects public suffix", func(t *testing.T) {
		d, err := BuildDomainScope("com", "example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, DomainSuffix, d.Kind())
		assert.Equal(t, "com", d.Value())

		d, err = BuildDomainScope("example.com", "www.example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, DomainSuffix, d.Kind())
	})
}

func isErrorKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func TestHostDomainMatch(t *testing.T) {
	cases := []struct {
		name string
		host string
		d    string
		want bool
	}{
		{"identical", "example.com", "example.com", true},
		{"subdomain", "www.example.com", "example.com", true},
		{"unrelated suffix collision", "notexample.com", "example.com", false},
		{"ip literal exact", "127.0.0.1", "127.0.0.1", true},
		{"ip literal suffix rejected", "10.0.0.1", "0.0.1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HostDomainMatch(tc.host, tc.d))
		})
	}
}

func TestDomainScopeDomainMatch(t *testing.T) {
	t.Run("host-only matches exact host", func(t *testing.T) {
		d := HostOnlyDomain("example.com")
		assert.True(t, d.DomainMatch("example.com"))
		assert.False(t, d.DomainMatch("www.example.com"))
	})

	t.Run("suffix matches subdomains", func(t *testing.T) {
		d := SuffixDomain("example.com")
		assert.True(t, d.DomainMatch("example.com"))
		assert.True(t, d.DomainMatch("www.example.com"))
		assert.False(t, d.DomainMatch("notexample.com"))
	})
}
