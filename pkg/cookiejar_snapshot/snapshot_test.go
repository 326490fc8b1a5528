package cookiejar_snapshot

import (
	"bytes"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfernie/cookie-store/pkg/cookiejar"
)

func newStoreWith(t *testing.T, now time.Time, cookies ...*http.Cookie) *cookiejar.Store {
	u, _ := url.Parse("http://example.com/")
	store := cookiejar.New()
	for _, c := range cookies {
		_, err := store.InsertRawAt(c, u, now)
		require.NoError(t, err)
	}
	return store
}

func TestSaveAndLoadJSON(t *testing.T) {
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	store := newStoreWith(t, now,
		&http.Cookie{Name: "persistent", Value: "1", Path: "/", MaxAge: 3600},
		&http.Cookie{Name: "session", Value: "1", Path: "/"},
	)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, store, JSON, now))
	assert.True(t, strings.Contains(buf.String(), "persistent"))
	assert.False(t, strings.Contains(buf.String(), "\"session\""))

	loaded, err := Load(bytes.NewReader(buf.Bytes()), JSON, now)
	require.NoError(t, err)
	assert.True(t, loaded.Contains("example.com", "/", "persistent"))
	assert.False(t, loaded.ContainsAny("example.com", "/", "session"))
}

func TestSaveAllIncludesExpiredAndSessionCookies(t *testing.T) {
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	store := newStoreWith(t, now,
		&http.Cookie{Name: "session", Value: "1", Path: "/"},
		&http.Cookie{Name: "stale", Value: "1", Path: "/", MaxAge: 1},
	)

	var buf bytes.Buffer
	require.NoError(t, SaveAll(&buf, store, JSON))

	loaded, err := LoadAll(bytes.NewReader(buf.Bytes()), JSON, now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, loaded.ContainsAny("example.com", "/", "session"))
	assert.True(t, loaded.ContainsAny("example.com", "/", "stale"))

	reloaded, err := Load(bytes.NewReader(buf.Bytes()), JSON, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, reloaded.Contains("example.com", "/", "stale"))
}

func TestYAMLRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	store := newStoreWith(t, now, &http.Cookie{Name: "a", Value: "1", Path: "/", MaxAge: 3600})

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, store, YAML, now))

	loaded, err := Load(bytes.NewReader(buf.Bytes()), YAML, now)
	require.NoError(t, err)
	assert.True(t, loaded.Contains("example.com", "/", "a"))
}

func TestSaveFileAndLoadFile(t *testing.T) {
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	store := newStoreWith(t, now, &http.Cookie{Name: "a", Value: "1", Path: "/", MaxAge: 3600})

	dir, err := os.MkdirTemp("", "cookiejar-snapshot-*")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, os.RemoveAll(dir)) })
	filename := path.Join(dir, "cookies.json")

	require.NoError(t, SaveFile(filename, store, JSON, now))

	loaded, err := LoadFile(filename, JSON, now)
	require.NoError(t, err)
	assert.True(t, loaded.Contains("example.com", "/", "a"))
}

func TestLoadFileFallsBackToOtherFormat(t *testing.T) {
	now := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	store := newStoreWith(t, now, &http.Cookie{Name: "a", Value: "1", Path: "/", MaxAge: 3600})

	dir, err := os.MkdirTemp("", "cookiejar-snapshot-*")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, os.RemoveAll(dir)) })
	filename := path.Join(dir, "cookies.yaml")

	require.NoError(t, SaveFile(filename, store, YAML, now))

	loaded, err := LoadFile(filename, JSON, now)
	require.NoError(t, err)
	assert.True(t, loaded.Contains("example.com", "/", "a"))
}
