// Package cookiejar_snapshot is the whole-file serialization adapter for
// cookiejar.Store: a single JSON or YAML document holding every Record,
// written and read in one shot. Grounded on the teacher's
// pkg/cookiejar_file layout but adapted from
// original_source/serialization.rs's save/save_incl_expired_and_nonpersistent
// and load/load_all pair, which trades the JSONL log's incremental-write,
// crash-safe shape (pkg/cookiejar_file) for a simpler one-shot snapshot —
// suited to a short-lived process loading a jar once at startup and saving
// it once at exit.
//
// RON, the original's second serialization format, has no idiomatic Go
// analog in the example pack; YAML fills the same "human-editable
// alternative to JSON" role and is already a teacher dependency
// (gopkg.in/yaml.v3).
package cookiejar_snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfernie/cookie-store/internal/util"
	"github.com/pfernie/cookie-store/pkg/cookiejar"
)

// document is the on-disk envelope: a named list of records, mirroring
// original_source/serialization.rs's CookieStoreSerialized { cookies: [...] }.
type document struct {
	Cookies []cookiejar.Record `json:"cookies" yaml:"cookies"`
}

// Format selects the wire encoding a Snapshot reads and writes.
type Format int

const (
	// JSON is encoding/json, pretty-printed with a two-space indent.
	JSON Format = iota
	// YAML is gopkg.in/yaml.v3.
	YAML
)

func (f Format) marshal(d document) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(d, "", "  ")
	case YAML:
		return yaml.Marshal(d)
	default:
		return nil, fmt.Errorf("cookiejar_snapshot: unknown format %d", f)
	}
}

func (f Format) unmarshal(data []byte, d *document) error {
	switch f {
	case JSON:
		return json.Unmarshal(data, d)
	case YAML:
		return yaml.Unmarshal(data, d)
	default:
		return fmt.Errorf("cookiejar_snapshot: unknown format %d", f)
	}
}

// Save writes every unexpired, persistent cookie in store to w, in the
// given format, mirroring original_source/serialization.rs's save(): only
// cookies with an AtUtc expiry that are not expired as of now are written.
// Session-only cookies are dropped, since a snapshot outlives the process
// that wrote it.
func Save(w io.Writer, store *cookiejar.Store, format Format, now time.Time) error {
	var cookies []cookiejar.Record
	for _, c := range store.IterUnexpired(now) {
		if c.Persistent() {
			cookies = append(cookies, cookiejar.ToRecord(c))
		}
	}
	return writeDocument(w, document{Cookies: cookies}, format)
}

// SaveAll writes every cookie in store to w, including expired and
// session-only ones, mirroring
// original_source/serialization.rs's save_incl_expired_and_nonpersistent().
func SaveAll(w io.Writer, store *cookiejar.Store, format Format) error {
	cookies := store.Export()
	return writeDocument(w, document{Cookies: cookies}, format)
}

func writeDocument(w io.Writer, d document, format Format) error {
	data, err := format.marshal(d)
	if err != nil {
		return fmt.Errorf("cookiejar_snapshot: save: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("cookiejar_snapshot: save: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("cookiejar_snapshot: save: %w", err)
	}
	return nil
}

// Load reads a document from r and imports it into a new Store, skipping
// expired cookies, mirroring original_source/serialization.rs's load().
func Load(r io.Reader, format Format, now time.Time) (*cookiejar.Store, error) {
	return load(r, format, cookiejar.ImportUnexpiredOnly, now)
}

// LoadAll reads a document from r and imports it into a new Store,
// including expired cookies, mirroring
// original_source/serialization.rs's load_all().
func LoadAll(r io.Reader, format Format, now time.Time) (*cookiejar.Store, error) {
	return load(r, format, cookiejar.ImportAll, now)
}

func load(r io.Reader, format Format, expiryMode cookiejar.ImportExpiryMode, now time.Time) (*cookiejar.Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cookiejar_snapshot: load: %w", err)
	}

	var d document
	if err := format.unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("cookiejar_snapshot: load: %w", err)
	}

	store := cookiejar.New()
	if _, err := store.Import(d.Cookies, expiryMode, cookiejar.ImportLenient, now); err != nil {
		return nil, fmt.Errorf("cookiejar_snapshot: load: %w", err)
	}
	return store, nil
}

// SaveFile atomically writes store's unexpired, persistent cookies to
// filename, using internal/util.AtomicSave the way the teacher's
// cookiejar_file adapter does for its own compaction writes.
func SaveFile(filename string, store *cookiejar.Store, format Format, now time.Time) error {
	return util.AtomicSave(filename, func(tmp string) error {
		f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return err
		}
		defer f.Close()
		return Save(f, store, format, now)
	})
}

// LoadFile loads a Store from filename, first trying format then, on
// unmarshal failure, falling back to the other known format — adapted from
// the teacher's MultiEntryRepository read-first-then-backfill pattern,
// repointed at "try the requested format, then the other" instead of
// fanning out across multiple repositories.
func LoadFile(filename string, format Format, now time.Time) (*cookiejar.Store, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cookiejar_snapshot: LoadFile: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("cookiejar_snapshot: LoadFile: %w", err)
	}

	store, err := Load(bytes.NewReader(data), format, now)
	if err == nil {
		return store, nil
	}

	fallback := otherFormat(format)
	store, fallbackErr := Load(bytes.NewReader(data), fallback, now)
	if fallbackErr != nil {
		return nil, fmt.Errorf("cookiejar_snapshot: LoadFile: %w", err)
	}
	return store, nil
}

func otherFormat(f Format) Format {
	if f == JSON {
		return YAML
	}
	return JSON
}
