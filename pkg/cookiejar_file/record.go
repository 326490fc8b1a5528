// Package cookiejar_file is a serialization adapter for cookiejar.Store: an
// append-only JSONL log, one record per line, deletions represented as
// tombstones, with an explicit Compact step that rewrites the file down to
// its latest live records. Adapted from the teacher's
// pkg/cookiejar_file/entry_repository.go, retargeted at cookiejar.Record
// instead of a private Entry type, and driven by Store.Export()/Import()
// instead of a pluggable EntryRepository abstraction sitting above the
// matching engine.
//
// This is the "observability-friendly, crash-safe, slowly-growing log"
// adapter (spec section 4.8): suited to a long-lived process incrementally
// persisting jar state. For one-shot whole-file export/import, see
// pkg/cookiejar_snapshot.
package cookiejar_file

import (
	"time"

	"github.com/pfernie/cookie-store/pkg/cookiejar"
)

// fileRecord is one line of the JSONL log: a cookiejar.Record plus the
// bookkeeping the log format needs (a stable identity string and an
// optional tombstone time).
type fileRecord struct {
	ID string `json:"id"`
	cookiejar.Record
	Deleted *time.Time `json:"deleted,omitempty"`
}

func recordID(r cookiejar.Record) string {
	return r.DomainValue + ";" + r.PathValue + ";" + r.Name
}

func newFileRecord(r cookiejar.Record) fileRecord {
	return fileRecord{ID: recordID(r), Record: r}
}

func tombstone(domain, path, name string, at time.Time) fileRecord {
	return fileRecord{
		ID:      domain + ";" + path + ";" + name,
		Deleted: &at,
	}
}
