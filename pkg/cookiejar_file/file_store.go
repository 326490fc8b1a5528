package cookiejar_file

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pfernie/cookie-store/internal/util"
	"github.com/pfernie/cookie-store/pkg/cookiejar"
)

// FileStore persists a cookiejar.Store to a JSONL file, one fileRecord per
// line, appending on every Save/Delete and compacting only when asked.
// Save, Delete and Compact are serialized by a mutex; reads (Load,
// LoadInto, Records) take no lock. The cookiejar.Store it serializes is
// single-owner per spec section 5.
type FileStore struct {
	filename string
	mu       sync.Mutex
}

// NewFileStore returns a FileStore for the JSONL cookie log at filename.
// The file is neither opened nor created here; the first Save or Delete
// creates it.
func NewFileStore(filename string) *FileStore {
	if filename == "" {
		panic("cookiejar_file: empty filename")
	}
	return &FileStore{filename: filename}
}

// Filename returns the path this FileStore reads and writes.
func (r *FileStore) Filename() string { return r.filename }

func (r *FileStore) forEachRaw(cb func(fileRecord) error) error {
	f, err := os.Open(r.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		var rec fileRecord
		if err := json.Unmarshal(s.Bytes(), &rec); err != nil {
			return err
		}
		if err := cb(rec); err != nil {
			return err
		}
	}
	return s.Err()
}

// forEach folds the append-only log down to the latest record per ID,
// dropping tombstoned IDs, the way the teacher's entryRepository.forEach
// does for its own Entry log.
func (r *FileStore) forEach(cb func(fileRecord) error) error {
	m := make(map[string]fileRecord)
	err := r.forEachRaw(func(rec fileRecord) error {
		if rec.Deleted != nil {
			delete(m, rec.ID)
			return nil
		}
		m[rec.ID] = rec
		return nil
	})
	if err != nil {
		return err
	}
	for _, rec := range m {
		if err := cb(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *FileStore) appendLines(write func(enc *json.Encoder) error) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("cookiejar_file: %w", err)
		}
	}()
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(json.NewEncoder(f))
}

// Save appends one fileRecord per cookie to the log.
func (r *FileStore) Save(cookies ...*cookiejar.StoredCookie) error {
	return r.appendLines(func(enc *json.Encoder) error {
		for _, c := range cookies {
			if err := enc.Encode(newFileRecord(cookiejar.ToRecord(c))); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete appends a tombstone for (domain, path, name).
func (r *FileStore) Delete(domain, path, name string, now time.Time) error {
	return r.appendLines(func(enc *json.Encoder) error {
		return enc.Encode(tombstone(domain, path, name, now))
	})
}

// Load folds the log down to its live records and imports them into a new
// Store.
func (r *FileStore) Load(now time.Time, expiryMode cookiejar.ImportExpiryMode) (*cookiejar.Store, error) {
	store := cookiejar.New()
	if _, err := r.LoadInto(store, now, expiryMode, cookiejar.ImportLenient); err != nil {
		return nil, err
	}
	return store, nil
}

// Records returns an Iterator over the log's live records (tombstones and
// superseded lines already folded out), the way the teacher's
// EntryRepository.Find returns an Iterator over its own Entry log instead
// of a plain slice.
func (r *FileStore) Records() util.Iterator[cookiejar.Record] {
	return util.IteratorFunc[cookiejar.Record](func(cb func(cookiejar.Record) error) error {
		return r.forEach(func(rec fileRecord) error {
			return cb(rec.Record)
		})
	})
}

// LoadInto imports the log's live records into an existing Store.
func (r *FileStore) LoadInto(store *cookiejar.Store, now time.Time, expiryMode cookiejar.ImportExpiryMode, failureMode cookiejar.ImportFailureMode) (result cookiejar.ImportResult, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("cookiejar_file: LoadInto: %w", err)
		}
	}()
	var records []cookiejar.Record
	err = r.Records().ForEach(func(rec cookiejar.Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return
	}
	result, err = store.Import(records, expiryMode, failureMode, now)
	return
}

// Compact atomically rewrites the file to contain only the latest live
// record per identity, dropping every tombstone and superseded line, the
// way the teacher's entryRepository.Compact does.
func (r *FileStore) Compact() (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("cookiejar_file: Compact: %w", err)
		}
	}()
	r.mu.Lock()
	defer r.mu.Unlock()
	return util.AtomicSave(r.filename, func(name string) error {
		f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return err
		}
		defer f.Close()

		enc := json.NewEncoder(f)
		return r.forEach(func(rec fileRecord) error {
			return enc.Encode(rec)
		})
	})
}

var _ io.Closer = (*FileStore)(nil)

// Close is a no-op: FileStore opens and closes the underlying file on every
// operation rather than holding a descriptor open, matching the teacher's
// entryRepository. It exists so FileStore can be handed to callers that
// expect an io.Closer-shaped persistence handle.
func (r *FileStore) Close() error { return nil }
