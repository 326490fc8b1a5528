package cookiejar

import "time"

// ImportExpiryMode selects which records Import retains (spec section 4.6).
type ImportExpiryMode int

const (
	// ImportUnexpiredOnly skips any record whose expiry evaluates to
	// Expired as of the import's reference time.
	ImportUnexpiredOnly ImportExpiryMode = iota
	// ImportAll retains every record, including expired ones — useful
	// for round-tripping test fixtures (spec section 4.6).
	ImportAll
)

// ImportFailureMode selects how Import handles a record that fails to
// rebuild into a StoredCookie (spec section 4.6/7).
type ImportFailureMode int

const (
	// ImportLenient skips a failed record and keeps going, recording it
	// in ImportResult.Failed.
	ImportLenient ImportFailureMode = iota
	// ImportStrict aborts the whole batch on the first failed record.
	// Already-applied records from earlier in the batch are not rolled
	// back — this mode exists to fail fast on the caller's next
	// load attempt, not to provide insert-level atomicity.
	ImportStrict
)

// ImportResult tallies the outcome of a bulk Import.
type ImportResult struct {
	Inserted int
	Skipped  int
	Failed   int
	Errors   []error
}

// Export returns a flat sequence of Records, one per stored cookie,
// including expired ones (spec section 4.6: "Export yields a flat sequence
// of stored cookies").
func (s *Store) Export() []Record {
	cookies := s.IterAny()
	out := make([]Record, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, ToRecord(c))
	}
	return out
}

// Import inserts each of records into the store, honoring expiryMode and
// failureMode (spec section 4.6). now is used both as the reference time
// for the unexpired-only filter and as the fallback creation time for
// records that carry a zero creation; a zero last-access falls back to the
// creation time (defensive only; well-formed exports always carry both).
func (s *Store) Import(records []Record, expiryMode ImportExpiryMode, failureMode ImportFailureMode, now time.Time) (ImportResult, error) {
	var result ImportResult
	for _, r := range records {
		c, err := FromRecord(r)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err)
			if failureMode == ImportStrict {
				return result, err
			}
			continue
		}

		if expiryMode == ImportUnexpiredOnly && c.IsExpiredAt(now) {
			result.Skipped++
			continue
		}

		if c.creation.IsZero() {
			c.creation = now
		}
		if c.lastAccess.IsZero() {
			c.lastAccess = c.creation
		}

		domainKey, path, name := c.identity()
		s.putLocked(domainKey, path, name, c)
		result.Inserted++
	}
	return result, nil
}
