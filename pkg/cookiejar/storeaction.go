package cookiejar

// StoreAction classifies the outcome of an insert (spec section 4.3/6).
type StoreAction int

const (
	// Inserted means a brand-new identity key was stored.
	Inserted StoreAction = iota
	// UpdatedExisting means an existing entry with the same identity key
	// was overwritten, preserving its original creation time.
	UpdatedExisting
	// ExpiredExisting means the inserted cookie evaluated to Expired and
	// a matching existing entry was found and removed.
	ExpiredExisting
	// ExpiredNoExisting means the inserted cookie evaluated to Expired
	// and no matching existing entry was found; nothing changed.
	ExpiredNoExisting
)

func (a StoreAction) String() string {
	switch a {
	case Inserted:
		return "Inserted"
	case UpdatedExisting:
		return "UpdatedExisting"
	case ExpiredExisting:
		return "ExpiredExisting"
	case ExpiredNoExisting:
		return "ExpiredNoExisting"
	default:
		return "Unknown"
	}
}
