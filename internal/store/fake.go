package store

// FakeStore is an in-memory test double for Store.
type FakeStore struct {
	// Rec is the current record content.
	Rec Record

	// Saves counts how many times Save was called.
	Saves int

	// LoadError, if set, is returned by Load.
	LoadError error

	// SaveError, if set, is returned by Save.
	SaveError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeStore creates a FakeStore preloaded with the given record.
func NewFakeStore(rec Record) *FakeStore {
	return &FakeStore{Rec: rec}
}

// Load returns the in-memory record.
func (f *FakeStore) Load() (Record, error) {
	if f.LoadError != nil {
		return Record{}, f.LoadError
	}
	return f.Rec, nil
}

// Save replaces the in-memory record.
func (f *FakeStore) Save(rec Record) error {
	if f.SaveError != nil {
		return f.SaveError
	}
	f.Rec = rec
	f.Saves++
	return nil
}

// Close marks the store as closed.
func (f *FakeStore) Close() error {
	f.Closed = true
	return nil
}
