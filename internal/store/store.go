// Package store persists the 48-byte schedule record in non-volatile
// storage. The real implementation memory-maps a fixed-size settings file;
// the fake keeps the record in memory for tests.
package store

import "github.com/mwoudenberg/aqualed/internal/logic"

// RecordSize is the size of the persisted schedule record in bytes.
const RecordSize = logic.Slots

// Record is the raw persisted schedule record.
type Record [RecordSize]byte

// Store loads and saves the schedule record.
type Store interface {
	// Load reads the persisted record. A record that was never saved
	// reads as all zeros on the file-backed store; callers must not
	// depend on that and should treat unsaved content as arbitrary.
	Load() (Record, error)

	// Save writes the full record and syncs it to storage before
	// returning.
	Save(Record) error

	// Close releases storage resources.
	Close() error
}
