package store

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// fileSize is the size of the backing settings file. Larger than the
// record so the layout can grow without a migration.
const fileSize = 512

// recordOffset is where the schedule record lives inside the file.
const recordOffset = 0

// FileStore keeps the record in a fixed-size memory-mapped settings file.
type FileStore struct {
	file *os.File
	data mmap.MMap
}

// Open opens (creating if necessary) the settings file at path and maps it.
// The file is truncated up to its fixed size, so a fresh file reads as all
// zeros.
func Open(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open settings file: %w", err)
	}
	if err := f.Truncate(fileSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("size settings file: %w", err)
	}
	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("map settings file: %w", err)
	}
	return &FileStore{file: f, data: data}, nil
}

// Load reads the record from the mapped file.
func (s *FileStore) Load() (Record, error) {
	var rec Record
	copy(rec[:], s.data[recordOffset:recordOffset+RecordSize])
	return rec, nil
}

// Save writes the record into the mapped file and flushes it to disk.
func (s *FileStore) Save(rec Record) error {
	copy(s.data[recordOffset:], rec[:])
	if err := s.data.Flush(); err != nil {
		return fmt.Errorf("flush settings file: %w", err)
	}
	return nil
}

// Close unmaps and closes the settings file.
func (s *FileStore) Close() error {
	var errs []error
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap settings file: %w", err))
		}
		s.data = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close settings file: %w", err))
		}
		s.file = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
