package cursor

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tarjousbot/pkg/logger"
)

const (
	lastPageRecord = "last_page"
	lastPostRecord = "last_post"

	recordSize = 4
)

// Store handles cursor persistence in a state directory
type Store struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a cursor store rooted at dir, creating it if needed
func NewStore(dir string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &Store{dir: dir, logger: log}, nil
}

// LastPage returns the page number last being scanned, or nil if the
// monitor has never run against this store.
func (s *Store) LastPage() (*uint32, error) {
	return s.read(lastPageRecord)
}

// SetLastPage records the page number last being scanned
func (s *Store) SetLastPage(page uint32) error {
	return s.write(lastPageRecord, page)
}

// LastSentID returns the highest post id ever delivered, or nil if
// nothing has ever been delivered.
func (s *Store) LastSentID() (*uint32, error) {
	return s.read(lastPostRecord)
}

// SetLastSentID records the highest delivered post id
func (s *Store) SetLastSentID(id uint32) error {
	return s.write(lastPostRecord, id)
}

// read loads one counter record. Absence is not an error: a missing or
// short record yields nil. Other I/O errors propagate.
func (s *Store) read(name string) (*uint32, error) {
	file, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s record: %w", name, err)
	}
	defer file.Close()

	var buf [recordSize]byte
	if _, err := io.ReadFull(file, buf[:]); err != nil {
		// A record that exists but cannot supply 4 bytes reads as unset
		s.logger.WarnWithFields("short cursor record treated as unset", map[string]interface{}{
			"record": name,
		})
		return nil, nil
	}

	value := binary.LittleEndian.Uint32(buf[:])
	return &value, nil
}

// write fully replaces one counter record. Last write wins; concurrent
// runs must be serialized by the invoking scheduler.
func (s *Store) write(name string, value uint32) error {
	var buf [recordSize]byte
	binary.LittleEndian.PutUint32(buf[:], value)

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, buf[:], 0644); err != nil {
		return fmt.Errorf("failed to write %s record: %w", name, err)
	}

	s.logger.DebugWithFields("cursor record written", map[string]interface{}{
		"record": name,
		"value":  value,
	})

	return nil
}
