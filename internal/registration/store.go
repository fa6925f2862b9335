package registration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/taiseel/propcore/pkg/logger"
)

// FileStore persists the lead list as one ordered JSON array in a single
// file, read whole and rewritten whole on every append. The read-check-
// append-write sequence is serialized by a mutex so two concurrent intakes
// for the same email cannot both pass the duplicate check.
type FileStore struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewFileStore creates a file-backed registration store
func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log,
	}
}

// Register runs the full intake pipeline as one unit of work:
// normalize, read, duplicate check, append, persist.
func (s *FileStore) Register(raw any) (*Registration, error) {
	// Validation happens before any store access
	reg, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("read registrations: %w", err)
	}

	if HasDuplicate(records, reg.Email) {
		return nil, ErrDuplicateEmail
	}

	records = append(records, reg.Record())
	if err := s.writeAll(records); err != nil {
		return nil, fmt.Errorf("save registrations: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"email": reg.Email,
		"count": len(records),
	}).Info("Registration accepted")

	return reg, nil
}

// ListAll returns every stored record for the admin listing. Records that
// still pass strict normalization come back canonicalized; malformed legacy
// records come back through the permissive fallback instead of being
// dropped.
func (s *FileStore) ListAll() ([]*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("read registrations: %w", err)
	}

	out := make([]*Registration, 0, len(records))
	for _, record := range records {
		if reg, missing := strictParse(record); len(missing) == 0 {
			out = append(out, reg)
			continue
		}
		out = append(out, PermissiveNormalize(record))
	}

	return out, nil
}

// Count returns the number of stored registrations
func (s *FileStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// readAll loads the full record list. A missing or empty file is an empty
// list. Unparseable content also degrades to an empty list (the next write
// replaces it) but is logged loudly so the data loss is not silent.
func (s *FileStore) readAll() ([]map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []map[string]any{}, nil
		}
		return nil, err
	}

	if strings.TrimSpace(string(data)) == "" {
		return []map[string]any{}, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		}).Warn("Registration file is corrupt, starting from empty list")
		return []map[string]any{}, nil
	}

	return records, nil
}

// writeAll replaces the file atomically: write a sibling temp file, then
// rename over the original so a failed write leaves the old list intact.
func (s *FileStore) writeAll(records []map[string]any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registrations: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".registrations-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace registrations file: %w", err)
	}

	return nil
}
