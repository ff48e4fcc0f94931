// Package docstore persists generated expense documents under the
// configured output directory. Documents are the only artifacts that
// outlive a UI session; a manifest tracks them and a rolling retention
// window prunes old ones.
package docstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry describes one stored document.
type Entry struct {
	Name      string    `json:"name"`
	Label     string    `json:"label,omitempty"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is a filesystem-backed document store rooted at basePath.
type Store struct {
	basePath      string
	retentionDays int
	now           func() time.Time

	mu sync.Mutex
}

// NewStore constructs a store with a rolling retention window.
func NewStore(basePath string, retentionDays int) *Store {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &Store{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Save writes a document atomically, records it in the manifest and
// prunes entries past retention. The name must be a bare file name.
func (s *Store) Save(name, label string, data []byte) (Entry, error) {
	if s == nil {
		return Entry{}, errors.New("document store not configured")
	}
	if err := validateName(name); err != nil {
		return Entry{}, err
	}
	if len(data) == 0 {
		return Entry{}, errors.New("empty document")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return Entry{}, err
	}
	target := filepath.Join(s.basePath, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Entry{}, err
	}
	if err := os.Rename(tmp, target); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Name:      name,
		Label:     label,
		Size:      int64(len(data)),
		CreatedAt: s.now().UTC(),
	}
	manifest := s.readManifest()
	manifest.upsert(entry)
	s.prune(&manifest)
	if err := s.writeManifest(manifest); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns manifest entries, newest first.
func (s *Store) List() ([]Entry, error) {
	if s == nil {
		return nil, errors.New("document store not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest := s.readManifest()
	entries := make([]Entry, len(manifest.Documents))
	copy(entries, manifest.Documents)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Open returns the contents of a stored document.
func (s *Store) Open(name string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("document store not configured")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.basePath, name))
}

// Sweep applies the retention window outside of a save, returning the
// number of removed documents.
func (s *Store) Sweep() (int, error) {
	if s == nil {
		return 0, errors.New("document store not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest := s.readManifest()
	pruned := s.prune(&manifest)
	if pruned == 0 {
		return 0, nil
	}
	return pruned, s.writeManifest(manifest)
}

func (s *Store) prune(m *manifest) int {
	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)
	kept := m.Documents[:0]
	pruned := 0
	for _, entry := range m.Documents {
		if entry.CreatedAt.Before(cutoff) {
			_ = os.Remove(filepath.Join(s.basePath, entry.Name))
			pruned++
			continue
		}
		kept = append(kept, entry)
	}
	m.Documents = kept
	return pruned
}

// validateName rejects anything that could escape the store directory.
func validateName(name string) error {
	if name == "" {
		return errors.New("document name required")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid document name %q", name)
	}
	return nil
}
