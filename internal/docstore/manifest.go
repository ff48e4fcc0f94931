package docstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const manifestName = "manifest.json"

type manifest struct {
	Version       int       `json:"version"`
	GeneratedAt   time.Time `json:"generatedAt"`
	RetentionDays int       `json:"retentionDays"`
	Documents     []Entry   `json:"documents"`
}

func (m *manifest) upsert(entry Entry) {
	for i, existing := range m.Documents {
		if existing.Name == entry.Name {
			m.Documents[i] = entry
			return
		}
	}
	m.Documents = append(m.Documents, entry)
}

// readManifest falls back to an empty manifest when the file is missing
// or unreadable; documents on disk without a manifest entry stay
// untouched.
func (s *Store) readManifest() manifest {
	empty := manifest{
		Version:       1,
		RetentionDays: s.retentionDays,
		Documents:     []Entry{},
	}
	f, err := os.Open(filepath.Join(s.basePath, manifestName))
	if err != nil {
		return empty
	}
	defer f.Close()

	var m manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return empty
	}
	return m
}

func (s *Store) writeManifest(m manifest) error {
	m.GeneratedAt = s.now().UTC()
	m.RetentionDays = s.retentionDays

	path := filepath.Join(s.basePath, manifestName)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
