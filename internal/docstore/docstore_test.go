package docstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveListOpen(t *testing.T) {
	store := NewStore(t.TempDir(), 90)

	first, err := store.Save("fahrtkosten-1.pdf", "Spieltag 1", []byte("pdf-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.Size != int64(len("pdf-bytes")) {
		t.Errorf("Size = %d", first.Size)
	}
	if _, err := store.Save("saison.xlsx", "Archiv 2024", []byte("xlsx-bytes")); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Name != "saison.xlsx" || entries[1].Name != "fahrtkosten-1.pdf" {
		t.Errorf("order = %q, %q", entries[0].Name, entries[1].Name)
	}

	data, err := store.Open("fahrtkosten-1.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestSaveOverwritesSameName(t *testing.T) {
	store := NewStore(t.TempDir(), 90)

	if _, err := store.Save("doc.pdf", "", []byte("v1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save("doc.pdf", "", []byte("v2")); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", len(entries))
	}
	data, err := store.Open("doc.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("data = %q, want v2", data)
	}
}

func TestSaveRejectsPathEscapes(t *testing.T) {
	store := NewStore(t.TempDir(), 90)

	for _, name := range []string{"", "../escape.pdf", "a/b.pdf", `a\b.pdf`, "..", "x..y.pdf"} {
		if _, err := store.Save(name, "", []byte("x")); err == nil {
			t.Errorf("Save(%q) accepted an unsafe name", name)
		}
		if _, err := store.Open(name); err == nil {
			t.Errorf("Open(%q) accepted an unsafe name", name)
		}
	}
}

func TestRetentionPrunesOldDocuments(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 30)

	past := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return past }
	if _, err := store.Save("old.pdf", "", []byte("old")); err != nil {
		t.Fatalf("Save old: %v", err)
	}

	store.now = func() time.Time { return past.AddDate(0, 0, 45) }
	if _, err := store.Save("new.pdf", "", []byte("new")); err != nil {
		t.Fatalf("Save new: %v", err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "new.pdf" {
		t.Fatalf("entries = %+v, want only new.pdf", entries)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.pdf")); !os.IsNotExist(err) {
		t.Errorf("old.pdf still on disk: %v", err)
	}
}

func TestSweep(t *testing.T) {
	store := NewStore(t.TempDir(), 30)

	past := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return past }
	if _, err := store.Save("old.pdf", "", []byte("old")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store.now = func() time.Time { return past.AddDate(0, 0, 60) }
	pruned, err := store.Sweep()
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	pruned, err = store.Sweep()
	if err != nil {
		t.Fatalf("second Sweep: %v", err)
	}
	if pruned != 0 {
		t.Errorf("second sweep pruned = %d, want 0", pruned)
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	if _, err := store.Save("x.pdf", "", []byte("x")); err == nil {
		t.Error("expected error from nil store Save")
	}
	if _, err := store.List(); err == nil {
		t.Error("expected error from nil store List")
	}
	if _, err := store.Open("x.pdf"); err == nil {
		t.Error("expected error from nil store Open")
	}
}
