package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fahrtkosten-service/internal/domain"
)

func testItems(n int) []domain.ExpenseLineItem {
	items := make([]domain.ExpenseLineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.ExpenseLineItem{
			Player:   domain.Player{LastName: "Spieler", FirstName: string(rune('A' + i%26))},
			GameID:   "99887",
			Distance: decimal.RequireFromString("25"),
			Amount:   decimal.RequireFromString("7.50"),
		})
	}
	return items
}

func TestRequiredFields(t *testing.T) {
	fields := requiredFields(5)

	want := map[string]bool{
		"Verein":                      false,
		"Art der Veranstaltung":       false,
		"Blatt Nr":                    false,
		"Summe km":                    false,
		"DatumRow1":                   false,
		"DatumRow5":                   false,
		"Name oder SpielortRow3":      false,
		"AdresseRow2":                 false,
		"EinzelteilngebRow5":          false,
		"Betrag EURRow4":              false,
		"km  Hin und Rückfahrt Row1":  false,
	}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("required field %q missing", name)
		}
	}
	// 7 header/total fields plus 6 per row.
	if len(fields) != 7+5*6 {
		t.Errorf("len(fields) = %d, want %d", len(fields), 7+5*6)
	}
}

func TestBuildFieldsRowValues(t *testing.T) {
	items := testItems(2)
	items[0].Player.Birthdate = time.Date(1998, time.May, 3, 0, 0, 0, 0, time.UTC)
	items[0].Player.Address = "Musterweg 7, 64293 Darmstadt"
	meta := Meta{
		Club:     "BC Musterstadt",
		Venue:    "Sporthalle am Berg",
		GameDate: time.Date(2024, time.September, 14, 15, 0, 0, 0, time.UTC),
	}

	fields := buildFields(meta, items, 2, 3)
	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Value
	}

	if got := byName["EinzelteilngebRow1"]; got != "03.05.1998" {
		t.Errorf("birthdate field = %q, want 03.05.1998", got)
	}
	if got := byName["EinzelteilngebRow2"]; got != "" {
		t.Errorf("unknown birthdate must stay blank, got %q", got)
	}
	if got := byName["AdresseRow1"]; got != "Musterweg 7, 64293 Darmstadt" {
		t.Errorf("address field = %q", got)
	}
	if got := byName["Betrag EURRow1"]; got != "7,50" {
		t.Errorf("amount field = %q, want 7,50", got)
	}
	if got := byName["km  Hin und Rückfahrt Row1"]; got != "25,0" {
		t.Errorf("distance field = %q, want 25,0", got)
	}
	if got := byName["Blatt Nr"]; got != "2 / 3" {
		t.Errorf("sheet number = %q, want 2 / 3", got)
	}
}

func TestChunkItemsPreservesOrder(t *testing.T) {
	items := testItems(45)

	chunks := chunkItems(items, 20)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	sizes := []int{len(chunks[0]), len(chunks[1]), len(chunks[2])}
	if sizes[0] != 20 || sizes[1] != 20 || sizes[2] != 5 {
		t.Errorf("chunk sizes = %v, want [20 20 5]", sizes)
	}
	if chunks[0][0].Player.FirstName != items[0].Player.FirstName {
		t.Error("first chunk does not start with the first item")
	}
	if chunks[2][4].Player.FirstName != items[44].Player.FirstName {
		t.Error("last chunk does not end with the last item")
	}
}

func TestFillRejectsOverCapacity(t *testing.T) {
	f := &Filler{maxRows: 5}
	meta := Meta{Club: "BC Musterstadt", GameDate: time.Now()}

	_, err := f.Fill(meta, testItems(6), 1, 1)
	ce, ok := AsCapacityError(err)
	if !ok {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if ce.Items != 6 || ce.Max != 5 {
		t.Errorf("error = %+v", ce)
	}
}

func TestFillBatchRejectsEmptyItems(t *testing.T) {
	f := &Filler{maxRows: 5}
	_, err := f.FillBatch(Meta{}, nil)
	if _, ok := domain.AsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewFillerMissingTemplate(t *testing.T) {
	_, err := NewFiller(filepath.Join(t.TempDir(), "missing.pdf"), 5)
	te, ok := AsTemplateError(err)
	if !ok {
		t.Fatalf("expected template error, got %v", err)
	}
	if te.Err == nil {
		t.Error("expected wrapped read error")
	}
}

func TestNewFillerRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := NewFiller(path, 5)
	if _, ok := AsTemplateError(err); !ok {
		t.Fatalf("expected template error, got %v", err)
	}
}

func TestGermanDecimal(t *testing.T) {
	if got := germanDecimal(decimal.RequireFromString("3.7"), 2); got != "3,70" {
		t.Errorf("germanDecimal = %q, want 3,70", got)
	}
	if got := germanDecimal(decimal.RequireFromString("25"), 1); got != "25,0" {
		t.Errorf("germanDecimal = %q, want 25,0", got)
	}
}

func TestExportSeasonRoundTrip(t *testing.T) {
	entries := []ArchiveEntry{
		{
			Game: domain.Game{
				Date:  time.Date(2024, 11, 9, 15, 0, 0, 0, time.UTC),
				Venue: "Sporthalle am Berg",
			},
			Opponent: "TSV Eintracht Nord",
			Distance: decimal.RequireFromString("25"),
			Amount:   decimal.RequireFromString("7.50"),
		},
		{
			Game: domain.Game{
				Date:  time.Date(2024, 12, 7, 17, 0, 0, 0, time.UTC),
				Venue: "Odenwaldhalle",
			},
			Opponent: "SG Odenwald",
			Distance: decimal.RequireFromString("62.4"),
			Amount:   decimal.RequireFromString("18.72"),
		},
	}

	data, err := ExportSeason(entries)
	if err != nil {
		t.Fatalf("ExportSeason: %v", err)
	}
	rows, err := readArchive(data)
	if err != nil {
		t.Fatalf("readArchive: %v", err)
	}
	// Header, two entries, totals.
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0][0] != "Datum" || rows[0][1] != "Gegner" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "09.11.2024" || rows[1][1] != "TSV Eintracht Nord" {
		t.Errorf("first entry = %v", rows[1])
	}
	if rows[2][2] != "Odenwaldhalle" {
		t.Errorf("second entry venue = %q", rows[2][2])
	}
	if rows[3][0] != "Summe" {
		t.Errorf("totals label = %q", rows[3][0])
	}
	if rows[3][3] != "87.4" {
		t.Errorf("total distance = %q, want 87.4", rows[3][3])
	}
}

func TestExportSeasonEmpty(t *testing.T) {
	_, err := ExportSeason(nil)
	if _, ok := domain.AsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	items := testItems(3)
	items[0].Birthday = true
	items[0].Player.Birthdate = time.Date(1998, time.May, 3, 0, 0, 0, 0, time.UTC)
	items[1].Distance = decimal.RequireFromString("320")
	items[2].EstimatedDistance = true
	docs := []Document{{SheetNumber: 1, SheetCount: 1, ItemCount: 3}}

	summary := Summarize(docs, items)
	if summary.Sheets != 1 || summary.Items != 3 {
		t.Errorf("summary = %+v", summary)
	}
	if !summary.TotalDistance.Equal(decimal.RequireFromString("370")) {
		t.Errorf("TotalDistance = %s", summary.TotalDistance)
	}
	if !summary.TotalAmount.Equal(decimal.RequireFromString("22.50")) {
		t.Errorf("TotalAmount = %s", summary.TotalAmount)
	}
	if summary.Estimated != 1 || summary.Birthdays != 1 {
		t.Errorf("flags = %+v", summary)
	}
	if summary.MissingBirthdates != 2 {
		t.Errorf("MissingBirthdates = %d, want 2", summary.MissingBirthdates)
	}
	if summary.LongTrips != 1 {
		t.Errorf("LongTrips = %d, want 1", summary.LongTrips)
	}
}
