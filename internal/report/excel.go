package report

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/timeutil"
)

const archiveSheet = "Fahrtkosten"

// ArchiveEntry is one season game with its billed distance and amount.
type ArchiveEntry struct {
	Game     domain.Game
	Opponent string
	Distance decimal.Decimal
	Amount   decimal.Decimal
}

var archiveHeader = []any{"Datum", "Gegner", "Spielort", "Distanz (km)", "Betrag (EUR)"}

// ExportSeason writes one spreadsheet row per entry, in the order given,
// followed by a totals row.
func ExportSeason(entries []ArchiveEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, &domain.ValidationError{Field: "entries", Detail: "nothing to export"}
	}

	wb := excelize.NewFile()
	defer wb.Close()

	defaultSheet := wb.GetSheetName(0)
	index, err := wb.NewSheet(archiveSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	wb.SetActiveSheet(index)
	if err := wb.DeleteSheet(defaultSheet); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := wb.SetSheetRow(archiveSheet, "A1", &archiveHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := wb.SetCellStyle(archiveSheet, "A1", "E1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	totalDistance := decimal.Zero
	totalAmount := decimal.Zero
	for i, entry := range entries {
		row := []any{
			timeutil.FormatGermanDate(entry.Game.Date),
			entry.Opponent,
			entry.Game.Venue,
			entry.Distance.InexactFloat64(),
			entry.Amount.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := wb.SetSheetRow(archiveSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
		totalDistance = totalDistance.Add(entry.Distance)
		totalAmount = totalAmount.Add(entry.Amount)
	}

	totalsRow := []any{
		"Summe", "", "",
		totalDistance.InexactFloat64(),
		totalAmount.InexactFloat64(),
	}
	cell, err := excelize.CoordinatesToCellName(1, len(entries)+2)
	if err != nil {
		return nil, fmt.Errorf("cell name: %w", err)
	}
	if err := wb.SetSheetRow(archiveSheet, cell, &totalsRow); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}

	for col, width := range map[string]float64{"A": 12, "B": 28, "C": 32, "D": 14, "E": 14} {
		if err := wb.SetColWidth(archiveSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// readArchive parses a previously exported season spreadsheet back into
// entries, used by tests and the analyzer.
func readArchive(data []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.GetRows(archiveSheet)
}
