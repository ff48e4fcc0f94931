package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fahrtkosten-service/internal/domain"
)

const (
	headerMatchNumber = "spielnummer"
	headerScheduleID  = "spielplanid"
	headerVenue       = "halle"
	headerVenueAlt    = "hallenadresse"
)

// ParseVenues reads a hall-address list that maps games to their venue
// addresses. The file carries the columns SpielplanID (or Spielnummer)
// and Halle; the schedule pages do not publish hall addresses, so this
// list is how they enter the system. The format is picked by the file
// name extension like Parse does.
func ParseVenues(r io.Reader, filename string) (map[string]string, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		rows, err = xlsxRows(r)
	} else {
		rows, err = csvRows(r)
	}
	if err != nil {
		return nil, err
	}
	return rowsToVenues(rows)
}

func csvRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read venue list: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffSeparator(string(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &domain.ValidationError{Field: "venues", Detail: "malformed CSV: " + err.Error()}
	}
	return rows, nil
}

func xlsxRows(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &domain.ValidationError{Field: "venues", Detail: "unreadable workbook: " + err.Error()}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.ValidationError{Field: "venues", Detail: "workbook has no sheets"}
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, &domain.ValidationError{Field: "venues", Detail: "unreadable sheet: " + err.Error()}
	}
	return rows, nil
}

// venueLayout maps the game key and address columns to their positions.
type venueLayout struct {
	key     int
	address int
}

func rowsToVenues(rows [][]string) (map[string]string, error) {
	layout := venueLayout{key: 0, address: 1}
	start := 0
	if len(rows) > 0 && isVenueHeaderRow(rows[0]) {
		layout = venueLayoutFromHeader(rows[0])
		start = 1
	}

	venues := make(map[string]string)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if emptyRow(row) {
			continue
		}
		key := cell(row, layout.key)
		address := cell(row, layout.address)
		if key == "" {
			return nil, &domain.ValidationError{Row: i + 1, Field: "game", Detail: "missing game number"}
		}
		if address == "" {
			return nil, &domain.ValidationError{Row: i + 1, Field: "address", Detail: "missing hall address"}
		}
		venues[key] = address
	}
	if len(venues) == 0 {
		return nil, &domain.ValidationError{Field: "venues", Detail: "no hall addresses found"}
	}
	return venues, nil
}

func isVenueHeaderRow(row []string) bool {
	for _, c := range row {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case headerMatchNumber, headerScheduleID, headerVenue, headerVenueAlt:
			return true
		}
	}
	return false
}

func venueLayoutFromHeader(row []string) venueLayout {
	layout := venueLayout{key: -1, address: -1}
	for i, c := range row {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case headerMatchNumber, headerScheduleID:
			layout.key = i
		case headerVenue, headerVenueAlt, headerAddress:
			layout.address = i
		}
	}
	return layout
}
