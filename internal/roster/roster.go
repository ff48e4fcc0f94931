// Package roster reads the user-supplied player list from CSV or XLSX
// uploads. The file carries the columns Nachname, Vorname, Geburtsdatum
// and optionally Adresse; a header row is recognised by those labels.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/timeutil"
)

const (
	headerLastName  = "nachname"
	headerFirstName = "vorname"
	headerBirthdate = "geburtsdatum"
	headerAddress   = "adresse"
)

// Parse reads a roster from r. The format is picked by the file name
// extension: .xlsx goes through the spreadsheet reader, everything else
// is treated as semicolon or comma separated text.
func Parse(r io.Reader, filename string) ([]domain.Player, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return ParseXLSX(r)
	}
	return ParseCSV(r)
}

// ParseCSV reads a CSV roster. Both ';' and ',' separators are accepted;
// the separator is sniffed from the first line.
func ParseCSV(r io.Reader) ([]domain.Player, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffSeparator(string(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &domain.ValidationError{Field: "roster", Detail: "malformed CSV: " + err.Error()}
	}
	return rowsToPlayers(rows)
}

// ParseXLSX reads the first sheet of an XLSX roster.
func ParseXLSX(r io.Reader) ([]domain.Player, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &domain.ValidationError{Field: "roster", Detail: "unreadable workbook: " + err.Error()}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.ValidationError{Field: "roster", Detail: "workbook has no sheets"}
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, &domain.ValidationError{Field: "roster", Detail: "unreadable sheet: " + err.Error()}
	}
	return rowsToPlayers(rows)
}

// columnLayout maps the roster columns to their positions.
type columnLayout struct {
	lastName  int
	firstName int
	birthdate int
	address   int
}

func defaultLayout() columnLayout {
	return columnLayout{lastName: 0, firstName: 1, birthdate: 2, address: 3}
}

func rowsToPlayers(rows [][]string) ([]domain.Player, error) {
	layout := defaultLayout()
	start := 0
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		layout = layoutFromHeader(rows[0])
		start = 1
	}

	var players []domain.Player
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if emptyRow(row) {
			continue
		}
		player, err := rowToPlayer(row, layout, i+1)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	if len(players) == 0 {
		return nil, &domain.ValidationError{Field: "roster", Detail: "no players found"}
	}
	return players, nil
}

func rowToPlayer(row []string, layout columnLayout, rowNum int) (domain.Player, error) {
	last := cell(row, layout.lastName)
	first := cell(row, layout.firstName)
	if last == "" && first == "" {
		return domain.Player{}, &domain.ValidationError{Row: rowNum, Field: "name", Detail: "missing player name"}
	}

	var birthdate time.Time
	if raw := cell(row, layout.birthdate); raw != "" {
		parsed, err := timeutil.ParseGermanDate(raw)
		if err != nil {
			return domain.Player{}, &domain.ValidationError{
				Row:    rowNum,
				Field:  "birthdate",
				Detail: fmt.Sprintf("%q is not a DD.MM.YYYY date", raw),
			}
		}
		birthdate = parsed
	}

	return domain.Player{
		LastName:  last,
		FirstName: first,
		Birthdate: birthdate,
		Address:   cell(row, layout.address),
	}, nil
}

func isHeaderRow(row []string) bool {
	for _, c := range row {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case headerLastName, headerFirstName, headerBirthdate, headerAddress:
			return true
		}
	}
	return false
}

func layoutFromHeader(row []string) columnLayout {
	layout := columnLayout{lastName: -1, firstName: -1, birthdate: -1, address: -1}
	for i, c := range row {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case headerLastName:
			layout.lastName = i
		case headerFirstName:
			layout.firstName = i
		case headerBirthdate:
			layout.birthdate = i
		case headerAddress:
			layout.address = i
		}
	}
	return layout
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func sniffSeparator(data string) rune {
	line := data
	if i := strings.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if strings.Count(line, ";") >= strings.Count(line, ",") && strings.Contains(line, ";") {
		return ';'
	}
	return ','
}
