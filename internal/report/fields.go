package report

import "fmt"

// AcroForm field names of the club's travel-expense template. The
// layout is fixed; renaming a field in the template breaks the fill and
// is caught by template validation at startup.
const (
	FieldClub        = "Verein"
	FieldDepartment  = "Abteilung"
	FieldEventType   = "Art der Veranstaltung"
	FieldTeams       = "Mannschaften"
	FieldTotalKM     = "Summe km"
	FieldTotalAmount = "Summe EUR"
	FieldSheetNumber = "Blatt Nr"
)

// Per-row fields are numbered from 1.
func fieldRowDate(row int) string {
	return fmt.Sprintf("DatumRow%d", row)
}

func fieldRowName(row int) string {
	return fmt.Sprintf("Name oder SpielortRow%d", row)
}

func fieldRowAddress(row int) string {
	return fmt.Sprintf("AdresseRow%d", row)
}

// Einzelteilgeb is the template's label for the participant's birthdate.
func fieldRowBirthdate(row int) string {
	return fmt.Sprintf("EinzelteilngebRow%d", row)
}

func fieldRowAmount(row int) string {
	return fmt.Sprintf("Betrag EURRow%d", row)
}

func fieldRowDistance(row int) string {
	return fmt.Sprintf("km  Hin und Rückfahrt Row%d", row)
}

// requiredFields lists every field the template must define for maxRows
// line items per sheet.
func requiredFields(maxRows int) []string {
	fields := []string{
		FieldClub,
		FieldDepartment,
		FieldEventType,
		FieldTeams,
		FieldTotalKM,
		FieldTotalAmount,
		FieldSheetNumber,
	}
	for row := 1; row <= maxRows; row++ {
		fields = append(fields,
			fieldRowDate(row),
			fieldRowName(row),
			fieldRowAddress(row),
			fieldRowBirthdate(row),
			fieldRowDistance(row),
			fieldRowAmount(row),
		)
	}
	return fields
}
