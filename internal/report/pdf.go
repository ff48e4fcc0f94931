package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/shopspring/decimal"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/metrics"
	"fahrtkosten-service/internal/timeutil"
)

// Meta carries the header values shared by every sheet of a fill.
type Meta struct {
	Club      string
	Division  string
	EventType string
	Teams     string
	GameDate  time.Time
	Venue     string
}

// Document is one filled sheet of a batch.
type Document struct {
	SheetNumber int
	SheetCount  int
	Data        []byte
	ItemCount   int
}

// Filler fills the travel-expense PDF template.
type Filler struct {
	template     []byte
	templatePath string
	maxRows      int
	recorder     *metrics.Recorder
	logger       *slog.Logger
}

// FillerOption configures a Filler.
type FillerOption func(*Filler)

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec *metrics.Recorder) FillerOption {
	return func(f *Filler) { f.recorder = rec }
}

// WithLogger attaches a logger.
func WithLogger(l *slog.Logger) FillerOption {
	return func(f *Filler) { f.logger = l }
}

// NewFiller loads the template at path and validates that it carries
// every required form field for maxRows line items per sheet.
func NewFiller(path string, maxRows int, opts ...FillerOption) (*Filler, error) {
	if maxRows <= 0 {
		maxRows = 5
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Path: path, Detail: "cannot read template", Err: err}
	}

	f := &Filler{
		template:     data,
		templatePath: path,
		maxRows:      maxRows,
	}
	for _, opt := range opts {
		opt(f)
	}

	available, err := listFormFields(data)
	if err != nil {
		return nil, &TemplateError{Path: path, Detail: "template has no fillable form", Err: err}
	}
	var missing []string
	for _, name := range requiredFields(maxRows) {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &TemplateError{
			Path:   path,
			Detail: "missing form fields: " + strings.Join(missing, ", "),
		}
	}
	return f, nil
}

// MaxRows is the per-sheet line item capacity.
func (f *Filler) MaxRows() int { return f.maxRows }

// Fill renders a single sheet. It fails with a CapacityError when the
// items do not fit on one sheet; use FillBatch for larger sets.
func (f *Filler) Fill(meta Meta, items []domain.ExpenseLineItem, sheet, sheetCount int) ([]byte, error) {
	if len(items) > f.maxRows {
		return nil, &CapacityError{Items: len(items), Max: f.maxRows}
	}

	fields := buildFields(meta, items, sheet, sheetCount)
	payload, err := json.Marshal(formData{Forms: []formPage{{TextField: fields}}})
	if err != nil {
		return nil, fmt.Errorf("encode form data: %w", err)
	}

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(f.template), bytes.NewReader(payload), &out, nil); err != nil {
		return nil, &TemplateError{Path: f.templatePath, Detail: "form fill failed", Err: err}
	}
	return out.Bytes(), nil
}

// buildFields lays one sheet's values onto the template's field names.
// Each row carries the game date, player and venue, the player's
// address and birthdate, and the billed distance and amount.
func buildFields(meta Meta, items []domain.ExpenseLineItem, sheet, sheetCount int) []formTextField {
	fields := []formTextField{
		{Name: FieldClub, Value: meta.Club},
		{Name: FieldDepartment, Value: meta.Division},
		{Name: FieldEventType, Value: meta.EventType},
		{Name: FieldTeams, Value: meta.Teams},
		{Name: FieldSheetNumber, Value: fmt.Sprintf("%d / %d", sheet, sheetCount)},
	}

	totalDistance := decimal.Zero
	totalAmount := decimal.Zero
	for i, item := range items {
		row := i + 1
		name := item.Player.FullName()
		if meta.Venue != "" {
			name += " / " + meta.Venue
		}
		birthdate := ""
		if !item.Player.Birthdate.IsZero() {
			birthdate = timeutil.FormatGermanDate(item.Player.Birthdate)
		}
		fields = append(fields,
			formTextField{Name: fieldRowDate(row), Value: timeutil.FormatGermanDate(meta.GameDate)},
			formTextField{Name: fieldRowName(row), Value: name},
			formTextField{Name: fieldRowAddress(row), Value: item.Player.Address},
			formTextField{Name: fieldRowBirthdate(row), Value: birthdate},
			formTextField{Name: fieldRowDistance(row), Value: germanDecimal(item.Distance, 1)},
			formTextField{Name: fieldRowAmount(row), Value: germanDecimal(item.Amount, 2)},
		)
		totalDistance = totalDistance.Add(item.Distance)
		totalAmount = totalAmount.Add(item.Amount)
	}
	return append(fields,
		formTextField{Name: FieldTotalKM, Value: germanDecimal(totalDistance, 1)},
		formTextField{Name: FieldTotalAmount, Value: germanDecimal(totalAmount, 2)},
	)
}

// FillBatch splits items into sheets of at most MaxRows rows, keeping
// order, and numbers each sheet within the batch.
func (f *Filler) FillBatch(meta Meta, items []domain.ExpenseLineItem) ([]Document, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Detail: "nothing to fill"}
	}

	chunks := chunkItems(items, f.maxRows)
	docs := make([]Document, 0, len(chunks))
	for i, chunk := range chunks {
		data, err := f.Fill(meta, chunk, i+1, len(chunks))
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{
			SheetNumber: i + 1,
			SheetCount:  len(chunks),
			Data:        data,
			ItemCount:   len(chunk),
		})
	}

	f.recorder.RecordDocuments(len(docs))
	logging.Info(f.logger, "filled expense sheets",
		slog.Int("sheets", len(docs)),
		slog.Int("items", len(items)),
	)
	return docs, nil
}

func chunkItems(items []domain.ExpenseLineItem, size int) [][]domain.ExpenseLineItem {
	var chunks [][]domain.ExpenseLineItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// germanDecimal renders a decimal with a comma separator as the form
// expects.
func germanDecimal(d decimal.Decimal, places int32) string {
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}

type formData struct {
	Forms []formPage `json:"forms"`
}

type formPage struct {
	TextField []formTextField `json:"textfield"`
}

type formTextField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

// listFormFields extracts the names of all text fields defined in the
// template's AcroForm.
func listFormFields(template []byte) (map[string]struct{}, error) {
	var buf bytes.Buffer
	if err := api.ExportForm(bytes.NewReader(template), &buf, "template", nil); err != nil {
		return nil, err
	}
	var exported formData
	if err := json.Unmarshal(buf.Bytes(), &exported); err != nil {
		return nil, err
	}
	names := make(map[string]struct{})
	for _, page := range exported.Forms {
		for _, field := range page.TextField {
			names[field.Name] = struct{}{}
		}
	}
	return names, nil
}
