package report

import (
	"github.com/shopspring/decimal"

	"fahrtkosten-service/internal/domain"
)

// longTripKM marks a billable distance worth a second look before the
// sheet goes out. 300 km round trip is a 150 km one-way drive.
var longTripKM = decimal.NewFromInt(300)

// BatchSummary describes one generated batch for the operator.
type BatchSummary struct {
	Sheets            int
	Items             int
	TotalDistance     decimal.Decimal
	TotalAmount       decimal.Decimal
	Estimated         int
	Birthdays         int
	MissingBirthdates int
	LongTrips         int
}

// Summarize aggregates the line items of a batch. Estimated counts
// items billed on a straight-line fallback distance, Birthdays counts
// players whose birthday falls on the game day. MissingBirthdates and
// LongTrips flag rows the operator may want to double-check.
func Summarize(docs []Document, items []domain.ExpenseLineItem) BatchSummary {
	summary := BatchSummary{
		Sheets:        len(docs),
		Items:         len(items),
		TotalDistance: decimal.Zero,
		TotalAmount:   decimal.Zero,
	}
	for _, item := range items {
		summary.TotalDistance = summary.TotalDistance.Add(item.Distance)
		summary.TotalAmount = summary.TotalAmount.Add(item.Amount)
		if item.EstimatedDistance {
			summary.Estimated++
		}
		if item.Birthday {
			summary.Birthdays++
		}
		if item.Player.Birthdate.IsZero() {
			summary.MissingBirthdates++
		}
		if item.Distance.GreaterThanOrEqual(longTripKM) {
			summary.LongTrips++
		}
	}
	return summary
}
