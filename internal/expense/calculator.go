package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/timeutil"
)

// kmPerMile converts kilometres to miles when the mi unit is configured.
var kmPerMile = decimal.RequireFromString("1.609344")

// RateConfig carries the billing parameters for one calculation run.
type RateConfig struct {
	// RatePerUnit is the reimbursement rate per billed distance unit.
	RatePerUnit decimal.Decimal
	// Unit is "km" or "mi"; distances arrive in kilometres and are
	// converted at this boundary.
	Unit string
	// RoundTrip doubles the one-way distance.
	RoundTrip bool
	// Timezone is used for the birthday comparison. Nil means UTC.
	Timezone *time.Location
}

// BillableDistance turns a resolved one-way distance in kilometres into
// the distance to bill under cfg.
func BillableDistance(oneWayKM float64, cfg RateConfig) decimal.Decimal {
	d := decimal.NewFromFloat(oneWayKM)
	if cfg.RoundTrip {
		d = d.Mul(decimal.NewFromInt(2))
	}
	if cfg.Unit == "mi" {
		d = d.Div(kmPerMile)
	}
	return d
}

// Calculate produces one expense line item per player for a single game,
// preserving the order of the player list. The amount is the billable
// distance times the rate, rounded half up to two decimals. A player
// without a name makes the whole calculation fail.
func Calculate(players []domain.Player, game domain.Game, loc domain.LocationResult, cfg RateConfig) ([]domain.ExpenseLineItem, error) {
	distance := BillableDistance(loc.DistanceKM, cfg)
	if distance.IsNegative() {
		return nil, &domain.ValidationError{Field: "distance", Detail: "negative distance"}
	}
	amount := distance.Mul(cfg.RatePerUnit).Round(2)

	items := make([]domain.ExpenseLineItem, 0, len(players))
	for i, p := range players {
		if p.LastName == "" && p.FirstName == "" {
			return nil, &domain.ValidationError{Row: i + 1, Field: "name", Detail: "player has no name"}
		}
		items = append(items, domain.ExpenseLineItem{
			Player:            p,
			GameID:            game.ID,
			Distance:          distance,
			Amount:            amount,
			Birthday:          birthdayOnGameDay(p, game, cfg.Timezone),
			EstimatedDistance: loc.Estimated,
		})
	}
	return items, nil
}

// birthdayOnGameDay matches month and day only; the birth year is
// irrelevant.
func birthdayOnGameDay(p domain.Player, game domain.Game, loc *time.Location) bool {
	if !p.HasBirthdate() {
		return false
	}
	return timeutil.SameCalendarDay(p.Birthdate, game.Date, loc)
}
