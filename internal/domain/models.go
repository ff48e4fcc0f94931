package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// League is a federation grouping of teams discovered by club-name search.
type League struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Division string `json:"division"`
	AgeGroup string `json:"ageGroup"`
	Gender   string `json:"gender"`
	District string `json:"district"`
	Season   string `json:"season"`
}

// Team identifies a team within a league and season.
type Team struct {
	Name     string `json:"name"`
	LeagueID string `json:"leagueId"`
	Season   string `json:"season"`
}

// Game is the canonical game shape produced by a fetch.
// Games are immutable once fetched; a re-fetch replaces the working set.
type Game struct {
	ID           string    `json:"id"`
	LeagueID     string    `json:"leagueId"`
	MatchDay     int       `json:"matchDay"`
	MatchNumber  string    `json:"matchNumber"`
	Date         time.Time `json:"date"`
	HomeTeam     string    `json:"homeTeam"`
	AwayTeam     string    `json:"awayTeam"`
	Venue        string    `json:"venue"`
	VenueAddress string    `json:"venueAddress"`
	Result       string    `json:"result,omitempty"`
	Attendees    []string  `json:"attendees,omitempty"`
}

// ApplyVenueAddresses fills missing venue addresses from a hall list
// keyed by schedule id or match number. Addresses already on a game
// stay untouched. Returns how many games received an address.
func ApplyVenueAddresses(games []Game, venues map[string]string) int {
	if len(venues) == 0 {
		return 0
	}
	applied := 0
	for i := range games {
		if games[i].VenueAddress != "" {
			continue
		}
		address, ok := venues[games[i].ID]
		if !ok {
			address, ok = venues[games[i].MatchNumber]
		}
		if !ok {
			continue
		}
		games[i].VenueAddress = address
		applied++
	}
	return applied
}

// TeamMatches reports whether a team name matches a user-supplied
// filter. Matching is case-insensitive on a substring, so a partially
// typed name still finds its team. An empty filter matches nothing.
func TeamMatches(name, filter string) bool {
	if filter == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

// Away reports whether the given club team travels for this game. The
// team name matches with the same rules as the schedule filter.
func (g Game) Away(team string) bool {
	return TeamMatches(g.AwayTeam, team)
}

// Player comes from the user-supplied roster, not from the federation site.
// A zero Birthdate means the birthdate is unknown.
type Player struct {
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Address   string    `json:"address,omitempty"`
	Birthdate time.Time `json:"birthdate,omitempty"`
}

// FullName renders "Last, First" the way the federation lists players.
func (p Player) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	return p.LastName + ", " + p.FirstName
}

// HasBirthdate reports whether a birthdate is known for the player.
func (p Player) HasBirthdate() bool {
	return !p.Birthdate.IsZero()
}

// LocationResult is a resolved venue address with its one-way distance from
// the home gym in kilometers. Estimated marks a straight-line fallback value
// used when the mapping provider could not compute a road distance.
type LocationResult struct {
	Address         string  `json:"address"`
	ResolvedAddress string  `json:"resolvedAddress"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	DistanceKM      float64 `json:"distanceKm"`
	Estimated       bool    `json:"estimated"`
}

// ExpenseLineItem is one reimbursable row on a travel-expense form.
// Amount is derived from Distance and the configured rate, never edited.
type ExpenseLineItem struct {
	Player            Player          `json:"player"`
	GameID            string          `json:"gameId"`
	Distance          decimal.Decimal `json:"distance"`
	Amount            decimal.Decimal `json:"amount"`
	Birthday          bool            `json:"birthday,omitempty"`
	EstimatedDistance bool            `json:"estimatedDistance,omitempty"`
}
