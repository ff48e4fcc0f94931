package fixture

import (
	"context"
	"time"

	"fahrtkosten-service/internal/domain"
)

// Provider returns a static set of leagues and games useful for local
// testing and demos. It performs zero network calls and its output is
// shaped identically to a live fetch.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// FetchLeagues returns a deterministic set of example leagues.
func (p *Provider) FetchLeagues(ctx context.Context, season, clubFilter string) ([]domain.League, error) {
	_ = ctx
	_ = clubFilter
	if season == "" {
		season = "2024"
	}
	return []domain.League{
		{
			ID:       "47040",
			Name:     "Bezirksliga A Darmstadt",
			Division: "Bezirksliga",
			AgeGroup: "Senioren",
			Gender:   "m",
			District: "Darmstadt",
			Season:   season,
		},
		{
			ID:       "47112",
			Name:     "Kreisliga B Darmstadt",
			Division: "Kreisliga",
			AgeGroup: "Senioren",
			Gender:   "m",
			District: "Darmstadt",
			Season:   season,
		},
	}, nil
}

// FetchGames returns a deterministic schedule for the requested league.
func (p *Provider) FetchGames(ctx context.Context, leagueID, team string) ([]domain.Game, error) {
	_ = ctx

	start := p.now().UTC().Truncate(24 * time.Hour)
	games := []domain.Game{
		{
			ID:           "99887",
			LeagueID:     leagueID,
			MatchDay:     1,
			MatchNumber:  "101",
			Date:         start.Add(14 * 24 * time.Hour).Add(15 * time.Hour),
			HomeTeam:     "TSV Eintracht Nord",
			AwayTeam:     "BC Musterstadt",
			Venue:        "Sporthalle am Berg",
			VenueAddress: "Bergstraße 12, 64293 Darmstadt",
			Attendees:    []string{"Schmidt, Anna", "Weber, Jonas"},
		},
		{
			ID:          "99912",
			LeagueID:    leagueID,
			MatchDay:    2,
			MatchNumber: "108",
			Date:        start.Add(21 * 24 * time.Hour).Add(17 * time.Hour),
			HomeTeam:    "BC Musterstadt",
			AwayTeam:    "SG Odenwald",
			Venue:       "Musterhalle",
		},
		{
			ID:           "99954",
			LeagueID:     leagueID,
			MatchDay:     3,
			MatchNumber:  "115",
			Date:         start.Add(28 * 24 * time.Hour).Add(16 * time.Hour),
			HomeTeam:     "SG Odenwald",
			AwayTeam:     "BC Musterstadt",
			Venue:        "Odenwaldhalle",
			VenueAddress: "Talstraße 3, 64711 Erbach",
			Result:       "",
		},
	}

	if team == "" {
		return games, nil
	}
	var filtered []domain.Game
	for _, g := range games {
		if domain.TeamMatches(g.HomeTeam, team) || domain.TeamMatches(g.AwayTeam, team) {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// FetchAttendees returns a deterministic guest roster.
func (p *Provider) FetchAttendees(ctx context.Context, gameID, leagueID string) ([]string, error) {
	_ = ctx
	_ = leagueID
	if gameID == "99912" {
		return nil, nil // home game, no guest roster for the club
	}
	return []string{"Schmidt, Anna", "Weber, Jonas", "Geblocked durch DSGVO"}, nil
}
