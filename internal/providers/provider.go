package providers

import (
	"context"

	"fahrtkosten-service/internal/domain"
)

// LeagueProvider defines how federation data is fetched and normalized.
// Implementations return records in site order; callers own any re-sorting.
type LeagueProvider interface {
	// FetchLeagues discovers leagues whose teams match the club-name filter
	// within the given season. An empty season means the site's current one.
	FetchLeagues(ctx context.Context, season, clubFilter string) ([]domain.League, error)

	// FetchGames returns the schedule of the given league. When team is
	// non-empty only that team's games are returned.
	FetchGames(ctx context.Context, leagueID, team string) ([]domain.Game, error)

	// FetchAttendees returns the guest-roster player names for a game.
	FetchAttendees(ctx context.Context, gameID, leagueID string) ([]string, error)
}
