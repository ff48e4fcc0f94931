package web

import (
	"fahrtkosten-service/internal/docstore"
	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/report"
	"fahrtkosten-service/internal/session"
	"fahrtkosten-service/internal/timeutil"
)

// viewData is the render model for the single-page UI.
type viewData struct {
	Club             string
	Season           string
	ClubFilter       string
	TestMode         bool
	Flash            string
	FlashErr         string
	Leagues          []domain.League
	LeagueID         string
	Team             string
	Games            []gameView
	Players          []playerView
	Summary          *report.BatchSummary
	ArchiveSupported bool
	Documents        []documentView
}

type gameView struct {
	ID           string
	MatchDay     int
	DateLabel    string
	HomeTeam     string
	AwayTeam     string
	Venue        string
	VenueAddress string
	Away         bool
}

type playerView struct {
	Name      string
	Birthdate string
	Address   string
}

type documentView struct {
	Name         string
	Label        string
	CreatedLabel string
	Size         int64
}

func gameViews(games []domain.Game, team string) []gameView {
	views := make([]gameView, 0, len(games))
	for _, g := range games {
		views = append(views, gameView{
			ID:           g.ID,
			MatchDay:     g.MatchDay,
			DateLabel:    g.Date.Format(timeutil.GermanDateTimeLayout),
			HomeTeam:     g.HomeTeam,
			AwayTeam:     g.AwayTeam,
			Venue:        g.Venue,
			VenueAddress: g.VenueAddress,
			Away:         team != "" && g.Away(team),
		})
	}
	return views
}

func playerViews(players []domain.Player) []playerView {
	views := make([]playerView, 0, len(players))
	for _, p := range players {
		v := playerView{Name: p.FullName(), Address: p.Address}
		if p.HasBirthdate() {
			v.Birthdate = timeutil.FormatGermanDate(p.Birthdate)
		}
		views = append(views, v)
	}
	return views
}

func documentViews(entries []docstore.Entry) []documentView {
	views := make([]documentView, 0, len(entries))
	for _, e := range entries {
		views = append(views, documentView{
			Name:         e.Name,
			Label:        e.Label,
			CreatedLabel: e.CreatedAt.Format("02.01.2006 15:04"),
			Size:         e.Size,
		})
	}
	return views
}

func summaryView(ws session.WorkingSet) *report.BatchSummary {
	if len(ws.Items) == 0 {
		return nil
	}
	s := report.Summarize(make([]report.Document, ws.Sheets), ws.Items)
	return &s
}
