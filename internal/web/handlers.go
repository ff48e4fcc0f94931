package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fahrtkosten-service/internal/config"
	"fahrtkosten-service/internal/docstore"
	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/expense"
	"fahrtkosten-service/internal/geo"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/providers"
	"fahrtkosten-service/internal/report"
	"fahrtkosten-service/internal/roster"
	"fahrtkosten-service/internal/session"
)

const maxRosterUpload = 2 << 20 // 2 MiB

// ArchiveProvider is the authenticated season export surface. Only the
// federation client supports it; other providers fall back to a
// disabled archive section in the UI.
type ArchiveProvider interface {
	Login(ctx context.Context) error
	Authenticated() bool
	SetCredentials(username, password string)
	FetchSeasonGames(ctx context.Context, leagueID, season string) ([]domain.Game, error)
}

// SheetFiller renders expense line items into stored documents.
type SheetFiller interface {
	FillBatch(meta report.Meta, items []domain.ExpenseLineItem) ([]report.Document, error)
}

// Deps wires the handler to the rest of the application.
type Deps struct {
	Provider       providers.LeagueProvider
	Archive        ArchiveProvider
	NewResolver    func() *geo.Resolver
	Filler         SheetFiller
	Docs           *docstore.Store
	Club           config.ClubConfig
	Rate           expense.RateConfig
	RequestTimeout time.Duration
	TestMode       bool
	Logger         *slog.Logger
	Ready          func() bool
}

// Handler serves the server-rendered UI.
type Handler struct {
	deps Deps
}

// NewHandler constructs the UI handler.
func NewHandler(deps Deps) *Handler {
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 10 * time.Second
	}
	return &Handler{deps: deps}
}

// Index renders the single-page UI from the session working set.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := sessionFromContext(r.Context())
	var ws session.WorkingSet
	if sess != nil {
		ws = sess.Snapshot()
		sess.Update(func(s *session.WorkingSet) {
			s.Flash = ""
			s.FlashErr = ""
		})
	}

	var docs []docstore.Entry
	if h.deps.Docs != nil {
		if entries, err := h.deps.Docs.List(); err == nil {
			docs = entries
		}
	}

	data := viewData{
		Club:             h.deps.Club.Name,
		Season:           firstNonEmpty(ws.Season, h.deps.Club.Season),
		ClubFilter:       h.deps.Club.Name,
		TestMode:         h.deps.TestMode,
		Flash:            ws.Flash,
		FlashErr:         ws.FlashErr,
		Leagues:          ws.Leagues,
		LeagueID:         ws.LeagueID,
		Team:             ws.Team,
		Games:            gameViews(ws.Games, ws.Team),
		Players:          playerViews(ws.Players),
		Summary:          summaryView(ws),
		ArchiveSupported: h.deps.Archive != nil,
		Documents:        documentViews(docs),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.ExecuteTemplate(w, "index.html.tmpl", data); err != nil {
		logging.Error(logging.FromContext(r.Context(), h.deps.Logger), "render failed", err)
	}
}

// FetchLeagues searches the federation for the club's leagues.
func (h *Handler) FetchLeagues(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	season := strings.TrimSpace(r.FormValue("season"))
	if season == "" {
		season = h.deps.Club.Season
	}
	club := strings.TrimSpace(r.FormValue("club"))
	if club == "" {
		club = h.deps.Club.Name
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.deps.RequestTimeout)
	defer cancel()

	leagues, err := h.deps.Provider.FetchLeagues(ctx, season, club)
	sess.Update(func(ws *session.WorkingSet) {
		if err != nil {
			ws.FlashErr = friendlyError(err)
			return
		}
		ws.Season = season
		ws.Leagues = leagues
		ws.LeagueID = ""
		ws.Games = nil
		ws.Items = nil
		ws.Sheets = 0
		ws.Flash = fmt.Sprintf("%d Ligen gefunden.", len(leagues))
	})
	redirectHome(w, r)
}

// FetchGames loads a league schedule into the working set.
func (h *Handler) FetchGames(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	leagueID := strings.TrimSpace(r.FormValue("league_id"))
	team := strings.TrimSpace(r.FormValue("team"))
	if leagueID == "" {
		flashError(sess, "Keine Liga gewählt.")
		redirectHome(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.deps.RequestTimeout)
	defer cancel()

	games, err := h.deps.Provider.FetchGames(ctx, leagueID, team)
	sess.Update(func(ws *session.WorkingSet) {
		if err != nil {
			ws.FlashErr = friendlyError(err)
			return
		}
		domain.ApplyVenueAddresses(games, ws.Venues)
		ws.LeagueID = leagueID
		ws.Team = team
		ws.Games = games
		ws.Items = nil
		ws.Sheets = 0
		ws.Flash = fmt.Sprintf("%d Spiele geladen.", len(games))
	})
	redirectHome(w, r)
}

// UploadVenues ingests a CSV or XLSX hall list and fills the addresses
// into already loaded games. The schedule pages publish no hall
// addresses, so without this list no venue can be geocoded.
func (h *Handler) UploadVenues(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxRosterUpload); err != nil {
		flashError(sess, "Upload fehlgeschlagen: Datei zu groß oder beschädigt.")
		redirectHome(w, r)
		return
	}
	file, header, err := r.FormFile("venues")
	if err != nil {
		flashError(sess, "Keine Datei hochgeladen.")
		redirectHome(w, r)
		return
	}
	defer file.Close()

	venues, err := roster.ParseVenues(file, header.Filename)
	sess.Update(func(ws *session.WorkingSet) {
		if err != nil {
			ws.FlashErr = friendlyError(err)
			return
		}
		ws.Venues = venues
		applied := domain.ApplyVenueAddresses(ws.Games, venues)
		ws.Flash = fmt.Sprintf("%d Hallenadressen übernommen, %d Spielen zugeordnet.", len(venues), applied)
	})
	redirectHome(w, r)
}

// UploadRoster ingests a CSV or XLSX player list.
func (h *Handler) UploadRoster(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxRosterUpload); err != nil {
		flashError(sess, "Upload fehlgeschlagen: Datei zu groß oder beschädigt.")
		redirectHome(w, r)
		return
	}
	file, header, err := r.FormFile("roster")
	if err != nil {
		flashError(sess, "Keine Datei hochgeladen.")
		redirectHome(w, r)
		return
	}
	defer file.Close()

	players, err := roster.Parse(file, header.Filename)
	sess.Update(func(ws *session.WorkingSet) {
		if err != nil {
			ws.FlashErr = friendlyError(err)
			return
		}
		ws.Players = players
		ws.Flash = fmt.Sprintf("%d Spieler übernommen.", len(players))
	})
	redirectHome(w, r)
}

// GenerateReports runs the full pipeline for one game: resolve the
// venue distance, calculate line items, fill sheets, store documents.
func (h *Handler) GenerateReports(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.deps.Filler == nil {
		flashError(sess, "Kein PDF-Formular konfiguriert.")
		redirectHome(w, r)
		return
	}

	ws := sess.Snapshot()
	gameID := strings.TrimSpace(r.FormValue("game_id"))
	game, ok := findGame(ws.Games, gameID)
	if !ok {
		flashError(sess, "Unbekanntes Spiel.")
		redirectHome(w, r)
		return
	}
	if strings.TrimSpace(game.VenueAddress) == "" {
		flashError(sess, "Keine Hallenadresse für dieses Spiel. Zuerst eine Hallenliste hochladen.")
		redirectHome(w, r)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.RequestTimeout)
	defer cancel()

	// Without an uploaded roster, fall back to the guest roster the
	// federation publishes with the game statistics.
	players := ws.Players
	if len(players) == 0 {
		names, err := h.deps.Provider.FetchAttendees(ctx, game.ID, ws.LeagueID)
		if err != nil || len(names) == 0 {
			flashError(sess, "Zuerst eine Spielerliste hochladen.")
			redirectHome(w, r)
			return
		}
		players = playersFromNames(names)
	}

	resolver := h.sessionResolver(sess)
	loc, err := resolver.Resolve(ctx, game.VenueAddress)
	if err != nil {
		flashError(sess, friendlyError(err))
		redirectHome(w, r)
		return
	}

	items, err := expense.Calculate(players, game, loc, h.deps.Rate)
	if err != nil {
		flashError(sess, friendlyError(err))
		redirectHome(w, r)
		return
	}

	meta := report.Meta{
		Club:      h.deps.Club.Name,
		Division:  "Basketball",
		EventType: h.deps.Club.EventType,
		Teams:     game.HomeTeam + " : " + game.AwayTeam,
		GameDate:  game.Date,
		Venue:     game.Venue,
	}
	docs, err := h.deps.Filler.FillBatch(meta, items)
	if err != nil {
		flashError(sess, friendlyError(err))
		redirectHome(w, r)
		return
	}

	for _, doc := range docs {
		name := documentName(game, doc)
		label := fmt.Sprintf("Spiel %s, Blatt %d/%d", game.MatchNumber, doc.SheetNumber, doc.SheetCount)
		if _, err := h.deps.Docs.Save(name, label, doc.Data); err != nil {
			flashError(sess, "Dokument konnte nicht gespeichert werden.")
			logging.Error(logging.FromContext(r.Context(), h.deps.Logger), "document save failed", err,
				slog.String(logging.FieldGame, game.ID))
			redirectHome(w, r)
			return
		}
	}

	summary := report.Summarize(docs, items)
	sess.Update(func(ws *session.WorkingSet) {
		ws.Items = items
		ws.Sheets = len(docs)
		ws.Flash = fmt.Sprintf("Abrechnung erstellt: %d Blatt, %s km, %s EUR.",
			summary.Sheets, summary.TotalDistance, summary.TotalAmount)
	})
	redirectHome(w, r)
}

// GenerateArchive exports a whole season into a spreadsheet. Requires
// the authenticated federation export.
func (h *Handler) GenerateArchive(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	archive := h.deps.Archive
	if archive == nil {
		flashError(sess, "Archivmodus ist nicht verfügbar.")
		redirectHome(w, r)
		return
	}

	ws := sess.Snapshot()
	leagueID := strings.TrimSpace(r.FormValue("league_id"))
	if leagueID == "" {
		leagueID = ws.LeagueID
	}
	if leagueID == "" {
		flashError(sess, "Zuerst eine Liga wählen.")
		redirectHome(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*h.deps.RequestTimeout)
	defer cancel()

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username != "" {
		archive.SetCredentials(username, password)
	}
	if !archive.Authenticated() {
		if err := archive.Login(ctx); err != nil {
			flashError(sess, friendlyError(err))
			redirectHome(w, r)
			return
		}
		sess.SetAuthenticated(true)
	}

	games, err := archive.FetchSeasonGames(ctx, leagueID, firstNonEmpty(ws.Season, h.deps.Club.Season))
	if err != nil {
		flashError(sess, friendlyError(err))
		redirectHome(w, r)
		return
	}
	domain.ApplyVenueAddresses(games, ws.Venues)

	entries, err := h.archiveEntries(ctx, sess, games, ws.Team)
	if err != nil {
		flashError(sess, friendlyError(err))
		redirectHome(w, r)
		return
	}

	data, err := report.ExportSeason(entries)
	if err != nil {
		flashError(sess, friendlyError(err))
		redirectHome(w, r)
		return
	}

	name := fmt.Sprintf("saison-%s.xlsx", leagueID)
	label := fmt.Sprintf("Saisonarchiv Liga %s (%d Spiele)", leagueID, len(entries))
	if _, err := h.deps.Docs.Save(name, label, data); err != nil {
		flashError(sess, "Dokument konnte nicht gespeichert werden.")
		redirectHome(w, r)
		return
	}

	sess.Update(func(ws *session.WorkingSet) {
		ws.Flash = fmt.Sprintf("Saisonarchiv mit %d Spielen erstellt.", len(entries))
	})
	redirectHome(w, r)
}

// archiveEntries bills away games with resolved distances; home games
// appear with a zero distance.
func (h *Handler) archiveEntries(ctx context.Context, sess *session.Session, games []domain.Game, team string) ([]report.ArchiveEntry, error) {
	resolver := h.sessionResolver(sess)

	entries := make([]report.ArchiveEntry, 0, len(games))
	for _, game := range games {
		entry := report.ArchiveEntry{
			Game:     game,
			Opponent: opponent(game, team),
			Distance: decimal.Zero,
			Amount:   decimal.Zero,
		}
		if team != "" && game.Away(team) && game.VenueAddress != "" {
			loc, err := resolver.Resolve(ctx, game.VenueAddress)
			if err != nil {
				return nil, err
			}
			entry.Distance = expense.BillableDistance(loc.DistanceKM, h.deps.Rate)
			entry.Amount = entry.Distance.Mul(h.deps.Rate.RatePerUnit).Round(2)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Download serves a stored document.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/downloads/")
	data, err := h.deps.Docs.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	switch {
	case strings.HasSuffix(name, ".pdf"):
		w.Header().Set("Content-Type", "application/pdf")
	case strings.HasSuffix(name, ".xlsx"):
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	_, _ = w.Write(data)
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the service can serve the full pipeline.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.deps.Ready != nil && !h.deps.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) sessionResolver(sess *session.Session) *geo.Resolver {
	if resolver := sess.Resolver(); resolver != nil {
		return resolver
	}
	resolver := h.deps.NewResolver()
	sess.SetResolver(resolver)
	return resolver
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func flashError(sess *session.Session, msg string) {
	sess.Update(func(ws *session.WorkingSet) { ws.FlashErr = msg })
}

func findGame(games []domain.Game, id string) (domain.Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Game{}, false
}

// playersFromNames builds roster entries from "Nachname, Vorname"
// listings. Privacy-masked entries stay a single last name.
func playersFromNames(names []string) []domain.Player {
	players := make([]domain.Player, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		last, first, found := strings.Cut(name, ",")
		if !found {
			players = append(players, domain.Player{LastName: name})
			continue
		}
		players = append(players, domain.Player{
			LastName:  strings.TrimSpace(last),
			FirstName: strings.TrimSpace(first),
		})
	}
	return players
}

func opponent(game domain.Game, team string) string {
	if team == "" {
		return game.AwayTeam
	}
	if game.Away(team) {
		return game.HomeTeam
	}
	return game.AwayTeam
}

func documentName(game domain.Game, doc report.Document) string {
	base := game.MatchNumber
	if base == "" {
		base = game.ID
	}
	if doc.SheetCount > 1 {
		return fmt.Sprintf("fahrtkosten-%s-blatt-%d.pdf", base, doc.SheetNumber)
	}
	return fmt.Sprintf("fahrtkosten-%s.pdf", base)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
