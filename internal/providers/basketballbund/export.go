package basketballbund

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/providers"
)

// exportSessionKey is the session key the site expects on the export servlet.
const exportSessionKey = "sport.dbb.liga.archiv.ArchivErgebnisseView/index.jsp_"

// FetchSeasonGames downloads the full-season schedule export for a league
// and parses it. Requires a prior successful Login; archive pages are only
// served to authenticated sessions. Rows the site marks with a trailing
// asterisk are placeholders and skipped.
func (c *Client) FetchSeasonGames(ctx context.Context, leagueID, season string) ([]domain.Game, error) {
	if !c.authed {
		return nil, &providers.FetchError{
			Kind:     providers.KindAuth,
			Provider: providerName,
			Detail:   "season export requires login",
		}
	}
	if season == "" {
		season = c.season
	}

	params := url.Values{}
	params.Set("liga_id", leagueID)
	params.Set("saison_id", season)
	params.Set("sessionkey", exportSessionKey)

	target := c.baseURL + pathExport + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
	}

	body, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
	}

	games, err := parseScheduleExport(raw, leagueID)
	if err != nil {
		return nil, &providers.FetchError{Kind: providers.KindParse, Provider: providerName, Err: err}
	}
	return games, nil
}

// parseScheduleExport reads the spreadsheet export: one row per game with
// columns Spieltag, Spielnummer, Datum, Heimmannschaft, Gastmannschaft,
// Endstand, in schedule order.
// oleMagic opens every legacy .xls (OLE compound) file.
var oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

func parseScheduleExport(raw []byte, leagueID string) ([]domain.Game, error) {
	if bytes.HasPrefix(raw, oleMagic) {
		return nil, fmt.Errorf("schedule export is a legacy .xls file; re-export it as .xlsx")
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("opening schedule export: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("schedule export has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading schedule export: %w", err)
	}

	var games []domain.Game
	for i, row := range rows {
		if i == 0 || len(row) < 5 {
			continue // header or short row
		}
		matchDayRaw := strings.TrimSpace(row[0])
		number := strings.TrimSpace(row[1])
		if matchDayRaw == "" || number == "" || strings.HasSuffix(matchDayRaw, "*") {
			continue
		}
		date, err := parseSiteDate(row[2])
		if err != nil {
			continue
		}
		matchDay, _ := strconv.Atoi(strings.TrimSuffix(matchDayRaw, "."))
		result := ""
		if len(row) > 5 {
			result = normalizeResult(row[5])
		}
		games = append(games, domain.Game{
			ID:          number,
			LeagueID:    leagueID,
			MatchDay:    matchDay,
			MatchNumber: number,
			Date:        date,
			HomeTeam:    strings.TrimSpace(row[3]),
			AwayTeam:    strings.TrimSpace(row[4]),
			Result:      result,
		})
	}
	return games, nil
}
