package basketballbund

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/timeutil"
)

var (
	ligaIDPattern   = regexp.MustCompile(`liga_id=(\d+)`)
	startRowPattern = regexp.MustCompile(`startrow=(\d+)`)
	spielplanIDPat  = regexp.MustCompile(`spielplan_id=(\d+)`)
)

type leaguePage struct {
	leagues      []domain.League
	nextStartRow int // -1 when there is no further page
}

// parseLeaguePage extracts leagues from a search result page. The target is
// the sportView table whose header cells include Klasse, Alter and Liganame;
// other sportView tables on the page are navigation chrome.
func parseLeaguePage(r io.Reader, season string) (leaguePage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return leaguePage{}, fmt.Errorf("parsing league page: %w", err)
	}

	if doc.Find(`form[name="ligaliste"]`).Length() == 0 {
		return leaguePage{}, fmt.Errorf("no ligaliste form in response")
	}

	table := findLeagueTable(doc)
	if table == nil {
		return leaguePage{}, fmt.Errorf("no league table in response")
	}

	page := leaguePage{nextStartRow: -1}
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // header row
		}
		cells := row.Find("td")
		if cells.Length() < 8 {
			return
		}

		league := domain.League{
			Division: cellText(cells, 0),
			AgeGroup: cellText(cells, 1),
			Gender:   cellText(cells, 2),
			District: cellText(cells, 3),
			Name:     cellText(cells, 5),
			Season:   season,
		}
		cells.Eq(7).Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href, _ := link.Attr("href")
			if !strings.Contains(href, "Action=102") {
				return true
			}
			if m := ligaIDPattern.FindStringSubmatch(href); m != nil {
				league.ID = m[1]
				return false
			}
			return true
		})
		if league.ID == "" || league.Name == "" {
			return // incomplete row, skipped by contract
		}
		page.leagues = append(page.leagues, league)
	})

	page.nextStartRow = findNextStartRow(doc)
	return page, nil
}

func findLeagueTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table.sportView").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		headers := map[string]bool{}
		t.Find("td.sportViewHeader").Each(func(_ int, h *goquery.Selection) {
			headers[strings.TrimSpace(h.Text())] = true
		})
		if headers["Klasse"] && headers["Alter"] && headers["Liganame"] {
			table = t
			return false
		}
		return true
	})
	return table
}

// findNextStartRow returns the startrow of the next results page, or -1.
func findNextStartRow(doc *goquery.Document) int {
	next := -1
	doc.Find("td.sportViewNavigationLinkPageNumber a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := startRowPattern.FindStringSubmatch(href)
		if m == nil {
			return
		}
		row, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		if next == -1 || row < next {
			next = row
		}
	})
	return next
}

type scheduleRow struct {
	game domain.Game
	err  error
}

// parseSchedulePage extracts games from a league schedule page. Rows with a
// strike-through match day are cancelled and skipped; malformed rows come
// back with an error so the caller can log and skip them.
func parseSchedulePage(r io.Reader, leagueID string) ([]scheduleRow, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, -1, fmt.Errorf("parsing schedule page: %w", err)
	}

	table := findScheduleTable(doc)
	if table == nil {
		return nil, -1, fmt.Errorf("no schedule table in response")
	}

	var rows []scheduleRow
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td.sportItemEven, td.sportItemOdd")
		if cells.Length() < 6 {
			return
		}
		if cells.Eq(0).Find("strike").Length() > 0 {
			return // cancelled game
		}
		rows = append(rows, parseScheduleRow(row, cells, leagueID))
	})

	return rows, findNextStartRow(doc), nil
}

func findScheduleTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table.sportView").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		found := false
		t.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			if strings.Contains(cell.Text(), "Datum") {
				found = true
				return false
			}
			return true
		})
		if found {
			table = t
			return false
		}
		return true
	})
	return table
}

func parseScheduleRow(row, cells *goquery.Selection, leagueID string) scheduleRow {
	matchDayRaw := cellText(cells, 0)
	number := cellText(cells, 1)
	dateRaw := cellText(cells, 2)
	home := cellText(cells, 3)
	away := cellText(cells, 4)
	result := cellText(cells, 5)

	if home == "" || away == "" {
		return scheduleRow{err: fmt.Errorf("schedule row missing teams (nr=%q)", number)}
	}

	date, err := parseSiteDate(dateRaw)
	if err != nil {
		return scheduleRow{err: fmt.Errorf("schedule row %q: bad date %q: %w", number, dateRaw, err)}
	}

	matchDay, _ := strconv.Atoi(strings.TrimSuffix(matchDayRaw, "."))

	id := number
	row.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if m := spielplanIDPat.FindStringSubmatch(href); m != nil {
			id = m[1]
			return false
		}
		return true
	})

	venue := ""
	if cells.Length() > 6 {
		venue = cellText(cells, 6)
	}

	return scheduleRow{game: domain.Game{
		ID:          id,
		LeagueID:    leagueID,
		MatchDay:    matchDay,
		MatchNumber: number,
		Date:        date,
		HomeTeam:    home,
		AwayTeam:    away,
		Venue:       venue,
		Result:      normalizeResult(result),
	}}
}

// parseAttendees extracts guest-roster names from a game details page.
// Header literals are skipped; names the site masks with asterisks are
// replaced by the privacy placeholder.
func parseAttendees(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing game details: %w", err)
	}

	form := doc.Find(`form[name="spielerstatistikgast"]`)
	if form.Length() == 0 {
		return nil, fmt.Errorf("no guest roster form in response")
	}

	var names []string
	form.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		last := cellText(cells, 0)
		first := cellText(cells, 1)
		if last == "" || first == "" || last == "Nachname" || first == "Vorname" {
			return
		}
		if strings.Contains(last, "*") || strings.Contains(first, "*") {
			names = append(names, BlockedName)
			return
		}
		names = append(names, last+", "+first)
	})
	return names, nil
}

// parseSiteDate accepts the site's timestamp format with or without a time.
func parseSiteDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(timeutil.GermanDateTimeLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(timeutil.GermanDateLayout, raw)
}

func normalizeResult(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" || raw == "0 : 0" {
		return ""
	}
	return raw
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}
