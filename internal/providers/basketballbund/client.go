package basketballbund

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fahrtkosten-service/internal/domain"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/providers"
)

// Config controls how the client reaches the federation site.
type Config struct {
	BaseURL    string
	Verband    int
	Season     string
	Username   string
	Password   string
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxPages   int
	Logger     *slog.Logger
}

// Client scrapes the federation site and maps pages to domain models.
// With credentials configured it can log in and use the authenticated
// season export; without them only the public pages are available.
type Client struct {
	baseURL    string
	verband    int
	season     string
	username   string
	password   string
	httpClient httpDoer
	maxPages   int
	logger     *slog.Logger
	authed     bool
}

// NewClient constructs a federation client with the provided configuration.
func NewClient(cfg Config) *Client {
	verband := cfg.Verband
	if verband <= 0 {
		verband = defaultVerband
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		verband:    verband,
		season:     cfg.Season,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		maxPages:   maxPages,
		logger:     cfg.Logger,
	}
}

// Login authenticates against the site. Success is a 302 redirect to the
// user info page; anything else is an auth failure and is never retried.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathLogin, strings.NewReader(form.Encode()))
	if err != nil {
		return &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusFound && strings.Contains(resp.Header.Get("Location"), loginSuccessLocation) {
		c.authed = true
		return nil
	}
	return &providers.FetchError{
		Kind:       providers.KindAuth,
		Provider:   providerName,
		StatusCode: resp.StatusCode,
		Detail:     "login rejected",
	}
}

// Authenticated reports whether a login has succeeded on this client.
func (c *Client) Authenticated() bool {
	return c.authed
}

// SetCredentials replaces the login credentials and drops any current
// login.
func (c *Client) SetCredentials(username, password string) {
	c.username = username
	c.password = password
	c.authed = false
}

// FetchLeagues searches leagues by club name, following result pagination.
func (c *Client) FetchLeagues(ctx context.Context, season, clubFilter string) ([]domain.League, error) {
	if season == "" {
		season = c.season
	}

	var all []domain.League
	startRow := 0
	for page := 0; page < c.maxPages; page++ {
		doc, err := c.postLeagueSearch(ctx, clubFilter, startRow)
		if err != nil {
			return nil, err
		}
		all = append(all, doc.leagues...)
		if doc.nextStartRow < 0 || doc.nextStartRow <= startRow {
			break
		}
		startRow = doc.nextStartRow
	}

	for i := range all {
		all[i].Season = season
	}
	return all, nil
}

func (c *Client) postLeagueSearch(ctx context.Context, clubFilter string, startRow int) (leaguePage, error) {
	form := url.Values{}
	form.Set("search", clubFilter)
	form.Set("cbSpielklasseFilter", "0")
	form.Set("spieltyp_id", "0")
	form.Set("cbAltersklasseFilter", "0")
	form.Set("cbGeschlechtFilter", "0")
	form.Set("cbBezirkFilter", "0")
	form.Set("cbKreisFilter", "0")
	if startRow > 0 {
		form.Set("startrow", strconv.Itoa(startRow))
	}

	target := c.baseURL + fmt.Sprintf(pathLeagueSearch, c.verband)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return leaguePage{}, &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, contentType, err := c.do(req)
	if err != nil {
		return leaguePage{}, err
	}
	defer body.Close()

	decoded, err := decodeBody(body, contentType)
	if err != nil {
		return leaguePage{}, &providers.FetchError{Kind: providers.KindParse, Provider: providerName, Err: err}
	}
	page, err := parseLeaguePage(decoded, c.season)
	if err != nil {
		return leaguePage{}, &providers.FetchError{Kind: providers.KindParse, Provider: providerName, Err: err}
	}
	return page, nil
}

// FetchGames returns the league schedule, following pagination. Malformed
// rows are logged and skipped, never fatal to the batch. When team is
// non-empty only that team's games are returned.
func (c *Client) FetchGames(ctx context.Context, leagueID, team string) ([]domain.Game, error) {
	var games []domain.Game
	seen := make(map[string]struct{})

	startRow := 0
	for page := 0; page < c.maxPages; page++ {
		target := c.baseURL + fmt.Sprintf(pathSchedule, leagueID)
		if c.season != "" {
			target += "&saison_id=" + url.QueryEscape(c.season)
		}
		if startRow > 0 {
			target += "&startrow=" + strconv.Itoa(startRow)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
		}

		body, contentType, err := c.do(req)
		if err != nil {
			return nil, err
		}

		decoded, err := decodeBody(body, contentType)
		if err != nil {
			body.Close()
			return nil, &providers.FetchError{Kind: providers.KindParse, Provider: providerName, Err: err}
		}
		rows, nextStartRow, err := parseSchedulePage(decoded, leagueID)
		body.Close()
		if err != nil {
			return nil, &providers.FetchError{Kind: providers.KindParse, Provider: providerName, Err: err}
		}

		for _, row := range rows {
			if row.err != nil {
				c.logWarn(ctx, "skipping malformed schedule row", "err", row.err, logging.FieldLeague, leagueID)
				continue
			}
			if _, dup := seen[row.game.MatchNumber]; dup && row.game.MatchNumber != "" {
				continue
			}
			if team != "" && !domain.TeamMatches(row.game.AwayTeam, team) &&
				!domain.TeamMatches(row.game.HomeTeam, team) {
				continue
			}
			seen[row.game.MatchNumber] = struct{}{}
			games = append(games, row.game)
		}

		if nextStartRow < 0 || nextStartRow <= startRow {
			break
		}
		startRow = nextStartRow
	}

	return games, nil
}

// FetchAttendees returns the guest-roster names for a game.
func (c *Client) FetchAttendees(ctx context.Context, gameID, leagueID string) ([]string, error) {
	target := c.baseURL + fmt.Sprintf(pathGameDetails, gameID, leagueID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
	}

	body, contentType, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	decoded, err := decodeBody(body, contentType)
	if err != nil {
		return nil, &providers.FetchError{Kind: providers.KindParse, Provider: providerName, Err: err}
	}
	names, err := parseAttendees(decoded)
	if err != nil {
		return nil, &providers.FetchError{Kind: providers.KindParse, Provider: providerName, Err: err}
	}
	return names, nil
}

// do executes the request and classifies transport-level failures. The body
// is returned open; callers own closing it.
func (c *Client) do(req *http.Request) (io.ReadCloser, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &providers.FetchError{Kind: providers.KindNetwork, Provider: providerName, Err: err}
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, "", &providers.FetchError{
			Kind:       providers.KindAuth,
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Detail:     "access denied",
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, "", &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, "", &providers.FetchError{
			Kind:       providers.KindNetwork,
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Detail:     "unexpected status",
		}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func (c *Client) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, c.logger)
	if logger != nil {
		logger.Warn(msg, append(args, slog.String(logging.FieldProvider, providerName))...)
	}
}
