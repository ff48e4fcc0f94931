package basketballbund

import "time"

const (
	providerName = "basketballbund"

	defaultBaseURL     = "https://www.basketball-bund.net"
	defaultVerband     = 6
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxPages    = 10

	// Site endpoints. Action codes follow the federation's routing scheme:
	// 100 = league search, 108 = league schedule, 102 = league detail link.
	pathLeagueSearch = "/index.jsp?Action=100&Verband=%d"
	pathSchedule     = "/index.jsp?Action=108&liga_id=%s&defaultview=1"
	pathGameDetails  = "/public/ergebnisDetails.jsp?type=1&spielplan_id=%s&liga_id=%s&defaultview=1"
	pathLogin        = "/login.do?reqCode=login"
	pathExport       = "/servlet/sport.dbb.export.ExcelExportErgebnissePublic"

	loginSuccessLocation = "/userinfos.do?reqCode=view"

	// BlockedName replaces player names the site masks for privacy.
	BlockedName = "Geblocked durch DSGVO"
)
