package basketballbund

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// resolveHTTPClient returns the configured client or builds one with a cookie
// jar (the site tracks login state via session cookie) that never follows
// redirects, since a login success is detected from the 302 Location header.
func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

// decodeBody wraps the response body with a charset-aware reader; the site
// serves ISO-8859-1 pages and umlauts would otherwise arrive garbled.
func decodeBody(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
