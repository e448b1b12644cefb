// Package yahoo implements repository.MarketData on top of the public Yahoo
// Finance chart and quoteSummary endpoints.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	drepo "StockDash/internal/domain/repository"
	"StockDash/pkg/logger"

	xhttp "StockDash/pkg/http"
)

// Options holds the endpoints and transport settings of the client.
type Options struct {
	ChartURL   string
	SummaryURL string
	// CookieURL and CrumbURL drive the consent handshake. Leave either empty
	// to skip it.
	CookieURL string
	CrumbURL  string
	UserAgent string
	Timeout   time.Duration
}

// crumbBackoff is how long a failed handshake is remembered before trying again.
const crumbBackoff = time.Minute

// ErrNoResult means the endpoint answered without a result for the symbol.
var ErrNoResult = errors.New("yahoo: empty result")

// Client fetches quotes, daily bars and statements for a single symbol.
type Client struct {
	opts Options
	http *xhttp.Client
	log  *logger.Logger

	mu         sync.Mutex
	crumb      string
	crumbRetry time.Time
	now        func() time.Time
}

var _ drepo.MarketData = (*Client)(nil)

// New creates a Yahoo client with its own cookie jar.
func New(opts Options, log *logger.Logger, clientOpts ...xhttp.ClientOption) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	jar, _ := cookiejar.New(nil)

	base := []xhttp.ClientOption{
		xhttp.WithTimeout(opts.Timeout),
		xhttp.WithCookieJar(jar),
		xhttp.WithUserAgent(opts.UserAgent),
	}
	return &Client{
		opts: opts,
		http: xhttp.NewClient(append(base, clientOpts...)...),
		log:  log.With(logger.String("component", "yahoo")),
		now:  time.Now,
	}
}

// get performs a GET and returns the body along with the status code. A non-2xx
// status is not an error here because Yahoo reports failures in the body.
func (c *Client) get(ctx context.Context, rawURL string, query map[string][]string) ([]byte, int, error) {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         rawURL,
		QueryParams: query,
		Headers:     map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// ensureCrumb returns a cached crumb or runs the cookie/crumb handshake.
// Failures are logged and yield an empty crumb.
func (c *Client) ensureCrumb(ctx context.Context) string {
	if c.opts.CookieURL == "" || c.opts.CrumbURL == "" {
		return ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" || c.now().Before(c.crumbRetry) {
		return c.crumb
	}

	crumb, err := c.fetchCrumb(ctx)
	if err != nil {
		c.crumbRetry = c.now().Add(crumbBackoff)
		c.log.Warn("crumb handshake failed", logger.Error(err))
		return ""
	}
	c.crumb = crumb
	c.log.Debug("crumb acquired")
	return crumb
}

func (c *Client) fetchCrumb(ctx context.Context) (string, error) {
	// the cookie endpoint answers 404 but still sets the session cookie
	if _, _, err := c.get(ctx, c.opts.CookieURL, nil); err != nil {
		return "", fmt.Errorf("cookie: %w", err)
	}
	body, status, err := c.get(ctx, c.opts.CrumbURL, nil)
	if err != nil {
		return "", fmt.Errorf("crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", fmt.Errorf("crumb: status %d", status)
	}
	return crumb, nil
}

func (c *Client) dropCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

func symbolURL(base, symbol string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(symbol)
}
