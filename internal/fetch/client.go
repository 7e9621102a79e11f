package fetch

import (
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/pharma-organizers/internal/logger"
)

const (
	DefaultListingTimeout = 30 * time.Second
	DefaultPageTimeout    = 15 * time.Second
	DefaultProbeTimeout   = 10 * time.Second
)

// Options configures a Client. Zero timeouts fall back to the defaults.
type Options struct {
	ListingTimeout time.Duration
	PageTimeout    time.Duration
	ProbeTimeout   time.Duration

	// Delay is the minimum spacing between consecutive Page calls
	Delay time.Duration

	StealthMode   bool
	RespectRobots bool

	// Transport overrides the HTTP transport, mainly for tests
	Transport http.RoundTripper
}

// Client fetches listing pages, event pages and liveness probes.
// It is not safe for concurrent use.
type Client struct {
	http    *http.Client
	probe   *http.Client
	headers http.Header
	limiter *rate.Limiter
	opts    Options
	robots  map[string]*robotstxt.RobotsData
}

// New creates a Client with a run-scoped cookie jar
func New(opts Options) (*Client, error) {
	if opts.ListingTimeout <= 0 {
		opts.ListingTimeout = DefaultListingTimeout
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &Client{
		http: &http.Client{
			Transport: opts.Transport,
			Jar:       jar,
		},
		probe: &http.Client{
			Transport: opts.Transport,
			Jar:       jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		headers: BrowserHeaders(opts.StealthMode),
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
		robots:  make(map[string]*robotstxt.RobotsData),
	}, nil
}

// Listing fetches and parses the listing page
func (c *Client) Listing(ctx context.Context, rawURL string) (*goquery.Document, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("fetch.listing", time.Since(start)) }()

	return c.get(ctx, rawURL, c.opts.ListingTimeout)
}

// Page fetches and parses an event page. It blocks until the configured delay
// has passed since the previous Page call.
func (c *Client) Page(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	start := time.Now()
	defer func() { logger.RecordTiming("fetch.page", time.Since(start)) }()

	return c.get(ctx, rawURL, c.opts.PageTimeout)
}

// Head issues a liveness probe and returns the response status code.
// Redirects are reported, not followed.
func (c *Client) Head(ctx context.Context, rawURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.headers.Clone()

	logger.IncrCounter("fetch.probes")
	resp, err := c.probe.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probing %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func (c *Client) get(ctx context.Context, rawURL string, timeout time.Duration) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	if err := c.checkRobots(ctx, u); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.headers.Clone()

	logger.IncrCounter("fetch.requests")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Url = resp.Request.URL

	return doc, nil
}

// decodeBody undoes the Content-Encoding. The transport does not do this for
// us because Accept-Encoding is set explicitly.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return resp.Body, nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return zlib.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

// checkRobots consults robots.txt for u's host when compliance is enabled.
// An unreachable robots.txt is treated as allow-all.
func (c *Client) checkRobots(ctx context.Context, u *url.URL) error {
	if !c.opts.RespectRobots {
		return nil
	}

	host := u.Scheme + "://" + u.Host
	data, ok := c.robots[host]
	if !ok {
		data = c.loadRobots(ctx, host)
		c.robots[host] = data
	}
	if data == nil {
		return nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if !data.TestAgent(path, UserAgent) {
		return fmt.Errorf("%w: %s", ErrDisallowed, u)
	}
	return nil
}

func (c *Client) loadRobots(ctx context.Context, host string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header = c.headers.Clone()
	req.Header.Del("Accept-Encoding")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("robots.txt unreachable, allowing all", logger.Fields{"host": host, "error": err.Error()})
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		logger.Warn("robots.txt unparseable, allowing all", logger.Fields{"host": host, "error": err.Error()})
		return nil
	}
	return data
}
