package enrich

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"
)

const (
	// UserAgent identifies enrichment fetches to target sites.
	UserAgent = "Mozilla/5.0 (VC-Scout Enricher)"

	defaultFetchTimeout  = 15 * time.Second
	defaultMaxFetchBytes = 5 << 20
	maxRedirects         = 5
)

// PageFetcher retrieves the raw HTML of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Fetcher performs a single GET per page with a fixed identifying header.
type Fetcher struct {
	client       *http.Client
	maxBytes     int64
	blockPrivate bool
	timeout      time.Duration
}

// FetcherOption configures optional Fetcher behaviour.
type FetcherOption func(*Fetcher)

// WithFetchClient overrides the HTTP client used for page fetches.
func WithFetchClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithFetchTimeout bounds a single page fetch, body included.
func WithFetchTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithMaxFetchBytes caps how much of a response body is read.
func WithMaxFetchBytes(limit int64) FetcherOption {
	return func(f *Fetcher) {
		if limit > 0 {
			f.maxBytes = limit
		}
	}
}

// WithPrivateTargetsBlocked refuses connections to loopback, private and link-local addresses.
func WithPrivateTargetsBlocked(block bool) FetcherOption {
	return func(f *Fetcher) {
		f.blockPrivate = block
	}
}

// NewFetcher builds a Fetcher with sane defaults.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		maxBytes: defaultMaxFetchBytes,
		timeout:  defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = newFetchClient(f.blockPrivate)
	}
	return f
}

// Fetch returns the page body. Any failure, including a non-2xx status, is an *UpstreamFetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &UpstreamFetchError{URL: url, Cause: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &UpstreamFetchError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &UpstreamFetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", &UpstreamFetchError{URL: url, Cause: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}

func newFetchClient(blockPrivate bool) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if blockPrivate {
		transport.Proxy = nil
		transport.DialContext = safeDialContext(dialer)
	}

	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("redirect scheme %q blocked", req.URL.Scheme)
			}
			return nil
		},
	}
}

// safeDialContext resolves the target and dials the first public address, so a hostname cannot
// be rebound to an internal address between the check and the connection.
func safeDialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}
		if strings.EqualFold(host, "localhost") {
			return nil, fmt.Errorf("connection to %s is not allowed", host)
		}

		ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, fmt.Errorf("dns lookup failed: %w", err)
		}

		var lastErr error
		for _, ip := range ips {
			if isBlockedAddr(ip) {
				lastErr = fmt.Errorf("connection to private address %s is not allowed", ip)
				continue
			}
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("no addresses for %s", host)
		}
		return nil, lastErr
	}
}

func isBlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return !addr.IsValid() ||
		addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified()
}
