// Package webfetch retrieves a founder's website and reduces it to
// readable text for the analysis prompt. Fetching is SSRF-guarded:
// HTTPS only, private and loopback addresses blocked at both the URL
// and the resolved-IP level, redirects re-validated.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "ideation-advisor/1.0"
	maxContentSize   = 2 << 20 // 2MB of HTML is plenty for a landing page
	maxRedirects     = 5
)

// Pre-compiled CIDR networks for reserved ranges not covered by the
// net.IP helpers.
var (
	cgnat    *net.IPNet // 100.64.0.0/10
	v6unique *net.IPNet // fc00::/7
	v6link   *net.IPNet // fe80::/10
)

func init() {
	for _, c := range []struct {
		cidr string
		dst  **net.IPNet
	}{
		{"100.64.0.0/10", &cgnat},
		{"fc00::/7", &v6unique},
		{"fe80::/10", &v6link},
	} {
		_, parsed, err := net.ParseCIDR(c.cidr)
		if err != nil {
			panic("invalid reserved CIDR: " + err.Error())
		}
		*c.dst = parsed
	}
}

// ValidateURL checks a URL against the SSRF policy.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed")
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return fmt.Errorf("localhost URLs are not allowed")
	}
	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("local domain URLs are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed")
	}

	return nil
}

// isPrivateIP reports whether an IP falls in a private or reserved range,
// including IPv4-mapped IPv6 forms.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return true
		}
	}
	return cgnat.Contains(ip) || v6unique.Contains(ip) || v6link.Contains(ip)
}

// Fetcher fetches website content with security checks.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient overrides the HTTP client, mainly for tests.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a fetcher with a hardened transport. Resolved IPs
// are validated before dialing to defeat DNS rebinding.
func NewFetcher(opts ...Option) *Fetcher {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	safeDialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}

		for _, ipAddr := range ips {
			if isPrivateIP(ipAddr.IP) {
				return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
			}
		}

		for _, ipAddr := range ips {
			conn, dialErr := dialer.DialContext(ctx, network, net.JoinHostPort(ipAddr.IP.String(), port))
			if dialErr == nil {
				return conn, nil
			}
		}

		return nil, fmt.Errorf("failed to connect to any resolved IP")
	}

	f := &Fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext:           safeDialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: defaultTimeout,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
			},
			Timeout: defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (max %d)", maxRedirects)
				}
				if err := ValidateURL(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the page at rawURL and returns its readable text,
// capped for prompt inclusion.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	body, err := f.fetchHTML(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return ExtractText(body, rawURL)
}

// fetchHTML performs the guarded GET and returns the raw body.
func (f *Fetcher) fetchHTML(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxContentSize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", maxContentSize)
	}

	return body, nil
}
