package webfetch

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"valid https", "https://example.com", ""},
		{"valid with path", "https://example.com/about?ref=x", ""},
		{"http blocked", "http://example.com", "only HTTPS URLs are allowed"},
		{"ftp blocked", "ftp://example.com", "only HTTPS URLs are allowed"},
		{"no scheme", "example.com", "only HTTPS URLs are allowed"},
		{"localhost", "https://localhost/admin", "localhost URLs are not allowed"},
		{"localhost uppercase", "https://LOCALHOST", "localhost URLs are not allowed"},
		{"loopback v4", "https://127.0.0.1", "localhost URLs are not allowed"},
		{"loopback v6", "https://[::1]", "localhost URLs are not allowed"},
		{"dot local", "https://printer.local", "local domain URLs are not allowed"},
		{"dot internal", "https://db.prod.internal", "local domain URLs are not allowed"},
		{"private 10", "https://10.0.0.5", "private IP addresses are not allowed"},
		{"private 192", "https://192.168.1.1", "private IP addresses are not allowed"},
		{"private 172", "https://172.16.0.1", "private IP addresses are not allowed"},
		{"link local", "https://169.254.169.254", "private IP addresses are not allowed"},
		{"cgnat", "https://100.64.0.1", "private IP addresses are not allowed"},
		{"public ip ok", "https://93.184.216.34", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{
		"127.0.0.1", "10.1.2.3", "172.16.0.1", "172.31.255.255",
		"192.168.0.1", "169.254.169.254", "100.64.0.1", "100.127.255.255",
		"::1", "fc00::1", "fd12:3456::1", "fe80::1",
		"::ffff:192.168.1.1", "::ffff:10.0.0.1",
	}
	for _, s := range private {
		ip := net.ParseIP(s)
		require.NotNil(t, ip, s)
		assert.True(t, isPrivateIP(ip), "%s should be private", s)
	}

	public := []string{"8.8.8.8", "93.184.216.34", "2606:4700::1111", "100.128.0.1"}
	for _, s := range public {
		ip := net.ParseIP(s)
		require.NotNil(t, ip, s)
		assert.False(t, isPrivateIP(ip), "%s should be public", s)
	}
}

// roundTripFunc lets tests stand in for the network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubClient(status int, body string) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}
}

const samplePage = `<!DOCTYPE html>
<html><head><title>Brygg &amp; Co</title></head>
<body>
<article>
<h1>Specialty coffee in Stockholm</h1>
<p>We roast our own beans weekly. Our café on Södermalm has served
third-wave coffee since 2019, and our subscription delivers fresh
beans across Sweden every month. Visit us for cuppings every Saturday
morning and meet the roasters behind every batch we ship.</p>
<p>Wholesale inquiries are welcome from restaurants and offices across
the Stockholm region; we offer training, equipment advice and seasonal
single-origin selections to all of our partners.</p>
</article>
</body></html>`

func TestFetchSuccess(t *testing.T) {
	f := NewFetcher(WithClient(stubClient(http.StatusOK, samplePage)))

	text, err := f.Fetch(context.Background(), "https://brygg.example")
	require.NoError(t, err)
	assert.Contains(t, text, "roast our own beans")
}

func TestFetchRejectsInvalidURLBeforeRequest(t *testing.T) {
	called := false
	client := &http.Client{
		Transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
			called = true
			return nil, io.EOF
		}),
	}
	f := NewFetcher(WithClient(client))

	_, err := f.Fetch(context.Background(), "http://internal.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only HTTPS URLs are allowed")
	assert.False(t, called, "blocked URLs must never hit the transport")
}

func TestFetchNonOKStatus(t *testing.T) {
	f := NewFetcher(WithClient(stubClient(http.StatusNotFound, "gone")))

	_, err := f.Fetch(context.Background(), "https://brygg.example/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchOversizedBody(t *testing.T) {
	big := strings.Repeat("a", maxContentSize+10)
	f := NewFetcher(WithClient(stubClient(http.StatusOK, big)))

	_, err := f.Fetch(context.Background(), "https://brygg.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content too large")
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			gotUA = req.Header.Get("User-Agent")
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(samplePage)),
				Header:     make(http.Header),
			}, nil
		}),
	}
	f := NewFetcher(WithClient(client))

	_, err := f.Fetch(context.Background(), "https://brygg.example")
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, gotUA)
}

func TestExtractTextReadablePage(t *testing.T) {
	text, err := ExtractText([]byte(samplePage), "https://brygg.example")
	require.NoError(t, err)
	assert.Contains(t, text, "third-wave coffee")
	assert.NotContains(t, text, "<p>", "no HTML survives extraction")
}

func TestExtractTextSparsePageFallsBack(t *testing.T) {
	// Too little content for readability; the markdown fallback handles it.
	sparse := `<html><head><title>Coming Soon</title></head>
<body><div><a href="/signup">Join the waitlist</a></div></body></html>`

	text, err := ExtractText([]byte(sparse), "https://sparse.example")
	require.NoError(t, err)
	assert.Contains(t, text, "Coming Soon")
	assert.Contains(t, text, "Join the waitlist")
}

func TestExtractTextEmptyPage(t *testing.T) {
	_, err := ExtractText([]byte("<html><body></body></html>"), "https://empty.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no readable content found")
}

func TestExtractTextTruncates(t *testing.T) {
	var sb bytes.Buffer
	sb.WriteString("<html><body><article><h1>Long page</h1>")
	for i := 0; i < 600; i++ {
		sb.WriteString("<p>This paragraph pads the page well past the extraction budget.</p>")
	}
	sb.WriteString("</article></body></html>")

	text, err := ExtractText(sb.Bytes(), "https://long.example")
	require.NoError(t, err)
	runes := []rune(text)
	assert.LessOrEqual(t, len(runes), maxExtractedRunes+1)
	assert.Equal(t, '…', runes[len(runes)-1])
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Brygg & Co", extractTitle([]byte(samplePage)))
	assert.Equal(t, "", extractTitle([]byte("<html><body>no title</body></html>")))
}

func TestCleanMarkdown(t *testing.T) {
	in := "# Title   \n\n\n\n\n\nBody text\t\n"
	out := cleanMarkdown(in)
	assert.Equal(t, "# Title\n\n\nBody text", out)
}
