package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<p>hello</p>"))
	}))
	defer srv.Close()

	body, err := NewFetcher(WithFetchClient(srv.Client())).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", body)
	assert.Equal(t, "Mozilla/5.0 (VC-Scout Enricher)", gotUA)
}

func TestFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetcher(WithFetchClient(srv.Client())).Fetch(context.Background(), srv.URL)
	var fetchErr *UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Error(), "404")
}

func TestFetcherCapsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	body, err := NewFetcher(WithFetchClient(srv.Client()), WithMaxFetchBytes(10)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 10)
}

func TestFetcherBlocksPrivateTargets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request should not reach a loopback server")
	}))
	defer srv.Close()

	_, err := NewFetcher(WithPrivateTargetsBlocked(true)).Fetch(context.Background(), srv.URL)
	var fetchErr *UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Error(), "not allowed")
}

func TestIsBlockedAddr(t *testing.T) {
	blocked := []string{"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.1.1", "169.254.169.254", "::1", "fe80::1", "fc00::1", "0.0.0.0", "::ffff:127.0.0.1"}
	for _, raw := range blocked {
		assert.True(t, isBlockedAddr(netip.MustParseAddr(raw)), raw)
	}
	for _, raw := range []string{"8.8.8.8", "2606:4700:4700::1111"} {
		assert.False(t, isBlockedAddr(netip.MustParseAddr(raw)), raw)
	}
}
