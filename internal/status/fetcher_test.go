package status

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railwatch/railwatch/internal/metrics"
)

const troublePage = `<!DOCTYPE html>
<html><body>
<dl class="status">
  <dt>Yokosuka Line</dt>
  <dd class="info">See details below</dd>
  <dd class="trouble">
    15-minute delay
  </dd>
</dl>
</body></html>`

const normalPage = `<!DOCTYPE html>
<html><body>
<dl class="status">
  <dt>Yokosuka Line</dt>
  <dd class="normal">Operating normally</dd>
  <div class="trouble">not a dd</div>
</dl>
</body></html>`

func serveHTML(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Delayed(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, troublePage)
	rec := metrics.NewInMemory()
	f := New(Options{Metrics: rec})

	res := f.Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeDelayed, res.Outcome)
	assert.Equal(t, "Yokosuka Line is delayed", res.Message)
	assert.Equal(t, "15-minute delay", res.Detail)
	assert.Equal(t, uint64(1), rec.Snapshot().FetchDelayed)
	assert.Equal(t, uint64(1), rec.Snapshot().FetchDurationCount)
}

func TestFetch_Normal(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, normalPage)
	f := New(Options{})

	res := f.Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeNormal, res.Outcome)
	assert.Equal(t, "Yokosuka Line is operating normally", res.Message)
	assert.False(t, res.HasDetail())
}

func TestFetch_FirstMarkerWins(t *testing.T) {
	page := `<dd class="trouble">first</dd><dd class="trouble">second</dd>`
	srv := serveHTML(t, http.StatusOK, page)

	res := New(Options{}).Fetch(context.Background(), "Keihin-Tohoku Line", srv.URL)

	assert.Equal(t, "first", res.Detail)
}

func TestFetch_MarkerWithExtraClasses(t *testing.T) {
	page := `<dl><dd class="status trouble red">Suspended</dd></dl>`
	srv := serveHTML(t, http.StatusOK, page)

	res := New(Options{}).Fetch(context.Background(), "Chuo Line", srv.URL)

	assert.Equal(t, OutcomeDelayed, res.Outcome)
	assert.Equal(t, "Suspended", res.Detail)
}

func TestFetch_NestedMarkerText(t *testing.T) {
	page := `<dl><dd class="trouble">
	  <span> Delay </span>
	  <em>approx. 20 min</em>
	  <!-- internal note -->
	</dd></dl>`
	srv := serveHTML(t, http.StatusOK, page)

	res := New(Options{}).Fetch(context.Background(), "Chuo Line", srv.URL)

	assert.Equal(t, "Delayapprox. 20 min", res.Detail)
}

func TestFetch_CustomMarker(t *testing.T) {
	page := `<ul><li class="alert">Signal failure</li></ul><dd class="trouble">ignored</dd>`
	srv := serveHTML(t, http.StatusOK, page)

	f := New(Options{Marker: Marker{Tag: "LI", Class: "alert"}})
	res := f.Fetch(context.Background(), "Tokaido Line", srv.URL)

	assert.Equal(t, OutcomeDelayed, res.Outcome)
	assert.Equal(t, "Signal failure", res.Detail)
}

func TestFetch_ServerError(t *testing.T) {
	srv := serveHTML(t, http.StatusServiceUnavailable, troublePage)
	rec := metrics.NewInMemory()

	res := New(Options{Metrics: rec}).Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeUnreachable, res.Outcome)
	assert.Equal(t, "Yokosuka Line could not be retrieved", res.Message)
	assert.True(t, strings.HasPrefix(res.Detail, "network error: "), res.Detail)
	assert.Contains(t, res.Detail, "503")
	assert.Equal(t, uint64(1), rec.Snapshot().FetchUnreachable)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	// Grab a free port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	res := New(Options{}).Fetch(context.Background(), "Yokosuka Line", "http://"+addr+"/status")

	assert.Equal(t, OutcomeUnreachable, res.Outcome)
	assert.Equal(t, "Yokosuka Line could not be retrieved", res.Message)
	assert.NotEmpty(t, res.Detail)
	assert.True(t, strings.HasPrefix(res.Detail, "network error: "), res.Detail)
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f := New(Options{Timeout: 50 * time.Millisecond})

	start := time.Now()
	res := f.Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeUnreachable, res.Outcome)
	assert.NotEmpty(t, res.Detail)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFetch_MalformedURL(t *testing.T) {
	res := New(Options{}).Fetch(context.Background(), "Yokosuka Line", "http://[::1")

	assert.Equal(t, OutcomeUnreachable, res.Outcome)
	assert.Equal(t, "Yokosuka Line could not be retrieved", res.Message)
	assert.True(t, strings.HasPrefix(res.Detail, "unexpected error: "), res.Detail)
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	res := New(Options{}).Fetch(context.Background(), "Yokosuka Line", "ftp://example.com/status")

	assert.Equal(t, OutcomeUnreachable, res.Outcome)
	assert.NotEmpty(t, res.Detail)
}

func TestFetch_NoURL(t *testing.T) {
	rec := metrics.NewInMemory()

	res := New(Options{Metrics: rec}).Fetch(context.Background(), "Yokosuka Line", "")

	assert.Equal(t, OutcomeUnconfigured, res.Outcome)
	assert.Equal(t, "Yokosuka Line has no status source configured", res.Message)
	assert.False(t, res.HasDetail())
	assert.Equal(t, uint64(1), rec.Snapshot().FetchUnconfigured)
	assert.Zero(t, rec.Snapshot().FetchDurationCount)
}

func TestFetch_FollowsRedirects(t *testing.T) {
	target := serveHTML(t, http.StatusOK, troublePage)
	redirect := httptest.NewServer(http.RedirectHandler(target.URL, http.StatusFound))
	t.Cleanup(redirect.Close)

	res := New(Options{}).Fetch(context.Background(), "Yokosuka Line", redirect.URL)

	assert.Equal(t, OutcomeDelayed, res.Outcome)
}

func TestFetch_SendsUserAgent(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.UserAgent()
		_, _ = w.Write([]byte(normalPage))
	}))
	t.Cleanup(srv.Close)

	New(Options{UserAgent: "railwatch-test/1.0"}).Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, "railwatch-test/1.0", <-got)
}

func TestFetch_BodyCap(t *testing.T) {
	// The marker sits past the cap and must not be seen.
	page := "<html><body>" + strings.Repeat("<p>filler</p>", 200) + `<dd class="trouble">late</dd></body></html>`
	srv := serveHTML(t, http.StatusOK, page)

	res := New(Options{MaxBodyBytes: 256}).Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeNormal, res.Outcome)
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, troublePage)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(Options{}).Fetch(ctx, "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeUnreachable, res.Outcome)
	assert.True(t, strings.HasPrefix(res.Detail, "network error: "), res.Detail)
}

func serveBytes(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// "遅延" in the legacy Japanese encodings.
var (
	delayShiftJIS = []byte{0x92, 0x78, 0x89, 0x84}
	delayEUCJP    = []byte{0xc3, 0xd9, 0xb1, 0xe4}
)

func TestFetch_ShiftJISFromHeader(t *testing.T) {
	page := append([]byte(`<html><body><dd class="trouble">`), delayShiftJIS...)
	page = append(page, []byte(`</dd></body></html>`)...)
	srv := serveBytes(t, "text/html; charset=Shift_JIS", page)

	res := New(Options{}).Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeDelayed, res.Outcome)
	assert.Equal(t, "遅延", res.Detail)
}

func TestFetch_EUCJPFromMetaTag(t *testing.T) {
	page := append([]byte(`<html><head><meta charset="EUC-JP"></head><body><dd class="trouble">`), delayEUCJP...)
	page = append(page, []byte(`</dd></body></html>`)...)
	srv := serveBytes(t, "text/html", page)

	res := New(Options{}).Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, OutcomeDelayed, res.Outcome)
	assert.Equal(t, "遅延", res.Detail)
}

func TestFetch_UTF8Unchanged(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, `<html><body><dd class="trouble">遅延</dd></body></html>`)

	res := New(Options{}).Fetch(context.Background(), "Yokosuka Line", srv.URL)

	assert.Equal(t, "遅延", res.Detail)
}
