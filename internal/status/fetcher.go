package status

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/railwatch/railwatch/internal/metrics"
)

const (
	// DefaultTimeout bounds a single status page request.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodyBytes caps how much of a status page is parsed.
	DefaultMaxBodyBytes = 5 << 20
	// DefaultUserAgent is sent with every status page request.
	DefaultUserAgent = "railwatch/0.1"
)

// Options configures a Fetcher. Zero values fall back to the defaults.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Marker       Marker
	MaxBodyBytes int64

	// Client overrides the HTTP client; Timeout is ignored when set.
	Client  *http.Client
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// Fetcher retrieves and classifies status pages. It holds no per-line state
// and never caches, so every call hits the network.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	marker       Marker
	maxBodyBytes int64
	logger       *slog.Logger
	metrics      metrics.Recorder
}

// New creates a Fetcher from opts.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Marker.Tag == "" || opts.Marker.Class == "" {
		opts.Marker = DefaultMarker
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNoop()
	}

	return &Fetcher{
		client:       opts.Client,
		userAgent:    opts.UserAgent,
		marker:       Marker{Tag: strings.ToLower(opts.Marker.Tag), Class: opts.Marker.Class},
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}
}

// Marker returns the element the fetcher looks for.
func (f *Fetcher) Marker() Marker {
	return f.marker
}

// Fetch retrieves statusURL and classifies it for lineName.
// It never returns an error; failures become an OutcomeUnreachable result.
// An empty statusURL yields OutcomeUnconfigured without any request.
func (f *Fetcher) Fetch(ctx context.Context, lineName, statusURL string) Result {
	if statusURL == "" {
		f.metrics.IncStatusFetch(string(OutcomeUnconfigured))
		return unconfigured(lineName)
	}

	start := time.Now()
	res := f.fetch(ctx, lineName, statusURL)
	duration := time.Since(start)

	f.metrics.IncStatusFetch(string(res.Outcome))
	f.metrics.ObserveStatusFetchDuration(duration)

	if res.Outcome == OutcomeUnreachable {
		f.logger.WarnContext(ctx, "status fetch failed",
			slog.String("line", lineName),
			slog.String("url", statusURL),
			slog.String("detail", res.Detail),
			slog.Duration("duration", duration),
		)
	} else {
		f.logger.DebugContext(ctx, "status fetched",
			slog.String("line", lineName),
			slog.String("outcome", string(res.Outcome)),
			slog.Duration("duration", duration),
		)
	}

	return res
}

func (f *Fetcher) fetch(ctx context.Context, lineName, statusURL string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return unexpectedFailure(lineName, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return networkFailure(lineName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return networkFailure(lineName, fmt.Errorf("unexpected status %s", resp.Status))
	}

	// Status pages are often Shift_JIS or EUC-JP. Decode from the declared
	// or sniffed charset before parsing.
	decoded, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return unexpectedFailure(lineName, fmt.Errorf("decode body: %w", err))
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return networkFailure(lineName, fmt.Errorf("read body: %w", err))
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return unexpectedFailure(lineName, fmt.Errorf("parse html: %w", err))
	}

	if el := f.marker.find(doc); el != nil {
		return delayed(lineName, textContent(el))
	}
	return normal(lineName)
}
