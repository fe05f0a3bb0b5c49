// Package research is a client for the remote market research API.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/compintel/internal/model"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 60 * time.Second

const defaultConcurrency = 4

// ErrStatus matches any *StatusError with errors.Is.
var ErrStatus = errors.New("research api error")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("research api error %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Client talks to the research API.
type Client struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	logger      *zap.Logger
	concurrency int
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithConcurrency bounds FetchNewsAll fan-out.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: DefaultTimeout},
		logger:      zap.NewNop(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DiscoverMarket runs a market scan.
func (c *Client) DiscoverMarket(ctx context.Context) (*model.MarketScan, error) {
	var resp discoverResponse
	if err := c.do(ctx, http.MethodGet, "/neil/discover", nil, &resp); err != nil {
		return nil, fmt.Errorf("discover market: %w", err)
	}

	scan := &model.MarketScan{
		Summary:     resp.MarketSummary,
		Trends:      resp.Trends,
		Segments:    resp.Segments,
		Competitors: make([]model.DiscoveredCompetitor, 0, len(resp.Competitors)),
	}
	for _, wc := range resp.Competitors {
		scan.Competitors = append(scan.Competitors, wc.toModel())
	}
	c.logger.Debug("market discovered", zap.Int("competitors", len(scan.Competitors)))
	return scan, nil
}

// ResearchCompetitor runs a deep dive on one competitor.
func (c *Client) ResearchCompetitor(ctx context.Context, name string) (*model.DeepDive, error) {
	var resp wireDeepDive
	if err := c.do(ctx, http.MethodPost, "/neil/research", researchRequest{CompetitorName: name}, &resp); err != nil {
		return nil, fmt.Errorf("research %s: %w", name, err)
	}
	dd := resp.toModel()
	c.logger.Debug("competitor researched", zap.String("name", name), zap.String("threat", string(dd.ThreatLevel)))
	return &dd, nil
}

// FetchNews returns recent headlines about name.
func (c *Client) FetchNews(ctx context.Context, name string) ([]model.NewsItem, error) {
	var resp newsResponse
	if err := c.do(ctx, http.MethodGet, "/neil/news/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch news %s: %w", name, err)
	}

	items := make([]model.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		items = append(items, n)
	}
	return items, nil
}

// FetchNewsAll fetches news for every name concurrently. The first failure
// cancels the rest.
func (c *Client) FetchNewsAll(ctx context.Context, names []string) (map[string][]model.NewsItem, error) {
	var mu sync.Mutex
	out := make(map[string][]model.NewsItem, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, name := range names {
		name := name
		g.Go(func() error {
			items, err := c.FetchNews(ctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = items
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("research api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
