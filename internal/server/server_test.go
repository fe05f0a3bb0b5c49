package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/store"
)

type fakeResearcher struct {
	scan    *model.MarketScan
	dive    *model.DeepDive
	news    []model.NewsItem
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeResearcher) DiscoverMarket(ctx context.Context) (*model.MarketScan, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.scan, f.err
}

func (f *fakeResearcher) ResearchCompetitor(ctx context.Context, name string) (*model.DeepDive, error) {
	return f.dive, f.err
}

func (f *fakeResearcher) FetchNews(ctx context.Context, name string) ([]model.NewsItem, error) {
	return f.news, f.err
}

func newTestServer(t *testing.T, rs Researcher) (*Server, *store.CompetitorStore) {
	t.Helper()
	st := store.New(store.NewMemoryBackend(), store.WithClock(func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	}))
	return New(st, rs, nil), st
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCompetitorLifecycle(t *testing.T) {
	s, st := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/competitors",
		`{"name": "Coupa", "tier": "Tier 1", "comparisonNotes": "Broader suite"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Competitor](t, rec)
	assert.Equal(t, "Coupa", created.Name)
	require.Len(t, created.Logs, 1)

	rec = do(t, s, http.MethodGet, "/api/competitors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Competitor](t, rec), 1)

	rec = do(t, s, http.MethodGet, "/api/competitors/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[model.Competitor](t, rec).ID)

	rec = do(t, s, http.MethodPost, "/api/competitors/"+created.ID+"/logs",
		`{"month": "2025-02", "summary": "Launched copilot", "keyChanges": "AI\n\nPricing"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	l := decode[model.AnalysisLog](t, rec)
	assert.Equal(t, []string{"AI", "Pricing"}, l.KeyChanges)

	c, _ := st.Get(created.ID)
	assert.Len(t, c.Logs, 2)

	rec = do(t, s, http.MethodDelete, "/api/competitors/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, st.Len())
}

func TestStatusCodes(t *testing.T) {
	s, st := newTestServer(t, nil)
	c, err := st.Add(context.Background(), store.NewCompetitor{Name: "Zip"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"add without name", http.MethodPost, "/api/competitors", `{"name": "  "}`, http.StatusBadRequest},
		{"add bad json", http.MethodPost, "/api/competitors", `{`, http.StatusBadRequest},
		{"get unknown", http.MethodGet, "/api/competitors/nope", "", http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/competitors/nope", "", http.StatusNotFound},
		{"log unknown", http.MethodPost, "/api/competitors/nope/logs", `{"summary": "x"}`, http.StatusNotFound},
		{"log empty summary", http.MethodPost, "/api/competitors/" + c.ID + "/logs", `{"summary": ""}`, http.StatusBadRequest},
		{"log bad month", http.MethodPost, "/api/competitors/" + c.ID + "/logs", `{"summary": "x", "month": "2025-13"}`, http.StatusBadRequest},
		{"overview before scan", http.MethodGet, "/api/overview", "", http.StatusNoContent},
		{"scan without research", http.MethodPost, "/api/scan", "", http.StatusServiceUnavailable},
		{"refresh without research", http.MethodPost, "/api/competitors/" + c.ID + "/refresh", "", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, 1, st.Len())
}

func TestScan(t *testing.T) {
	rs := &fakeResearcher{scan: &model.MarketScan{
		Summary:  "Consolidating",
		Segments: []model.MarketSegment{{Name: "Suites", Companies: []string{"Coupa"}}},
		Competitors: []model.DiscoveredCompetitor{
			{Name: "Coupa", Tier: model.TierOne, MarketPresence: model.Score(85)},
		},
	}}
	s, st := newTestServer(t, rs)

	rec := do(t, s, http.MethodPost, "/api/scan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[scanResponse](t, rec)
	assert.Equal(t, 1, got.Added)
	assert.Equal(t, "Consolidating", got.Overview.Summary)

	c, ok := st.Get("coupa")
	require.True(t, ok)
	assert.Equal(t, 85, *c.MarketPresence)

	rec = do(t, s, http.MethodGet, "/api/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Coupa"}, decode[model.MarketOverview](t, rec).Competitors)

	rec = do(t, s, http.MethodGet, "/api/competitors/coupa/segments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Suites"}, decode[[]string](t, rec))

	rec = do(t, s, http.MethodGet, "/api/quadrant", "")
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[quadrantResponse](t, rec)
	require.Len(t, q.Points, 1)
	assert.Equal(t, "Leaders", q.Points[0].Quadrant)
}

func TestScanConflict(t *testing.T) {
	rs := &fakeResearcher{
		scan:    &model.MarketScan{},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	s, _ := newTestServer(t, rs)

	done := make(chan int)
	go func() {
		done <- do(t, s, http.MethodPost, "/api/scan", "").Code
	}()
	<-rs.started

	rec := do(t, s, http.MethodPost, "/api/scan", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(rs.block)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestRemoteFailureLeavesStoreUnchanged(t *testing.T) {
	rs := &fakeResearcher{err: errors.New("upstream down")}
	s, st := newTestServer(t, rs)
	c, err := st.Add(context.Background(), store.NewCompetitor{Name: "Zip", ComparisonNotes: "n"})
	require.NoError(t, err)
	before := st.List()

	for _, path := range []string{"/api/scan", "/api/competitors/" + c.ID + "/refresh"} {
		rec := do(t, s, http.MethodPost, path, "")
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
	}
	rec := do(t, s, http.MethodGet, "/api/competitors/"+c.ID+"/news", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	assert.Equal(t, before, st.List())
	_, ok := st.Overview()
	assert.False(t, ok)
}

func TestRefresh(t *testing.T) {
	rs := &fakeResearcher{dive: &model.DeepDive{
		DiscoveredCompetitor: model.DiscoveredCompetitor{Tier: model.TierTwo, ComparisonNotes: "updated"},
		ThreatLevel:          model.ThreatHigh,
		KillPoints:           []string{"No AP"},
	}}
	s, st := newTestServer(t, rs)
	c, err := st.Add(context.Background(), store.NewCompetitor{Name: "Zip", ComparisonNotes: "seed"})
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/api/competitors/"+c.ID+"/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Competitor](t, rec)
	assert.Equal(t, model.ThreatHigh, got.ThreatLevel)
	assert.Equal(t, model.TierTwo, got.Tier)
	assert.Equal(t, "updated", got.Logs[0].ComparisonNotes)
}

func TestNews(t *testing.T) {
	rs := &fakeResearcher{news: []model.NewsItem{{ID: "n1", Title: "Zip raises"}}}
	s, st := newTestServer(t, rs)
	c, err := st.Add(context.Background(), store.NewCompetitor{Name: "Zip"})
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/competitors/"+c.ID+"/news", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rs.news, decode[[]model.NewsItem](t, rec))

	rec = do(t, s, http.MethodGet, "/api/competitors/nope/news", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchRankStats(t *testing.T) {
	s, st := newTestServer(t, nil)
	ctx := context.Background()
	_, err := st.Add(ctx, store.NewCompetitor{Name: "Coupa", Description: "Spend suite"})
	require.NoError(t, err)
	_, err = st.Add(ctx, store.NewCompetitor{Name: "Zip", Tier: model.TierTwo})
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/competitors?q=spend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]model.Competitor](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Coupa", found[0].Name)

	rec = do(t, s, http.MethodGet, "/api/rank?tier=Tier%202", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ranked := decode[[]store.RankedCompetitor](t, rec)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Zip", ranked[0].Name)

	rec = do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[store.Stats](t, rec).TotalCompetitors)
}

func TestEscapedIDs(t *testing.T) {
	s, st := newTestServer(t, nil)
	ctx := context.Background()
	_, err := st.MergeScanResults(ctx, []model.DiscoveredCompetitor{{Name: "A/B Procure"}})
	require.NoError(t, err)
	_, ok := st.Get("a/b-procure")
	require.True(t, ok)

	rec := do(t, s, http.MethodGet, "/api/competitors/a%2Fb-procure", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "A/B Procure", decode[model.Competitor](t, rec).Name)

	rec = do(t, s, http.MethodPost, "/api/competitors/a%2Fb-procure/logs", `{"summary": "Raised prices"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodDelete, "/api/competitors/a%2Fb-procure", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, st.Len())
}
