package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rcliao/compintel/internal/landscape"
	"github.com/rcliao/compintel/internal/model"
	"github.com/rcliao/compintel/internal/store"
)

type addRequest struct {
	Name            string     `json:"name"`
	Website         string     `json:"website"`
	Description     string     `json:"description"`
	Tier            model.Tier `json:"tier"`
	ComparisonNotes string     `json:"comparisonNotes"`
}

type logRequest struct {
	Month           string `json:"month"`
	Summary         string `json:"summary"`
	KeyChanges      string `json:"keyChanges"`
	ComparisonNotes string `json:"comparisonNotes"`
}

type scanResponse struct {
	store.MergeResult
	Overview model.MarketOverview `json:"overview"`
}

type quadrantResponse struct {
	Points []landscape.Point `json:"points"`
	Counts map[string]int    `json:"counts"`
}

// GET /api/competitors?q=&tier=&limit=
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("q") == "" && q.Get("tier") == "" {
		writeJSON(w, http.StatusOK, s.store.List())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Search(store.SearchParams{
		Query: q.Get("q"),
		Tier:  model.Tier(q.Get("tier")),
		Limit: intParam(r, "limit"),
	}))
}

// POST /api/competitors
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.store.Add(r.Context(), store.NewCompetitor{
		Name:            req.Name,
		Website:         req.Website,
		Description:     req.Description,
		Tier:            req.Tier,
		ComparisonNotes: req.ComparisonNotes,
	})
	if err != nil {
		s.internalError(w, "add competitor", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GET /api/competitors/{id}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	c, ok := s.store.Get(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "competitor not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DELETE /api/competitors/{id}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ok, err := s.store.Delete(r.Context(), idParam(r))
	if err != nil {
		s.internalError(w, "delete competitor", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "competitor not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/competitors/{id}/logs
func (s *Server) handleAppendLog(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if _, ok := s.store.Get(id); !ok {
		writeError(w, http.StatusNotFound, "competitor not found")
		return
	}

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := s.store.AppendLog(r.Context(), id, store.LogEntry{
		Month:           req.Month,
		Summary:         req.Summary,
		KeyChanges:      req.KeyChanges,
		ComparisonNotes: req.ComparisonNotes,
	})
	if errors.Is(err, store.ErrInvalidMonth) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, "append log", err)
		return
	}
	if l == nil {
		writeError(w, http.StatusBadRequest, "summary is required")
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// POST /api/competitors/{id}/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w) {
		return
	}
	id := idParam(r)
	c, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "competitor not found")
		return
	}

	dd, err := s.research.ResearchCompetitor(r.Context(), c.Name)
	if err != nil {
		s.remoteError(w, "research competitor", err)
		return
	}
	ok, err = s.store.RefreshResearch(r.Context(), id, *dd)
	if err != nil {
		s.internalError(w, "refresh research", err)
		return
	}
	if !ok {
		// Deleted while the research call was in flight.
		writeError(w, http.StatusNotFound, "competitor not found")
		return
	}
	updated, _ := s.store.Get(id)
	writeJSON(w, http.StatusOK, updated)
}

// GET /api/competitors/{id}/news
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w) {
		return
	}
	c, ok := s.store.Get(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "competitor not found")
		return
	}

	items, err := s.research.FetchNews(r.Context(), c.Name)
	if err != nil {
		s.remoteError(w, "fetch news", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GET /api/competitors/{id}/segments
func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	c, ok := s.store.Get(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "competitor not found")
		return
	}
	overview, _ := s.store.Overview()
	segments := landscape.SegmentOf(overview, c.Name)
	if segments == nil {
		segments = []string{}
	}
	writeJSON(w, http.StatusOK, segments)
}

// POST /api/scan
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w) {
		return
	}
	if !s.scanning.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "a market scan is already running")
		return
	}
	defer s.scanning.Store(false)

	scan, err := s.research.DiscoverMarket(r.Context())
	if err != nil {
		s.remoteError(w, "discover market", err)
		return
	}
	res, err := s.store.ApplyScan(r.Context(), *scan)
	if err != nil {
		s.internalError(w, "apply scan", err)
		return
	}
	overview, _ := s.store.Overview()
	writeJSON(w, http.StatusOK, scanResponse{MergeResult: res, Overview: overview})
}

// GET /api/overview
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, ok := s.store.Overview()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// GET /api/quadrant
func (s *Server) handleQuadrant(w http.ResponseWriter, r *http.Request) {
	points := landscape.Quadrant(s.store.List())
	writeJSON(w, http.StatusOK, quadrantResponse{Points: points, Counts: landscape.Counts(points)})
}

// GET /api/rank?tier=&limit=
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Rank(store.RankParams{
		Tier:  model.Tier(r.URL.Query().Get("tier")),
		Limit: intParam(r, "limit"),
	}))
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context())
	if err != nil {
		s.internalError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) requireResearch(w http.ResponseWriter) bool {
	if s.research == nil {
		writeError(w, http.StatusServiceUnavailable, "research api not configured")
		return false
	}
	return true
}

func (s *Server) remoteError(w http.ResponseWriter, op string, err error) {
	s.logger.Warn(op+" failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, op+": "+err.Error())
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, op+" failed")
}

// idParam returns the unescaped {id}. Scan slugs may contain '/' and other
// characters that arrive percent-encoded.
func idParam(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return id
}

func intParam(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
