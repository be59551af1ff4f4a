// Package server exposes the opportunity listing endpoint the TUI browses.
// The query contract is the filter package's canonical encoding, so a shared
// address pasted into curl returns the same page the browser shows.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/listing"
	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/store"
)

const (
	facetsCacheKey = "facets"
	statsCacheKey  = "stats"
	cacheTTL       = time.Minute
)

// ScanFunc triggers a source scan. The server fires it and forgets it.
type ScanFunc func(ctx context.Context) error

type Server struct {
	store *store.Store
	log   *logrus.Logger
	cache *gocache.Cache
	scan  ScanFunc
}

func New(st *store.Store, log *logrus.Logger, scan ScanFunc) *Server {
	return &Server{
		store: st,
		log:   log,
		cache: gocache.New(cacheTTL, 5*time.Minute),
		scan:  scan,
	}
}

// Handler builds the full chain: routes, request logging, permissive CORS so
// shared addresses also work from web clients.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/opportunities", s.handleList)
	mux.HandleFunc("/api/opportunities/", s.handleGet)
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/healthz", s.handleHealth)

	return cors.Default().Handler(s.logging(mux))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	// Malformed parameters degrade to defaults; a listing request never 400s.
	st := filter.Decode(r.URL.Query())

	page, err := s.store.Query(st, st.Page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page.Facets, err = s.facets()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page.Stats, err = s.stats()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/opportunities/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	opp, err := s.store.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

// handleScan queues a scan and immediately returns 202. There is no job
// status endpoint; callers refetch the listing when they care.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if s.scan == nil {
		http.Error(w, "scanning not configured", http.StatusServiceUnavailable)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.scan(ctx); err != nil {
			s.log.WithError(err).Error("triggered scan failed")
			return
		}
		// Aggregates changed; let the next request recompute them.
		s.cache.Delete(facetsCacheKey)
		s.cache.Delete(statsCacheKey)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// facets and stats are collection-wide and independent of the filters, so a
// short cache keeps list requests from paying six GROUP BYs each.
func (s *Server) facets() (map[string][]listing.FacetOption, error) {
	if cached, ok := s.cache.Get(facetsCacheKey); ok {
		return cached.(map[string][]listing.FacetOption), nil
	}
	facets, err := s.store.Facets()
	if err != nil {
		return nil, err
	}
	s.cache.Set(facetsCacheKey, facets, gocache.DefaultExpiration)
	return facets, nil
}

func (s *Server) stats() (*listing.Stats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(*listing.Stats), nil
	}
	stats, err := s.store.Stats()
	if err != nil {
		return nil, err
	}
	s.cache.Set(statsCacheKey, stats, gocache.DefaultExpiration)
	return stats, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).WithError(err).Error("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(started).Round(time.Microsecond),
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
