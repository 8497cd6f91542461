package http

import (
	"net/http"
	"time"

	"ecomdash/internal/analytics"
	"ecomdash/internal/config"
	"ecomdash/internal/core"
	"ecomdash/internal/log"
	"ecomdash/internal/metrics"
)

type summaryResponse struct {
	Rows          int                  `json:"rows"`
	ReferenceDate string               `json:"reference_date"`
	Window        *analytics.Window    `json:"frequency_window"`
	Highlights    analytics.Highlights `json:"highlights"`
}

// loaded reports whether there is a report to serve, answering 503 if not.
func (s *Server) loaded(w http.ResponseWriter, r *http.Request) bool {
	if s.report == nil || s.ds == nil {
		writeError(w, r, http.StatusServiceUnavailable, "dataset not loaded")
		return false
	}
	return true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !s.loaded(w, r) {
		return
	}
	writeJSON(w, r, http.StatusOK, summaryResponse{
		Rows:          s.report.Rows,
		ReferenceDate: s.report.ReferenceDate.Format(config.ReferenceLayout),
		Window:        s.report.Window,
		Highlights:    s.highlights,
	})
}

func (s *Server) handleBestSellers(w http.ResponseWriter, r *http.Request) {
	if !s.loaded(w, r) {
		return
	}
	q := r.URL.Query()
	asc, err := parseOrder(q)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	def := s.panels.BestSellers.Limit
	if asc {
		def = s.panels.WorstSellers.Limit
	}
	limit, err := parseLimit(q, def)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rows := analytics.TopBestSellers(s.report.BestSellers, limit)
	if asc {
		rows = analytics.BottomBestSellers(s.report.BestSellers, limit)
	}
	writeJSON(w, r, http.StatusOK, newTable(s.report.BestSellers, rows))
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	if !s.loaded(w, r) {
		return
	}
	limit, err := parseLimit(r.URL.Query(), s.panels.Cities.Limit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, newTable(s.report.Cities, analytics.TopCities(s.report.Cities, limit)))
}

func (s *Server) handleRecency(w http.ResponseWriter, r *http.Request) {
	if !s.loaded(w, r) {
		return
	}
	q := r.URL.Query()
	limit, err := parseLimit(q, 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rows, ok := s.recencyFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, newTable(rows, analytics.TopRecency(rows, limit)))
}

func (s *Server) handleRecencyHistogram(w http.ResponseWriter, r *http.Request) {
	if !s.loaded(w, r) {
		return
	}
	bins, err := parseBins(r.URL.Query(), s.panels.Recency.Limit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rows, ok := s.recencyFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, analytics.RecencyHistogram(rows, bins))
}

// recencyFor returns the recency table for the request's reference date,
// computing and caching it when it differs from the report's.
func (s *Server) recencyFor(w http.ResponseWriter, r *http.Request) ([]core.Recency, bool) {
	ref, given, err := parseReference(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if !given || ref.Equal(s.report.ReferenceDate) {
		return s.report.Recency, true
	}

	key := ref.Format(config.ReferenceLayout)
	start := time.Now()
	rows, hit, err := s.recencyCache.GetOrLoad(key, func() ([]core.Recency, error) {
		return analytics.ComputeRecency(s.ds, ref)
	})
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Recency computation failed", "error", err, log.FieldReference, key)
		writeError(w, r, http.StatusInternalServerError, "recency computation failed")
		return nil, false
	}
	if hit {
		metrics.CacheHit()
	} else {
		metrics.CacheMiss()
		metrics.ObserveCompute("recency", time.Since(start))
		log.FromContext(r.Context()).DebugContext(r.Context(), "Recency computed", log.FieldReference, key, log.FieldRows, len(rows))
	}
	return rows, true
}

func (s *Server) handleFrequency(w http.ResponseWriter, r *http.Request) {
	if !s.loaded(w, r) {
		return
	}
	limit, err := parseLimit(r.URL.Query(), s.panels.Frequency.Limit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, newTable(s.report.Frequency, analytics.TopFrequency(s.report.Frequency, limit)))
}

func (s *Server) handleMonetary(w http.ResponseWriter, r *http.Request) {
	if !s.loaded(w, r) {
		return
	}
	limit, err := parseLimit(r.URL.Query(), s.panels.Monetary.Limit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, newTable(s.report.Monetary, analytics.TopMonetary(s.report.Monetary, limit)))
}
