package http

import (
	"html/template"
	"net/http"
	"strconv"

	"ecomdash/internal/analytics"
	"ecomdash/internal/config"
	"ecomdash/internal/core"
	"ecomdash/internal/log"
)

var templateFuncs = template.FuncMap{
	"label": core.Label,
	"money": func(m core.Money) string { return m.StringFixed(2) },
}

// chartSeries feeds one Chart.js chart.
type chartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type chartData struct {
	BestSellers  chartSeries `json:"best_sellers"`
	WorstSellers chartSeries `json:"worst_sellers"`
	Cities       chartSeries `json:"cities"`
	Recency      chartSeries `json:"recency"`
	Frequency    chartSeries `json:"frequency"`
	Monetary     chartSeries `json:"monetary"`
}

type dashboardView struct {
	Panels     config.Panels
	Highlights analytics.Highlights
	Rows       int
	Reference  string
	// WindowStart and WindowEnd are empty when nothing was approved.
	WindowStart string
	WindowEnd   string

	BestSellers  []core.BestSeller
	WorstSellers []core.BestSeller
	Cities       []core.CityCustomers
	Histogram    []analytics.Bin
	Frequency    []core.Frequency
	Monetary     []core.Monetary

	Charts chartData
}

func (s *Server) dashboard() dashboardView {
	p := s.panels
	rep := s.report
	v := dashboardView{
		Panels:       p,
		Highlights:   s.highlights,
		Rows:         rep.Rows,
		Reference:    rep.ReferenceDate.Format(config.ReferenceLayout),
		BestSellers:  analytics.TopBestSellers(rep.BestSellers, p.BestSellers.Limit),
		WorstSellers: analytics.BottomBestSellers(rep.BestSellers, p.WorstSellers.Limit),
		Cities:       analytics.TopCities(rep.Cities, p.Cities.Limit),
		Histogram:    analytics.RecencyHistogram(rep.Recency, p.Recency.Limit),
		Frequency:    analytics.TopFrequency(rep.Frequency, p.Frequency.Limit),
		Monetary:     analytics.TopMonetary(rep.Monetary, p.Monetary.Limit),
	}
	if rep.Window != nil {
		v.WindowStart = rep.Window.Start.Format("2006-01-02 15:04:05")
		v.WindowEnd = rep.Window.End.Format("2006-01-02 15:04:05")
	}

	for _, b := range v.BestSellers {
		v.Charts.BestSellers.add(core.Label(b.Product), float64(b.TotalProduct))
	}
	for _, b := range v.WorstSellers {
		v.Charts.WorstSellers.add(core.Label(b.Product), float64(b.TotalProduct))
	}
	for _, c := range v.Cities {
		v.Charts.Cities.add(core.Label(c.City), float64(c.TotalCustomer))
	}
	for _, b := range v.Histogram {
		v.Charts.Recency.add(strconv.Itoa(b.Lower), float64(b.Count))
	}
	for _, f := range v.Frequency {
		v.Charts.Frequency.add(f.CustomerID, float64(f.Count))
	}
	for _, m := range v.Monetary {
		v.Charts.Monetary.add(m.CustomerID, m.Total.Float())
	}
	return v
}

func (c *chartSeries) add(label string, value float64) {
	c.Labels = append(c.Labels, label)
	c.Values = append(c.Values, value)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if s.report == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", s.dashboard()); err != nil {
		logger.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err, "template", "dashboard.html")
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}
