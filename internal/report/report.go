// Package report renders the dashboard tables for a terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ecomdash/internal/analytics"
	"ecomdash/internal/config"
	"ecomdash/internal/core"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// section is one titled table of the report.
type section struct {
	panel   config.Panel
	headers []string
	rows    [][]string
}

// Render writes every dashboard panel of rep to w, honouring the panel
// titles, captions and row limits.
func Render(w io.Writer, rep *analytics.Report, panels config.Panels) error {
	if rep == nil {
		return fmt.Errorf("no report to render")
	}

	var b strings.Builder
	b.WriteString(summary(rep))
	for _, s := range sections(rep, panels) {
		b.WriteString("\n")
		b.WriteString(s.render())
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func summary(rep *analytics.Report) string {
	h := analytics.Highlight(rep)
	lines := []string{
		titleStyle.Render("E-Commerce Dashboard"),
		fmt.Sprintf("%d order lines, recency reference %s", rep.Rows, rep.ReferenceDate.Format(config.ReferenceLayout)),
	}
	if rep.Window != nil {
		lines = append(lines, fmt.Sprintf("frequency window %s to %s",
			rep.Window.Start.Format("2006-01-02 15:04:05"), rep.Window.End.Format("2006-01-02 15:04:05")))
	}
	lines = append(lines, fmt.Sprintf("best %s, worst %s, top city %s, %d customers, %d active in window",
		h.BestCategory, h.WorstCategory, h.TopCity, h.Customers, h.ActiveInMonth))
	return strings.Join(lines, "\n") + "\n"
}

func sections(rep *analytics.Report, p config.Panels) []section {
	best := section{panel: p.BestSellers, headers: []string{"Category", "Order lines"}}
	for _, r := range analytics.TopBestSellers(rep.BestSellers, p.BestSellers.Limit) {
		best.rows = append(best.rows, []string{core.Label(r.Product), strconv.Itoa(r.TotalProduct)})
	}

	worst := section{panel: p.WorstSellers, headers: []string{"Category", "Order lines"}}
	for _, r := range analytics.BottomBestSellers(rep.BestSellers, p.WorstSellers.Limit) {
		worst.rows = append(worst.rows, []string{core.Label(r.Product), strconv.Itoa(r.TotalProduct)})
	}

	cities := section{panel: p.Cities, headers: []string{"City", "Customers"}}
	for _, r := range analytics.TopCities(rep.Cities, p.Cities.Limit) {
		cities.rows = append(cities.rows, []string{core.Label(r.City), strconv.Itoa(r.TotalCustomer)})
	}

	recency := section{panel: p.Recency, headers: []string{"Days since last order", "Customers"}}
	for _, bin := range analytics.RecencyHistogram(rep.Recency, p.Recency.Limit) {
		recency.rows = append(recency.rows, []string{
			fmt.Sprintf("%d to %d", bin.Lower, bin.Upper),
			strconv.Itoa(bin.Count),
		})
	}

	frequency := section{panel: p.Frequency, headers: []string{"Customer", "Orders"}}
	for _, r := range analytics.TopFrequency(rep.Frequency, p.Frequency.Limit) {
		frequency.rows = append(frequency.rows, []string{r.CustomerID, strconv.Itoa(r.Count)})
	}

	monetary := section{panel: p.Monetary, headers: []string{"Customer", "Total payment"}}
	for _, r := range analytics.TopMonetary(rep.Monetary, p.Monetary.Limit) {
		monetary.rows = append(monetary.rows, []string{r.CustomerID, r.Total.StringFixed(2)})
	}

	return []section{best, worst, cities, recency, frequency, monetary}
}

func (s section) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.panel.Title))
	b.WriteString("\n")
	if s.panel.Caption != "" {
		b.WriteString(captionStyle.Render(s.panel.Caption))
		b.WriteString("\n")
	}
	if len(s.rows) == 0 {
		b.WriteString(captionStyle.Render("(no rows)"))
		return b.String()
	}

	last := len(s.headers) - 1
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(s.headers...).
		Rows(s.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == last:
				return numberStyle
			default:
				return cellStyle
			}
		})
	b.WriteString(t.Render())
	return b.String()
}
