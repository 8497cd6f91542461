package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Panel configures one dashboard table or chart.
type Panel struct {
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`
	// Limit is the number of rows shown; for the recency histogram it is
	// the number of bins.
	Limit int `yaml:"limit"`
}

// Panels is the layout of the dashboard page and the report tool.
type Panels struct {
	BestSellers  Panel `yaml:"best_sellers"`
	WorstSellers Panel `yaml:"worst_sellers"`
	Cities       Panel `yaml:"cities"`
	Recency      Panel `yaml:"recency"`
	Frequency    Panel `yaml:"frequency"`
	Monetary     Panel `yaml:"monetary"`
}

func DefaultPanels() Panels {
	return Panels{
		BestSellers: Panel{
			Title:   "Best Performing Product",
			Caption: "Product categories with the most order lines.",
			Limit:   5,
		},
		WorstSellers: Panel{
			Title:   "Worst Performing Product",
			Caption: "Product categories with the fewest order lines.",
			Limit:   5,
		},
		Cities: Panel{
			Title:   "Customer Demographics",
			Caption: "Cities ranked by number of distinct customers.",
			Limit:   10,
		},
		Recency: Panel{
			Title:   "Recency",
			Caption: "Days between each customer's latest approved order and the reference date.",
			Limit:   30,
		},
		Frequency: Panel{
			Title:   "Frequency",
			Caption: "Orders approved per customer in the month before the latest approval.",
			Limit:   20,
		},
		Monetary: Panel{
			Title:   "Monetary",
			Caption: "Total payment value per customer.",
			Limit:   20,
		},
	}
}

// LoadPanels reads a YAML panel file over the defaults. An empty path
// returns the defaults. Fields left out of the file keep their default.
func LoadPanels(path string) (Panels, error) {
	panels := DefaultPanels()
	if path == "" {
		return panels, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return panels, fmt.Errorf("read panels file: %w", err)
	}

	var override Panels
	if err := yaml.Unmarshal(b, &override); err != nil {
		return panels, fmt.Errorf("parse panels file %s: %w", path, err)
	}

	merge(&panels.BestSellers, override.BestSellers)
	merge(&panels.WorstSellers, override.WorstSellers)
	merge(&panels.Cities, override.Cities)
	merge(&panels.Recency, override.Recency)
	merge(&panels.Frequency, override.Frequency)
	merge(&panels.Monetary, override.Monetary)

	if err := panels.Validate(); err != nil {
		return panels, fmt.Errorf("panels file %s: %w", path, err)
	}
	return panels, nil
}

// Validate rejects negative limits.
func (p Panels) Validate() error {
	for name, panel := range map[string]Panel{
		"best_sellers":  p.BestSellers,
		"worst_sellers": p.WorstSellers,
		"cities":        p.Cities,
		"recency":       p.Recency,
		"frequency":     p.Frequency,
		"monetary":      p.Monetary,
	} {
		if panel.Limit < 0 {
			return fmt.Errorf("%s: limit %d must not be negative", name, panel.Limit)
		}
	}
	return nil
}

func merge(dst *Panel, src Panel) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Caption != "" {
		dst.Caption = src.Caption
	}
	if src.Limit != 0 {
		dst.Limit = src.Limit
	}
}
