// Package knowledge holds the static facts injected into prompts: the
// Swedish business knowledge base, district-level market data for the
// Stockholm region, and global SEO benchmarks. Compiled-in defaults can be
// overlaid from a YAML file, with optional hot reload while the server runs.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// BaseText is the default knowledge base injected into prompts.
const BaseText = `SWEDISH BUSINESS CALCULATIONS:
- Company Registration: Bolagsverket costs approx 2,200 SEK.
- Share Capital: 25,000 SEK required for Aktiebolag (AB).
- Employer Taxes: Social security (arbetsgivaravgifter) is 31.42% of gross salary.
- VAT (Moms): Standard 25%, Food 12%.

OFFICIAL HYPERLINKS:
- Registration: [Bolagsverket](https://www.bolagsverket.se)
- Tax & F-Skatt: [Skatteverket](https://www.skatteverket.se)
- Everything for Startups: [Verksamt](https://www.verksamt.se)`

// DistrictData describes one district's competitive landscape for an industry.
type DistrictData struct {
	District        string `json:"district" yaml:"district"`
	ActiveShops     int    `json:"activeShops" yaml:"active_shops"`
	OpenedLastYear  int    `json:"openedLastYear" yaml:"opened_last_year"`
	ClosedLastYear  int    `json:"closedLastYear" yaml:"closed_last_year"`
	AvgRevenue      string `json:"avgRevenue" yaml:"avg_revenue"`
	SaturationLevel string `json:"saturationLevel" yaml:"saturation_level"`
}

// SEOBenchmark describes ranking difficulty for a global business category.
type SEOBenchmark struct {
	Difficulty           string `json:"difficulty" yaml:"difficulty"`
	AvgBacklinksNeeded   int    `json:"avgBacklinksNeeded" yaml:"avg_backlinks_needed"`
	TopCompetitorTraffic string `json:"topCompetitorTraffic" yaml:"top_competitor_traffic"`
}

// Data is the full knowledge set.
type Data struct {
	Base          string                    `yaml:"base"`
	MarketData    map[string][]DistrictData `yaml:"market_data"`
	SEOBenchmarks map[string]SEOBenchmark   `yaml:"seo_benchmarks"`
}

// Defaults returns the compiled-in knowledge set.
func Defaults() Data {
	return Data{
		Base: BaseText,
		MarketData: map[string][]DistrictData{
			"bakery": {
				{District: "Södermalm", ActiveShops: 45, OpenedLastYear: 8, ClosedLastYear: 6, AvgRevenue: "3.2M SEK", SaturationLevel: "High"},
				{District: "Östermalm", ActiveShops: 32, OpenedLastYear: 2, ClosedLastYear: 1, AvgRevenue: "5.5M SEK", SaturationLevel: "Medium"},
				{District: "Vasastan", ActiveShops: 38, OpenedLastYear: 5, ClosedLastYear: 3, AvgRevenue: "4.1M SEK", SaturationLevel: "High"},
				{District: "Solna", ActiveShops: 12, OpenedLastYear: 4, ClosedLastYear: 0, AvgRevenue: "2.8M SEK", SaturationLevel: "Low"},
			},
			"tattoo": {
				{District: "Södermalm", ActiveShops: 28, OpenedLastYear: 10, ClosedLastYear: 8, AvgRevenue: "1.8M SEK", SaturationLevel: "Oversaturated"},
				{District: "City", ActiveShops: 15, OpenedLastYear: 2, ClosedLastYear: 2, AvgRevenue: "3.5M SEK", SaturationLevel: "Medium"},
				{District: "Bromma", ActiveShops: 3, OpenedLastYear: 1, ClosedLastYear: 0, AvgRevenue: "1.2M SEK", SaturationLevel: "Low"},
			},
			"cafe": {
				{District: "Södermalm", ActiveShops: 120, OpenedLastYear: 25, ClosedLastYear: 20, AvgRevenue: "2.5M SEK", SaturationLevel: "Oversaturated"},
				{District: "Kungsholmen", ActiveShops: 55, OpenedLastYear: 8, ClosedLastYear: 5, AvgRevenue: "3.1M SEK", SaturationLevel: "High"},
			},
		},
		SEOBenchmarks: map[string]SEOBenchmark{
			"saas":      {Difficulty: "Very High", AvgBacklinksNeeded: 200, TopCompetitorTraffic: "500k/mo"},
			"ecommerce": {Difficulty: "High", AvgBacklinksNeeded: 50, TopCompetitorTraffic: "1M/mo"},
			"service":   {Difficulty: "Medium", AvgBacklinksNeeded: 20, TopCompetitorTraffic: "50k/mo"},
		},
	}
}

// Store serves the current knowledge set. Reads are concurrent; Reload
// swaps the whole set atomically.
type Store struct {
	mu   sync.RWMutex
	data Data
	path string
}

// NewStore creates a store with compiled-in defaults, overlaid from path
// when it exists. An empty path uses defaults only.
func NewStore(path string) (*Store, error) {
	s := &Store{data: Defaults(), path: path}
	if path != "" {
		if err := s.Reload(); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return s, nil
}

// Reload re-reads the overlay file and swaps the knowledge set.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	data := Defaults()
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse knowledge file: %w", err)
	}
	if data.Base == "" {
		data.Base = BaseText
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Base returns the knowledge base text for prompt injection.
func (s *Store) Base() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Base
}

// MarketContext renders the market data block for a profile: district data
// for Local businesses (matched on industry keywords, "cafe" as fallback),
// SEO benchmarks otherwise.
func (s *Store) MarketContext(industry, targetRegion string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if targetRegion == "Local" {
		key := "cafe"
		lowered := strings.ToLower(industry)
		for k := range s.data.MarketData {
			if strings.Contains(lowered, k) {
				key = k
				break
			}
		}
		encoded, err := json.Marshal(s.data.MarketData[key])
		if err != nil {
			return ""
		}
		return fmt.Sprintf("LOCAL MARKET DATA (Stockholm): %s", encoded)
	}

	encoded, err := json.Marshal(s.data.SEOBenchmarks)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("SEO BENCHMARKS: %s", encoded)
}
