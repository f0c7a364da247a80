// Package research performs AI-backed market research for a business idea.
package research

import (
	"context"
	"strings"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/normalize"
	"github.com/robin-app/ideation/prompts"
)

// MarketSummary is the market overview section.
type MarketSummary struct {
	Overview            string   `json:"overview"`
	EstimatedMarketSize string   `json:"estimatedMarketSize"`
	GrowthTrend         string   `json:"growthTrend"`
	KeyInsights         []string `json:"keyInsights"`
}

// Competitor is one identified competitor.
type Competitor struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Strengths           []string `json:"strengths"`
	EstimatedPriceRange string   `json:"estimatedPriceRange"`
}

// TargetAudience describes the primary customer segment.
type TargetAudience struct {
	PrimarySegment string   `json:"primarySegment"`
	Demographics   string   `json:"demographics"`
	PainPoints     []string `json:"painPoints"`
	BuyingBehavior string   `json:"buyingBehavior"`
}

// ViabilityScore holds the five 1-10 sub-scores and their reasoning.
type ViabilityScore struct {
	Overall              int    `json:"overall"`
	DemandLevel          int    `json:"demandLevel"`
	CompetitionIntensity int    `json:"competitionIntensity"`
	BarrierToEntry       int    `json:"barrierToEntry"`
	ProfitPotential      int    `json:"profitPotential"`
	Reasoning            string `json:"reasoning"`
}

// PricingBenchmark is the observed price range in local currency.
type PricingBenchmark struct {
	Low      string `json:"low"`
	Median   string `json:"median"`
	High     string `json:"high"`
	Currency string `json:"currency"`
}

// MarketResearch is the normalized result returned to the caller.
type MarketResearch struct {
	MarketSummary        MarketSummary    `json:"marketSummary"`
	KeyCompetitors       []Competitor     `json:"keyCompetitors"`
	TargetAudience       TargetAudience   `json:"targetAudience"`
	MarketViabilityScore ViabilityScore   `json:"marketViabilityScore"`
	PricingBenchmark     PricingBenchmark `json:"pricingBenchmark"`
	Opportunities        []string         `json:"opportunities"`
	Risks                []string         `json:"risks"`
	Recommendations      []string         `json:"recommendations"`
}

// Schema declares the target shape, with the alias table accumulated from
// observed model drift. Kept in lockstep with prompts.ResearchSystemPrompt.
var Schema = &normalize.Schema{Sections: []normalize.Field{
	{
		Name: "marketSummary", Kind: normalize.Object, Required: true,
		ScalarField: "overview",
		Fields: []normalize.Field{
			{Name: "overview", Aliases: []string{"summary"}, Kind: normalize.String, Default: "No overview available"},
			{Name: "estimatedMarketSize", Aliases: []string{"marketSize", "size"}, Kind: normalize.String, Default: "Unknown"},
			{Name: "growthTrend", Kind: normalize.Enum, Values: []string{"growing", "stable", "declining"}, Default: "stable"},
			{Name: "keyInsights", Aliases: []string{"insights", "key_insights"}, Kind: normalize.StringArray, Fallback: []string{"No insights available"}, MaxItems: 5},
		},
	},
	{
		Name: "keyCompetitors", Aliases: []string{"competitors", "key_competitors"}, Kind: normalize.ObjectArray, Required: true, MaxItems: 5,
		Fields: []normalize.Field{
			{Name: "name", Kind: normalize.String, Default: "Unknown competitor"},
			{Name: "description", Aliases: []string{"about", "summary"}, Kind: normalize.String, Default: "No description"},
			{Name: "strengths", Aliases: []string{"advantages"}, Kind: normalize.StringArray},
			{Name: "estimatedPriceRange", Aliases: []string{"priceRange", "pricing", "price_range"}, Kind: normalize.String, Default: "Unknown"},
		},
	},
	{
		Name: "targetAudience", Aliases: []string{"target_audience"}, Kind: normalize.Object, Required: true,
		Fields: []normalize.Field{
			{Name: "primarySegment", Aliases: []string{"primary", "primary_segment", "segment"}, Kind: normalize.String, Default: "General consumers"},
			{Name: "demographics", Aliases: []string{"characteristics", "demographic"}, Kind: normalize.String, Default: "Unknown"},
			{Name: "painPoints", Aliases: []string{"pain_points", "challenges"}, Kind: normalize.StringArray},
			{Name: "buyingBehavior", Aliases: []string{"buying_behavior", "behavior"}, Kind: normalize.String, Default: "Unknown"},
		},
	},
	{
		Name: "marketViabilityScore", Aliases: []string{"viabilityScore", "viability"}, Kind: normalize.Object, Required: true,
		ScalarField: "overall",
		Fields: []normalize.Field{
			normalize.Score("overall", "score", "total"),
			normalize.Score("demandLevel", "demand", "demand_level"),
			normalize.Score("competitionIntensity", "competition", "competition_intensity"),
			normalize.Score("barrierToEntry", "barriers", "barrier_to_entry"),
			normalize.Score("profitPotential", "profit", "profit_potential"),
			{Name: "reasoning", Aliases: []string{"explanation"}, Kind: normalize.String, Default: "No reasoning provided"},
		},
	},
	{
		Name: "pricingBenchmark", Aliases: []string{"pricing", "pricing_benchmark"}, Kind: normalize.Object, Required: true,
		Fields: []normalize.Field{
			{Name: "low", Aliases: []string{"min", "minimum"}, Kind: normalize.String, Default: "Unknown"},
			{Name: "median", Aliases: []string{"mid", "average", "recommendedRange"}, Kind: normalize.String, Default: "Unknown"},
			{Name: "high", Aliases: []string{"max", "maximum"}, Kind: normalize.String, Default: "Unknown"},
			{Name: "currency", Kind: normalize.String, Default: "SEK"},
		},
	},
	{Name: "opportunities", Aliases: []string{"opportunity"}, Kind: normalize.StringArray, Fallback: []string{"No data available"}, MaxItems: 5},
	{Name: "risks", Aliases: []string{"risk", "threats"}, Kind: normalize.StringArray, Fallback: []string{"No data available"}, MaxItems: 5},
	{Name: "recommendations", Aliases: []string{"recommendation", "suggestions"}, Kind: normalize.StringArray, Fallback: []string{"No data available"}, MaxItems: 5},
}}

func spec() advisor.Spec[MarketResearch] {
	return advisor.Spec[MarketResearch]{
		Name:             "market-research",
		SystemPrompt:     prompts.ResearchSystemPrompt(),
		CorrectivePrompt: prompts.ResearchCorrectivePrompt(),
		Temperature:      0.3,
		MaxTokens:        2048,
		Schema:           Schema,
	}
}

// Service performs market research calls.
type Service struct {
	engine *advisor.Engine
}

// NewService creates a market research service over the engine.
func NewService(engine *advisor.Engine) *Service {
	return &Service{engine: engine}
}

// Perform runs market research for a business description.
func (s *Service) Perform(ctx context.Context, businessDescription string) advisor.Outcome[MarketResearch] {
	if strings.TrimSpace(businessDescription) == "" {
		return advisor.Fail[MarketResearch]("Business description cannot be empty")
	}

	return advisor.Run(ctx, s.engine, spec(), prompts.ResearchUserPrompt(businessDescription))
}
