// Package analysis produces the combined strategic analysis: market
// intelligence, legal structure recommendation, setup checklist and
// financial feasibility, grounded in local market data and, when the
// founder has a website, its fetched content.
package analysis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/advisor/profile"
	"github.com/robin-app/ideation/knowledge"
	"github.com/robin-app/ideation/normalize"
	"github.com/robin-app/ideation/prompts"
)

// Fetcher retrieves readable text for a URL. A nil Fetcher disables
// website context entirely.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Metric is one labeled market indicator with a direction.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Trend string `json:"trend"`
}

// StrategicPivot suggests a nearby location when viability is weak.
type StrategicPivot struct {
	SuggestedLocation string `json:"suggestedLocation"`
	Reasoning         string `json:"reasoning"`
}

// MarketIntelligence is the market half of the analysis.
type MarketIntelligence struct {
	Type                    string          `json:"type"`
	Summary                 string          `json:"summary"`
	Metrics                 []Metric        `json:"metrics"`
	TopCompetitors          []string        `json:"topCompetitors"`
	ViabilityScore          int             `json:"viabilityScore"`
	InferredCompetitorCount int             `json:"inferredCompetitorCount"`
	MarketGap               string          `json:"marketGap"`
	StrategicPivot          *StrategicPivot `json:"strategicPivot,omitempty"`
}

// ChecklistItem is one setup step with its official link.
type ChecklistItem struct {
	Task string `json:"task"`
	URL  string `json:"url"`
}

// FinancialFeasibility summarizes startup economics in SEK.
type FinancialFeasibility struct {
	EstimatedStartupCost    int    `json:"estimatedStartupCost"`
	MonthlyBreakEvenRevenue int    `json:"monthlyBreakEvenRevenue"`
	IsAchievable            bool   `json:"isAchievable"`
	Reasoning               string `json:"reasoning"`
}

// Analysis is the full strategic analysis result.
type Analysis struct {
	ElevatorPitch        string               `json:"elevatorPitch"`
	UnfairAdvantage      string               `json:"unfairAdvantage"`
	CurrentFocus         string               `json:"currentFocus"`
	SanityCheck          string               `json:"sanityCheck"`
	ComplianceRisks      []string             `json:"complianceRisks"`
	MarketIntelligence   MarketIntelligence   `json:"marketIntelligence"`
	SuggestedNames       []string             `json:"suggestedNames"`
	LegalStructure       string               `json:"legalStructure"`
	LegalReasoning       string               `json:"legalReasoning"`
	SetupChecklist       []ChecklistItem      `json:"setupChecklist"`
	FinancialFeasibility FinancialFeasibility `json:"financialFeasibility"`
}

// Schema declares the analysis shape. The two composite sections the
// corrective prompt calls out, marketIntelligence and financialFeasibility,
// are hard requirements; string sections repair to defaults.
var Schema = &normalize.Schema{Sections: []normalize.Field{
	{Name: "elevatorPitch", Aliases: []string{"pitch"}, Kind: normalize.String, Default: "No pitch available"},
	{Name: "unfairAdvantage", Aliases: []string{"advantage", "edge"}, Kind: normalize.String},
	{Name: "currentFocus", Aliases: []string{"focus", "nextStep"}, Kind: normalize.String},
	{Name: "sanityCheck", Aliases: []string{"realityCheck"}, Kind: normalize.String},
	{Name: "complianceRisks", Aliases: []string{"risks"}, Kind: normalize.StringArray},
	{
		Name: "marketIntelligence", Aliases: []string{"market", "intelligence"}, Kind: normalize.Object, Required: true,
		ScalarField: "summary",
		Fields: []normalize.Field{
			{Name: "type", Kind: normalize.Enum, Values: []string{"SEO", "LOCAL"}, Default: "SEO"},
			{Name: "summary", Aliases: []string{"overview"}, Kind: normalize.String, Default: "No summary available"},
			{
				Name: "metrics", Kind: normalize.ObjectArray,
				Fields: []normalize.Field{
					{Name: "label", Aliases: []string{"name"}, Kind: normalize.String},
					{Name: "value", Kind: normalize.String},
					{Name: "trend", Kind: normalize.Enum, Values: []string{"up", "down", "neutral"}, Default: "neutral"},
				},
			},
			{Name: "topCompetitors", Aliases: []string{"competitors"}, Kind: normalize.StringArray},
			{Name: "viabilityScore", Aliases: []string{"score"}, Kind: normalize.Int, Min: 0, Max: 100, IntDefault: 50},
			{Name: "inferredCompetitorCount", Aliases: []string{"competitorCount"}, Kind: normalize.Int},
			{Name: "marketGap", Aliases: []string{"gap"}, Kind: normalize.String},
			{
				Name: "strategicPivot", Aliases: []string{"pivot"}, Kind: normalize.Object, Omit: true,
				Fields: []normalize.Field{
					{Name: "suggestedLocation", Aliases: []string{"location"}, Kind: normalize.String},
					{Name: "reasoning", Aliases: []string{"reason"}, Kind: normalize.String},
				},
			},
		},
	},
	{Name: "suggestedNames", Aliases: []string{"names"}, Kind: normalize.StringArray, MaxItems: 3},
	{Name: "legalStructure", Aliases: []string{"structure"}, Kind: normalize.Enum,
		Values: []string{"Aktiebolag", "Enskild Firma"}, Default: "Enskild Firma"},
	{Name: "legalReasoning", Kind: normalize.String},
	{
		Name: "setupChecklist", Aliases: []string{"checklist"}, Kind: normalize.ObjectArray,
		Fields: []normalize.Field{
			{Name: "task", Aliases: []string{"step", "title"}, Kind: normalize.String},
			{Name: "url", Aliases: []string{"link"}, Kind: normalize.String},
		},
	},
	{
		Name: "financialFeasibility", Aliases: []string{"financials", "feasibility"}, Kind: normalize.Object, Required: true,
		Fields: []normalize.Field{
			{Name: "estimatedStartupCost", Aliases: []string{"startupCost", "costs"}, Kind: normalize.Int},
			{Name: "monthlyBreakEvenRevenue", Aliases: []string{"breakEven", "breakEvenRevenue"}, Kind: normalize.Int},
			{Name: "isAchievable", Aliases: []string{"achievable"}, Kind: normalize.Bool, BoolDefault: true},
			{Name: "reasoning", Aliases: []string{"notes"}, Kind: normalize.String},
		},
	},
}}

// Service runs strategic analyses.
type Service struct {
	engine  *advisor.Engine
	kb      *knowledge.Store
	fetcher Fetcher
	logger  *slog.Logger
}

// NewService creates an analysis service. fetcher may be nil.
func NewService(engine *advisor.Engine, kb *knowledge.Store, fetcher Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, kb: kb, fetcher: fetcher, logger: logger}
}

// Perform runs the analysis for a profile. A website fetch failure is
// logged and the analysis continues without site content.
func (s *Service) Perform(ctx context.Context, p profile.BusinessProfile, history []prompts.ChatTurn) advisor.Outcome[Analysis] {
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return advisor.Fail[Analysis]("encode profile: %s", err)
	}

	marketContext := s.kb.MarketContext(p.Industry, p.TargetRegion)

	var websiteContent string
	if s.fetcher != nil && p.WebsiteURL != "" {
		content, fetchErr := s.fetcher.Fetch(ctx, p.WebsiteURL)
		if fetchErr != nil {
			s.logger.Warn("website fetch failed, continuing without site content",
				"url", p.WebsiteURL, "error", fetchErr)
		} else {
			websiteContent = content
		}
	}

	spec := advisor.Spec[Analysis]{
		Name:             "strategic-analysis",
		SystemPrompt:     prompts.AnalysisSystemPrompt(s.kb.Base()),
		CorrectivePrompt: prompts.AnalysisCorrectivePrompt(),
		Temperature:      0,
		MaxTokens:        4096,
		Schema:           Schema,
	}

	return advisor.Run(ctx, s.engine, spec, prompts.AnalysisUserPrompt(string(profileJSON), marketContext, websiteContent, history))
}
