// Package entity recommends a Swedish business entity type.
package entity

import (
	"context"
	"strings"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/normalize"
	"github.com/robin-app/ideation/prompts"
)

// Alternative is one other viable entity type with its trade-offs.
type Alternative struct {
	Type string   `json:"type"`
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// Assessment is the normalized result returned to the caller.
type Assessment struct {
	RecommendedType string        `json:"recommendedType"`
	Reasoning       string        `json:"reasoning"`
	Alternatives    []Alternative `json:"alternatives"`
	Considerations  []string      `json:"considerations"`
}

// Schema declares the target shape. recommendedType, reasoning, and
// alternatives are all hard requirements; considerations falls back to a
// standing advisory.
var Schema = &normalize.Schema{Sections: []normalize.Field{
	{Name: "recommendedType", Aliases: []string{"recommended", "type"}, Kind: normalize.String, Required: true},
	{Name: "reasoning", Aliases: []string{"explanation", "reason"}, Kind: normalize.String, Required: true},
	{
		Name: "alternatives", Aliases: []string{"options"}, Kind: normalize.ObjectArray, Required: true, MaxItems: 3,
		Fields: []normalize.Field{
			{Name: "type", Aliases: []string{"name"}, Kind: normalize.String, Default: "Unknown"},
			{Name: "pros", Aliases: []string{"advantages"}, Kind: normalize.StringArray},
			{Name: "cons", Aliases: []string{"disadvantages"}, Kind: normalize.StringArray},
		},
	},
	{Name: "considerations", Aliases: []string{"notes", "tips"}, Kind: normalize.StringArray,
		Fallback: []string{"Consult a Swedish business advisor for personalized guidance"}, MaxItems: 4},
}}

func spec() advisor.Spec[Assessment] {
	return advisor.Spec[Assessment]{
		Name:             "business-type",
		SystemPrompt:     prompts.EntitySystemPrompt(),
		CorrectivePrompt: prompts.EntityCorrectivePrompt(),
		Temperature:      0.3,
		MaxTokens:        1024,
		Schema:           Schema,
	}
}

// Service performs entity-type assessments.
type Service struct {
	engine *advisor.Engine
}

// NewService creates an entity assessment service over the engine.
func NewService(engine *advisor.Engine) *Service {
	return &Service{engine: engine}
}

// Assess recommends an entity type for the described business.
// businessName and marketResearchSummary are optional context.
func (s *Service) Assess(ctx context.Context, businessDescription, businessName, marketResearchSummary string) advisor.Outcome[Assessment] {
	if strings.TrimSpace(businessDescription) == "" {
		return advisor.Fail[Assessment]("Business description cannot be empty")
	}

	return advisor.Run(ctx, s.engine, spec(), prompts.EntityUserPrompt(businessDescription, businessName, marketResearchSummary))
}
