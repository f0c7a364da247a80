// Package naming suggests business names for an idea with market context.
package naming

import (
	"context"
	"strings"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/normalize"
	"github.com/robin-app/ideation/prompts"
)

// maxNames is the exact number of suggestions the task returns.
const maxNames = 5

// Suggestion is one proposed business name with its rationale.
type Suggestion struct {
	Name      string `json:"name"`
	Reasoning string `json:"reasoning"`
}

// Suggestions is the normalized result returned to the caller.
type Suggestions struct {
	Names []Suggestion `json:"names"`
}

// Schema declares the target shape. More than five entries are truncated;
// fewer than five is a hard (retryable) failure.
var Schema = &normalize.Schema{Sections: []normalize.Field{
	{
		Name: "names", Aliases: []string{"suggestions", "options"}, Kind: normalize.ObjectArray, Required: true,
		MaxItems: maxNames, MinItems: maxNames,
		Fields: []normalize.Field{
			{Name: "name", Kind: normalize.String, Default: "Unknown"},
			{Name: "reasoning", Aliases: []string{"reason", "description"}, Kind: normalize.String},
		},
	},
}}

func spec() advisor.Spec[Suggestions] {
	return advisor.Spec[Suggestions]{
		Name:             "business-naming",
		SystemPrompt:     prompts.NamingSystemPrompt(),
		CorrectivePrompt: prompts.NamingCorrectivePrompt(),
		Temperature:      0.7,
		MaxTokens:        1024,
		Schema:           Schema,
	}
}

// Service performs naming calls.
type Service struct {
	engine *advisor.Engine
}

// NewService creates a naming service over the engine.
func NewService(engine *advisor.Engine) *Service {
	return &Service{engine: engine}
}

// Suggest proposes exactly five names for the described business.
// marketResearchSummary is optional prior context from the research step.
func (s *Service) Suggest(ctx context.Context, businessDescription, marketResearchSummary string) advisor.Outcome[Suggestions] {
	if strings.TrimSpace(businessDescription) == "" {
		return advisor.Fail[Suggestions]("Business description cannot be empty")
	}

	return advisor.Run(ctx, s.engine, spec(), prompts.NamingUserPrompt(businessDescription, marketResearchSummary))
}
