// Package profile extracts a structured business profile from a discovery
// conversation, and runs the free-text onboarding chat that produces it.
package profile

import (
	"context"
	"strings"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/llm"
	"github.com/robin-app/ideation/normalize"
	"github.com/robin-app/ideation/prompts"
)

// BusinessProfile is the normalized result of profile extraction.
type BusinessProfile struct {
	Industry       string   `json:"industry"`
	TargetAudience string   `json:"targetAudience"`
	ProductType    string   `json:"productType"`
	Budget         string   `json:"budget"`
	LaunchDate     string   `json:"launchDate"`
	BusinessType   string   `json:"businessType"`
	TargetRegion   string   `json:"targetRegion"`
	WebsiteURL     string   `json:"websiteUrl,omitempty"`
	GoldenNuggets  []string `json:"goldenNuggets"`
}

// ChatReply is the onboarding chat result. Done flips when the assistant has
// gathered all three discovery points and emitted its SUMMARY line.
type ChatReply struct {
	Done             bool   `json:"done"`
	Summary          string `json:"summary,omitempty"`
	AssistantMessage string `json:"assistantMessage"`
}

// Schema declares the extraction target shape.
var Schema = &normalize.Schema{Sections: []normalize.Field{
	{Name: "industry", Aliases: []string{"niche", "sector"}, Kind: normalize.String, Required: true},
	{Name: "targetAudience", Aliases: []string{"target_audience", "audience"}, Kind: normalize.String, Required: true},
	{Name: "productType", Aliases: []string{"product_type", "product", "offering"}, Kind: normalize.String, Required: true},
	{Name: "budget", Aliases: []string{"capital", "startingBudget"}, Kind: normalize.String, Default: "Unknown"},
	{Name: "launchDate", Aliases: []string{"launch_date", "launch"}, Kind: normalize.String, Default: "Unknown"},
	{Name: "businessType", Aliases: []string{"business_type", "stage"}, Kind: normalize.Enum,
		Values: []string{"New Startup", "Existing Business"}, Default: "New Startup"},
	{Name: "targetRegion", Aliases: []string{"target_region", "region", "scope"}, Kind: normalize.Enum,
		Values: []string{"Local", "National", "Global"}, Default: "Local"},
	{Name: "websiteUrl", Aliases: []string{"website_url", "website"}, Kind: normalize.String, Omit: true},
	{Name: "goldenNuggets", Aliases: []string{"golden_nuggets", "nuggets"}, Kind: normalize.StringArray},
}}

func extractionSpec() advisor.Spec[BusinessProfile] {
	return advisor.Spec[BusinessProfile]{
		Name:             "profile-extraction",
		SystemPrompt:     prompts.ProfileSystemPrompt(),
		CorrectivePrompt: prompts.ProfileCorrectivePrompt(),
		Temperature:      0.2,
		MaxTokens:        1024,
		Schema:           Schema,
	}
}

// Service runs onboarding exchanges and profile extraction.
type Service struct {
	engine *advisor.Engine
}

// NewService creates a profile service over the engine.
func NewService(engine *advisor.Engine) *Service {
	return &Service{engine: engine}
}

// Extract derives a business profile from the conversation history.
func (s *Service) Extract(ctx context.Context, history []prompts.ChatTurn) advisor.Outcome[BusinessProfile] {
	if len(history) == 0 {
		return advisor.Fail[BusinessProfile]("Conversation history is required")
	}

	return advisor.Run(ctx, s.engine, extractionSpec(), prompts.ProfileUserPrompt(history))
}

// Chat sends one onboarding exchange. The reply is free text, not JSON, so
// it bypasses the normalization protocol; completion is detected by the
// SUMMARY line the assistant emits once all three discovery points are in.
func (s *Service) Chat(ctx context.Context, history []prompts.ChatTurn, message string) advisor.Outcome[ChatReply] {
	if strings.TrimSpace(message) == "" {
		return advisor.Fail[ChatReply]("Message cannot be empty")
	}

	client := s.engine.Client()
	if err := client.Ready(); err != nil {
		return advisor.Fail[ChatReply]("%s", err)
	}

	temperature := 0.0
	resp, err := client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.OnboardingSystemPrompt()},
			{Role: "user", Content: prompts.OnboardingUserPrompt(history, message)},
		},
		Temperature: &temperature,
		MaxTokens:   512,
	})
	if err != nil {
		return advisor.Fail[ChatReply]("%s", err)
	}

	reply := ChatReply{AssistantMessage: resp.Content}
	for _, line := range strings.Split(resp.Content, "\n") {
		trimmed := strings.TrimSpace(line)
		if after, found := strings.CutPrefix(trimmed, "SUMMARY:"); found {
			reply.Done = true
			reply.Summary = strings.TrimSpace(after)
			break
		}
	}

	return advisor.Succeed(reply)
}
