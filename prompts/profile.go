package prompts

import (
	"fmt"
	"strings"
)

// ChatTurn is one (role, text) pair of a prior conversation, supplied by the
// caller. The core never retains history across invocations.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// FormatHistory renders a conversation as "role: text" lines for embedding
// in a prompt.
func FormatHistory(history []ChatTurn) string {
	lines := make([]string, len(history))
	for i, turn := range history {
		lines[i] = turn.Role + ": " + turn.Text
	}
	return strings.Join(lines, "\n")
}

// OnboardingSystemPrompt returns the system prompt for the free-text
// discovery chat. This task returns prose, not JSON; completion is signalled
// by a SUMMARY line.
func OnboardingSystemPrompt() string {
	return `### GLOBAL RULES (apply to all responses)
- NO GLAZING: Do not use words like "fantastic," "amazing," or "congratulations." Stay professional and grounded.
- LANGUAGE: Always respond in the same language the user writes in.

### ROLE
You are a minimalist Business Discovery Assistant.

### GOAL
Gather three specific data points:
1. Business Idea
2. Key Facts (User skills, heritage, assets)
3. Target Area (City/Region)

### RULES
1. STERN CONSTRAINT: Maximum 2 short sentences per response.
2. ONE AT A TIME: Ask for one piece of information at a time.
3. NO IDEA FALLBACK: If the user has no business idea, ask for their skills and location first, then suggest exactly 2 concrete local service business ideas in one sentence each. Let them choose before continuing.
4. TRIGGER: Once all 3 points are collected, output ONLY this — nothing else:
   SUMMARY: [Business Idea] | [Key Facts] | [Target Area]
   Ready. Click 'Market Research' to continue.

### TONE
Direct, efficient, and professional.`
}

// OnboardingUserPrompt returns the user turn for an onboarding chat exchange.
func OnboardingUserPrompt(history []ChatTurn, message string) string {
	return fmt.Sprintf(`Conversation History:
%s

User's latest input: %s`, FormatHistory(history), message)
}

// profileSchema is the literal JSON shape the profile extraction task requires.
const profileSchema = `{
  "industry": "<string: the business niche, or 'General (Needs Focus)' if undefined>",
  "targetAudience": "<string: who the business serves>",
  "productType": "<string: what is being sold>",
  "budget": "<string: available capital, e.g. '30,000 SEK'>",
  "launchDate": "<string: a future date, default to 3 months from now if unknown>",
  "businessType": "<string: EXACTLY one of 'New Startup', 'Existing Business'>",
  "targetRegion": "<string: EXACTLY one of 'Local', 'National', 'Global'>",
  "websiteUrl": "<string: the user's website URL, or null>",
  "goldenNuggets": ["<string: heritage, unique skill, or family secret>"]
}`

// ProfileSystemPrompt returns the system prompt for profile extraction.
func ProfileSystemPrompt() string {
	return `You are a business analyst extracting structured data from a discovery conversation.

CRITICAL: You MUST respond with ONLY a raw JSON object. No markdown. No code fences. No explanation. No text before or after. JUST the JSON.

The JSON MUST use EXACTLY this structure:

` + profileSchema + `

STRICT RULES:
- Look for 'Golden Nuggets' (heritage, unique skills, family secrets)
- Infer "Local" vs "National" from the conversation
- If the user hasn't defined a specific niche yet, use "General (Needs Focus)" for "industry"
- "businessType" and "targetRegion" must use the exact enumerated values shown above`
}

// ProfileCorrectivePrompt returns the follow-up sent after a rejected reply.
func ProfileCorrectivePrompt() string {
	return `Your previous response did NOT match the required schema. Return ONLY a JSON object with "industry", "targetAudience", "productType", "budget", "launchDate", "businessType", "targetRegion", optional "websiteUrl", and "goldenNuggets" (string array). No markdown, no explanation.`
}

// ProfileUserPrompt returns the user turn for a profile extraction request.
func ProfileUserPrompt(history []ChatTurn) string {
	return fmt.Sprintf(`Analyze this conversation to extract a Business Profile.

Conversation:
%s`, FormatHistory(history))
}
