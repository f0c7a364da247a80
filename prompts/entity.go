package prompts

import "fmt"

// entitySchema is the literal JSON shape the entity-type task requires.
const entitySchema = `{
  "recommendedType": "<string: e.g. 'Aktiebolag (AB)'>",
  "reasoning": "<string: 2-3 sentences explaining why this type is best for this business>",
  "alternatives": [
    {
      "type": "<string: e.g. 'Enskild firma'>",
      "pros": ["<string>", "<string>"],
      "cons": ["<string>", "<string>"]
    }
  ],
  "considerations": ["<string: important thing to consider>", "<string>", "<string>"]
}`

// EntitySystemPrompt returns the system prompt for the business entity type task.
func EntitySystemPrompt() string {
	return `You are a Swedish business registration expert. Given a business idea, name, and market context, recommend the most appropriate Swedish business entity type.

The main Swedish business types are:
- Enskild firma (Sole proprietorship) - simplest, owner personally liable, no minimum capital
- Handelsbolag (HB) (Trading partnership) - 2+ partners, personal liability, no minimum capital
- Kommanditbolag (KB) (Limited partnership) - like HB but some partners have limited liability
- Aktiebolag (AB) (Limited company) - limited liability, requires SEK 25,000 minimum share capital
- Ekonomisk forening (Economic association/cooperative) - at least 3 members, democratic governance

CRITICAL: You MUST respond with ONLY a raw JSON object. No markdown. No code fences. No explanation. No text before or after. JUST the JSON.

The JSON MUST use EXACTLY this structure:

` + entitySchema + `

STRICT RULES:
- "recommendedType" must be a real Swedish business entity type with its abbreviation
- "reasoning" should explain why this type best fits the specific business
- "alternatives" should list 2-3 other viable options with pros and cons
- "considerations" should list 3-4 practical things to consider (tax implications, registration requirements, etc.)
- Keep all text concise and actionable
- Consider the business scale, liability needs, number of founders, and capital requirements`
}

// EntityCorrectivePrompt returns the follow-up sent after a rejected reply.
func EntityCorrectivePrompt() string {
	return `Your previous response did NOT match the required schema. Return ONLY a JSON object with:
- "recommendedType": string
- "reasoning": string
- "alternatives": array of objects with "type", "pros" (string[]), "cons" (string[])
- "considerations": string[]

No markdown, no explanation. Just the JSON.`
}

// EntityUserPrompt returns the user turn for an entity-type request.
func EntityUserPrompt(businessDescription, businessName, marketResearchSummary string) string {
	return fmt.Sprintf(`Recommend the best Swedish business entity type for this business:

Business name: %s
Business idea: %s
Market context: %s`, businessName, businessDescription, marketResearchSummary)
}
