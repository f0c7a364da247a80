// Package prompts holds the system, user, and corrective prompt text for
// every AI-backed task. Schema descriptions here are compile-time constants
// mirrored by the normalize descriptors in each advisor subpackage; the two
// are kept in lockstep by tests.
package prompts

import "fmt"

// researchSchema is the literal JSON shape the market research task requires.
const researchSchema = `{
  "marketSummary": {
    "overview": "<string: 2-3 sentence market overview>",
    "estimatedMarketSize": "<string: e.g. 'SEK 500M locally'>",
    "growthTrend": "<string: EXACTLY one of 'growing', 'stable', 'declining'>",
    "keyInsights": ["<string>", "<string>", "<string>"]
  },
  "keyCompetitors": [
    {
      "name": "<string: real business name>",
      "description": "<string: what they do, 1 sentence>",
      "strengths": ["<string>", "<string>"],
      "estimatedPriceRange": "<string: e.g. '150-300 SEK/hour'>"
    }
  ],
  "targetAudience": {
    "primarySegment": "<string: e.g. 'Young professionals aged 25-40'>",
    "demographics": "<string: brief demographic description>",
    "painPoints": ["<string>", "<string>"],
    "buyingBehavior": "<string: how they typically buy this service>"
  },
  "marketViabilityScore": {
    "overall": "<integer 1-10>",
    "demandLevel": "<integer 1-10>",
    "competitionIntensity": "<integer 1-10>",
    "barrierToEntry": "<integer 1-10>",
    "profitPotential": "<integer 1-10>",
    "reasoning": "<string: 1-2 sentences explaining the scores>"
  },
  "pricingBenchmark": {
    "low": "<string: e.g. '100 SEK'>",
    "median": "<string: e.g. '200 SEK'>",
    "high": "<string: e.g. '350 SEK'>",
    "currency": "<string: e.g. 'SEK'>"
  },
  "opportunities": ["<string>", "<string>", "<string>"],
  "risks": ["<string>", "<string>", "<string>"],
  "recommendations": ["<string>", "<string>", "<string>"]
}`

// ResearchSystemPrompt returns the system prompt for the market research task.
func ResearchSystemPrompt() string {
	return `You are a market research analyst. Given a business idea, perform concise market research using real web data.

CRITICAL: You MUST respond with ONLY a raw JSON object. No markdown. No code fences. No explanation. No text before or after. JUST the JSON.

The JSON MUST use EXACTLY these property names — do NOT rename, restructure, or add extra properties:

` + researchSchema + `

STRICT RULES:
- The response must be a single JSON object, nothing else
- Use the EXACT property names shown above — not synonyms, not alternatives
- "marketSummary" MUST be an object with "overview", "estimatedMarketSize", "growthTrend", "keyInsights" — NOT a plain string
- "keyCompetitors" MUST be an array of objects each with "name", "description", "strengths", "estimatedPriceRange" — NOT "location", "weaknesses", "pricing"
- "targetAudience" MUST have "primarySegment", "demographics", "painPoints", "buyingBehavior" — NOT "primary", "secondary", "characteristics"
- "marketViabilityScore" MUST be an object with sub-scores — NOT a single number
- "pricingBenchmark" MUST have "low", "median", "high", "currency" — NOT "recommendedRange" or "strategy"
- All scores are integers 1-10
- Keep arrays to 3-5 items
- Use local currency (SEK for Sweden, EUR for EU, etc.)
- Use REAL competitor names and price data from web search
- If location is unspecified, assume Sweden`
}

// ResearchCorrectivePrompt returns the follow-up sent after a rejected reply.
// It enumerates the shape mistakes this task's model most commonly makes.
func ResearchCorrectivePrompt() string {
	return `Your previous response did NOT match the required schema. Common mistakes:
- marketSummary was a string instead of an object with overview/estimatedMarketSize/growthTrend/keyInsights
- keyCompetitors items had wrong keys (location/weaknesses/pricing instead of description/strengths/estimatedPriceRange)
- targetAudience had wrong keys (primary/secondary instead of primarySegment/demographics/painPoints/buyingBehavior)
- marketViabilityScore was a number instead of an object with overall/demandLevel/competitionIntensity/barrierToEntry/profitPotential/reasoning
- pricingBenchmark had wrong keys (recommendedRange instead of low/median/high/currency)

Return ONLY the corrected JSON object using EXACTLY the property names from the schema. No markdown, no explanation.`
}

// ResearchUserPrompt returns the user turn for a market research request.
func ResearchUserPrompt(businessDescription string) string {
	return fmt.Sprintf("Analyze this business idea and provide market research:\n\n%s", businessDescription)
}
