package prompts

import "fmt"

// analysisSchema is the literal JSON shape the strategic analysis task requires.
const analysisSchema = `{
  "elevatorPitch": "<string: one-sentence pitch>",
  "unfairAdvantage": "<string: the founder's edge, drawn from golden nuggets>",
  "currentFocus": "<string: what the founder should concentrate on now>",
  "sanityCheck": "<string: one brutal/realistic sentence>",
  "complianceRisks": ["<string>", "<string>"],
  "marketIntelligence": {
    "type": "<string: EXACTLY one of 'SEO', 'LOCAL'>",
    "summary": "<string: 2-3 sentence market read>",
    "metrics": [
      { "label": "<string>", "value": "<string>", "trend": "<string: one of 'up', 'down', 'neutral'>" }
    ],
    "topCompetitors": ["<string>", "<string>"],
    "viabilityScore": "<integer 0-100>",
    "inferredCompetitorCount": "<integer>",
    "marketGap": "<string: underserved niche, if any>",
    "strategicPivot": { "suggestedLocation": "<string>", "reasoning": "<string>" }
  },
  "suggestedNames": ["<string>", "<string>", "<string>"],
  "legalStructure": "<string: EXACTLY one of 'Aktiebolag', 'Enskild Firma'>",
  "legalReasoning": "<string: why this structure fits>",
  "setupChecklist": [
    { "task": "<string>", "url": "<string: official link>" }
  ],
  "financialFeasibility": {
    "estimatedStartupCost": "<integer: SEK>",
    "monthlyBreakEvenRevenue": "<integer: SEK>",
    "isAchievable": "<boolean>",
    "reasoning": "<string>"
  }
}`

// AnalysisSystemPrompt returns the system prompt for the strategic analysis
// task. The knowledge base text supplies registration costs and tax rates.
func AnalysisSystemPrompt(knowledgeBase string) string {
	return `You are acting as two experts simultaneously:
1. A Market Intelligence Engine
2. A Senior Swedish Operations Consultant

CRITICAL: You MUST respond with ONLY a raw JSON object. No markdown. No code fences. No explanation. No text before or after. JUST the JSON.

The JSON MUST use EXACTLY this structure:

` + analysisSchema + `

Knowledge Base for facts:
` + knowledgeBase + `

STRICT RULES:

PART 1: MARKET INTELLIGENCE
- Identify 'Golden Nuggets' from the profile
- Infer competitor count based on Swedish demographics
- Calculate a viability score (0-100)
- PIVOT LOGIC: If score < 60, fill "strategicPivot" with a specific nearby municipality and explain why; otherwise omit it
- Sanity check: one brutal/realistic sentence

PART 2: OPERATIONS & FINANCE
- Suggest 3 brand names
- Legal: recommend 'Aktiebolag' if >25k SEK capital, else 'Enskild Firma'
- Calculations: registration 2,200 SEK; share capital 25,000 SEK (for AB); social security 31.42% on top of salaries; VAT 25% standard
- Setup checklist: generate specific official links`
}

// AnalysisCorrectivePrompt returns the follow-up sent after a rejected reply.
func AnalysisCorrectivePrompt() string {
	return `Your previous response did NOT match the required schema. Common mistakes:
- marketIntelligence was flattened to a string instead of an object with type/summary/metrics/topCompetitors
- financialFeasibility was missing or used wrong keys (costs/breakEven instead of estimatedStartupCost/monthlyBreakEvenRevenue/isAchievable/reasoning)
- legalStructure used a value other than 'Aktiebolag' or 'Enskild Firma'

Return ONLY the corrected JSON object using EXACTLY the property names from the schema. No markdown, no explanation.`
}

// AnalysisUserPrompt returns the user turn for a strategic analysis request.
// marketContext is the district data or SEO benchmark block chosen for the
// profile's region; websiteContent is the fetched site text, if any.
func AnalysisUserPrompt(profileJSON, marketContext, websiteContent string, history []ChatTurn) string {
	prompt := fmt.Sprintf(`Produce the strategic analysis for this business:

Profile: %s
Market Data: %s`, profileJSON, marketContext)

	if websiteContent != "" {
		prompt += fmt.Sprintf(`

The founder's current website content (score it in "websiteScore" terms inside your summary, and factor it into the analysis):
%s`, websiteContent)
	}

	if len(history) > 0 {
		prompt += fmt.Sprintf(`

Recent conversation:
%s`, FormatHistory(history))
	}

	return prompt
}
