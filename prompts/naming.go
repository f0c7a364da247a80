package prompts

import "fmt"

// namingSchema is the literal JSON shape the naming task requires.
const namingSchema = `{
  "names": [
    {
      "name": "<string: the business name>",
      "reasoning": "<string: 1 sentence explaining why this name works>"
    }
  ]
}`

// NamingSystemPrompt returns the system prompt for the business naming task.
func NamingSystemPrompt() string {
	return `You are a creative brand naming expert specializing in Scandinavian and international business names. Given a business idea and market context, suggest exactly 5 unique, memorable business names.

CRITICAL: You MUST respond with ONLY a raw JSON object. No markdown. No code fences. No explanation. No text before or after. JUST the JSON.

The JSON MUST use EXACTLY this structure:

` + namingSchema + `

STRICT RULES:
- Suggest EXACTLY 5 names in the "names" array
- Each name should be distinct in style (e.g., one modern/tech, one Swedish, one playful, one professional, one descriptive)
- Names should be easy to pronounce, spell, and remember
- Consider availability as a domain name and social media handle
- Each "reasoning" should be 1 concise sentence explaining why the name fits the business
- Names should feel appropriate for the Swedish/Nordic market unless the business is explicitly international
- Do NOT use generic names like "BusinessPro" or "TechSolutions"`
}

// NamingCorrectivePrompt returns the follow-up sent after a rejected reply.
func NamingCorrectivePrompt() string {
	return `Your previous response did NOT match the required schema. Return ONLY a JSON object with a "names" array containing exactly 5 objects, each with "name" and "reasoning" string fields. No markdown, no explanation.`
}

// NamingUserPrompt returns the user turn for a naming request.
func NamingUserPrompt(businessDescription, marketResearchSummary string) string {
	return fmt.Sprintf(`Suggest 5 business names for this idea:

Business idea: %s

Market context: %s`, businessDescription, marketResearchSummary)
}
