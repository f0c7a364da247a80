package prompts

import (
	"fmt"
	"strings"
)

// tasksSchema is the literal JSON shape the task generation task requires.
const tasksSchema = `{
  "theme": "<string: single theme, e.g. 'Validation Sprint', 'Legal Foundation', 'Growth: Marketing'>",
  "analysis": "<string: 2-3 sentences explaining the current focus>",
  "tasks": [
    {
      "title": "<string: short actionable title>",
      "description": "<string: clear, encouraging steps>",
      "priority": "<string: EXACTLY one of 'High', 'Medium', 'Low'>",
      "type": "<string: EXACTLY one of 'Validation', 'Acquisition', 'Conversion', 'Admin/Legal', 'Product'>"
    }
  ]
}`

// TasksSystemPrompt returns the system prompt for the task generation task.
// The knowledge base text is injected so generated tasks reference real
// Swedish registration costs and authorities.
func TasksSystemPrompt(knowledgeBase string) string {
	return `You are an experienced business operations coach generating a focused task board.

CRITICAL: You MUST respond with ONLY a raw JSON object. No markdown. No code fences. No explanation. No text before or after. JUST the JSON.

The JSON MUST use EXACTLY this structure:

` + tasksSchema + `

Knowledge Base for facts:
` + knowledgeBase + `

STRICT RULES:
- Select a SINGLE theme for the whole batch
- EXACTLY 3-5 tasks
- Context aware: if the user is shifting focus (e.g. from Validation to Marketing), generate new tasks that REPLACE the old validation tasks
- No duplicates: do not suggest tasks already on the current active list unless they are critical and need reiteration
- Provide clear, encouraging steps`
}

// TasksCorrectivePrompt returns the follow-up sent after a rejected reply.
func TasksCorrectivePrompt() string {
	return `Your previous response did NOT match the required schema. Return ONLY a JSON object with "theme" (string), "analysis" (string), and "tasks" (array of 3-5 objects with "title", "description", "priority", "type"). No markdown, no explanation.`
}

// TasksUserPrompt returns the user turn for a task generation request.
// currentTitles are the titles already on the user's board; history is the
// recent conversation tail.
func TasksUserPrompt(profileJSON string, currentTitles []string, history []ChatTurn) string {
	recent := history
	if len(recent) > 15 {
		recent = recent[len(recent)-15:]
	}
	lines := make([]string, len(recent))
	for i, turn := range recent {
		lines[i] = turn.Text
	}

	return fmt.Sprintf(`Generate a strictly limited list of 3-5 actionable tasks based on the Business Profile.

Business Profile: %s
Current Active Tasks: %s

Context:
%s`, profileJSON, strings.Join(currentTitles, "; "), strings.Join(lines, "\n"))
}
