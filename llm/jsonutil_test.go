package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string // if non-empty, check this key exists in parsed JSON
		wantErr bool
	}{
		{
			name:    "plain JSON",
			input:   `{"marketSummary": "test"}`,
			wantKey: "marketSummary",
		},
		{
			name:    "markdown code block",
			input:   "```json\n{\"marketSummary\": \"test\"}\n```",
			wantKey: "marketSummary",
		},
		{
			name:    "bare fence without language tag",
			input:   "```\n{\"names\": []}\n```",
			wantKey: "names",
		},
		{
			name:    "conversational preamble and trailing text",
			input:   "Sure! Here is your market research:\n\n{\"marketSummary\": \"test\"}\n\nLet me know if you need anything else.",
			wantKey: "marketSummary",
		},
		{
			name:    "markdown block with trailing text",
			input:   "```json\n{\"marketSummary\": \"test\"}\n```\n\n**Some extra text here**",
			wantKey: "marketSummary",
		},
		{
			name:    "JS comments in values",
			input:   "```json\n{\n  \"opportunities\": [\n    \"pet-friendly cafes\",          // growing trend\n    \"weekend events\"  // seasonal\n  ]\n}\n```",
			wantKey: "opportunities",
		},
		{
			name:    "JS comments and trailing commas",
			input:   "```json\n{\n  \"risks\": [\n    \"one\",  // first\n    \"two\",  // second\n  ]\n}\n```",
			wantKey: "risks",
		},
		{
			name:    "URL in string not stripped",
			input:   `{"url": "http://example.com/path"}`,
			wantKey: "url",
		},
		{
			name:    "URL in string with comment after",
			input:   "{\"url\": \"http://example.com/path\"} // trailing",
			wantKey: "url",
		},
		{
			name:    "nested braces",
			input:   "Response: {\"marketViabilityScore\": {\"overall\": 7}} done",
			wantKey: "marketViabilityScore",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I could not produce the requested data.",
			wantErr: true,
		},
		{
			name:    "closing brace before opening brace",
			input:   "} not json {",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.input)

			var parsed map[string]any
			err := json.Unmarshal([]byte(got), &parsed)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected parse failure, got valid JSON: %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extracted JSON does not parse: %v\nextracted: %s", err, got)
			}
			if tt.wantKey != "" {
				if _, ok := parsed[tt.wantKey]; !ok {
					t.Errorf("key %q missing from parsed JSON: %v", tt.wantKey, parsed)
				}
			}
		})
	}
}

func TestExtractJSONIdempotent(t *testing.T) {
	input := "```json\n{\"names\": [\"a\", \"b\",]}\n```"
	once := ExtractJSON(input)
	twice := ExtractJSON(once)
	if once != twice {
		t.Errorf("extraction not idempotent:\nonce:  %s\ntwice: %s", once, twice)
	}
}

func TestStripLineComment(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"no comment", `"key": "value",`, `"key": "value",`},
		{"comment after value", `"key": "value", // note`, `"key": "value",`},
		{"url untouched", `"url": "http://example.com"`, `"url": "http://example.com"`},
		{"url then comment", `"url": "http://example.com", // site`, `"url": "http://example.com",`},
		{"slashes inside string", `"path": "a//b"`, `"path": "a//b"`},
		{"escaped quote in string", `"quote": "she said \"hi\" // not a comment"`, `"quote": "she said \"hi\" // not a comment"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripLineComment(tt.line); got != tt.want {
				t.Errorf("stripLineComment(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
