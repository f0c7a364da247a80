package tasks_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/advisor/profile"
	"github.com/robin-app/ideation/advisor/tasks"
	"github.com/robin-app/ideation/knowledge"
	"github.com/robin-app/ideation/llm"
	"github.com/robin-app/ideation/llm/testutil"
)

var bakeryProfile = profile.BusinessProfile{
	Industry:       "Bakery",
	TargetAudience: "Families in Södermalm",
	ProductType:    "Sourdough bread",
	Budget:         "200000 SEK",
	TargetRegion:   "Local",
}

func newService(t *testing.T, mock *testutil.MockClient) *tasks.Service {
	t.Helper()
	kb, err := knowledge.NewStore("")
	require.NoError(t, err)
	return tasks.NewService(advisor.NewEngine(mock), kb)
}

const boardResponse = `{
	"theme": "Validation Sprint",
	"analysis": "Start by proving demand before signing a lease.",
	"tasks": [
		{"title": "Interview 10 locals", "description": "Ask about bread-buying habits", "priority": "High", "type": "Validation"},
		{"title": "Register F-skatt", "description": "Apply at Skatteverket", "priority": "Medium", "type": "Admin/Legal"},
		{"title": "Pop-up stand", "description": "Weekend market test", "priority": "High", "type": "Acquisition"}
	]
}`

func TestGenerateSuccess(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: boardResponse, Model: "test-model"}},
	}
	svc := newService(t, mock)

	out := svc.Generate(context.Background(), bakeryProfile, nil, nil)

	require.True(t, out.Success, "error: %s", out.Error)
	require.Len(t, out.Data.Tasks, 3)

	seen := map[string]bool{}
	for _, task := range out.Data.Tasks {
		_, err := uuid.Parse(task.ID)
		assert.NoError(t, err, "every task gets a generated UUID")
		assert.False(t, seen[task.ID], "IDs must be unique")
		seen[task.ID] = true
		assert.Equal(t, "todo", task.Status)
		assert.Equal(t, "Validation Sprint", task.Theme)
	}

	assert.Equal(t, "Interview 10 locals", out.Data.Tasks[0].Title)
	assert.Equal(t, "Admin/Legal", out.Data.Tasks[1].Type)
	assert.Equal(t, "**Focus: Validation Sprint**\n\nStart by proving demand before signing a lease.",
		out.Data.Analysis)
}

func TestGenerateRepairsDriftedBoard(t *testing.T) {
	drifted := `{
		"focus": "Launch Prep",
		"summary": "Paperwork first.",
		"items": [
			{"name": "File registration", "details": "Bolagsverket online form", "priority": "urgent", "category": "paperwork"},
			{"priority": "Low"}
		]
	}`
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: drifted, Model: "test-model"}},
	}
	svc := newService(t, mock)

	out := svc.Generate(context.Background(), bakeryProfile, nil, nil)

	require.True(t, out.Success, "error: %s", out.Error)
	require.Len(t, out.Data.Tasks, 2)

	first := out.Data.Tasks[0]
	assert.Equal(t, "File registration", first.Title)
	assert.Equal(t, "Bolagsverket online form", first.Description)
	assert.Equal(t, "Medium", first.Priority, "unknown priority repairs to Medium")
	assert.Equal(t, "Validation", first.Type, "unknown type repairs to Validation")
	assert.Equal(t, "Launch Prep", first.Theme)

	second := out.Data.Tasks[1]
	assert.Equal(t, "Untitled task", second.Title)
	assert.Equal(t, "No description", second.Description)
	assert.Equal(t, "Low", second.Priority)

	assert.True(t, strings.HasPrefix(out.Data.Analysis, "**Focus: Launch Prep**"))
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerateTruncatesToFive(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"theme": "Big Plans", "analysis": "Too much at once.", "tasks": [`)
	for i := 0; i < 8; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"title": "Task", "description": "d", "priority": "Low", "type": "Product"}`)
	}
	sb.WriteString(`]}`)

	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: sb.String(), Model: "test-model"}},
	}
	svc := newService(t, mock)

	out := svc.Generate(context.Background(), bakeryProfile, nil, nil)

	require.True(t, out.Success, "error: %s", out.Error)
	assert.Len(t, out.Data.Tasks, 5)
}

func TestGenerateMissingTasksRetries(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{
			{Content: `{"theme": "Empty", "analysis": "nothing here"}`, Model: "test-model"},
			{Content: boardResponse, Model: "test-model"},
		},
	}
	svc := newService(t, mock)

	out := svc.Generate(context.Background(), bakeryProfile, nil, nil)

	require.True(t, out.Success, "error: %s", out.Error)
	assert.Equal(t, 2, mock.CallCount())
	assert.Len(t, out.Data.Tasks, 3)
}

func TestGeneratePromptCarriesProfileAndBoard(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: boardResponse, Model: "test-model"}},
	}
	svc := newService(t, mock)

	svc.Generate(context.Background(), bakeryProfile, nil, []string{"Register F-skatt", "Find a locale"})

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	system := reqs[0].Messages[0].Content
	assert.Contains(t, system, "Bolagsverket", "knowledge base is injected into the system prompt")
	user := reqs[0].Messages[1].Content
	assert.Contains(t, user, "Bakery")
	assert.Contains(t, user, "Register F-skatt")
	assert.Contains(t, user, "Find a locale")
}

func TestGenerateExhaustion(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{
			{Content: "no json here", Model: "test-model"},
			{Content: "still no json", Model: "test-model"},
		},
	}
	svc := newService(t, mock)

	out := svc.Generate(context.Background(), bakeryProfile, nil, nil)

	require.False(t, out.Success)
	assert.Equal(t, 2, mock.CallCount())
	assert.Contains(t, out.Error, "Failed after 2 attempts")
}
