package entity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/advisor/entity"
	"github.com/robin-app/ideation/llm"
	"github.com/robin-app/ideation/llm/testutil"
)

const assessment = `{
	"recommendedType": "Aktiebolag (AB)",
	"reasoning": "Limited liability suits the capital requirements.",
	"alternatives": [
		{"type": "Enskild firma", "pros": ["Simple registration"], "cons": ["Personal liability"]}
	],
	"considerations": ["SEK 25,000 minimum share capital", "Annual report obligations"]
}`

func TestAssessSuccess(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: assessment, Model: "test-model"}},
	}
	svc := entity.NewService(advisor.NewEngine(mock))

	out := svc.Assess(context.Background(), "specialty coffee roastery", "Brygg & Co", "growing market")

	require.True(t, out.Success, "error: %s", out.Error)
	assert.Equal(t, "Aktiebolag (AB)", out.Data.RecommendedType)
	require.Len(t, out.Data.Alternatives, 1)
	assert.Equal(t, "Enskild firma", out.Data.Alternatives[0].Type)
	assert.Equal(t, []string{"Personal liability"}, out.Data.Alternatives[0].Cons)
}

func TestAssessEmptyDescription(t *testing.T) {
	mock := &testutil.MockClient{}
	svc := entity.NewService(advisor.NewEngine(mock))

	out := svc.Assess(context.Background(), "", "Name", "")

	require.False(t, out.Success)
	assert.Equal(t, "Business description cannot be empty", out.Error)
	assert.Equal(t, 0, mock.CallCount())
}

func TestAssessRepairsAliases(t *testing.T) {
	drifted := `{
		"recommended": "Enskild firma",
		"explanation": "Lowest overhead for a solo founder.",
		"options": [
			{"name": "Aktiebolag (AB)", "advantages": ["Limited liability"], "disadvantages": ["Capital requirement"]}
		]
	}`
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: drifted, Model: "test-model"}},
	}
	svc := entity.NewService(advisor.NewEngine(mock))

	out := svc.Assess(context.Background(), "freelance photography", "", "")

	require.True(t, out.Success, "error: %s", out.Error)
	assert.Equal(t, "Enskild firma", out.Data.RecommendedType)
	assert.Equal(t, "Lowest overhead for a solo founder.", out.Data.Reasoning)
	require.Len(t, out.Data.Alternatives, 1)
	assert.Equal(t, "Aktiebolag (AB)", out.Data.Alternatives[0].Type)
	assert.Equal(t, []string{"Limited liability"}, out.Data.Alternatives[0].Pros)
	assert.Equal(t, []string{"Consult a Swedish business advisor for personalized guidance"},
		out.Data.Considerations)
	assert.Equal(t, 1, mock.CallCount())
}

func TestAssessMissingSectionsRetries(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{
			{Content: `{"recommendedType": "AB"}`, Model: "test-model"},
			{Content: assessment, Model: "test-model"},
		},
	}
	svc := entity.NewService(advisor.NewEngine(mock))

	out := svc.Assess(context.Background(), "bakery", "", "")

	require.True(t, out.Success, "error: %s", out.Error)
	assert.Equal(t, 2, mock.CallCount())
}

func TestAssessPromptCarriesContext(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: assessment, Model: "test-model"}},
	}
	svc := entity.NewService(advisor.NewEngine(mock))

	svc.Assess(context.Background(), "bakery in Malmö", "Surdegen", "local demand is strong")

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	user := reqs[0].Messages[1].Content
	assert.Contains(t, user, "bakery in Malmö")
	assert.Contains(t, user, "Surdegen")
	assert.Contains(t, user, "local demand is strong")
}
