package research_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/advisor/research"
	"github.com/robin-app/ideation/llm"
	"github.com/robin-app/ideation/llm/testutil"
)

const fullResponse = `{
	"marketSummary": {
		"overview": "Stockholm's specialty coffee market is maturing.",
		"estimatedMarketSize": "2.1 billion SEK",
		"growthTrend": "growing",
		"keyInsights": ["Third-wave coffee demand rising", "High rent pressure in city center"]
	},
	"keyCompetitors": [
		{"name": "Drop Coffee", "description": "Award-winning roastery", "strengths": ["Brand", "Quality"], "estimatedPriceRange": "45-65 SEK"}
	],
	"targetAudience": {
		"primarySegment": "Urban professionals 25-40",
		"demographics": "High disposable income",
		"painPoints": ["Queues at peak hours"],
		"buyingBehavior": "Daily habitual purchases"
	},
	"marketViabilityScore": {
		"overall": 7, "demandLevel": 8, "competitionIntensity": 7,
		"barrierToEntry": 5, "profitPotential": 6,
		"reasoning": "Strong demand but crowded."
	},
	"pricingBenchmark": {"low": "35 SEK", "median": "48 SEK", "high": "70 SEK", "currency": "SEK"},
	"opportunities": ["Subscription models"],
	"risks": ["Rising bean prices"],
	"recommendations": ["Start with a pop-up"]
}`

func TestPerformSuccess(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: fullResponse, Model: "test-model"}},
	}
	svc := research.NewService(advisor.NewEngine(mock))

	out := svc.Perform(context.Background(), "specialty coffee shop in Stockholm")

	require.True(t, out.Success, "error: %s", out.Error)
	assert.Equal(t, "Stockholm's specialty coffee market is maturing.", out.Data.MarketSummary.Overview)
	assert.Equal(t, "growing", out.Data.MarketSummary.GrowthTrend)
	require.Len(t, out.Data.KeyCompetitors, 1)
	assert.Equal(t, "Drop Coffee", out.Data.KeyCompetitors[0].Name)
	assert.Equal(t, 7, out.Data.MarketViabilityScore.Overall)
	assert.Equal(t, "SEK", out.Data.PricingBenchmark.Currency)
	assert.Equal(t, 1, mock.CallCount())
}

func TestPerformEmptyDescription(t *testing.T) {
	mock := &testutil.MockClient{}
	svc := research.NewService(advisor.NewEngine(mock))

	for _, desc := range []string{"", "   ", "\t\n"} {
		out := svc.Perform(context.Background(), desc)
		require.False(t, out.Success)
		assert.Equal(t, "Business description cannot be empty", out.Error)
	}
	assert.Equal(t, 0, mock.CallCount(), "precondition failures never reach the model")
}

func TestPerformRepairsDriftedResponse(t *testing.T) {
	// Aliased keys, a flattened summary, string scores, and missing arrays
	// all repair silently in one pass.
	drifted := `{
		"marketSummary": "A growing market.",
		"competitors": [{"name": "Rival", "about": "Local chain", "pricing": "40 SEK"}],
		"target_audience": {"segment": "Students"},
		"viabilityScore": {"score": "8", "demand": 15, "reasoning": "solid"},
		"pricing": {"min": "30", "max": "60"}
	}`
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: drifted, Model: "test-model"}},
	}
	svc := research.NewService(advisor.NewEngine(mock))

	out := svc.Perform(context.Background(), "coffee shop")

	require.True(t, out.Success, "error: %s", out.Error)
	assert.Equal(t, "A growing market.", out.Data.MarketSummary.Overview)
	assert.Empty(t, out.Data.MarketSummary.KeyInsights, "scalar wrap seeds empty arrays")
	assert.Equal(t, "stable", out.Data.MarketSummary.GrowthTrend)
	require.Len(t, out.Data.KeyCompetitors, 1)
	assert.Equal(t, "Local chain", out.Data.KeyCompetitors[0].Description)
	assert.Equal(t, "40 SEK", out.Data.KeyCompetitors[0].EstimatedPriceRange)
	assert.Equal(t, "Students", out.Data.TargetAudience.PrimarySegment)
	assert.Equal(t, 8, out.Data.MarketViabilityScore.Overall)
	assert.Equal(t, 10, out.Data.MarketViabilityScore.DemandLevel, "scores clamp to 10")
	assert.Equal(t, 5, out.Data.MarketViabilityScore.ProfitPotential, "absent scores take the midpoint")
	assert.Equal(t, "30", out.Data.PricingBenchmark.Low)
	assert.Equal(t, []string{"No data available"}, out.Data.Opportunities)
	assert.Equal(t, 1, mock.CallCount(), "silent repair must not consume a retry")
}

func TestPerformRetriesThenFails(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{
			{Content: "I'd be happy to help! What kind of business?", Model: "test-model"},
			{Content: `{"marketSummary": {"overview": "x"}}`, Model: "test-model"},
		},
	}
	svc := research.NewService(advisor.NewEngine(mock))

	out := svc.Perform(context.Background(), "coffee shop")

	require.False(t, out.Success)
	assert.Equal(t, 2, mock.CallCount())
	assert.Contains(t, out.Error, "Failed after 2 attempts. Last error: ")
	assert.Contains(t, out.Error, "Missing or invalid sections: keyCompetitors, targetAudience, marketViabilityScore, pricingBenchmark")
}

func TestPerformFatalTransportError(t *testing.T) {
	mock := &testutil.MockClient{
		Err: llm.NewFatalError(assert.AnError),
	}
	svc := research.NewService(advisor.NewEngine(mock))

	out := svc.Perform(context.Background(), "coffee shop")

	require.False(t, out.Success)
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, assert.AnError.Error(), out.Error)
}
