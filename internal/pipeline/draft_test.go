package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

func TestDraftAll_OnlyMatchedLeads(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(promptContains("Maria Reyes"))).
		Return(textResponse("Hi Maria, noticed your logistics work at Gulf Shipping..."), nil).Once()

	leads := []model.EnrichedLead{
		{Name: "Maria Reyes", Role: "Logistics Manager", Company: "Gulf Shipping",
			Email: "m@gulf.com", Status: model.StatusMatched},
		{Name: "John Smith", Role: "Ops Lead", Company: "Acme", Status: model.StatusNotFound},
	}

	d := NewDrafter(ai, "claude-sonnet-4-5-20250929")
	d.DraftAll(context.Background(), testTarget(), leads)

	assert.NotEmpty(t, leads[0].DraftEmail)
	assert.Empty(t, leads[1].DraftEmail)
	ai.AssertExpectations(t)
}

func TestDraftAll_PromptCarriesPitchAndProfileContext(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		for _, substr := range []string{
			"Product: FreightIQ",
			"Value proposition: Cut detention fees with live container tracking",
			"Profile context: Houston, Texas · 500+ connections",
		} {
			if !promptContains(substr)(req) {
				return false
			}
		}
		return true
	})).Return(textResponse("Hi Maria..."), nil).Once()

	target := testTarget()
	target.Product = "FreightIQ"
	target.ValueProp = "Cut detention fees with live container tracking"

	leads := []model.EnrichedLead{
		{Name: "Maria Reyes", Role: "Logistics Manager", Company: "Gulf Shipping",
			Email: "m@gulf.com", Status: model.StatusMatched,
			Snippet: "Houston, Texas · 500+ connections"},
	}

	d := NewDrafter(ai, "claude-sonnet-4-5-20250929")
	d.DraftAll(context.Background(), target, leads)

	assert.Equal(t, "Hi Maria...", leads[0].DraftEmail)
	ai.AssertExpectations(t)
}

func TestDraftAll_FailureLeavesLeadIntact(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("anthropic: unexpected status 529")).Once()

	leads := []model.EnrichedLead{
		{Name: "Maria Reyes", Role: "Logistics Manager", Company: "Gulf Shipping",
			Email: "m@gulf.com", Status: model.StatusMatched},
	}

	d := NewDrafter(ai, "claude-sonnet-4-5-20250929")
	d.DraftAll(context.Background(), testTarget(), leads)

	assert.Empty(t, leads[0].DraftEmail)
	assert.Equal(t, model.StatusMatched, leads[0].Status)
}
