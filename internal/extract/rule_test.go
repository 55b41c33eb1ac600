package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/serper"
)

func TestRuleExtract_WellFormedTitle(t *testing.T) {
	e := &RuleExtractor{}
	id := e.Extract(context.Background(), serper.OrganicResult{
		Title:   "Maria Reyes - Logistics Manager - Gulf Shipping | LinkedIn",
		Link:    "https://linkedin.com/in/mariareyes",
		Snippet: "Dubai, UAE",
	})

	assert.Equal(t, "Maria Reyes", id.Name)
	assert.Equal(t, "Logistics Manager", id.Role)
	assert.Equal(t, "Gulf Shipping", id.Company)
	assert.Equal(t, "https://linkedin.com/in/mariareyes", id.SourceLink)
	assert.Equal(t, "Dubai, UAE", id.Snippet)
}

func TestRuleExtract_MissingSegments(t *testing.T) {
	e := &RuleExtractor{}

	tests := []struct {
		name    string
		title   string
		want    model.CandidateIdentity
	}{
		{
			name:  "name only",
			title: "Maria Reyes",
			want:  model.CandidateIdentity{Name: "Maria Reyes", Role: model.Unknown, Company: model.Unknown},
		},
		{
			name:  "name and role",
			title: "Maria Reyes - Logistics Manager",
			want:  model.CandidateIdentity{Name: "Maria Reyes", Role: "Logistics Manager", Company: model.Unknown},
		},
		{
			name:  "empty title",
			title: "",
			want:  model.CandidateIdentity{Name: model.Unknown, Role: model.Unknown, Company: model.Unknown},
		},
		{
			name:  "suffix without company",
			title: "Maria Reyes - Logistics Manager - | LinkedIn",
			want:  model.CandidateIdentity{Name: "Maria Reyes", Role: "Logistics Manager", Company: model.Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := e.Extract(context.Background(), serper.OrganicResult{Title: tt.title})
			assert.Equal(t, tt.want.Name, id.Name)
			assert.Equal(t, tt.want.Role, id.Role)
			assert.Equal(t, tt.want.Company, id.Company)
		})
	}
}

func TestRuleExtract_ShoutyName(t *testing.T) {
	e := &RuleExtractor{}
	id := e.Extract(context.Background(), serper.OrganicResult{
		Title: "MARIA REYES - LOGISTICS MANAGER - Gulf Shipping",
	})

	assert.Equal(t, "Maria Reyes", id.Name)
	assert.Equal(t, "Logistics Manager", id.Role)
	// Mixed case is left untouched.
	assert.Equal(t, "Gulf Shipping", id.Company)
}

func TestRuleExtract_NeverEmptyFields(t *testing.T) {
	e := &RuleExtractor{}
	id := e.Extract(context.Background(), serper.OrganicResult{Title: " - - "})

	assert.Equal(t, model.Unknown, id.Name)
	assert.Equal(t, model.Unknown, id.Role)
	assert.Equal(t, model.Unknown, id.Company)
	assert.False(t, id.CompanyKnown())
}
