package extract

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/serper"
)

const extractSystem = `You extract professional identity fields from search results. Reply with a single JSON object containing exactly three string fields: "name", "role", "company". Prefer the company name following an "at" or "@" token in the title. If the title lacks a company, scan the snippet. Use the literal string "unknown" for any field you cannot determine. Never omit a field and never add fields.`

const extractPrompt = `Search result title:
%TITLE%

Search result snippet:
%SNIPPET%

Extract the person's name, role, and company.`

// ModelExtractor sends the title and snippet to Claude with a fixed
// instruction set and requires a schema-constrained three-field JSON reply.
// Calls are independent per hit and safe to run concurrently.
type ModelExtractor struct {
	AI    anthropic.Client
	Model string
}

// identityReply is the constrained reply schema.
type identityReply struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
}

func (e *ModelExtractor) Extract(ctx context.Context, hit serper.OrganicResult) model.CandidateIdentity {
	prompt := strings.NewReplacer(
		"%TITLE%", hit.Title,
		"%SNIPPET%", hit.Snippet,
	).Replace(extractPrompt)

	resp, err := e.AI.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.Model,
		MaxTokens: 256,
		System:    extractSystem,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return failedIdentity(hit, "transport: "+err.Error())
	}
	resp.Usage.LogCost(e.Model, "extract")

	reply, err := parseIdentityReply(resp.Text())
	if err != nil {
		zap.L().Warn("extract: malformed model reply",
			zap.String("link", hit.Link),
			zap.Error(err),
		)
		return failedIdentity(hit, "schema: "+err.Error())
	}

	return model.CandidateIdentity{
		Name:       orUnknown(reply.Name),
		Role:       orUnknown(reply.Role),
		Company:    orUnknown(reply.Company),
		SourceLink: hit.Link,
		Snippet:    hit.Snippet,
	}
}

// parseIdentityReply decodes the model output, tolerating markdown code
// fences, and enforces the three-field schema.
func parseIdentityReply(text string) (*identityReply, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var reply identityReply
	if err := dec.Decode(&reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Unknown
	}
	return s
}

// failedIdentity marks all three fields with the extraction-failed sentinel,
// distinct from unknown, so model misbehavior is countable separately from
// genuinely sparse source data.
func failedIdentity(hit serper.OrganicResult, reason string) model.CandidateIdentity {
	return model.CandidateIdentity{
		Name:       model.ExtractionFailed,
		Role:       model.ExtractionFailed,
		Company:    model.ExtractionFailed,
		SourceLink: hit.Link,
		Snippet:    hit.Snippet,
		Reason:     reason,
	}
}
