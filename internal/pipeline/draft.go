package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

const draftSystem = `You write short cold-outreach emails for B2B sales prospecting.
Rules:
- At most 120 words, plain text, no subject line.
- Open with one specific reference to the recipient's role and company,
  using their profile context when provided.
- Pitch the product with the value proposition provided, one low-friction
  call to action.
- No placeholders like [Name]; use the details provided verbatim.`

const draftMaxTokens = 512

// Drafter generates cold-outreach drafts for matched leads.
type Drafter struct {
	ai    anthropic.Client
	model string
}

// NewDrafter creates a Drafter using the given model.
func NewDrafter(ai anthropic.Client, modelID string) *Drafter {
	return &Drafter{ai: ai, model: modelID}
}

// DraftAll fills in DraftEmail for every MATCHED lead in place. Drafting is
// best-effort: a failed draft logs and leaves the field empty, it never
// affects the lead's status.
func (d *Drafter) DraftAll(ctx context.Context, target model.TargetQuery, leads []model.EnrichedLead) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	var usageMu sync.Mutex
	var usage anthropic.TokenUsage
	for i := range leads {
		if leads[i].Status != model.StatusMatched {
			continue
		}
		g.Go(func() error {
			draft, u, err := d.draft(gCtx, target, leads[i])
			if err != nil {
				zap.L().Warn("pipeline: draft failed",
					zap.String("name", leads[i].Name),
					zap.Error(err),
				)
				return nil
			}
			leads[i].DraftEmail = draft
			usageMu.Lock()
			usage.Add(u)
			usageMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	usage.LogCost(d.model, "draft")
}

func (d *Drafter) draft(ctx context.Context, target model.TargetQuery, lead model.EnrichedLead) (string, anthropic.TokenUsage, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Recipient: %s, %s at %s.\n", lead.Name, lead.Role, lead.Company)
	if lead.Domain != "" {
		fmt.Fprintf(&prompt, "Company website: %s\n", lead.Domain)
	}
	if lead.Snippet != "" {
		fmt.Fprintf(&prompt, "Profile context: %s\n", lead.Snippet)
	}
	if target.Industry != "" {
		fmt.Fprintf(&prompt, "Industry: %s\n", target.Industry)
	}
	if target.Product != "" {
		fmt.Fprintf(&prompt, "Product: %s\n", target.Product)
	}
	if target.ValueProp != "" {
		fmt.Fprintf(&prompt, "Value proposition: %s\n", target.ValueProp)
	}
	prompt.WriteString("Write the outreach email body.")

	resp, err := d.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     d.model,
		MaxTokens: draftMaxTokens,
		System:    draftSystem,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt.String()}},
	})
	if err != nil {
		return "", anthropic.TokenUsage{}, err
	}

	return strings.TrimSpace(resp.Text()), resp.Usage, nil
}
