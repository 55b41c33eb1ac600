package export

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/match"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/salesforce"
)

// leadSource tags pushed records so reps can tell pipeline leads apart from
// manually entered ones.
const leadSource = "Prospect Pipeline"

// PushResult summarizes a Salesforce lead push.
type PushResult struct {
	Pushed  int
	Failed  int
	Skipped int
}

// PushLeads inserts MATCHED and MATCHED_NO_EMAIL leads as Salesforce Lead
// records. Leads without a separable name or without a company are skipped;
// per-record insert failures are counted, not fatal.
func PushLeads(ctx context.Context, sf salesforce.Client, leads []model.EnrichedLead) (*PushResult, error) {
	result := &PushResult{}

	var records []map[string]any
	for _, l := range leads {
		record, ok := toLeadRecord(l)
		if !ok {
			result.Skipped++
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return result, nil
	}

	results, err := sf.InsertCollection(ctx, "Lead", records)
	if err != nil {
		return nil, eris.Wrap(err, "export: push leads")
	}

	for _, r := range results {
		if r.Success {
			result.Pushed++
			continue
		}
		result.Failed++
		zap.L().Warn("export: lead insert failed",
			zap.Strings("errors", r.Errors),
		)
	}

	return result, nil
}

// toLeadRecord maps an EnrichedLead onto the standard Lead object. Salesforce
// requires LastName and Company, so leads missing either are not pushable.
func toLeadRecord(l model.EnrichedLead) (map[string]any, bool) {
	if l.Status != model.StatusMatched && l.Status != model.StatusMatchedNoEmail {
		return nil, false
	}
	first, last, ok := match.SplitName(l.Name)
	if !ok || !l.CompanyKnown() {
		return nil, false
	}
	if last == "" {
		// Single-token names go entirely into LastName.
		first, last = "", first
	}

	record := map[string]any{
		"LastName":   last,
		"Company":    l.Company,
		"Title":      l.Role,
		"LeadSource": leadSource,
	}
	if first != "" {
		record["FirstName"] = first
	}
	if l.Email != "" {
		record["Email"] = l.Email
	}
	if l.Domain != "" {
		record["Website"] = l.Domain
	}
	if l.DraftEmail != "" {
		record["Description"] = "Draft outreach:\n" + strings.TrimSpace(l.DraftEmail)
	}
	return record, true
}
