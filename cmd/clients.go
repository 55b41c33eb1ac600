package main

import (
	"context"
	"os"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/store"
	anthropicpkg "github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/apollo"
	"github.com/sells-group/prospect-cli/pkg/salesforce"
	"github.com/sells-group/prospect-cli/pkg/serper"
)

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initPipeline wires the enrichment pipeline from config. The anthropic
// client is only built when a stage needs it.
func initPipeline(st store.Store) (*pipeline.Pipeline, error) {
	if cfg.Serper.Key == "" {
		return nil, eris.New("serper API key is required (PROSPECT_SERPER_KEY)")
	}
	if cfg.Apollo.Key == "" {
		return nil, eris.New("apollo API key is required (PROSPECT_APOLLO_KEY)")
	}

	searchClient := serper.NewClient(cfg.Serper.Key,
		serper.WithBaseURL(cfg.Serper.BaseURL),
		serper.WithRateLimit(cfg.Serper.RateRPS),
	)
	apolloClient := apollo.NewClient(cfg.Apollo.Key,
		apollo.WithBaseURL(cfg.Apollo.BaseURL),
		apollo.WithRateLimit(cfg.Apollo.RateRPS),
	)

	var aiClient anthropicpkg.Client
	if cfg.Pipeline.Strategy == "model" || cfg.Pipeline.DraftEmails {
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("anthropic API key is required (PROSPECT_ANTHROPIC_KEY)")
		}
		aiClient = anthropicpkg.NewClient(cfg.Anthropic.Key)
	}

	return pipeline.New(cfg, searchClient, apolloClient, aiClient, st)
}

func initSalesforce() (salesforce.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (PROSPECT_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return salesforce.NewClient(sf), nil
}
