// Package resolve maps company names to canonical web domains via a
// secondary search query.
package resolve

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/serper"
)

// Resolver resolves company names to host-only domains. Results are
// memoized by normalized company name for the life of the Resolver, which
// is scoped to a single pipeline run: each distinct company costs at most
// one search call, failures included.
type Resolver struct {
	search serper.Client

	mu    sync.Mutex
	cache map[string]model.ResolvedDomain
}

// New creates a Resolver backed by the given search client.
func New(search serper.Client) *Resolver {
	return &Resolver{
		search: search,
		cache:  make(map[string]model.ResolvedDomain),
	}
}

// Resolve returns the canonical domain for a company name. The domain is
// empty — never an error — when the company is unknown, the search returns
// nothing, or the request fails; resolution misses are expected at
// nontrivial rates and are not pipeline-fatal.
func (r *Resolver) Resolve(ctx context.Context, company string) model.ResolvedDomain {
	if company == "" || company == model.Unknown || company == model.ExtractionFailed {
		return model.ResolvedDomain{Company: company}
	}

	key := strings.ToLower(strings.TrimSpace(company))

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	resolved := r.lookup(ctx, company)

	r.mu.Lock()
	r.cache[key] = resolved
	r.mu.Unlock()

	return resolved
}

func (r *Resolver) lookup(ctx context.Context, company string) model.ResolvedDomain {
	resolved := model.ResolvedDomain{Company: company}

	resp, err := r.search.Search(ctx, serper.SearchRequest{
		Query: company + " official website",
		Num:   1,
	})
	if err != nil {
		zap.L().Warn("resolve: domain search failed",
			zap.String("company", company),
			zap.Error(err),
		)
		return resolved
	}
	if len(resp.Organic) == 0 {
		zap.L().Debug("resolve: no results", zap.String("company", company))
		return resolved
	}

	resolved.Domain = hostOnly(resp.Organic[0].Link)
	return resolved
}

// hostOnly reduces a URL to its bare host, dropping scheme, path and a
// leading "www." label. Returns "" for unparseable input.
func hostOnly(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		// Tolerate scheme-less links like "acme.com/about".
		if u, err = url.Parse("https://" + link); err != nil {
			return ""
		}
		host = u.Host
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host
}
