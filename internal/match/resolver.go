package match

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/refdata"
	"github.com/sells-group/dataquality-cli/internal/store"
)

// CandidateLimit caps the number of rows one fingerprint query may pull
// back for scoring.
const CandidateLimit = 500

// Resolver expands a record's country code into its known aliases and
// fetches master rows sharing the country+postal fingerprint.
type Resolver struct {
	Ref    store.ReferenceStore
	Target store.TargetStore
}

// Resolve returns the candidate pool for a record. An empty country token
// set or empty normalized postal skips the query entirely; matching is
// never attempted with a wildcard. A failed target query is returned to
// the caller, which degrades it to "match not attempted".
func (r *Resolver) Resolve(ctx context.Context, country, postal string) ([]model.Candidate, error) {
	tokens := r.countryTokens(ctx, country)
	normPostal := refdata.NormalizePostal(postal)
	if len(tokens) == 0 || normPostal == "" {
		return nil, nil
	}
	return r.Target.Candidates(ctx, tokens, normPostal, CandidateLimit)
}

// countryTokens returns the input code plus the alpha-2/alpha-3 codes of
// its reference row, so a query for "US" and one for "USA" see the same
// pool. An alias lookup failure degrades to the input token alone.
func (r *Resolver) countryTokens(ctx context.Context, country string) []string {
	key := strings.ToUpper(strings.TrimSpace(country))
	if key == "" {
		return nil
	}

	tokens := []string{key}
	aliases, err := r.Ref.CountryAliases(ctx, key)
	if err != nil {
		zap.L().Warn("match: country alias lookup failed", zap.String("country", key), zap.Error(err))
		return tokens
	}

	seen := map[string]bool{key: true}
	for _, a := range aliases {
		if !seen[a] {
			seen[a] = true
			tokens = append(tokens, a)
		}
	}
	return tokens
}
