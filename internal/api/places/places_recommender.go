package places

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const foodInterest = "food"

// Recommender builds the candidate bundle for a destination. provider may be nil.
type Recommender struct {
	logger   *slog.Logger
	provider Provider
	h        types.Heuristics
}

func NewRecommender(provider Provider, h types.Heuristics, logger *slog.Logger) *Recommender {
	return &Recommender{logger: logger, provider: provider, h: h}
}

// Recommend never fails: unknown destinations get the fallback bundle and
// provider errors become warnings.
func (r *Recommender) Recommend(ctx context.Context, destination, country string, prefs types.AnalyzedPreferences) types.RecommendationBundle {
	ctx, span := otel.Tracer("PlacesRecommender").Start(ctx, "Recommend", trace.WithAttributes(
		attribute.String("destination", destination),
	))
	defer span.End()

	bundle, ok := lookupSeed(destination)
	if !ok {
		r.logger.InfoContext(ctx, "No seed data for destination, using fallback", slog.String("destination", destination))
		bundle = fallbackBundle(destination, country)
	}

	if prefs.HasInterest(foodInterest) {
		sortRestaurants(bundle.Restaurants)
	}

	if r.provider != nil {
		r.augment(ctx, &bundle, destination, country, prefs.Interests)
	}

	if len(bundle.Activities) == 0 {
		bundle.Warnings = append(bundle.Warnings,
			"No activities matched your preferences. Try adjusting your interests.")
	}

	span.SetAttributes(
		attribute.Int("activities.count", len(bundle.Activities)),
		attribute.Int("warnings.count", len(bundle.Warnings)),
	)
	span.SetStatus(codes.Ok, "bundle built")
	return bundle
}

// sortRestaurants puts food-tagged, higher-rated places first.
func sortRestaurants(rs []types.PlaceCandidate) {
	sort.SliceStable(rs, func(i, j int) bool {
		fi, fj := rs[i].HasTag(foodInterest), rs[j].HasTag(foodInterest)
		if fi != fj {
			return fi
		}
		return rs[i].RatingValue() > rs[j].RatingValue()
	})
}

type searchResult struct {
	interest string
	places   []types.PlaceCandidate
	err      error
}

// augment queries the provider for the leading interests in parallel. Each
// goroutine owns one result slot so a failing query never cancels the others.
func (r *Recommender) augment(ctx context.Context, bundle *types.RecommendationBundle, destination, country string, interests []string) {
	queries := interests
	if len(queries) > r.h.ProviderQueryLimit {
		queries = queries[:r.h.ProviderQueryLimit]
	}
	if len(queries) == 0 {
		return
	}

	results := make([]searchResult, len(queries))
	var g errgroup.Group
	for i, interest := range queries {
		g.Go(func() error {
			found, err := r.provider.Search(ctx, fmt.Sprintf("%s %s", interest, destination), r.h.ProviderResultCap)
			results[i] = searchResult{interest: interest, places: found, err: err}
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	for _, pool := range [][]types.PlaceCandidate{bundle.Accommodations, bundle.Activities, bundle.Restaurants, bundle.Cafes} {
		for _, p := range pool {
			if p.ExternalID != "" {
				seen[p.ExternalID] = struct{}{}
			}
		}
	}

	for _, res := range results {
		if res.err != nil {
			r.logger.WarnContext(ctx, "Place provider lookup failed",
				slog.String("interest", res.interest), slog.Any("error", res.err))
			bundle.Warnings = append(bundle.Warnings,
				fmt.Sprintf("Could not fetch live suggestions for %q; showing curated places only.", res.interest))
			continue
		}
		if len(res.places) == 0 {
			bundle.Warnings = append(bundle.Warnings,
				fmt.Sprintf("No live suggestions found for %q in %s.", res.interest, destination))
			continue
		}
		added := 0
		for _, p := range res.places {
			if added >= r.h.ProviderResultCap {
				break
			}
			if p.ExternalID != "" {
				if _, dup := seen[p.ExternalID]; dup {
					continue
				}
				seen[p.ExternalID] = struct{}{}
			}
			p.Category = types.PlaceAttraction
			if p.City == "" {
				p.City = destination
			}
			if p.Country == "" {
				p.Country = country
			}
			if !p.HasTag(res.interest) {
				p.Tags = append(p.Tags, res.interest)
			}
			if p.Source == "" {
				p.Source = sourceGooglePlaces
			}
			bundle.Activities = append(bundle.Activities, p)
			added++
		}
	}
}
