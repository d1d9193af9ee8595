package places

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-travel-planner/internal/api/retry"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	sourceGooglePlaces = "google_places"
	memoSize           = 256
	memoTTL            = time.Hour
)

// Provider searches an external places index.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]types.PlaceCandidate, error)
}

var _ Provider = (*GoogleMapsProvider)(nil)

type GoogleMapsProvider struct {
	logger *slog.Logger
	client *maps.Client
	policy retry.Policy
	memo   *expirable.LRU[string, []types.PlaceCandidate]
}

// NewGoogleMapsProvider builds a text search provider. Extra client options
// (such as maps.WithBaseURL) are applied after the API key.
func NewGoogleMapsProvider(apiKey string, policy retry.Policy, logger *slog.Logger, opts ...maps.ClientOption) (*GoogleMapsProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google maps client: %w", err)
	}
	return &GoogleMapsProvider{
		logger: logger,
		client: client,
		policy: policy,
		memo:   expirable.NewLRU[string, []types.PlaceCandidate](memoSize, nil, memoTTL),
	}, nil
}

func (p *GoogleMapsProvider) Search(ctx context.Context, query string, limit int) ([]types.PlaceCandidate, error) {
	ctx, span := otel.Tracer("PlacesProvider").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("query", query),
		attribute.Int("limit", limit),
	))
	defer span.End()

	key := strings.ToLower(strings.TrimSpace(query))
	if cached, ok := p.memo.Get(key); ok {
		span.SetAttributes(attribute.Bool("memo.hit", true))
		return truncate(cloneAll(cached), limit), nil
	}

	resp, err := retry.Do(ctx, p.policy, func() (maps.PlacesSearchResponse, error) {
		r, err := p.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
		if err != nil && isPermanent(err) {
			return r, retry.Permanent(err)
		}
		return r, err
	})
	if err != nil {
		p.logger.WarnContext(ctx, "Places text search failed", slog.String("query", query), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "text search failed")
		return nil, fmt.Errorf("text search %q: %w", query, err)
	}

	candidates := make([]types.PlaceCandidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		candidates = append(candidates, toCandidate(r))
	}
	p.memo.Add(key, candidates)

	span.SetAttributes(attribute.Int("results.count", len(candidates)))
	span.SetStatus(codes.Ok, "text search completed")
	return truncate(cloneAll(candidates), limit), nil
}

func toCandidate(r maps.PlacesSearchResult) types.PlaceCandidate {
	c := types.PlaceCandidate{
		Name:       r.Name,
		Category:   types.PlaceAttraction,
		Address:    r.FormattedAddress,
		Latitude:   r.Geometry.Location.Lat,
		Longitude:  r.Geometry.Location.Lng,
		ExternalID: r.PlaceID,
		Source:     sourceGooglePlaces,
	}
	if r.Rating > 0 {
		c.Rating = rating(float64(r.Rating))
	}
	if r.PriceLevel > 0 {
		pl := r.PriceLevel
		c.PriceLevel = &pl
	}
	return c
}

// isPermanent reports API statuses that retrying cannot fix.
func isPermanent(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "REQUEST_DENIED") || strings.Contains(msg, "INVALID_REQUEST")
}

func truncate(in []types.PlaceCandidate, limit int) []types.PlaceCandidate {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
