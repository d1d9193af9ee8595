package places

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	sourceSeed     = "seed"
	sourceFallback = "fallback"
)

func rating(v float64) *float64 { return &v }

func seedPlace(name string, category types.PlaceCategory, city, country string, lat, lng, score float64, tags []string, externalID string) types.PlaceCandidate {
	return types.PlaceCandidate{
		Name:       name,
		Category:   category,
		City:       city,
		Country:    country,
		Latitude:   lat,
		Longitude:  lng,
		Rating:     rating(score),
		Tags:       tags,
		ExternalID: externalID,
		Source:     sourceSeed,
	}
}

// seedBundles is the curated table keyed by lower-case destination.
// Recommend hands out deep copies only.
var seedBundles = map[string]types.RecommendationBundle{
	"tokyo": {
		Accommodations: []types.PlaceCandidate{
			seedPlace("Shinjuku Granbell Hotel", types.PlaceAccommodation, "Tokyo", "Japan", 35.6938, 139.7034, 4.2, []string{"boutique", "nightlife"}, "tokyo_accommodation_1"),
		},
		Activities: []types.PlaceCandidate{
			seedPlace("Senso-ji Temple", types.PlaceAttraction, "Tokyo", "Japan", 35.7148, 139.7967, 4.7, []string{"culture", "historic"}, "tokyo_activity_1"),
			seedPlace("teamLab Borderless", types.PlaceAttraction, "Tokyo", "Japan", 35.6276, 139.7798, 4.6, []string{"art", "digital"}, "tokyo_activity_2"),
			seedPlace("Meiji Shrine", types.PlaceAttraction, "Tokyo", "Japan", 35.6764, 139.6993, 4.6, []string{"shrine", "nature"}, "tokyo_activity_3"),
		},
		Restaurants: []types.PlaceCandidate{
			seedPlace("Ichiran Ramen Shinjuku", types.PlaceRestaurant, "Tokyo", "Japan", 35.6932, 139.7030, 4.4, []string{"ramen", "noodle"}, "tokyo_restaurant_1"),
			seedPlace("Sukiyabashi Jiro Roppongi", types.PlaceRestaurant, "Tokyo", "Japan", 35.6617, 139.7326, 4.5, []string{"sushi", "fine-dining"}, "tokyo_restaurant_2"),
			seedPlace("Tsukiji Outer Market", types.PlaceRestaurant, "Tokyo", "Japan", 35.6654, 139.7708, 4.3, []string{"seafood", "street-food"}, "tokyo_restaurant_3"),
		},
		Cafes: []types.PlaceCandidate{
			seedPlace("Blue Bottle Coffee Aoyama", types.PlaceCafe, "Tokyo", "Japan", 35.6635, 139.7083, 4.4, []string{"coffee", "minimal"}, "tokyo_cafe_1"),
		},
	},
	"seoul": {
		Accommodations: []types.PlaceCandidate{
			seedPlace("L7 Myeongdong", types.PlaceAccommodation, "Seoul", "South Korea", 37.5636, 126.9852, 4.3, []string{"shopping", "central"}, "seoul_accommodation_1"),
		},
		Activities: []types.PlaceCandidate{
			seedPlace("Gyeongbokgung Palace", types.PlaceAttraction, "Seoul", "South Korea", 37.5796, 126.9770, 4.6, []string{"palace", "history"}, "seoul_activity_1"),
			seedPlace("Bukchon Hanok Village", types.PlaceAttraction, "Seoul", "South Korea", 37.5826, 126.9830, 4.4, []string{"traditional", "culture"}, "seoul_activity_2"),
		},
		Restaurants: []types.PlaceCandidate{
			seedPlace("Jinju Jip", types.PlaceRestaurant, "Seoul", "South Korea", 37.5659, 126.9830, 4.4, []string{"galbitang", "korean"}, "seoul_restaurant_1"),
			seedPlace("Tosokchon Samgyetang", types.PlaceRestaurant, "Seoul", "South Korea", 37.5790, 126.9716, 4.3, []string{"samgyetang", "heritage"}, "seoul_restaurant_2"),
		},
		Cafes: []types.PlaceCandidate{
			seedPlace("Onion Anguk", types.PlaceCafe, "Seoul", "South Korea", 37.5795, 126.9860, 4.5, []string{"bakery", "hanok"}, "seoul_cafe_1"),
		},
	},
}

func seedKey(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}

// lookupSeed returns a deep copy of the seed bundle for destination.
func lookupSeed(destination string) (types.RecommendationBundle, bool) {
	seed, ok := seedBundles[seedKey(destination)]
	if !ok {
		return types.RecommendationBundle{}, false
	}
	return types.RecommendationBundle{
		Accommodations: cloneAll(seed.Accommodations),
		Activities:     cloneAll(seed.Activities),
		Restaurants:    cloneAll(seed.Restaurants),
		Cafes:          cloneAll(seed.Cafes),
		Warnings:       []string{},
	}, true
}

func cloneAll(in []types.PlaceCandidate) []types.PlaceCandidate {
	out := make([]types.PlaceCandidate, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// fallbackBundle synthesizes one generic place per category.
func fallbackBundle(destination, country string) types.RecommendationBundle {
	slug := strings.ReplaceAll(seedKey(destination), " ", "_")
	generic := func(name string, category types.PlaceCategory, offset, score float64, kind string) types.PlaceCandidate {
		return types.PlaceCandidate{
			Name:       fmt.Sprintf("%s %s", name, destination),
			Category:   category,
			City:       destination,
			Country:    country,
			Latitude:   offset,
			Longitude:  offset,
			Rating:     rating(score),
			ExternalID: fmt.Sprintf("generic_%s_%s", kind, slug),
			Source:     sourceFallback,
		}
	}
	return types.RecommendationBundle{
		Accommodations: []types.PlaceCandidate{generic("Central Boutique Stay", types.PlaceAccommodation, 0.0, 4.0, "accommodation")},
		Activities:     []types.PlaceCandidate{generic("Guided City Walking Tour", types.PlaceAttraction, 0.01, 4.2, "activity")},
		Restaurants:    []types.PlaceCandidate{generic("Local Eats", types.PlaceRestaurant, 0.02, 4.0, "restaurant")},
		Cafes:          []types.PlaceCandidate{generic("Coffee Corner", types.PlaceCafe, 0.03, 4.1, "cafe")},
		Warnings: []string{
			fmt.Sprintf("Detailed data for %s is limited, so generic recommendations are shown.", destination),
		},
	}
}
