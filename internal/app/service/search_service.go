package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/geocode"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/hours"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
)

const (
	DefaultSearchRadius = 25.0
	MaxSearchRadius     = 250.0
	SearchPageSize      = 6

	SortDistance = "distance"
	SortRating   = "rating"
	SortVerified = "verified"

	LocationNotFoundMessage = "Location not found"
)

// chainBlocklist hides big-box and public-aquarium listings from search.
var chainBlocklist = []string{
	"walmart", "tractor supply", "target", "shedd aquarium",
	"wild reef", "h mart", "fresh market", "grocery",
}

type SearchQuery struct {
	Query       string
	RadiusMiles float64
	Specialties []string
	OpenNow     bool
	Sort        string
	Page        int
}

type SearchResult struct {
	Results    []StoreCard       `json:"results"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	Location   *geocode.Location `json:"location,omitempty"`
	Message    string            `json:"error,omitempty"`
}

type SearchService interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

type searchService struct {
	storeRepo repository.StoreRepository
	geocoder  geocode.Geocoder
	cfg       DirectoryConfig
	metrics   *metrics.DirectoryMetrics
	now       func() time.Time
}

func NewSearchService(storeRepo repository.StoreRepository, geocoder geocode.Geocoder, cfg DirectoryConfig, m *metrics.DirectoryMetrics) SearchService {
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.UTC
	}
	return &searchService{
		storeRepo: storeRepo,
		geocoder:  geocoder,
		cfg:       cfg,
		metrics:   m,
		now:       time.Now,
	}
}

func emptySearch(page int) *SearchResult {
	return &SearchResult{Results: []StoreCard{}, Page: page, PageSize: SearchPageSize}
}

func (s *searchService) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	query := strings.TrimSpace(q.Query)
	page := q.Page
	if page < 1 {
		page = 1
	}
	if query == "" {
		return emptySearch(page), nil
	}

	radius := q.RadiusMiles
	if radius <= 0 {
		radius = DefaultSearchRadius
	}
	if radius > MaxSearchRadius {
		radius = MaxSearchRadius
	}

	loc, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if !errors.Is(err, geocode.ErrNotFound) {
			logger.Warn("Geocoding failed", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
		}
		s.metrics.Inc("search", "location_not_found")
		res := emptySearch(page)
		res.Message = LocationNotFoundMessage
		return res, nil
	}

	candidates, err := s.storeRepo.FindInBox(util.BoundingBoxMiles(loc.Lat, loc.Lng, radius))
	if err != nil {
		s.metrics.Inc("search", outcomeError)
		logger.Error("Failed to run proximity query", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	now := s.now()
	matches := make([]StoreCard, 0, len(candidates))
	for i := range candidates {
		store := &candidates[i]
		if store.Latitude == nil || store.Longitude == nil {
			continue
		}
		dist := util.DistanceMiles(loc.Lat, loc.Lng, *store.Latitude, *store.Longitude)
		if dist > radius {
			continue
		}
		if isBlockedChain(store.Name) || !store.IsReviewed {
			continue
		}
		if !matchesSpecialty(store.SpecialtyTags, q.Specialties) {
			continue
		}
		storeLoc := storeLocation(store, s.cfg.DefaultLocation)
		if q.OpenNow && !hours.IsOpenAt(model.ToDays(store.Hours), now, storeLoc) {
			continue
		}
		card := newStoreCard(store, s.cfg.PlacesAPIKey, now, storeLoc)
		d := roundMiles(dist)
		card.DistanceMiles = &d
		matches = append(matches, card)
	}

	sortCards(matches, q.Sort)

	total := len(matches)
	totalPages := (total + SearchPageSize - 1) / SearchPageSize
	start := (page - 1) * SearchPageSize
	end := start + SearchPageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	s.metrics.Inc("search", outcomeSuccess)
	logger.Debug("Search completed", map[string]interface{}{
		"query":  query,
		"radius": radius,
		"total":  total,
	})

	return &SearchResult{
		Results:    matches[start:end],
		Total:      total,
		Page:       page,
		PageSize:   SearchPageSize,
		TotalPages: totalPages,
		Location:   loc,
	}, nil
}

func isBlockedChain(name string) bool {
	lower := strings.ToLower(name)
	for _, chain := range chainBlocklist {
		if strings.Contains(lower, chain) {
			return true
		}
	}
	return false
}

// matchesSpecialty is a case-insensitive substring match in either direction,
// so "Saltwater & Reef" selects a store tagged "reef".
func matchesSpecialty(tags []string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			continue
		}
		for _, tag := range tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if strings.Contains(tag, want) || strings.Contains(want, tag) {
				return true
			}
		}
	}
	return false
}

func sortCards(cards []StoreCard, mode string) {
	distance := func(c StoreCard) float64 {
		if c.DistanceMiles == nil {
			return 0
		}
		return *c.DistanceMiles
	}
	switch mode {
	case SortRating:
		sort.SliceStable(cards, func(i, j int) bool {
			if cards[i].Rating != cards[j].Rating {
				return cards[i].Rating > cards[j].Rating
			}
			return distance(cards[i]) < distance(cards[j])
		})
	case SortVerified:
		sort.SliceStable(cards, func(i, j int) bool {
			if cards[i].IsVerified != cards[j].IsVerified {
				return cards[i].IsVerified
			}
			if cards[i].IsClaimed != cards[j].IsClaimed {
				return cards[i].IsClaimed
			}
			return distance(cards[i]) < distance(cards[j])
		})
	default:
		sort.SliceStable(cards, func(i, j int) bool {
			return distance(cards[i]) < distance(cards[j])
		})
	}
}

func roundMiles(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
