package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/hours"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	topStoresPerState  = 6
	recentStoresLimit  = 4
	sitemapStoreLimit  = 5000
	confirmationWindow = 90 * 24 * time.Hour
)

// DirectoryConfig holds the values the read side needs from config.
type DirectoryConfig struct {
	SiteURL         string
	PlacesAPIKey    string
	DefaultLocation *time.Location
}

type StateSummary struct {
	util.State
	StoreCount int64 `json:"store_count"`
}

type StatePage struct {
	State       util.State             `json:"state"`
	TotalStores int64                  `json:"total_stores"`
	Cities      []repository.CityCount `json:"cities"`
	TopStores   []StoreCard            `json:"top_stores"`
}

type CityPage struct {
	State    util.State  `json:"state"`
	City     string      `json:"city"`
	CitySlug string      `json:"city_slug"`
	Stores   []StoreCard `json:"stores"`
}

// StoreCard is the list view of a store used by state, city, recent and search results.
type StoreCard struct {
	ID                 uint                     `json:"id"`
	Slug               string                   `json:"slug"`
	Name               string                   `json:"name"`
	Address            string                   `json:"address"`
	City               string                   `json:"city"`
	State              string                   `json:"state"`
	Zip                string                   `json:"zip"`
	Phone              string                   `json:"phone"`
	Website            string                   `json:"website"`
	Latitude           *float64                 `json:"latitude"`
	Longitude          *float64                 `json:"longitude"`
	Rating             float64                  `json:"rating"`
	ReviewCount        int                      `json:"review_count"`
	SpecialtyTags      []string                 `json:"specialty_tags"`
	IsClaimed          bool                     `json:"is_claimed"`
	IsVerified         bool                     `json:"is_verified"`
	VerificationStatus model.VerificationStatus `json:"verification_status"`
	Path               string                   `json:"path"`
	PhotoURL           string                   `json:"photo_url,omitempty"`
	TodayHours         string                   `json:"today_hours"`
	OpenNow            bool                     `json:"open_now"`
	DistanceMiles      *float64                 `json:"distance_miles,omitempty"`
}

type Freshness struct {
	Level string `json:"level"` // never, fresh, aging, stale
	Label string `json:"label"`
	Days  *int   `json:"days,omitempty"`
}

type StoreDetail struct {
	Store         *model.Store `json:"store"`
	CanonicalPath string       `json:"canonical_path"`
	PhotoURLs     []string     `json:"photo_urls"`
	Week          []string     `json:"week"`
	TodayHours    string       `json:"today_hours"`
	OpenStatus    hours.Status `json:"open_status"`
	OpenNow       bool         `json:"open_now"`
	Confirmations int64        `json:"confirmations"`
	Freshness     Freshness    `json:"freshness"`
}

type DirectoryStats struct {
	ActiveStores int64 `json:"active_stores"`
}

type Specialty struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var specialties = []Specialty{
	{Key: "saltwater", Label: "Saltwater", Description: "Marine fish and saltwater systems"},
	{Key: "reef", Label: "Reef", Description: "Reef tanks, lighting and reef-safe livestock"},
	{Key: "freshwater", Label: "Freshwater", Description: "Tropical and coldwater freshwater fish"},
	{Key: "corals", Label: "Corals", Description: "SPS, LPS and soft coral frags and colonies"},
	{Key: "plants", Label: "Live Plants", Description: "Aquatic plants and planted tank supplies"},
	{Key: "koi", Label: "Koi & Pond", Description: "Koi, goldfish and pond equipment"},
	{Key: "invertebrates", Label: "Inverts", Description: "Shrimp, snails, crabs and other invertebrates"},
}

type SitemapURL struct {
	Loc        string
	LastMod    *time.Time
	ChangeFreq string
	Priority   float64
}

type StoreService interface {
	ListStates() ([]StateSummary, error)
	GetState(value string) (*StatePage, error)
	GetCity(stateValue, citySlug string) (*CityPage, error)
	GetStore(slug string) (*StoreDetail, error)
	StorePathByID(id uint) (string, error)
	RecentStores() ([]StoreCard, error)
	Stats() (*DirectoryStats, error)
	Specialties() []Specialty
	Sitemap() ([]SitemapURL, error)
}

type storeService struct {
	storeRepo        repository.StoreRepository
	verificationRepo repository.VerificationRepository
	cfg              DirectoryConfig
	now              func() time.Time
}

func NewStoreService(storeRepo repository.StoreRepository, verificationRepo repository.VerificationRepository, cfg DirectoryConfig) StoreService {
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.UTC
	}
	return &storeService{
		storeRepo:        storeRepo,
		verificationRepo: verificationRepo,
		cfg:              cfg,
		now:              time.Now,
	}
}

func (s *storeService) ListStates() ([]StateSummary, error) {
	counts, err := s.storeRepo.CountByState()
	if err != nil {
		logger.Error("Failed to count stores by state", err)
		return nil, err
	}

	byAbbr := make(map[string]int64, len(counts))
	for _, c := range counts {
		byAbbr[strings.ToUpper(c.State)] += c.StoreCount
	}

	all := util.States()
	out := make([]StateSummary, 0, len(all))
	for _, st := range all {
		out = append(out, StateSummary{State: st, StoreCount: byAbbr[st.Abbr]})
	}
	return out, nil
}

func (s *storeService) GetState(value string) (*StatePage, error) {
	st, ok := util.LookupState(value)
	if !ok {
		return nil, ErrStateNotFound
	}

	cities, err := s.storeRepo.CityCounts(st.Abbr)
	if err != nil {
		logger.Error("Failed to load state cities", err, map[string]interface{}{
			"state": st.Abbr,
		})
		return nil, err
	}
	top, err := s.storeRepo.TopRatedInState(st.Abbr, topStoresPerState)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range cities {
		total += c.StoreCount
	}
	if cities == nil {
		cities = []repository.CityCount{}
	}

	return &StatePage{
		State:       st,
		TotalStores: total,
		Cities:      cities,
		TopStores:   s.cards(top),
	}, nil
}

func (s *storeService) GetCity(stateValue, citySlug string) (*CityPage, error) {
	st, ok := util.LookupState(stateValue)
	if !ok {
		return nil, ErrStateNotFound
	}
	city := util.CityFromSlug(citySlug)

	stores, err := s.storeRepo.FindByCity(st.Abbr, city)
	if err != nil {
		logger.Error("Failed to load city stores", err, map[string]interface{}{
			"state": st.Abbr,
			"city":  city,
		})
		return nil, err
	}

	return &CityPage{
		State:    st,
		City:     city,
		CitySlug: util.CitySlug(city),
		Stores:   s.cards(stores),
	}, nil
}

func (s *storeService) GetStore(slug string) (*StoreDetail, error) {
	store, err := s.storeRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	now := s.now()
	since := now.Add(-confirmationWindow)
	confirmations, err := s.verificationRepo.CountSince(store.ID, model.VerificationStillOpen, since)
	if err != nil {
		// the page still renders without the counter
		logger.Warn("Failed to count store confirmations", map[string]interface{}{
			"store_id": store.ID,
			"error":    err.Error(),
		})
		confirmations = 0
	}

	days := model.ToDays(store.Hours)
	loc := s.location(store)
	status := hours.StatusAt(days, now, loc)

	return &StoreDetail{
		Store:         store,
		CanonicalPath: util.StorePath(store.State, store.City, store.Slug),
		PhotoURLs:     util.PhotoURLs(store.Photos, s.cfg.PlacesAPIKey),
		Week:          hours.Week(days),
		TodayHours:    hours.TodayLabel(days, now, loc),
		OpenStatus:    status,
		OpenNow:       status == hours.StatusOpen,
		Confirmations: confirmations,
		Freshness:     FreshnessOf(store.LastVerifiedAt, now),
	}, nil
}

func (s *storeService) StorePathByID(id uint) (string, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrStoreNotFound
		}
		return "", err
	}
	return util.StorePath(store.State, store.City, store.Slug), nil
}

func (s *storeService) RecentStores() ([]StoreCard, error) {
	stores, err := s.storeRepo.Recent(recentStoresLimit)
	if err != nil {
		return nil, err
	}
	return s.cards(stores), nil
}

func (s *storeService) Stats() (*DirectoryStats, error) {
	active, err := s.storeRepo.Count("is_active = ?", true)
	if err != nil {
		return nil, err
	}
	return &DirectoryStats{ActiveStores: active}, nil
}

func (s *storeService) Specialties() []Specialty {
	out := make([]Specialty, len(specialties))
	copy(out, specialties)
	return out
}

func (s *storeService) Sitemap() ([]SitemapURL, error) {
	base := strings.TrimRight(s.cfg.SiteURL, "/")
	urls := []SitemapURL{
		{Loc: base, ChangeFreq: "daily", Priority: 1.0},
		{Loc: base + "/add-store", ChangeFreq: "monthly", Priority: 0.5},
		{Loc: base + "/tools", ChangeFreq: "monthly", Priority: 0.6},
	}
	for _, st := range util.States() {
		urls = append(urls, SitemapURL{Loc: base + "/" + st.Slug, ChangeFreq: "weekly", Priority: 0.8})
	}

	stores, err := s.storeRepo.SitemapEntries(sitemapStoreLimit)
	if err != nil {
		logger.Error("Failed to build sitemap", err)
		return nil, err
	}
	for i := range stores {
		st := stores[i]
		if st.Slug == "" || st.City == "" || st.State == "" {
			continue
		}
		lastMod := st.UpdatedAt
		urls = append(urls, SitemapURL{
			Loc:        base + util.StorePath(st.State, st.City, st.Slug),
			LastMod:    &lastMod,
			ChangeFreq: "weekly",
			Priority:   0.7,
		})
	}
	return urls, nil
}

func (s *storeService) location(store *model.Store) *time.Location {
	return storeLocation(store, s.cfg.DefaultLocation)
}

func (s *storeService) cards(stores []model.Store) []StoreCard {
	now := s.now()
	out := make([]StoreCard, 0, len(stores))
	for i := range stores {
		out = append(out, newStoreCard(&stores[i], s.cfg.PlacesAPIKey, now, s.location(&stores[i])))
	}
	return out
}

func storeLocation(store *model.Store, fallback *time.Location) *time.Location {
	if store.Timezone != "" {
		if loc, err := time.LoadLocation(store.Timezone); err == nil {
			return loc
		}
	}
	return fallback
}

func newStoreCard(store *model.Store, apiKey string, now time.Time, loc *time.Location) StoreCard {
	days := model.ToDays(store.Hours)
	card := StoreCard{
		ID:                 store.ID,
		Slug:               store.Slug,
		Name:               store.Name,
		Address:            store.Address,
		City:               store.City,
		State:              store.State,
		Zip:                store.Zip,
		Phone:              store.Phone,
		Website:            store.Website,
		Latitude:           store.Latitude,
		Longitude:          store.Longitude,
		Rating:             store.Rating,
		ReviewCount:        store.ReviewCount,
		SpecialtyTags:      []string(store.SpecialtyTags),
		IsClaimed:          store.IsClaimed,
		IsVerified:         store.IsVerified,
		VerificationStatus: store.VerificationStatus,
		Path:               util.StorePath(store.State, store.City, store.Slug),
		TodayHours:         hours.TodayLabel(days, now, loc),
		OpenNow:            hours.IsOpenAt(days, now, loc),
	}
	if card.SpecialtyTags == nil {
		card.SpecialtyTags = []string{}
	}
	if urls := util.PhotoURLs(store.Photos, apiKey); len(urls) > 0 {
		card.PhotoURL = urls[0]
	}
	return card
}

// FreshnessOf grades how recently the community confirmed a store.
func FreshnessOf(lastVerified *time.Time, now time.Time) Freshness {
	if lastVerified == nil || lastVerified.IsZero() {
		return Freshness{Level: "never", Label: "Never verified"}
	}
	days := int(now.Sub(*lastVerified).Hours() / 24)
	if days < 0 {
		days = 0
	}
	f := Freshness{Days: &days}
	switch {
	case days <= 30:
		f.Level = "fresh"
		if days == 1 {
			f.Label = "Verified 1 day ago"
		} else {
			f.Label = fmt.Sprintf("Verified %d days ago", days)
		}
	case days <= 90:
		f.Level = "aging"
		f.Label = fmt.Sprintf("Verified %d days ago", days)
	default:
		f.Level = "stale"
		f.Label = fmt.Sprintf("Needs update (last verified %d days ago)", days)
	}
	return f
}
