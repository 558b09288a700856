package controller

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

// StoreController serves the public directory pages: states, cities, store detail and the sitemap.
type StoreController struct {
	storeService service.StoreService
	siteURL      string
}

func NewStoreController(storeService service.StoreService, siteURL string) *StoreController {
	return &StoreController{
		storeService: storeService,
		siteURL:      siteURL,
	}
}

// ListStates returns all 50 states with store counts
// GET /api/v1/states
func (ctrl *StoreController) ListStates(c *gin.Context) {
	states, err := ctrl.storeService.ListStates()
	if err != nil {
		respondServiceError(c, err, "state list")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"states": states,
		"count":  len(states),
	})
}

// GetState returns a state page by slug or abbreviation
// GET /api/v1/states/:state
func (ctrl *StoreController) GetState(c *gin.Context) {
	page, err := ctrl.storeService.GetState(c.Param("state"))
	if err != nil {
		respondServiceError(c, err, "state page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCity returns the stores in a city
// GET /api/v1/states/:state/cities/:city
func (ctrl *StoreController) GetCity(c *gin.Context) {
	page, err := ctrl.storeService.GetCity(c.Param("state"), c.Param("city"))
	if err != nil {
		respondServiceError(c, err, "city page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetStore returns the store detail page
// GET /api/v1/stores/:slug
func (ctrl *StoreController) GetStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	detail, err := ctrl.storeService.GetStore(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "store detail")
		return
	}

	log.Debug("Store detail fetched", map[string]interface{}{
		"store_id": detail.Store.ID,
	})
	c.JSON(http.StatusOK, detail)
}

// RedirectLegacyStore sends old /store/:id links to the canonical path
// GET /store/:id
func (ctrl *StoreController) RedirectLegacyStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	path, err := ctrl.storeService.StorePathByID(id)
	if err != nil {
		respondServiceError(c, err, "store redirect")
		return
	}
	c.Redirect(http.StatusMovedPermanently, ctrl.siteURL+path)
}

// RecentStores returns the newest listings
// GET /api/v1/stores/recent
func (ctrl *StoreController) RecentStores(c *gin.Context) {
	stores, err := ctrl.storeService.RecentStores()
	if err != nil {
		respondServiceError(c, err, "recent stores")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// Stats returns homepage counters
// GET /api/v1/stats
func (ctrl *StoreController) Stats(c *gin.Context) {
	stats, err := ctrl.storeService.Stats()
	if err != nil {
		respondServiceError(c, err, "stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Specialties returns the specialty filter config
// GET /api/v1/specialties
func (ctrl *StoreController) Specialties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"specialties": ctrl.storeService.Specialties()})
}

type sitemapURLSet struct {
	XMLName xml.Name          `xml:"urlset"`
	Xmlns   string            `xml:"xmlns,attr"`
	URLs    []sitemapURLEntry `xml:"url"`
}

type sitemapURLEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap renders sitemap.xml
// GET /sitemap.xml
func (ctrl *StoreController) Sitemap(c *gin.Context) {
	urls, err := ctrl.storeService.Sitemap()
	if err != nil {
		respondServiceError(c, err, "sitemap")
		return
	}

	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURLEntry, 0, len(urls)),
	}
	for _, u := range urls {
		entry := sitemapURLEntry{
			Loc:        u.Loc,
			ChangeFreq: u.ChangeFreq,
			Priority:   formatPriority(u.Priority),
		}
		if u.LastMod != nil {
			entry.LastMod = u.LastMod.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, entry)
	}

	out, err := xml.Marshal(set)
	if err != nil {
		respondServiceError(c, err, "sitemap")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

func formatPriority(p float64) string {
	if p <= 0 {
		return ""
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}
