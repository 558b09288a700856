package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
)

type SearchController struct {
	searchService service.SearchService
}

func NewSearchController(searchService service.SearchService) *SearchController {
	return &SearchController{searchService: searchService}
}

// Search finds stores near a place
// GET /api/v1/search?q=&radius=&specialties=reef,corals&open_now=true&sort=distance&page=1
func (ctrl *SearchController) Search(c *gin.Context) {
	q := service.SearchQuery{
		Query: c.Query("q"),
		Sort:  c.DefaultQuery("sort", service.SortDistance),
	}

	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			errors.RespondWithValidationError(c, map[string]string{"radius": "must be a positive number"})
			return
		}
		q.RadiusMiles = radius
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			errors.RespondWithValidationError(c, map[string]string{"page": "must be a positive integer"})
			return
		}
		q.Page = page
	}
	switch q.Sort {
	case service.SortDistance, service.SortRating, service.SortVerified:
	default:
		errors.RespondWithValidationError(c, map[string]string{"sort": "must be one of: distance rating verified"})
		return
	}

	for _, v := range c.QueryArray("specialties") {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				q.Specialties = append(q.Specialties, s)
			}
		}
	}
	q.OpenNow, _ = strconv.ParseBool(c.DefaultQuery("open_now", "false"))

	result, err := ctrl.searchService.Search(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "search")
		return
	}
	c.JSON(http.StatusOK, result)
}
