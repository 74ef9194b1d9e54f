package handler

import (
	"net/http"
	"strconv"

	"cookedhub/internal/geo"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	geocoder geo.Geocoder
}

func NewLocationHandler(geocoder geo.Geocoder) *LocationHandler {
	return &LocationHandler{geocoder: geocoder}
}

// ReverseGeocode resolves coordinates to a place name. A failed lookup is
// still a 200 with an empty display name; the capability is best-effort.
func (h *LocationHandler) ReverseGeocode(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lon"})
		return
	}

	place, ok := h.geocoder.ResolvePlaceName(c.Request.Context(), lat, lon)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"display_name": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"display_name": place})
}
