package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travelplanner/services"
	"travelplanner/session"
	"travelplanner/views"
)

type ItineraryForm struct {
	Destination string `form:"destination"`
	NumDates    int    `form:"num_dates"`
}

type ItineraryResponse struct {
	Destination   string                `json:"destination"`
	NumDates      int                   `json:"num_dates"`
	Itinerary     string                `json:"itinerary"`
	Sections      []services.DaySection `json:"sections"`
	YouTubeVideos []services.Video      `json:"youtube_videos"`
}

func (h *Handlers) ItineraryPageHandler(c *gin.Context) {
	sess := currentSession(c)
	c.HTML(http.StatusOK, views.PageItinerary, views.ItineraryPage{ItineraryView: sess.Itinerary.View()})
}

// ItineraryFetchHandler always re-renders the screen: fetch errors are logged
// by the screen and the previous itinerary stays visible.
func (h *Handlers) ItineraryFetchHandler(c *gin.Context) {
	var form ItineraryForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("⚠️  Invalid itinerary form: %v, defaulting to 1 day", err)
		form.Destination = c.PostForm("destination")
		form.NumDates = 1
	}

	sess := currentSession(c)
	_ = sess.Itinerary.Fetch(c.Request.Context(), h.planner, form.Destination, form.NumDates)

	c.HTML(http.StatusOK, views.PageItinerary, views.ItineraryPage{ItineraryView: sess.Itinerary.View()})
}

func (h *Handlers) APIItineraryHandler(c *gin.Context) {
	destination := c.Query("destination")
	numDates, err := strconv.Atoi(c.DefaultQuery("num_dates", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "num_dates must be an integer"})
		return
	}
	numDates = session.DayCount(numDates)

	resp, err := h.planner.GetItinerary(c.Request.Context(), destination, numDates)
	if err != nil {
		log.Printf("❌ Itinerary API request failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch itinerary"})
		return
	}

	c.JSON(http.StatusOK, ItineraryResponse{
		Destination:   destination,
		NumDates:      numDates,
		Itinerary:     resp.Itinerary,
		Sections:      services.ParseItinerary(resp.Itinerary),
		YouTubeVideos: resp.YouTubeVideos,
	})
}
