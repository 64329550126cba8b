package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelplanner/views"
)

type DestinationRequest struct {
	UserInput string `json:"userInput" binding:"required"`
}

func (h *Handlers) SearchPageHandler(c *gin.Context) {
	h.renderSearch(c)
}

func (h *Handlers) SearchSubmitHandler(c *gin.Context) {
	sess := currentSession(c)
	sess.Search.Submit(c.Request.Context(), h.planner, c.PostForm("location"))
	h.renderSearch(c)
}

func (h *Handlers) renderSearch(c *gin.Context) {
	sess := currentSession(c)
	c.HTML(http.StatusOK, views.PageSearch, views.SearchPage{
		SearchView: sess.Search.View(),
		Map:        h.cfg.Map,
	})
}

func (h *Handlers) APIDestinationHandler(c *gin.Context) {
	var req DestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No location provided"})
		return
	}

	places, err := h.planner.SearchDestination(c.Request.Context(), req.UserInput)
	if err != nil {
		log.Printf("❌ Destination API request failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch destination data"})
		return
	}

	c.JSON(http.StatusOK, places)
}
