package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travelplanner/services"
)

func (h *Handlers) DownloadHandler(c *gin.Context) {
	view := currentSession(c).Itinerary.View()
	if view.Itinerary == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No itinerary has been generated yet"})
		return
	}

	pdfBytes, err := services.GenerateItineraryPDF(services.ItineraryPDFData{
		Destination: view.FetchedDestination,
		NumDates:    view.FetchedNumDates,
		Sections:    view.Sections,
		Videos:      view.Videos,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=travel-itinerary.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     "Travel Planner",
		"planner_api": h.cfg.PlannerAPIURL,
		"sessions":    h.sessions.Count(),
	})
}
