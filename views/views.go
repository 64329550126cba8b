package views

import (
	"embed"
	"html/template"

	"travelplanner/config"
	"travelplanner/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Load parses every page and partial into one set for gin.SetHTMLTemplate.
func Load() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

type ItineraryPage struct {
	session.ItineraryView
}

// HasItinerary reports whether a PDF export makes sense.
func (p ItineraryPage) HasItinerary() bool {
	return p.Itinerary != ""
}

type SearchPage struct {
	session.SearchView
	Map config.Map
}

// Template names passed to gin's c.HTML.
const (
	PageItinerary = "itinerary"
	PageSearch    = "search"
)
