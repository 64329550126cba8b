package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travelplanner/config"
	"travelplanner/session"
	"travelplanner/views"
)

const (
	sessionCookie = "travelplanner_session"
	sessionKey    = "session"
)

// Planner is the remote itinerary API as seen by the handlers.
type Planner interface {
	session.ItineraryFetcher
	session.DestinationSearcher
}

type Handlers struct {
	planner  Planner
	sessions *session.Store
	cfg      *config.Config
	gatherer prometheus.Gatherer
}

// NewHandlers wires the HTTP surface. A nil gatherer disables /metrics.
func NewHandlers(planner Planner, sessions *session.Store, cfg *config.Config, gatherer prometheus.Gatherer) *Handlers {
	return &Handlers{
		planner:  planner,
		sessions: sessions,
		cfg:      cfg,
		gatherer: gatherer,
	}
}

func (h *Handlers) NewRouter() (*gin.Engine, error) {
	r := gin.Default()

	if err := r.SetTrustedProxies(h.cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// Pages
	pages := r.Group("/", h.sessionMiddleware())
	{
		pages.GET("/", h.ItineraryPageHandler)
		pages.POST("/itinerary", h.ItineraryFetchHandler)
		pages.GET("/itinerary/pdf", h.DownloadHandler)
		pages.GET("/search", h.SearchPageHandler)
		pages.POST("/search", h.SearchSubmitHandler)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowOrigins:  h.cfg.AllowedOrigins(),
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	{
		api.GET("/health", h.HealthHandler)
		api.GET("/itinerary", h.APIItineraryHandler)
		api.POST("/destination", h.APIDestinationHandler)
	}

	if h.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	r.NoRoute(func(c *gin.Context) {
		log.Printf("⚠️  Not found: %s %s", c.Request.Method, c.Request.URL.Path)
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return r, nil
}

// sessionMiddleware attaches the browser's Session, issuing a cookie for new ones.
func (h *Handlers) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		sess, newID := h.sessions.GetOrCreate(id)
		if newID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, newID, int(h.cfg.SessionTTL.Seconds()), "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
