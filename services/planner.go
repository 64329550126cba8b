package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travelplanner/config"
	"travelplanner/metrics"
)

// ─── Types ────────────────────────────────────────────────────────────────────

type Video struct {
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
	Title     string `json:"title"`
}

type Hotel struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Place is one point of interest returned by the destination endpoint.
// Latitude and Longitude are nil when the backend could not geocode it.
type Place struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	YouTubeVideo  *Video   `json:"youtube_video,omitempty"`
	CheapestHotel *Hotel   `json:"cheapest_hotel,omitempty"`
}

// HasCoordinates reports whether both coordinates are present and non-zero.
func (p Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil && *p.Latitude != 0 && *p.Longitude != 0
}

type ItineraryResponse struct {
	Itinerary     string  `json:"itinerary"`
	YouTubeVideos []Video `json:"youtube_videos"`
}

// APIError is returned when the itinerary API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("planner API error (%d): %s", e.StatusCode, e.Body)
}

// ─── Planner Client ───────────────────────────────────────────────────────────

const (
	endpointItinerary   = "get_itinerary"
	endpointDestination = "destination"
)

type PlannerClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

var plannerClient *PlannerClient

func NewPlannerClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *PlannerClient {
	return &PlannerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

func InitPlanner(cfg *config.Config, m *metrics.Metrics) {
	plannerClient = NewPlannerClient(cfg.PlannerAPIURL, cfg.PlannerTimeout, m)
	log.Printf("✅ Planner API client targeting %s (timeout %s)", cfg.PlannerAPIURL, cfg.PlannerTimeout)
}

func GetPlannerClient() *PlannerClient {
	return plannerClient
}

func (c *PlannerClient) doRequest(ctx context.Context, endpoint, method, path string, body []byte) (_ []byte, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.metrics.ObserveUpstream(endpoint, outcome, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}

// GetItinerary asks the API for a numDates-day plan for destination.
// The destination is sent as-is, empty or not.
func (c *PlannerClient) GetItinerary(ctx context.Context, destination string, numDates int) (*ItineraryResponse, error) {
	params := url.Values{}
	params.Set("destination", destination)
	params.Set("num_dates", strconv.Itoa(numDates))

	body, err := c.doRequest(ctx, endpointItinerary, http.MethodGet, "/"+endpointItinerary+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("itinerary request failed: %w", err)
	}

	var resp ItineraryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse itinerary response: %w", err)
	}
	if resp.YouTubeVideos == nil {
		resp.YouTubeVideos = []Video{}
	}
	return &resp, nil
}

type destinationRequest struct {
	UserInput string `json:"userInput"`
}

// SearchDestination posts free text to the destination endpoint and returns
// the places it suggests.
func (c *PlannerClient) SearchDestination(ctx context.Context, userInput string) ([]Place, error) {
	payload, err := json.Marshal(destinationRequest{UserInput: userInput})
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, endpointDestination, http.MethodPost, "/"+endpointDestination, payload)
	if err != nil {
		return nil, fmt.Errorf("destination request failed: %w", err)
	}

	var places []Place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("failed to parse destination response: %w", err)
	}
	if places == nil {
		places = []Place{}
	}
	return places, nil
}
