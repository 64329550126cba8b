package session

import (
	"context"
	"log"
	"sync"

	"travelplanner/services"
)

type ItineraryFetcher interface {
	GetItinerary(ctx context.Context, destination string, numDates int) (*services.ItineraryResponse, error)
}

// DayCount clamps a requested trip length to the numeric field's minimum of 1.
func DayCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ItineraryScreen holds the itinerary generator's view state.
// destination and numDates echo the form; fetchedDestination and
// fetchedNumDates describe the itinerary currently held.
type ItineraryScreen struct {
	mu                 sync.Mutex
	destination        string
	numDates           int
	fetchedDestination string
	fetchedNumDates    int
	itinerary          string
	videos             []services.Video
	loading            bool
}

func NewItineraryScreen() *ItineraryScreen {
	return &ItineraryScreen{
		numDates: 1,
		videos:   []services.Video{},
	}
}

// Fetch requests a new itinerary and replaces the stored one on success.
// Failures are logged only; the previous itinerary and videos stay on screen.
// Overlapping fetches apply in the order their responses arrive.
func (s *ItineraryScreen) Fetch(ctx context.Context, fetcher ItineraryFetcher, destination string, numDates int) error {
	numDates = DayCount(numDates)

	s.mu.Lock()
	s.destination = destination
	s.numDates = numDates
	s.loading = true
	s.mu.Unlock()

	resp, err := fetcher.GetItinerary(ctx, destination, numDates)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		log.Printf("❌ Error fetching itinerary: %v", err)
		return err
	}

	s.itinerary = resp.Itinerary
	s.videos = resp.YouTubeVideos
	if s.videos == nil {
		s.videos = []services.Video{}
	}
	s.fetchedDestination = destination
	s.fetchedNumDates = numDates
	return nil
}

type ItineraryView struct {
	Destination        string
	NumDates           int
	FetchedDestination string
	FetchedNumDates    int
	Itinerary          string
	Sections           []services.DaySection
	Videos             []services.Video
	Loading            bool
}

func (s *ItineraryScreen) View() ItineraryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	videos := make([]services.Video, len(s.videos))
	copy(videos, s.videos)

	return ItineraryView{
		Destination:        s.destination,
		NumDates:           s.numDates,
		FetchedDestination: s.fetchedDestination,
		FetchedNumDates:    s.fetchedNumDates,
		Itinerary:          s.itinerary,
		Sections:           services.ParseItinerary(s.itinerary),
		Videos:             videos,
		Loading:            s.loading,
	}
}
