package session

import (
	"context"
	"log"
	"sync"

	"travelplanner/services"
)

const (
	MsgLocationNotFound = "Location data not found!"
	MsgFetchFailed      = "Failed to fetch data. Try again!"
)

type DestinationSearcher interface {
	SearchDestination(ctx context.Context, userInput string) ([]services.Place, error)
}

type PanelState int

const (
	StateIdle PanelState = iota
	StateLoading
	StateSuccess
	StateError
)

func (s PanelState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Coordinates of the map center. The zero value means no map is shown.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) IsSet() bool {
	return c.Lat != 0 && c.Lng != 0
}

// SearchPanel holds the destination search panel's view state.
type SearchPanel struct {
	mu          sync.Mutex
	location    string
	places      []services.Place
	coordinates Coordinates
	state       PanelState
	err         string
}

func NewSearchPanel() *SearchPanel {
	return &SearchPanel{places: []services.Place{}}
}

// Submit searches for location. An empty location is ignored. Coordinates
// are only moved when the first place carries them; otherwise the panel
// reports MsgLocationNotFound. Request failures report MsgFetchFailed.
// Overlapping submits apply in the order their responses arrive.
func (p *SearchPanel) Submit(ctx context.Context, searcher DestinationSearcher, location string) {
	if location == "" {
		return
	}

	p.mu.Lock()
	p.location = location
	p.state = StateLoading
	p.err = ""
	p.mu.Unlock()

	places, err := searcher.SearchDestination(ctx, location)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		log.Printf("❌ Destination search for %q failed: %v", location, err)
		p.state = StateError
		p.err = MsgFetchFailed
		return
	}

	p.places = places
	if len(places) > 0 && places[0].HasCoordinates() {
		p.coordinates = Coordinates{Lat: *places[0].Latitude, Lng: *places[0].Longitude}
		p.state = StateSuccess
		return
	}

	p.state = StateError
	p.err = MsgLocationNotFound
}

type SearchView struct {
	Location    string
	Places      []services.Place
	Coordinates Coordinates
	ShowMap     bool
	Loading     bool
	Error       string
	State       string
}

func (p *SearchPanel) View() SearchView {
	p.mu.Lock()
	defer p.mu.Unlock()

	places := make([]services.Place, len(p.places))
	copy(places, p.places)

	return SearchView{
		Location:    p.location,
		Places:      places,
		Coordinates: p.coordinates,
		ShowMap:     p.coordinates.IsSet(),
		Loading:     p.state == StateLoading,
		Error:       p.err,
		State:       p.state.String(),
	}
}
