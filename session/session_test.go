package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"travelplanner/metrics"
	"travelplanner/services"
)

type fakeFetcher struct {
	resp     *services.ItineraryResponse
	err      error
	gotDest  string
	gotDates int
}

func (f *fakeFetcher) GetItinerary(_ context.Context, destination string, numDates int) (*services.ItineraryResponse, error) {
	f.gotDest, f.gotDates = destination, numDates
	return f.resp, f.err
}

type fakeSearcher struct {
	places []services.Place
	err    error
}

func (f *fakeSearcher) SearchDestination(context.Context, string) ([]services.Place, error) {
	return f.places, f.err
}

func ptr(f float64) *float64 { return &f }

func TestItineraryScreenFetch(t *testing.T) {
	screen := NewItineraryScreen()
	if v := screen.View(); v.NumDates != 1 || len(v.Videos) != 0 {
		t.Fatalf("unexpected initial view: %+v", v)
	}

	fetcher := &fakeFetcher{resp: &services.ItineraryResponse{
		Itinerary:     "Day 1: Visit museum. Eat lunch.Day 2: Relax.",
		YouTubeVideos: []services.Video{{Link: "l", Thumbnail: "t", Title: "Paris"}},
	}}
	if err := screen.Fetch(context.Background(), fetcher, "Paris", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.gotDest != "Paris" || fetcher.gotDates != 2 {
		t.Errorf("fetcher called with %q/%d", fetcher.gotDest, fetcher.gotDates)
	}

	v := screen.View()
	if v.Loading {
		t.Error("loading should be false after fetch")
	}
	if len(v.Sections) != 2 || v.Sections[0].Title != "Day 1" {
		t.Errorf("Sections = %+v", v.Sections)
	}
	if len(v.Videos) != 1 {
		t.Errorf("Videos = %+v", v.Videos)
	}
}

func TestItineraryScreenFailureKeepsPriorState(t *testing.T) {
	screen := NewItineraryScreen()
	ok := &fakeFetcher{resp: &services.ItineraryResponse{
		Itinerary:     "Day 1: Walk.",
		YouTubeVideos: []services.Video{{Title: "Walks"}},
	}}
	if err := screen.Fetch(context.Background(), ok, "Rome", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failing := &fakeFetcher{err: errors.New("connection refused")}
	if err := screen.Fetch(context.Background(), failing, "Oslo", 3); err == nil {
		t.Fatal("expected error to be returned to the caller")
	}

	v := screen.View()
	if v.Itinerary != "Day 1: Walk." {
		t.Errorf("itinerary replaced on failure: %q", v.Itinerary)
	}
	if len(v.Videos) != 1 || v.Videos[0].Title != "Walks" {
		t.Errorf("videos replaced on failure: %+v", v.Videos)
	}
	if v.Loading {
		t.Error("loading should be false after failure")
	}
	if v.Destination != "Oslo" || v.NumDates != 3 {
		t.Errorf("form values not kept: %q/%d", v.Destination, v.NumDates)
	}
	if v.FetchedDestination != "Rome" || v.FetchedNumDates != 1 {
		t.Errorf("held itinerary relabelled by failed fetch: %q/%d", v.FetchedDestination, v.FetchedNumDates)
	}
}

func TestDayCount(t *testing.T) {
	tests := []struct{ in, want int }{
		{-3, 1},
		{0, 1},
		{1, 1},
		{7, 7},
	}
	for _, tt := range tests {
		if got := DayCount(tt.in); got != tt.want {
			t.Errorf("DayCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestItineraryScreenClampsDays(t *testing.T) {
	screen := NewItineraryScreen()
	fetcher := &fakeFetcher{resp: &services.ItineraryResponse{}}
	_ = screen.Fetch(context.Background(), fetcher, "Nice", 0)
	if fetcher.gotDates != 1 {
		t.Errorf("num_dates sent = %d, want 1", fetcher.gotDates)
	}
}

func TestSearchPanelSuccess(t *testing.T) {
	panel := NewSearchPanel()
	searcher := &fakeSearcher{places: []services.Place{
		{Name: "Sagrada Familia", Latitude: ptr(41.4036), Longitude: ptr(2.1744)},
		{Name: "Park Guell"},
	}}

	panel.Submit(context.Background(), searcher, "Barcelona")

	v := panel.View()
	if v.Error != "" {
		t.Errorf("unexpected error message %q", v.Error)
	}
	if !v.ShowMap || v.Coordinates != (Coordinates{Lat: 41.4036, Lng: 2.1744}) {
		t.Errorf("map not centered on first place: %+v", v.Coordinates)
	}
	if len(v.Places) != 2 || v.State != "success" || v.Loading {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestSearchPanelMissingCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		places []services.Place
	}{
		{"no coordinates", []services.Place{{Name: "Nowhere"}}},
		{"zero latitude", []services.Place{{Name: "Equator", Latitude: ptr(0), Longitude: ptr(30)}}},
		{"empty result", []services.Place{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := NewSearchPanel()
			panel.Submit(context.Background(), &fakeSearcher{places: tt.places}, "somewhere")

			v := panel.View()
			if v.Error != MsgLocationNotFound {
				t.Errorf("Error = %q, want %q", v.Error, MsgLocationNotFound)
			}
			if v.ShowMap {
				t.Error("map should not be shown")
			}
			if len(v.Places) != len(tt.places) {
				t.Errorf("places should still be stored, got %d", len(v.Places))
			}
		})
	}
}

func TestSearchPanelFailure(t *testing.T) {
	panel := NewSearchPanel()
	panel.Submit(context.Background(), &fakeSearcher{err: errors.New("502")}, "Lima")

	v := panel.View()
	if v.Error != MsgFetchFailed {
		t.Errorf("Error = %q, want %q", v.Error, MsgFetchFailed)
	}
	if v.Loading {
		t.Error("loading flag should return to false")
	}
	if v.State != "error" {
		t.Errorf("State = %q", v.State)
	}
}

func TestSearchPanelEmptyInputIsIgnored(t *testing.T) {
	panel := NewSearchPanel()
	panel.Submit(context.Background(), &fakeSearcher{err: errors.New("should not be called")}, "")
	if v := panel.View(); v.State != "idle" || v.Error != "" {
		t.Errorf("empty submit changed state: %+v", v)
	}
}

func TestSearchPanelNextSubmitClearsError(t *testing.T) {
	panel := NewSearchPanel()
	panel.Submit(context.Background(), &fakeSearcher{err: errors.New("down")}, "Cairo")
	panel.Submit(context.Background(), &fakeSearcher{places: []services.Place{
		{Name: "Giza", Latitude: ptr(29.9792), Longitude: ptr(31.1342)},
	}}, "Cairo")

	if v := panel.View(); v.Error != "" || !v.ShowMap {
		t.Errorf("unexpected view after recovery: %+v", v)
	}
}

// blockingSearcher parks the "slow" call until release is closed.
type blockingSearcher struct {
	release chan struct{}
	started chan struct{}
	once    sync.Once
	slow    []services.Place
	fast    []services.Place
}

func (b *blockingSearcher) SearchDestination(_ context.Context, input string) ([]services.Place, error) {
	if input == "slow" {
		b.once.Do(func() { close(b.started) })
		<-b.release
		return b.slow, nil
	}
	return b.fast, nil
}

func TestSearchPanelAppliesResponsesInArrivalOrder(t *testing.T) {
	panel := NewSearchPanel()
	b := &blockingSearcher{
		release: make(chan struct{}),
		started: make(chan struct{}),
		slow:    []services.Place{{Name: "Old", Latitude: ptr(1), Longitude: ptr(1)}},
		fast:    []services.Place{{Name: "New", Latitude: ptr(2), Longitude: ptr(2)}},
	}

	done := make(chan struct{})
	go func() {
		panel.Submit(context.Background(), b, "slow")
		close(done)
	}()
	<-b.started

	panel.Submit(context.Background(), b, "fast")
	if v := panel.View(); v.Loading || len(v.Places) != 1 || v.Places[0].Name != "New" {
		t.Errorf("first response not applied: %+v", v)
	}

	close(b.release)
	<-done

	v := panel.View()
	if len(v.Places) != 1 || v.Places[0].Name != "Old" {
		t.Errorf("last response should win, got %+v", v.Places)
	}
	if v.Coordinates != (Coordinates{Lat: 1, Lng: 1}) {
		t.Errorf("Coordinates = %+v", v.Coordinates)
	}
	if v.Loading {
		t.Error("loading should be false once every response arrived")
	}
}

// blockingFetcher parks the "Slow" call until release is closed.
type blockingFetcher struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingFetcher) GetItinerary(_ context.Context, destination string, _ int) (*services.ItineraryResponse, error) {
	if destination == "Slow" {
		close(b.started)
		<-b.release
	}
	return &services.ItineraryResponse{Itinerary: "Day 1: " + destination + "."}, nil
}

func TestItineraryScreenAppliesResponsesInArrivalOrder(t *testing.T) {
	screen := NewItineraryScreen()
	b := &blockingFetcher{release: make(chan struct{}), started: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		_ = screen.Fetch(context.Background(), b, "Slow", 3)
		close(done)
	}()
	<-b.started

	if err := screen.Fetch(context.Background(), b, "Fast", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := screen.View(); v.Loading || v.Itinerary != "Day 1: Fast." {
		t.Errorf("first response not applied: %+v", v)
	}

	close(b.release)
	<-done

	v := screen.View()
	if v.Itinerary != "Day 1: Slow." || v.FetchedDestination != "Slow" || v.FetchedNumDates != 3 {
		t.Errorf("last response should win, got %q for %q/%d", v.Itinerary, v.FetchedDestination, v.FetchedNumDates)
	}
	if v.Loading {
		t.Error("loading should be false once every response arrived")
	}
}

func TestStoreGetOrCreate(t *testing.T) {
	store := NewStore(time.Minute, nil)

	sess, id := store.GetOrCreate("")
	if id == "" || sess.ID != id {
		t.Fatalf("new session has id %q / %q", id, sess.ID)
	}

	again, sameID := store.GetOrCreate(id)
	if sameID != id || again != sess {
		t.Error("existing session was not returned")
	}

	_, otherID := store.GetOrCreate("unknown-id")
	if otherID == "unknown-id" || otherID == id {
		t.Errorf("unknown id should yield a fresh session, got %q", otherID)
	}

	if store.Count() != 2 {
		t.Errorf("Count() = %d, want 2", store.Count())
	}

	store.Delete(id)
	if _, ok := store.Get(id); ok {
		t.Error("deleted session still present")
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(20*time.Millisecond, nil)
	_, id := store.GetOrCreate("")
	time.Sleep(40 * time.Millisecond)
	if _, ok := store.Get(id); ok {
		t.Error("session should have expired")
	}
}

func activeSessions(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "planner_active_sessions" {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("planner_active_sessions not registered")
	return 0
}

func TestStoreActiveSessionsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := NewStore(30*time.Millisecond, metrics.NewMetrics(reg))

	_, id := store.GetOrCreate("")
	if _, again := store.GetOrCreate(id); again != id {
		t.Fatalf("refresh returned a new id %q", again)
	}
	if got := activeSessions(t, reg); got != 1 {
		t.Errorf("after create and refresh gauge = %v, want 1", got)
	}

	store.Delete(id)
	if got := activeSessions(t, reg); got != 0 {
		t.Errorf("after delete gauge = %v, want 0", got)
	}

	_, id = store.GetOrCreate(id)
	time.Sleep(100 * time.Millisecond)
	if got := activeSessions(t, reg); got != 0 {
		t.Errorf("after expiry gauge = %v, want 0", got)
	}

	if _, fresh := store.GetOrCreate(id); fresh == id {
		t.Error("expired id was reused")
	}
	if got := activeSessions(t, reg); got != 1 {
		t.Errorf("after recreate gauge = %v, want 1", got)
	}
}
