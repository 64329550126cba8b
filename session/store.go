package session

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"travelplanner/metrics"
)

// Session is the screen state one browser owns. Nothing is shared between
// sessions.
type Session struct {
	ID        string
	Itinerary *ItineraryScreen
	Search    *SearchPanel
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		Itinerary: NewItineraryScreen(),
		Search:    NewSearchPanel(),
	}
}

// Store keeps sessions in memory and drops them after ttl without access.
type Store struct {
	cache   *cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewStore(ttl time.Duration, m *metrics.Metrics) *Store {
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, _ interface{}) {
		m.DecrementSessions()
	})
	return &Store{cache: c, ttl: ttl, metrics: m}
}

// GetOrCreate returns the session for id, creating a fresh one when id is
// empty, unknown or expired. The returned id is the one to hand back to the
// browser.
func (s *Store) GetOrCreate(id string) (*Session, string) {
	if id != "" {
		if v, ok := s.cache.Get(id); ok {
			sess := v.(*Session)
			// Replace fails when the janitor evicted id after Get.
			if err := s.cache.Replace(id, sess, s.ttl); err == nil {
				return sess, id
			}
		}
	}

	id = uuid.New().String()
	sess := newSession(id)
	if err := s.cache.Add(id, sess, s.ttl); err != nil {
		log.Printf("⚠️  Session id collision %s: %v", id, err)
		v, _ := s.cache.Get(id)
		return v.(*Session), id
	}
	s.metrics.IncrementSessions()
	return sess, id
}

func (s *Store) Get(id string) (*Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Count() int {
	return s.cache.ItemCount()
}
