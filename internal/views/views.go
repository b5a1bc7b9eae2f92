// Package views keeps per-post view counts in a single persisted JSON mapping.
package views

import (
	"encoding/json"
	"log"
	"math"
	"sync"
)

// DefaultKey is the key the mapping is stored under.
const DefaultKey = "postViews"

// Seed ranges, [lo, hi).
const (
	getLo, getHi             = 1000, 11000
	seedAllLo, seedAllHi     = 5000, 55000
	incrementLo, incrementHi = 0, 10000
)

// Persister stores one string value per key. Get returns "" for an absent key.
type Persister interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Store reads and rewrites the whole mapping on every operation.
// Corrupt data is treated as an empty mapping and never reported to
// callers. When the persister cannot be read, nothing is written back so
// stored counts survive; write failures are logged.
type Store struct {
	mu     sync.Mutex
	p      Persister
	seeder Seeder
	key    string
}

// New creates a Store. A nil seeder seeds every post at zero.
func New(p Persister, seeder Seeder) *Store {
	if seeder == nil {
		seeder = Baseline{}
	}
	return &Store{p: p, seeder: seeder, key: DefaultKey}
}

// Get returns the count for id, seeding and persisting it on first read.
func (s *Store) Get(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, ok := s.load()
	if n, found := counts[id]; found {
		return n
	}
	n := s.seeder.Seed(getLo, getHi)
	counts[id] = n
	if ok {
		s.save(counts)
	}
	return n
}

// SeedAll assigns a starting count to every id that has none yet.
func (s *Store) SeedAll(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, ok := s.load()
	if !ok {
		return
	}
	for _, id := range ids {
		if _, found := counts[id]; !found {
			counts[id] = s.seeder.Seed(seedAllLo, seedAllHi)
		}
	}
	s.save(counts)
}

// Increment adds one view to id and returns the new count.
func (s *Store) Increment(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, ok := s.load()
	n, found := counts[id]
	if !found {
		n = s.seeder.Seed(incrementLo, incrementHi)
	}
	n++
	counts[id] = n
	if ok {
		s.save(counts)
	}
	return n
}

// Snapshot returns a copy of the persisted mapping without seeding anything.
func (s *Store) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, _ := s.load()
	return counts
}

// load reads the mapping. ok is false when the persister could not be
// read; callers must not write back in that case or stored counts would
// be lost.
func (s *Store) load() (counts map[string]int, ok bool) {
	raw, err := s.p.Get(s.key)
	if err != nil {
		log.Printf("Reading view counts: %v", err)
		return make(map[string]int), false
	}
	return decode(raw), true
}

func (s *Store) save(counts map[string]int) {
	data, err := json.Marshal(counts)
	if err != nil {
		log.Printf("Encoding view counts: %v", err)
		return
	}
	if err := s.p.Set(s.key, string(data)); err != nil {
		log.Printf("Persisting view counts: %v", err)
	}
}

// decode parses the persisted mapping. Anything that is not a JSON object of
// non-negative integers is discarded entry by entry, or wholesale when the
// document itself does not parse.
func decode(raw string) map[string]int {
	counts := make(map[string]int)
	if raw == "" {
		return counts
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Printf("Discarding corrupt view counts: %v", err)
		return counts
	}
	for id, v := range doc {
		var n int64
		if err := json.Unmarshal(v, &n); err != nil || n < 0 || n > math.MaxInt {
			continue
		}
		counts[id] = int(n)
	}
	return counts
}
