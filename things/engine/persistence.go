package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twinforge/thing-engine-go/things/events"
	"github.com/twinforge/thing-engine-go/things/model"
)

// ErrConcurrencyConflict is returned by Append when the event's revision does
// not continue the stored stream, i.e. another writer got there first.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// Persistence is the storage collaborator of the engine: it loads the current
// snapshot of a thing and appends accepted events. Append is atomic per thing;
// the engine additionally serializes commands per thing, so implementations
// only need to guard against concurrent writers outside this process.
type Persistence interface {
	// Load returns the current snapshot and the highest appended revision.
	// The snapshot is nil when the thing does not exist (never created or
	// deleted); the revision is 0 only when no event was ever appended. The
	// revision survives deletion, so a recreation continues the journal's
	// revision line instead of reusing spent revisions.
	Load(ctx context.Context, id model.ThingID) (*model.Thing, int64, error)

	// Append persists one event and returns the snapshot after applying it.
	// It fails with ErrConcurrencyConflict when the event revision does not
	// continue the stored stream.
	Append(ctx context.Context, event events.Event) (*model.Thing, error)
}

// InMemoryStore is a Persistence backed by process memory: a snapshot table
// plus an append-only journal of storable events per thing. Intended for tests
// and single-process deployments.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*model.Thing
	revisions map[string]int64
	journals  map[string][]events.StorableEvent
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		snapshots: make(map[string]*model.Thing),
		revisions: make(map[string]int64),
		journals:  make(map[string][]events.StorableEvent),
	}
}

// Load returns the current snapshot and the highest appended revision. The
// revision outlives deletion: it is derived from the journal tail, not from
// the snapshot.
func (s *InMemoryStore) Load(_ context.Context, id model.ThingID) (*model.Thing, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := id.String()

	return s.snapshots[key], s.revisions[key], nil
}

// Append persists one event: it projects the event onto the current snapshot
// and records the storable form in the journal. The event revision must
// continue the journal tail by exactly one, across deletions too, so no two
// events of one thing ever share a revision.
func (s *InMemoryStore) Append(_ context.Context, event events.Event) (*model.Thing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := event.ThingID().String()

	if last := s.revisions[key]; event.Revision() != last+1 {
		return nil, fmt.Errorf("%w: journal tail at %d, event carries %d",
			ErrConcurrencyConflict, last, event.Revision())
	}

	next, err := Project(s.snapshots[key], event)
	if err != nil {
		if errors.Is(err, ErrEventOutOfOrder) {
			return nil, fmt.Errorf("%w: %s", ErrConcurrencyConflict, err)
		}

		return nil, err
	}

	storable, err := events.StorableEventFrom(event)
	if err != nil {
		return nil, err
	}

	s.snapshots[key] = next
	s.revisions[key] = event.Revision()
	s.journals[key] = append(s.journals[key], storable)

	return next, nil
}

// Journal returns a copy of the stored event journal of one thing, oldest first.
func (s *InMemoryStore) Journal(id model.ThingID) []events.StorableEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	journal := s.journals[id.String()]
	copied := make([]events.StorableEvent, len(journal))
	copy(copied, journal)

	return copied
}
