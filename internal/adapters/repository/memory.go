package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/clubrank/internal/domain/model"
)

// MemoryStore keeps records in process memory. It backs tests and the
// "memory" storage driver; nothing survives a restart.
type MemoryStore struct {
	cfg settings

	mu       sync.RWMutex
	shooters map[string]model.Shooter
	events   map[string]model.Event
	results  map[string]model.Result
	pairs    map[string]string // pair key -> result id
	closed   bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		cfg:      newSettings(opts),
		shooters: make(map[string]model.Shooter),
		events:   make(map[string]model.Event),
		results:  make(map[string]model.Result),
		pairs:    make(map[string]string),
	}
}

// Driver implements Store.
func (m *MemoryStore) Driver() string { return DriverMemory }

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemoryStore) check() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemoryStore) CreateShooter(_ context.Context, s model.Shooter) (_ model.Shooter, err error) {
	defer observe("create_shooter", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return model.Shooter{}, err
	}
	s.ID = m.cfg.newID()
	s.CreatedAt = m.cfg.now().UTC()
	m.shooters[s.ID] = s
	return s, nil
}

func (m *MemoryStore) GetShooter(_ context.Context, id string) (_ model.Shooter, err error) {
	defer observe("get_shooter", time.Now(), &err)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err = m.check(); err != nil {
		return model.Shooter{}, err
	}
	s, ok := m.shooters[id]
	if !ok {
		return model.Shooter{}, fmt.Errorf("shooter %s: %w", id, ErrNotFound)
	}
	return s, nil
}

func (m *MemoryStore) ListShooters(_ context.Context, activeOnly bool) (_ []model.Shooter, err error) {
	defer observe("list_shooters", time.Now(), &err)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err = m.check(); err != nil {
		return nil, err
	}
	out := make([]model.Shooter, 0, len(m.shooters))
	for _, s := range m.shooters {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	sortShooters(out)
	return out, nil
}

func (m *MemoryStore) UpdateShooter(_ context.Context, s model.Shooter) (_ model.Shooter, err error) {
	defer observe("update_shooter", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return model.Shooter{}, err
	}
	cur, ok := m.shooters[s.ID]
	if !ok {
		return model.Shooter{}, fmt.Errorf("shooter %s: %w", s.ID, ErrNotFound)
	}
	s.CreatedAt = cur.CreatedAt
	m.shooters[s.ID] = s
	return s, nil
}

func (m *MemoryStore) DeleteShooter(_ context.Context, id string) (err error) {
	defer observe("delete_shooter", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return err
	}
	if _, ok := m.shooters[id]; !ok {
		return fmt.Errorf("shooter %s: %w", id, ErrNotFound)
	}
	delete(m.shooters, id)
	return nil
}

func (m *MemoryStore) CreateEvent(_ context.Context, e model.Event) (_ model.Event, err error) {
	defer observe("create_event", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return model.Event{}, err
	}
	e.ID = m.cfg.newID()
	e.CreatedAt = m.cfg.now().UTC()
	m.events[e.ID] = e
	return e, nil
}

func (m *MemoryStore) GetEvent(_ context.Context, id string) (_ model.Event, err error) {
	defer observe("get_event", time.Now(), &err)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err = m.check(); err != nil {
		return model.Event{}, err
	}
	e, ok := m.events[id]
	if !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return e, nil
}

func (m *MemoryStore) ListEvents(_ context.Context) (_ []model.Event, err error) {
	defer observe("list_events", time.Now(), &err)
	return m.filterEvents(func(model.Event) bool { return true })
}

func (m *MemoryStore) ListEventsBySeason(_ context.Context, season int) (_ []model.Event, err error) {
	defer observe("list_events_by_season", time.Now(), &err)
	return m.filterEvents(func(e model.Event) bool { return e.Season == season })
}

func (m *MemoryStore) filterEvents(keep func(model.Event) bool) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(); err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out, nil
}

func (m *MemoryStore) UpdateEvent(_ context.Context, e model.Event) (_ model.Event, err error) {
	defer observe("update_event", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return model.Event{}, err
	}
	cur, ok := m.events[e.ID]
	if !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", e.ID, ErrNotFound)
	}
	e.CreatedAt = cur.CreatedAt
	m.events[e.ID] = e
	return e, nil
}

func (m *MemoryStore) RescoreEvent(_ context.Context, e model.Event, results []model.Result) (_ model.Event, err error) {
	defer observe("rescore_event", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return model.Event{}, err
	}
	cur, ok := m.events[e.ID]
	if !ok {
		return model.Event{}, fmt.Errorf("event %s: %w", e.ID, ErrNotFound)
	}
	for _, r := range results {
		stored, ok := m.results[r.ID]
		if !ok {
			return model.Event{}, fmt.Errorf("result %s: %w", r.ID, ErrNotFound)
		}
		if stored.EventID != e.ID {
			return model.Event{}, fmt.Errorf("result %s is not part of event %s: %w", r.ID, e.ID, ErrConflict)
		}
	}

	e.CreatedAt = cur.CreatedAt
	m.events[e.ID] = e
	for _, r := range results {
		m.results[r.ID] = rescored(m.results[r.ID], r)
	}
	return e, nil
}

func (m *MemoryStore) DeleteEvent(_ context.Context, id string) (err error) {
	defer observe("delete_event", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return err
	}
	if _, ok := m.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	delete(m.events, id)
	return nil
}

func (m *MemoryStore) CreateResult(_ context.Context, r model.Result) (_ model.Result, err error) {
	defer observe("create_result", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return model.Result{}, err
	}
	if _, taken := m.pairs[r.PairKey()]; taken {
		return model.Result{}, fmt.Errorf("result for %s: %w", r.PairKey(), ErrConflict)
	}
	r.ID = m.cfg.newID()
	r.CreatedAt = m.cfg.now().UTC()
	m.results[r.ID] = r
	m.pairs[r.PairKey()] = r.ID
	return r, nil
}

func (m *MemoryStore) GetResult(_ context.Context, id string) (_ model.Result, err error) {
	defer observe("get_result", time.Now(), &err)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err = m.check(); err != nil {
		return model.Result{}, err
	}
	r, ok := m.results[id]
	if !ok {
		return model.Result{}, fmt.Errorf("result %s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (m *MemoryStore) ListResults(_ context.Context) (_ []model.Result, err error) {
	defer observe("list_results", time.Now(), &err)
	return m.filterResults(func(model.Result) bool { return true })
}

func (m *MemoryStore) ListResultsByEvent(_ context.Context, eventID string) (_ []model.Result, err error) {
	defer observe("list_results_by_event", time.Now(), &err)
	return m.filterResults(func(r model.Result) bool { return r.EventID == eventID })
}

func (m *MemoryStore) ListResultsByShooter(_ context.Context, shooterID string) (_ []model.Result, err error) {
	defer observe("list_results_by_shooter", time.Now(), &err)
	return m.filterResults(func(r model.Result) bool { return r.ShooterID == shooterID })
}

func (m *MemoryStore) filterResults(keep func(model.Result) bool) ([]model.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(); err != nil {
		return nil, err
	}
	out := make([]model.Result, 0, len(m.results))
	for _, r := range m.results {
		if keep(r) {
			out = append(out, r)
		}
	}
	sortResults(out)
	return out, nil
}

func (m *MemoryStore) UpdateResult(_ context.Context, r model.Result) (_ model.Result, err error) {
	defer observe("update_result", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return model.Result{}, err
	}
	cur, ok := m.results[r.ID]
	if !ok {
		return model.Result{}, fmt.Errorf("result %s: %w", r.ID, ErrNotFound)
	}
	if owner, taken := m.pairs[r.PairKey()]; taken && owner != r.ID {
		return model.Result{}, fmt.Errorf("result for %s: %w", r.PairKey(), ErrConflict)
	}
	delete(m.pairs, cur.PairKey())
	r.CreatedAt = cur.CreatedAt
	m.results[r.ID] = r
	m.pairs[r.PairKey()] = r.ID
	return r, nil
}

func (m *MemoryStore) DeleteResult(_ context.Context, id string) (err error) {
	defer observe("delete_result", time.Now(), &err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err = m.check(); err != nil {
		return err
	}
	r, ok := m.results[id]
	if !ok {
		return fmt.Errorf("result %s: %w", id, ErrNotFound)
	}
	delete(m.results, id)
	delete(m.pairs, r.PairKey())
	return nil
}

func (m *MemoryStore) DeleteResultsByEvent(_ context.Context, eventID string) (_ int, err error) {
	defer observe("delete_results_by_event", time.Now(), &err)
	return m.deleteResults(func(r model.Result) bool { return r.EventID == eventID })
}

func (m *MemoryStore) DeleteResultsByShooter(_ context.Context, shooterID string) (_ int, err error) {
	defer observe("delete_results_by_shooter", time.Now(), &err)
	return m.deleteResults(func(r model.Result) bool { return r.ShooterID == shooterID })
}

func (m *MemoryStore) deleteResults(match func(model.Result) bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(); err != nil {
		return 0, err
	}
	n := 0
	for id, r := range m.results {
		if match(r) {
			delete(m.results, id)
			delete(m.pairs, r.PairKey())
			n++
		}
	}
	return n, nil
}
