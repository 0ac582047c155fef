package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/pkg/logger"
	"github.com/timshannon/badgerhold/v4"
)

// Badger documents. Kept separate from the domain records so index tags
// and encoding stay a storage concern.

type shooterDoc struct {
	ID        string `badgerhold:"key"`
	Name      string
	Email     string
	Active    bool `badgerhold:"index"`
	CreatedAt time.Time
}

type eventDoc struct {
	ID           string `badgerhold:"key"`
	Name         string
	Date         string
	Type         string
	TotalTargets int
	Season       int `badgerhold:"index"`
	CreatedAt    time.Time
}

type resultDoc struct {
	ID                    string `badgerhold:"key"`
	EventID               string `badgerhold:"index"`
	ShooterID             string `badgerhold:"index"`
	TargetsHit            int
	Effectiveness         float64
	WeightedEffectiveness float64
	CreatedAt             time.Time
}

func toShooterDoc(s model.Shooter) shooterDoc {
	return shooterDoc{ID: s.ID, Name: s.Name, Email: s.Email, Active: s.Active, CreatedAt: s.CreatedAt}
}

func (d shooterDoc) model() model.Shooter {
	return model.Shooter{ID: d.ID, Name: d.Name, Email: d.Email, Active: d.Active, CreatedAt: d.CreatedAt}
}

func toEventDoc(e model.Event) eventDoc {
	return eventDoc{
		ID: e.ID, Name: e.Name, Date: e.Date, Type: string(e.Type),
		TotalTargets: e.TotalTargets, Season: e.Season, CreatedAt: e.CreatedAt,
	}
}

func (d eventDoc) model() model.Event {
	return model.Event{
		ID: d.ID, Name: d.Name, Date: d.Date, Type: model.EventType(d.Type),
		TotalTargets: d.TotalTargets, Season: d.Season, CreatedAt: d.CreatedAt,
	}
}

func toResultDoc(r model.Result) resultDoc {
	return resultDoc{
		ID: r.ID, EventID: r.EventID, ShooterID: r.ShooterID, TargetsHit: r.TargetsHit,
		Effectiveness: r.Effectiveness, WeightedEffectiveness: r.WeightedEffectiveness, CreatedAt: r.CreatedAt,
	}
}

func (d resultDoc) model() model.Result {
	return model.Result{
		ID: d.ID, EventID: d.EventID, ShooterID: d.ShooterID, TargetsHit: d.TargetsHit,
		Effectiveness: d.Effectiveness, WeightedEffectiveness: d.WeightedEffectiveness, CreatedAt: d.CreatedAt,
	}
}

// BadgerStore is the embedded document store backed by badgerhold.
type BadgerStore struct {
	cfg   settings
	path  string
	store *badgerhold.Store
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens (creating if needed) a badger database at path.
func OpenBadger(path string, opts ...Option) (*BadgerStore, error) {
	cfg := newSettings(opts)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	cfg.logger.Info(context.Background(), "badger store opened", logger.String("path", path))
	return &BadgerStore{cfg: cfg, path: path, store: store}, nil
}

// Driver implements Store.
func (b *BadgerStore) Driver() string { return DriverBadger }

// Close implements Store.
func (b *BadgerStore) Close() error {
	if err := b.store.Close(); err != nil {
		return fmt.Errorf("close badger database: %w", err)
	}
	b.cfg.logger.Info(context.Background(), "badger store closed", logger.String("path", b.path))
	return nil
}

// mapErr translates badger errors into store sentinels.
func mapErr(what, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badgerhold.ErrNotFound):
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	case errors.Is(err, badgerhold.ErrKeyExists), errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%s %s: %w", what, id, ErrConflict)
	default:
		return fmt.Errorf("%s %s: %w", what, id, err)
	}
}

func (b *BadgerStore) CreateShooter(_ context.Context, s model.Shooter) (_ model.Shooter, err error) {
	defer observe("create_shooter", time.Now(), &err)
	s.ID = b.cfg.newID()
	s.CreatedAt = b.cfg.now().UTC()
	if err = b.store.Insert(s.ID, toShooterDoc(s)); err != nil {
		return model.Shooter{}, mapErr("shooter", s.ID, err)
	}
	return s, nil
}

func (b *BadgerStore) GetShooter(_ context.Context, id string) (_ model.Shooter, err error) {
	defer observe("get_shooter", time.Now(), &err)
	var doc shooterDoc
	if err = b.store.Get(id, &doc); err != nil {
		return model.Shooter{}, mapErr("shooter", id, err)
	}
	return doc.model(), nil
}

func (b *BadgerStore) ListShooters(_ context.Context, activeOnly bool) (_ []model.Shooter, err error) {
	defer observe("list_shooters", time.Now(), &err)
	var query *badgerhold.Query
	if activeOnly {
		query = badgerhold.Where("Active").Eq(true).Index("Active")
	}
	var docs []shooterDoc
	if err = b.store.Find(&docs, query); err != nil {
		return nil, fmt.Errorf("list shooters: %w", err)
	}
	out := make([]model.Shooter, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	sortShooters(out)
	return out, nil
}

func (b *BadgerStore) UpdateShooter(_ context.Context, s model.Shooter) (_ model.Shooter, err error) {
	defer observe("update_shooter", time.Now(), &err)
	err = b.store.Badger().Update(func(tx *badger.Txn) error {
		var cur shooterDoc
		if err := b.store.TxGet(tx, s.ID, &cur); err != nil {
			return err
		}
		s.CreatedAt = cur.CreatedAt
		return b.store.TxUpdate(tx, s.ID, toShooterDoc(s))
	})
	if err != nil {
		return model.Shooter{}, mapErr("shooter", s.ID, err)
	}
	return s, nil
}

func (b *BadgerStore) DeleteShooter(_ context.Context, id string) (err error) {
	defer observe("delete_shooter", time.Now(), &err)
	return mapErr("shooter", id, b.store.Delete(id, &shooterDoc{}))
}

func (b *BadgerStore) CreateEvent(_ context.Context, e model.Event) (_ model.Event, err error) {
	defer observe("create_event", time.Now(), &err)
	e.ID = b.cfg.newID()
	e.CreatedAt = b.cfg.now().UTC()
	if err = b.store.Insert(e.ID, toEventDoc(e)); err != nil {
		return model.Event{}, mapErr("event", e.ID, err)
	}
	return e, nil
}

func (b *BadgerStore) GetEvent(_ context.Context, id string) (_ model.Event, err error) {
	defer observe("get_event", time.Now(), &err)
	var doc eventDoc
	if err = b.store.Get(id, &doc); err != nil {
		return model.Event{}, mapErr("event", id, err)
	}
	return doc.model(), nil
}

func (b *BadgerStore) ListEvents(_ context.Context) (_ []model.Event, err error) {
	defer observe("list_events", time.Now(), &err)
	return b.findEvents(nil)
}

func (b *BadgerStore) ListEventsBySeason(_ context.Context, season int) (_ []model.Event, err error) {
	defer observe("list_events_by_season", time.Now(), &err)
	return b.findEvents(badgerhold.Where("Season").Eq(season).Index("Season"))
}

func (b *BadgerStore) findEvents(query *badgerhold.Query) ([]model.Event, error) {
	var docs []eventDoc
	if err := b.store.Find(&docs, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]model.Event, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	sortEvents(out)
	return out, nil
}

func (b *BadgerStore) UpdateEvent(_ context.Context, e model.Event) (_ model.Event, err error) {
	defer observe("update_event", time.Now(), &err)
	err = b.store.Badger().Update(func(tx *badger.Txn) error {
		var cur eventDoc
		if err := b.store.TxGet(tx, e.ID, &cur); err != nil {
			return err
		}
		e.CreatedAt = cur.CreatedAt
		return b.store.TxUpdate(tx, e.ID, toEventDoc(e))
	})
	if err != nil {
		return model.Event{}, mapErr("event", e.ID, err)
	}
	return e, nil
}

func (b *BadgerStore) RescoreEvent(_ context.Context, e model.Event, results []model.Result) (_ model.Event, err error) {
	defer observe("rescore_event", time.Now(), &err)
	what, id := "event", e.ID
	err = b.store.Badger().Update(func(tx *badger.Txn) error {
		var cur eventDoc
		if err := b.store.TxGet(tx, e.ID, &cur); err != nil {
			return err
		}
		e.CreatedAt = cur.CreatedAt
		if err := b.store.TxUpdate(tx, e.ID, toEventDoc(e)); err != nil {
			return err
		}
		for _, r := range results {
			what, id = "result", r.ID
			var doc resultDoc
			if err := b.store.TxGet(tx, r.ID, &doc); err != nil {
				return err
			}
			if doc.EventID != e.ID {
				return fmt.Errorf("not part of event %s: %w", e.ID, ErrConflict)
			}
			if err := b.store.TxUpdate(tx, r.ID, toResultDoc(rescored(doc.model(), r))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Event{}, mapErr(what, id, err)
	}
	return e, nil
}

func (b *BadgerStore) DeleteEvent(_ context.Context, id string) (err error) {
	defer observe("delete_event", time.Now(), &err)
	return mapErr("event", id, b.store.Delete(id, &eventDoc{}))
}

// pairTaken reports whether another result already holds r's (event, shooter) pair.
// Reading inside tx makes a concurrent insert of the same pair fail at commit.
func (b *BadgerStore) pairTaken(tx *badger.Txn, r model.Result) (bool, error) {
	var docs []resultDoc
	query := badgerhold.Where("EventID").Eq(r.EventID).Index("EventID").And("ShooterID").Eq(r.ShooterID)
	if err := b.store.TxFind(tx, &docs, query); err != nil {
		return false, err
	}
	for _, d := range docs {
		if d.ID != r.ID {
			return true, nil
		}
	}
	return false, nil
}

func (b *BadgerStore) CreateResult(_ context.Context, r model.Result) (_ model.Result, err error) {
	defer observe("create_result", time.Now(), &err)
	r.ID = b.cfg.newID()
	r.CreatedAt = b.cfg.now().UTC()
	err = b.store.Badger().Update(func(tx *badger.Txn) error {
		taken, err := b.pairTaken(tx, r)
		if err != nil {
			return err
		}
		if taken {
			return badgerhold.ErrKeyExists
		}
		return b.store.TxInsert(tx, r.ID, toResultDoc(r))
	})
	if err != nil {
		return model.Result{}, mapErr("result", r.PairKey(), err)
	}
	return r, nil
}

func (b *BadgerStore) GetResult(_ context.Context, id string) (_ model.Result, err error) {
	defer observe("get_result", time.Now(), &err)
	var doc resultDoc
	if err = b.store.Get(id, &doc); err != nil {
		return model.Result{}, mapErr("result", id, err)
	}
	return doc.model(), nil
}

func (b *BadgerStore) ListResults(_ context.Context) (_ []model.Result, err error) {
	defer observe("list_results", time.Now(), &err)
	return b.findResults(nil)
}

func (b *BadgerStore) ListResultsByEvent(_ context.Context, eventID string) (_ []model.Result, err error) {
	defer observe("list_results_by_event", time.Now(), &err)
	return b.findResults(badgerhold.Where("EventID").Eq(eventID).Index("EventID"))
}

func (b *BadgerStore) ListResultsByShooter(_ context.Context, shooterID string) (_ []model.Result, err error) {
	defer observe("list_results_by_shooter", time.Now(), &err)
	return b.findResults(badgerhold.Where("ShooterID").Eq(shooterID).Index("ShooterID"))
}

func (b *BadgerStore) findResults(query *badgerhold.Query) ([]model.Result, error) {
	var docs []resultDoc
	if err := b.store.Find(&docs, query); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]model.Result, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	sortResults(out)
	return out, nil
}

func (b *BadgerStore) UpdateResult(_ context.Context, r model.Result) (_ model.Result, err error) {
	defer observe("update_result", time.Now(), &err)
	err = b.store.Badger().Update(func(tx *badger.Txn) error {
		var cur resultDoc
		if err := b.store.TxGet(tx, r.ID, &cur); err != nil {
			return err
		}
		taken, err := b.pairTaken(tx, r)
		if err != nil {
			return err
		}
		if taken {
			return badgerhold.ErrKeyExists
		}
		r.CreatedAt = cur.CreatedAt
		return b.store.TxUpdate(tx, r.ID, toResultDoc(r))
	})
	if err != nil {
		return model.Result{}, mapErr("result", r.ID, err)
	}
	return r, nil
}

func (b *BadgerStore) DeleteResult(_ context.Context, id string) (err error) {
	defer observe("delete_result", time.Now(), &err)
	return mapErr("result", id, b.store.Delete(id, &resultDoc{}))
}

func (b *BadgerStore) DeleteResultsByEvent(_ context.Context, eventID string) (_ int, err error) {
	defer observe("delete_results_by_event", time.Now(), &err)
	return b.deleteResults(badgerhold.Where("EventID").Eq(eventID).Index("EventID"))
}

func (b *BadgerStore) DeleteResultsByShooter(_ context.Context, shooterID string) (_ int, err error) {
	defer observe("delete_results_by_shooter", time.Now(), &err)
	return b.deleteResults(badgerhold.Where("ShooterID").Eq(shooterID).Index("ShooterID"))
}

func (b *BadgerStore) deleteResults(query *badgerhold.Query) (int, error) {
	n := 0
	err := b.store.Badger().Update(func(tx *badger.Txn) error {
		var docs []resultDoc
		if err := b.store.TxFind(tx, &docs, query); err != nil {
			return err
		}
		for _, d := range docs {
			if err := b.store.TxDelete(tx, d.ID, &resultDoc{}); err != nil {
				return err
			}
		}
		n = len(docs)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	return n, nil
}
