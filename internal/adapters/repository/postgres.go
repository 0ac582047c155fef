package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/pkg/logger"
)

const (
	pgUniqueViolation = "23505"
	pgPingTimeout     = 5 * time.Second
)

// PostgresStore keeps records in PostgreSQL through database/sql and lib/pq.
type PostgresStore struct {
	cfg settings
	db  *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to dsn, checks the connection and bootstraps the schema.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	cfg := newSettings(opts)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pgPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap postgres schema: %w", err)
	}

	cfg.logger.Info(ctx, "postgres store opened")
	return &PostgresStore{cfg: cfg, db: db}, nil
}

// Driver implements Store.
func (p *PostgresStore) Driver() string { return DriverPostgres }

// Close implements Store.
func (p *PostgresStore) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	p.cfg.logger.Info(context.Background(), "postgres store closed")
	return nil
}

// pgErr translates driver errors into store sentinels.
func pgErr(what, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) && pqe.Code == pgUniqueViolation {
		return fmt.Errorf("%s %s: %w", what, id, ErrConflict)
	}
	return fmt.Errorf("%s %s: %w", what, id, err)
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(what, id string, res sql.Result, err error) error {
	if err != nil {
		return pgErr(what, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pgErr(what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

const shooterColumns = `id, name, email, active, created_at`

func scanShooter(row scanner) (model.Shooter, error) {
	var s model.Shooter
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Active, &s.CreatedAt)
	s.CreatedAt = s.CreatedAt.UTC()
	return s, err
}

func (p *PostgresStore) CreateShooter(ctx context.Context, s model.Shooter) (_ model.Shooter, err error) {
	defer observe("create_shooter", time.Now(), &err)
	s.ID = p.cfg.newID()
	s.CreatedAt = p.cfg.now().UTC()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO shooters (`+shooterColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Name, s.Email, s.Active, s.CreatedAt)
	if err != nil {
		return model.Shooter{}, pgErr("shooter", s.ID, err)
	}
	return s, nil
}

func (p *PostgresStore) GetShooter(ctx context.Context, id string) (_ model.Shooter, err error) {
	defer observe("get_shooter", time.Now(), &err)
	s, err := scanShooter(p.db.QueryRowContext(ctx, `SELECT `+shooterColumns+` FROM shooters WHERE id = $1`, id))
	if err != nil {
		return model.Shooter{}, pgErr("shooter", id, err)
	}
	return s, nil
}

func (p *PostgresStore) ListShooters(ctx context.Context, activeOnly bool) (_ []model.Shooter, err error) {
	defer observe("list_shooters", time.Now(), &err)
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+shooterColumns+` FROM shooters WHERE ($1 = FALSE OR active) ORDER BY name, id`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list shooters: %w", err)
	}
	defer rows.Close()

	out := []model.Shooter{}
	for rows.Next() {
		s, err := scanShooter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shooter: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shooters: %w", err)
	}
	sortShooters(out)
	return out, nil
}

func (p *PostgresStore) UpdateShooter(ctx context.Context, s model.Shooter) (_ model.Shooter, err error) {
	defer observe("update_shooter", time.Now(), &err)
	row := p.db.QueryRowContext(ctx,
		`UPDATE shooters SET name = $2, email = $3, active = $4 WHERE id = $1 RETURNING `+shooterColumns,
		s.ID, s.Name, s.Email, s.Active)
	out, err := scanShooter(row)
	if err != nil {
		return model.Shooter{}, pgErr("shooter", s.ID, err)
	}
	return out, nil
}

func (p *PostgresStore) DeleteShooter(ctx context.Context, id string) (err error) {
	defer observe("delete_shooter", time.Now(), &err)
	res, err := p.db.ExecContext(ctx, `DELETE FROM shooters WHERE id = $1`, id)
	return affected("shooter", id, res, err)
}

const eventColumns = `id, name, date, type, total_targets, season, created_at`

func scanEvent(row scanner) (model.Event, error) {
	var (
		e    model.Event
		date time.Time
		typ  string
	)
	err := row.Scan(&e.ID, &e.Name, &date, &typ, &e.TotalTargets, &e.Season, &e.CreatedAt)
	e.Date = date.Format(model.DateLayout)
	e.Type = model.EventType(typ)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, err
}

func (p *PostgresStore) CreateEvent(ctx context.Context, e model.Event) (_ model.Event, err error) {
	defer observe("create_event", time.Now(), &err)
	e.ID = p.cfg.newID()
	e.CreatedAt = p.cfg.now().UTC()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.Name, e.Date, string(e.Type), e.TotalTargets, e.Season, e.CreatedAt)
	if err != nil {
		return model.Event{}, pgErr("event", e.ID, err)
	}
	return e, nil
}

func (p *PostgresStore) GetEvent(ctx context.Context, id string) (_ model.Event, err error) {
	defer observe("get_event", time.Now(), &err)
	e, err := scanEvent(p.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return model.Event{}, pgErr("event", id, err)
	}
	return e, nil
}

func (p *PostgresStore) ListEvents(ctx context.Context) (_ []model.Event, err error) {
	defer observe("list_events", time.Now(), &err)
	return p.queryEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date, name, id`)
}

func (p *PostgresStore) ListEventsBySeason(ctx context.Context, season int) (_ []model.Event, err error) {
	defer observe("list_events_by_season", time.Now(), &err)
	return p.queryEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE season = $1 ORDER BY date, name, id`, season)
}

func (p *PostgresStore) queryEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	sortEvents(out)
	return out, nil
}

func (p *PostgresStore) UpdateEvent(ctx context.Context, e model.Event) (_ model.Event, err error) {
	defer observe("update_event", time.Now(), &err)
	row := p.db.QueryRowContext(ctx,
		`UPDATE events SET name = $2, date = $3, type = $4, total_targets = $5, season = $6
		 WHERE id = $1 RETURNING `+eventColumns,
		e.ID, e.Name, e.Date, string(e.Type), e.TotalTargets, e.Season)
	out, err := scanEvent(row)
	if err != nil {
		return model.Event{}, pgErr("event", e.ID, err)
	}
	return out, nil
}

func (p *PostgresStore) RescoreEvent(ctx context.Context, e model.Event, results []model.Result) (_ model.Event, err error) {
	defer observe("rescore_event", time.Now(), &err)
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Event{}, fmt.Errorf("begin rescore: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`UPDATE events SET name = $2, date = $3, type = $4, total_targets = $5, season = $6
		 WHERE id = $1 RETURNING `+eventColumns,
		e.ID, e.Name, e.Date, string(e.Type), e.TotalTargets, e.Season)
	out, err := scanEvent(row)
	if err != nil {
		return model.Event{}, pgErr("event", e.ID, err)
	}
	for _, r := range results {
		var owner string
		err := tx.QueryRowContext(ctx,
			`UPDATE results SET effectiveness = $2, weighted_effectiveness = $3 WHERE id = $1 RETURNING event_id`,
			r.ID, r.Effectiveness, r.WeightedEffectiveness).Scan(&owner)
		if err != nil {
			return model.Event{}, pgErr("result", r.ID, err)
		}
		if owner != e.ID {
			return model.Event{}, fmt.Errorf("result %s is not part of event %s: %w", r.ID, e.ID, ErrConflict)
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Event{}, fmt.Errorf("commit rescore: %w", err)
	}
	return out, nil
}

func (p *PostgresStore) DeleteEvent(ctx context.Context, id string) (err error) {
	defer observe("delete_event", time.Now(), &err)
	res, err := p.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return affected("event", id, res, err)
}

const resultColumns = `id, event_id, shooter_id, targets_hit, effectiveness, weighted_effectiveness, created_at`

func scanResult(row scanner) (model.Result, error) {
	var r model.Result
	err := row.Scan(&r.ID, &r.EventID, &r.ShooterID, &r.TargetsHit, &r.Effectiveness, &r.WeightedEffectiveness, &r.CreatedAt)
	r.CreatedAt = r.CreatedAt.UTC()
	return r, err
}

func (p *PostgresStore) CreateResult(ctx context.Context, r model.Result) (_ model.Result, err error) {
	defer observe("create_result", time.Now(), &err)
	r.ID = p.cfg.newID()
	r.CreatedAt = p.cfg.now().UTC()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO results (`+resultColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.EventID, r.ShooterID, r.TargetsHit, r.Effectiveness, r.WeightedEffectiveness, r.CreatedAt)
	if err != nil {
		return model.Result{}, pgErr("result", r.PairKey(), err)
	}
	return r, nil
}

func (p *PostgresStore) GetResult(ctx context.Context, id string) (_ model.Result, err error) {
	defer observe("get_result", time.Now(), &err)
	r, err := scanResult(p.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM results WHERE id = $1`, id))
	if err != nil {
		return model.Result{}, pgErr("result", id, err)
	}
	return r, nil
}

func (p *PostgresStore) ListResults(ctx context.Context) (_ []model.Result, err error) {
	defer observe("list_results", time.Now(), &err)
	return p.queryResults(ctx, `SELECT `+resultColumns+` FROM results ORDER BY created_at, id`)
}

func (p *PostgresStore) ListResultsByEvent(ctx context.Context, eventID string) (_ []model.Result, err error) {
	defer observe("list_results_by_event", time.Now(), &err)
	return p.queryResults(ctx, `SELECT `+resultColumns+` FROM results WHERE event_id = $1 ORDER BY created_at, id`, eventID)
}

func (p *PostgresStore) ListResultsByShooter(ctx context.Context, shooterID string) (_ []model.Result, err error) {
	defer observe("list_results_by_shooter", time.Now(), &err)
	return p.queryResults(ctx, `SELECT `+resultColumns+` FROM results WHERE shooter_id = $1 ORDER BY created_at, id`, shooterID)
}

func (p *PostgresStore) queryResults(ctx context.Context, query string, args ...any) ([]model.Result, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := []model.Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

func (p *PostgresStore) UpdateResult(ctx context.Context, r model.Result) (_ model.Result, err error) {
	defer observe("update_result", time.Now(), &err)
	row := p.db.QueryRowContext(ctx,
		`UPDATE results SET event_id = $2, shooter_id = $3, targets_hit = $4,
		 effectiveness = $5, weighted_effectiveness = $6
		 WHERE id = $1 RETURNING `+resultColumns,
		r.ID, r.EventID, r.ShooterID, r.TargetsHit, r.Effectiveness, r.WeightedEffectiveness)
	out, err := scanResult(row)
	if err != nil {
		return model.Result{}, pgErr("result", r.ID, err)
	}
	return out, nil
}

func (p *PostgresStore) DeleteResult(ctx context.Context, id string) (err error) {
	defer observe("delete_result", time.Now(), &err)
	res, err := p.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	return affected("result", id, res, err)
}

func (p *PostgresStore) DeleteResultsByEvent(ctx context.Context, eventID string) (_ int, err error) {
	defer observe("delete_results_by_event", time.Now(), &err)
	return p.deleteResults(ctx, `DELETE FROM results WHERE event_id = $1`, eventID)
}

func (p *PostgresStore) DeleteResultsByShooter(ctx context.Context, shooterID string) (_ int, err error) {
	defer observe("delete_results_by_shooter", time.Now(), &err)
	return p.deleteResults(ctx, `DELETE FROM results WHERE shooter_id = $1`, shooterID)
}

func (p *PostgresStore) deleteResults(ctx context.Context, query, id string) (int, error) {
	res, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete results: %w", err)
	}
	p.cfg.logger.Debug(ctx, "results deleted", logger.String("key", id), logger.Int("count", int(n)))
	return int(n), nil
}
