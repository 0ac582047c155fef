package repository

// schema bootstraps the Postgres tables. Results carry no foreign keys:
// cascades are done by the service so every driver behaves the same.
const schema = `
CREATE TABLE IF NOT EXISTS shooters (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	date          DATE NOT NULL,
	type          TEXT NOT NULL CHECK (type IN ('official', 'internal')),
	total_targets INTEGER NOT NULL CHECK (total_targets > 0),
	season        INTEGER NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS events_season_idx ON events (season);

CREATE TABLE IF NOT EXISTS results (
	id                     TEXT PRIMARY KEY,
	event_id               TEXT NOT NULL,
	shooter_id             TEXT NOT NULL,
	targets_hit            INTEGER NOT NULL CHECK (targets_hit >= 0),
	effectiveness          DOUBLE PRECISION NOT NULL,
	weighted_effectiveness DOUBLE PRECISION NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS results_event_shooter_uidx ON results (event_id, shooter_id);
CREATE INDEX IF NOT EXISTS results_shooter_idx ON results (shooter_id);
`
