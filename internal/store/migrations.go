package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// sqliteMigrations is the ordered list of SQLite schema migrations.
// Each migration's version must be sequential starting from 1.
var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	name        TEXT NOT NULL,
	color       TEXT NOT NULL DEFAULT '',
	active      INTEGER NOT NULL DEFAULT 1,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	due_date     TEXT,
	priority     TEXT NOT NULL DEFAULT 'medium',
	completed    INTEGER NOT NULL DEFAULT 0,
	project_tags TEXT NOT NULL DEFAULT '[]',
	pinned_scope TEXT NOT NULL DEFAULT '',
	pinned_at    DATETIME,
	order_index  INTEGER,
	created_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS archived_tasks (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL,
	original_task_id TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	due_date         TEXT,
	priority         TEXT NOT NULL DEFAULT 'medium',
	completed        INTEGER NOT NULL DEFAULT 0,
	project_tags     TEXT NOT NULL DEFAULT '[]',
	project_names    TEXT NOT NULL DEFAULT '[]',
	pinned_scope     TEXT NOT NULL DEFAULT '',
	pinned_at        DATETIME,
	order_index      INTEGER,
	created_at       DATETIME NOT NULL,
	moved_at         DATETIME NOT NULL,
	days_past_due    INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_owner_name ON projects(owner_id, name);
CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_due ON tasks(owner_id, due_date);
CREATE INDEX IF NOT EXISTS idx_archived_owner_moved ON archived_tasks(owner_id, moved_at);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS notes (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	project_id   TEXT,
	project_name TEXT,
	note_date    TEXT,
	scope_key    TEXT NOT NULL,
	note_text    TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_owner_scope ON notes(owner_id, scope_key);
CREATE INDEX IF NOT EXISTS idx_notes_owner_project ON notes(owner_id, project_id);
CREATE INDEX IF NOT EXISTS idx_notes_owner_date ON notes(owner_id, note_date);
`,
	},
	{
		version: 3,
		sql: `
DROP INDEX IF EXISTS idx_projects_owner_name;
CREATE INDEX IF NOT EXISTS idx_projects_owner_name ON projects(owner_id, name);
CREATE INDEX IF NOT EXISTS idx_archived_owner_original ON archived_tasks(owner_id, original_task_id);
`,
	},
}

// postgresMigrations mirrors sqliteMigrations for PostgreSQL. Booleans stay
// integers so both dialects share one set of queries.
var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	name        TEXT NOT NULL,
	color       TEXT NOT NULL DEFAULT '',
	active      INTEGER NOT NULL DEFAULT 1,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	due_date     TEXT,
	priority     TEXT NOT NULL DEFAULT 'medium',
	completed    INTEGER NOT NULL DEFAULT 0,
	project_tags TEXT NOT NULL DEFAULT '[]',
	pinned_scope TEXT NOT NULL DEFAULT '',
	pinned_at    TIMESTAMPTZ,
	order_index  INTEGER,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS archived_tasks (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL,
	original_task_id TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	due_date         TEXT,
	priority         TEXT NOT NULL DEFAULT 'medium',
	completed        INTEGER NOT NULL DEFAULT 0,
	project_tags     TEXT NOT NULL DEFAULT '[]',
	project_names    TEXT NOT NULL DEFAULT '[]',
	pinned_scope     TEXT NOT NULL DEFAULT '',
	pinned_at        TIMESTAMPTZ,
	order_index      INTEGER,
	created_at       TIMESTAMPTZ NOT NULL,
	moved_at         TIMESTAMPTZ NOT NULL,
	days_past_due    INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_owner_name ON projects(owner_id, name);
CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_due ON tasks(owner_id, due_date);
CREATE INDEX IF NOT EXISTS idx_archived_owner_moved ON archived_tasks(owner_id, moved_at);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS notes (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	project_id   TEXT,
	project_name TEXT,
	note_date    TEXT,
	scope_key    TEXT NOT NULL,
	note_text    TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_owner_scope ON notes(owner_id, scope_key);
CREATE INDEX IF NOT EXISTS idx_notes_owner_project ON notes(owner_id, project_id);
CREATE INDEX IF NOT EXISTS idx_notes_owner_date ON notes(owner_id, note_date);
`,
	},
	{
		version: 3,
		sql: `
DROP INDEX IF EXISTS idx_projects_owner_name;
CREATE INDEX IF NOT EXISTS idx_projects_owner_name ON projects(owner_id, name);
CREATE INDEX IF NOT EXISTS idx_archived_owner_original ON archived_tasks(owner_id, original_task_id);
`,
	},
}
