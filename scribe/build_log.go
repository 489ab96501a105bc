package scribe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoBuildRecord is returned when a build log lookup finds nothing.
var ErrNoBuildRecord = errors.New("no build record")

// BuildRecord is one row of the build log: a Dockerfile synthesis run
// and the digest of the context directory it produced.
type BuildRecord struct {
	Name         string
	Digest       string
	Instructions int
	CreatedAt    time.Time
}

// BuildLog is a local SQLite record of synthesized builds. It lets
// repeated runs tell whether synthesis output changed since last time.
type BuildLog struct {
	db *sql.DB
}

// OpenBuildLog opens (and if needed creates) a build log at file f. An
// empty f opens an in-memory log.
func OpenBuildLog(f string) (*BuildLog, error) {
	if f == "" {
		f = ":memory:"
	}

	const driver = "sqlite"
	db, err := sql.Open(driver, f)
	if err != nil {
		return nil, fmt.Errorf("open build log: %w", err)
	}

	l := &BuildLog{db: db}
	if err := l.create(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *BuildLog) create(ctx context.Context) error {
	const q = `create table if not exists builds (
		id integer primary key autoincrement,
		name text not null,
		digest text not null,
		instructions integer not null,
		created_at text not null
	)`
	if _, err := l.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create builds table: %w", err)
	}
	return nil
}

// Record appends one build record.
func (l *BuildLog) Record(ctx context.Context, r *BuildRecord) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const q = `insert into builds (name, digest, instructions, created_at)
		values (?, ?, ?, ?)`
	if _, err := l.db.ExecContext(
		ctx, q, r.Name, r.Digest, r.Instructions,
		createdAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// Last returns the most recent record for a build name.
func (l *BuildLog) Last(ctx context.Context, name string) (*BuildRecord, error) {
	const q = `select name, digest, instructions, created_at from builds
		where name = ? order by id desc limit 1`
	row := l.db.QueryRowContext(ctx, q, name)

	r := new(BuildRecord)
	var createdAt string
	if err := row.Scan(
		&r.Name, &r.Digest, &r.Instructions, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNoBuildRecord, name)
		}
		return nil, fmt.Errorf("query build log: %w", err)
	}

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse record time: %w", err)
	}
	r.CreatedAt = t
	return r, nil
}

// Close closes the underlying database.
func (l *BuildLog) Close() error { return l.db.Close() }
