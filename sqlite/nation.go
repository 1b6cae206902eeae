package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fwojciec/fmkit"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ fmkit.NationStore = (*NationStore)(nil)

// NationStore implements fmkit.NationStore using SQLite.
// Only the nations of the latest snapshot are kept; older snapshot rows
// remain as a fetch history.
type NationStore struct {
	db *DB
}

// NewNationStore creates a new NationStore.
func NewNationStore(db *DB) *NationStore {
	return &NationStore{db: db}
}

// ReplaceNations stores nations as the new record set in a single
// transaction. The snapshot gets a generated ID, its Count is set to
// len(nations) and a zero FetchedAt is set to the current time.
func (s *NationStore) ReplaceNations(ctx context.Context, snapshot *fmkit.Snapshot, nations []fmkit.Nation) error {
	for i := range nations {
		if err := nations[i].Validate(); err != nil {
			return err
		}
	}

	snapshot.ID = uuid.New().String()
	snapshot.Count = len(nations)
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now()
	}
	snapshot.FetchedAt = snapshot.FetchedAt.UTC()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nations`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source_url, content_hash, count, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.SourceURL, snapshot.ContentHash, snapshot.Count, formatTime(snapshot.FetchedAt)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nations (snapshot_id, position, id, name, nickname, logo_url, newgens, is_womens, detail_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, n := range nations {
		if _, err := stmt.ExecContext(ctx, snapshot.ID, i, n.ID, n.Name, n.Nickname, n.LogoURL,
			n.Newgens, boolToInt(n.IsWomens), n.DetailURL); err != nil {
			return fmt.Errorf("failed to insert nation %s: %w", n.Key(), err)
		}
	}

	return tx.Commit()
}

// FindNations returns the stored record set in source order.
// An empty store yields an empty, non-nil slice.
func (s *NationStore) FindNations(ctx context.Context) ([]fmkit.Nation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, nickname, logo_url, newgens, is_womens, detail_url
		FROM nations
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nations := []fmkit.Nation{}
	for rows.Next() {
		var n fmkit.Nation
		var isWomens int
		if err := rows.Scan(&n.ID, &n.Name, &n.Nickname, &n.LogoURL, &n.Newgens, &isWomens, &n.DetailURL); err != nil {
			return nil, err
		}
		n.IsWomens = isWomens != 0
		nations = append(nations, n)
	}

	return nations, rows.Err()
}

// FindLatestSnapshot returns the most recent snapshot.
// Returns ENOTFOUND if nothing has been stored yet.
func (s *NationStore) FindLatestSnapshot(ctx context.Context) (*fmkit.Snapshot, error) {
	var snapshot fmkit.Snapshot
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, content_hash, count, fetched_at
		FROM snapshots
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&snapshot.ID, &snapshot.SourceURL, &snapshot.ContentHash, &snapshot.Count, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, fmkit.Errorf(fmkit.ENOTFOUND, "no snapshot stored")
	}
	if err != nil {
		return nil, err
	}

	if snapshot.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
