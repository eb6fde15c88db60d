package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/lib/pq"
)

var _ SeenURLRepository = (*SeenURLRepositoryImpl)(nil)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SeenURLRepositoryImpl stores seen URLs in a Postgres table keyed by the
// article identifier.
type SeenURLRepositoryImpl struct {
	db    *DB
	table string
}

func NewSeenURLRepository(db *DB, table string) (*SeenURLRepositoryImpl, error) {
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}
	return &SeenURLRepositoryImpl{db: db, table: pq.QuoteIdentifier(table)}, nil
}

func (r *SeenURLRepositoryImpl) FilterExisting(ctx context.Context, ids []string) map[string]bool {
	existing := make(map[string]bool)
	if len(ids) == 0 {
		return existing
	}

	query := fmt.Sprintf("SELECT id FROM %s WHERE id = $1", r.table)
	for _, id := range ids {
		var found string
		err := r.db.QueryRowContext(ctx, query, id).Scan(&found)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			slog.Error("Failed to look up seen URL, treating as new", "id", id, "error", err)
			continue
		}
		existing[found] = true
	}

	return existing
}

func (r *SeenURLRepositoryImpl) Record(ctx context.Context, id, url string, insertedAt time.Time) RecordResult {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, url, inserted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, r.table)

	result, err := r.db.ExecContext(ctx, query, id, url, insertedAt)
	if err != nil {
		slog.Error("Failed to record seen URL", "url", url, "error", err)
		return RecordFailed
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("Failed to read affected rows", "url", url, "error", err)
		return RecordFailed
	}
	if affected == 0 {
		slog.Info("URL already recorded", "url", url)
		return RecordAlreadyPresent
	}

	return RecordInserted
}

func (r *SeenURLRepositoryImpl) GetSeenCount(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get seen count: %w", err)
	}
	return count, nil
}
