// Package store provides SQLite-backed persistence for memories and profile
// facts, partitioned by container tag.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store owns the database handle shared by the memory and profile stores.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and initializes the schema.
// dbPath can be a file path or ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.applyPragmas(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// applyPragmas enables WAL mode so concurrent reads never block each other
// and a writer only serializes against its own commit. The busy timeout
// absorbs brief writer contention instead of surfacing SQLITE_BUSY.
func (s *Store) applyPragmas() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return err
	}
	return nil
}

// initSchema creates the tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id TEXT PRIMARY KEY,
		container_tag TEXT NOT NULL,
		content TEXT NOT NULL,
		metadata TEXT,
		custom_id TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		forgotten_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_memories_container ON memories(container_tag);
	CREATE INDEX IF NOT EXISTS idx_memories_custom_id ON memories(custom_id);
	CREATE INDEX IF NOT EXISTS idx_memories_forgotten ON memories(forgotten_at);

	CREATE TABLE IF NOT EXISTS profile_facts (
		id TEXT PRIMARY KEY,
		container_tag TEXT NOT NULL,
		fact TEXT NOT NULL,
		fact_type TEXT NOT NULL DEFAULT 'dynamic',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_facts_container ON profile_facts(container_tag);
	CREATE INDEX IF NOT EXISTS idx_facts_type ON profile_facts(fact_type);
	`

	_, err := s.db.Exec(schema)
	return err
}

// DB exposes the underlying handle so sub-stores can share one connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// StatsReader aggregates counts across both tables for the maintenance
// service. *Store satisfies it.
type StatsReader interface {
	CountActiveMemories(ctx context.Context) (int64, error)
	CountFacts(ctx context.Context) (int64, error)
	ContainerTags(ctx context.Context) ([]string, error)
}

// CountActiveMemories returns the number of memories that are not
// soft-deleted, across all containers.
func (s *Store) CountActiveMemories(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memories WHERE forgotten_at IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memories: %w", err)
	}
	return count, nil
}

// CountFacts returns the total number of profile fact rows across all
// containers, both dynamic and static. Facts derived from memories that were
// later forgotten or hard-deleted still count; deletion never cascades.
func (s *Store) CountFacts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profile_facts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	return count, nil
}

// ContainerTags returns every distinct container tag present in either table,
// sorted ascending.
func (s *Store) ContainerTags(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT container_tag FROM memories
		UNION
		SELECT DISTINCT container_tag FROM profile_facts
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list container tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan container tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating container tags: %w", err)
	}

	sort.Strings(tags)
	return tags, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	return s.db.Close()
}
