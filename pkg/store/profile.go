package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fact classification. Facts start out dynamic and become static when
// promoted; promotion refreshes updated_at.
const (
	FactTypeDynamic = "dynamic"
	FactTypeStatic  = "static"
)

// ProfileFact is a derived statement about the user within a container.
// Facts are append-only from the extractor's perspective: the same statement
// text may appear as multiple rows when repeated across memories. There is no
// link back to the memory that produced a fact.
type ProfileFact struct {
	ID           string    `json:"id"`
	ContainerTag string    `json:"containerTag"`
	Fact         string    `json:"fact"`
	FactType     string    `json:"factType"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileStore defines CRUD over extracted facts.
type ProfileStore interface {
	// RecordDynamic inserts one dynamic row per fact into the container.
	RecordDynamic(ctx context.Context, containerTag string, facts []string) error

	// ListFacts returns distinct fact strings of the given type, most
	// recently updated first. Duplicate rows remain in storage; only the
	// listing is deduplicated.
	ListFacts(ctx context.Context, containerTag, factType string, limit int) ([]string, error)

	// Promote flips every dynamic row matching (containerTag, fact) to
	// static and refreshes updated_at. Returns whether any row matched;
	// re-promoting with no matching rows is a no-op, not an error.
	Promote(ctx context.Context, containerTag, fact string) (bool, error)

	// Wipe hard-deletes every fact row in the container.
	Wipe(ctx context.Context, containerTag string) error
}

// SQLiteProfileStore implements ProfileStore on a shared SQLite handle.
type SQLiteProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a profile store using the given database handle.
func NewProfileStore(db *sql.DB) *SQLiteProfileStore {
	return &SQLiteProfileStore{db: db}
}

// RecordDynamic inserts the facts as dynamic rows. No deduplication or
// merging happens here.
func (s *SQLiteProfileStore) RecordDynamic(ctx context.Context, containerTag string, facts []string) error {
	if len(facts) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, fact := range facts {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO profile_facts (id, container_tag, fact, fact_type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), containerTag, fact, FactTypeDynamic, now, now)
		if err != nil {
			return fmt.Errorf("failed to record fact: %w", err)
		}
	}
	return nil
}

// ListFacts returns distinct fact strings of the given type for the
// container, ordered by most recent update.
func (s *SQLiteProfileStore) ListFacts(ctx context.Context, containerTag, factType string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fact, MAX(updated_at) AS latest
		FROM profile_facts
		WHERE container_tag = ? AND fact_type = ?
		GROUP BY fact
		ORDER BY latest DESC
		LIMIT ?
	`, containerTag, factType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	defer rows.Close()

	var facts []string
	for rows.Next() {
		var fact string
		// MAX() strips the column's declared type, so the driver hands the
		// timestamp back as raw text; the value is only used for ORDER BY.
		var latest any
		if err := rows.Scan(&fact, &latest); err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating facts: %w", err)
	}

	return facts, nil
}

// Promote reclassifies every dynamic row with the given text as static.
// Promoting twice returns true then false: the second call finds no dynamic
// rows left to flip.
func (s *SQLiteProfileStore) Promote(ctx context.Context, containerTag, fact string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profile_facts SET fact_type = ?, updated_at = ?
		WHERE container_tag = ? AND fact = ? AND fact_type = ?
	`, FactTypeStatic, time.Now().UTC(), containerTag, fact, FactTypeDynamic)
	if err != nil {
		return false, fmt.Errorf("failed to promote fact: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// Wipe hard-deletes every fact row in the container. Irreversible.
func (s *SQLiteProfileStore) Wipe(ctx context.Context, containerTag string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM profile_facts WHERE container_tag = ?", containerTag)
	if err != nil {
		return fmt.Errorf("failed to wipe facts: %w", err)
	}
	return nil
}
