package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemoryRecord is a stored text unit. A memory belongs to exactly one
// container for its lifetime; ContainerTag never changes after creation.
type MemoryRecord struct {
	ID           string                 `json:"id"`
	ContainerTag string                 `json:"containerTag"`
	Content      string                 `json:"content"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CustomID     string                 `json:"customId,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	// ForgottenAt is nil while the memory is active. A non-nil value means
	// soft-deleted: hidden from search, listing and stats, but still stored
	// until hard-deleted.
	ForgottenAt *time.Time `json:"forgottenAt,omitempty"`
}

// MemoryStore defines CRUD and soft-delete over memory records.
type MemoryStore interface {
	// Create inserts the record and its derived dynamic facts as one
	// transaction. Facts land in the same container as the memory.
	Create(ctx context.Context, record *MemoryRecord, facts []string) error

	// ListActive returns active memories for the given containers (union),
	// newest first, plus the total active count across those containers.
	ListActive(ctx context.Context, containerTags []string, limit, offset int) ([]*MemoryRecord, int64, error)

	// ForgetByID soft-deletes the active memory with the given id in the
	// container. Returns false when no row matched.
	ForgetByID(ctx context.Context, containerTag, id string) (bool, error)

	// ForgetByContent soft-deletes every active memory in the container whose
	// content equals content exactly. Returns the number of rows affected.
	ForgetByContent(ctx context.Context, containerTag, content string) (int64, error)

	// DeleteByIDs hard-deletes rows by id regardless of container or
	// soft-delete state. Returns the number of rows removed.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	// Wipe hard-deletes every memory in the container, forgotten or not.
	Wipe(ctx context.Context, containerTag string) error
}

// SQLiteMemoryStore implements MemoryStore on a shared SQLite handle.
type SQLiteMemoryStore struct {
	db *sql.DB
}

// NewMemoryStore creates a memory store using the given database handle.
func NewMemoryStore(db *sql.DB) *SQLiteMemoryStore {
	return &SQLiteMemoryStore{db: db}
}

// Create inserts the memory and one dynamic profile fact row per extracted
// fact inside a single transaction, so a crash between statements never
// leaves a memory without its derived facts.
func (s *SQLiteMemoryStore) Create(ctx context.Context, record *MemoryRecord, facts []string) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = record.CreatedAt

	var metadataJSON []byte
	if record.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memories (id, container_tag, content, metadata, custom_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.ContainerTag,
		record.Content,
		metadataJSON,
		nullableString(record.CustomID),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}

	for _, fact := range facts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO profile_facts (id, container_tag, fact, fact_type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			uuid.New().String(),
			record.ContainerTag,
			fact,
			FactTypeDynamic,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit memory: %w", err)
	}
	return nil
}

// ListActive returns active memories for the given containers, ordered by
// created_at descending, plus the total active count for pagination.
func (s *SQLiteMemoryStore) ListActive(ctx context.Context, containerTags []string, limit, offset int) ([]*MemoryRecord, int64, error) {
	if len(containerTags) == 0 {
		return nil, 0, nil
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	placeholders := make([]string, len(containerTags))
	args := make([]interface{}, len(containerTags))
	for i, tag := range containerTags {
		placeholders[i] = "?"
		args[i] = tag
	}
	in := strings.Join(placeholders, ",")

	var total int64
	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM memories WHERE forgotten_at IS NULL AND container_tag IN (%s)", in)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count active memories: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, container_tag, content, metadata, custom_id, created_at, updated_at
		FROM memories
		WHERE forgotten_at IS NULL AND container_tag IN (%s)
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, in)

	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	var records []*MemoryRecord
	for rows.Next() {
		var record MemoryRecord
		var metadataJSON []byte
		var customID sql.NullString

		err := rows.Scan(
			&record.ID,
			&record.ContainerTag,
			&record.Content,
			&metadataJSON,
			&customID,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan memory: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		if customID.Valid {
			record.CustomID = customID.String
		}

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating memories: %w", err)
	}

	return records, total, nil
}

// ForgetByID marks the active memory with the given id as forgotten. A miss
// is a normal outcome reported as false, not an error.
func (s *SQLiteMemoryStore) ForgetByID(ctx context.Context, containerTag, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE memories SET forgotten_at = ?
		WHERE id = ? AND container_tag = ? AND forgotten_at IS NULL
	`, time.Now().UTC(), id, containerTag)
	if err != nil {
		return false, fmt.Errorf("failed to forget memory: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// ForgetByContent marks every active memory in the container with exactly the
// given content as forgotten.
func (s *SQLiteMemoryStore) ForgetByContent(ctx context.Context, containerTag, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE memories SET forgotten_at = ?
		WHERE container_tag = ? AND content = ? AND forgotten_at IS NULL
	`, time.Now().UTC(), containerTag, content)
	if err != nil {
		return 0, fmt.Errorf("failed to forget memories by content: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

// DeleteByIDs hard-deletes rows by id. Soft-deleted rows are removed the same
// as active ones; this is the bulk-cleanup path.
func (s *SQLiteMemoryStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf("DELETE FROM memories WHERE id IN (%s)", strings.Join(placeholders, ","))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete memories: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}

// Wipe hard-deletes every memory in the container regardless of forgotten
// state. Irreversible.
func (s *SQLiteMemoryStore) Wipe(ctx context.Context, containerTag string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM memories WHERE container_tag = ?", containerTag)
	if err != nil {
		return fmt.Errorf("failed to wipe container: %w", err)
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
