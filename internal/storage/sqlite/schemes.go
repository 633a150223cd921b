package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nithinkp/kurihub/internal/models"
	"github.com/nithinkp/kurihub/internal/storage"
)

// CreateScheme persists a new scheme document.
// Generates the ID and CreatedAt if not set.
func (s *SQLiteStore) CreateScheme(ctx context.Context, scheme *models.Scheme) error {
	if scheme.ID == "" {
		scheme.ID = uuid.New().String()
	}
	if scheme.CreatedAt == 0 {
		scheme.CreatedAt = time.Now().Unix()
	}

	doc, err := json.Marshal(scheme)
	if err != nil {
		return fmt.Errorf("failed to encode scheme: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO schemes (id, doc, created_at) VALUES (?, ?, ?)`,
		scheme.ID, string(doc), scheme.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scheme: %w", err)
	}

	return nil
}

// GetScheme retrieves a scheme document by ID.
func (s *SQLiteStore) GetScheme(ctx context.Context, id string) (*models.Scheme, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM schemes WHERE id = ?`, id,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheme: %w", err)
	}

	scheme := &models.Scheme{}
	if err := json.Unmarshal([]byte(doc), scheme); err != nil {
		return nil, fmt.Errorf("failed to decode scheme: %w", err)
	}

	return scheme, nil
}

// ListSchemes retrieves all schemes, newest first.
func (s *SQLiteStore) ListSchemes(ctx context.Context) ([]*models.Scheme, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM schemes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemes: %w", err)
	}
	defer rows.Close()

	var schemes []*models.Scheme
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan scheme: %w", err)
		}

		scheme := &models.Scheme{}
		if err := json.Unmarshal([]byte(doc), scheme); err != nil {
			return nil, fmt.Errorf("failed to decode scheme: %w", err)
		}
		schemes = append(schemes, scheme)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schemes: %w", err)
	}

	return schemes, nil
}

// UpdateScheme overwrites the stored document for scheme.ID.
// The write replaces the entire document: concurrent read-modify-write
// sequences on the same scheme race, and the last writer wins.
func (s *SQLiteStore) UpdateScheme(ctx context.Context, scheme *models.Scheme) error {
	doc, err := json.Marshal(scheme)
	if err != nil {
		return fmt.Errorf("failed to encode scheme: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE schemes SET doc = ? WHERE id = ?`,
		string(doc), scheme.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scheme: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteScheme removes a scheme document along with its embedded payment,
// winner, and nomination history.
func (s *SQLiteStore) DeleteScheme(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schemes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheme: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}
