package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opencode-ai/brandkit/internal/models"
)

// Content pack repository errors.
var (
	ErrContentPackNotFound      = errors.New("content pack not found")
	ErrContentPackAlreadyExists = errors.New("content pack already exists")
	ErrInvalidContentPack       = errors.New("invalid content pack")
)

const contentPackColumns = `id, brand_pack_id, name, channel, items_json, created_at, updated_at`

// ContentPackRepository handles content pack persistence.
type ContentPackRepository struct {
	db *DB
}

// NewContentPackRepository creates a new ContentPackRepository.
func NewContentPackRepository(db *DB) *ContentPackRepository {
	return &ContentPackRepository{db: db}
}

// Create validates and inserts a content pack. The brand pack must exist.
func (r *ContentPackRepository) Create(ctx context.Context, pack *models.ContentPack) error {
	if err := pack.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContentPack, err)
	}

	if pack.ID == "" {
		pack.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	pack.CreatedAt = now
	pack.UpdatedAt = now

	var itemsJSON *string
	if len(pack.Items) > 0 {
		data, err := json.Marshal(pack.Items)
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		s := string(data)
		itemsJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO content_packs (`+contentPackColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		pack.ID,
		pack.BrandPackID,
		strings.TrimSpace(pack.Name),
		string(pack.Channel),
		itemsJSON,
		formatTime(pack.CreatedAt),
		formatTime(pack.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrContentPackAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return ErrBrandPackNotFound
		}
		return fmt.Errorf("failed to insert content pack: %w", err)
	}
	return nil
}

// Get retrieves a content pack by ID.
func (r *ContentPackRepository) Get(ctx context.Context, id string) (*models.ContentPack, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contentPackColumns+` FROM content_packs WHERE id = ?`, id)
	return r.scan(row)
}

// List returns every content pack, newest first.
func (r *ContentPackRepository) List(ctx context.Context) ([]*models.ContentPack, error) {
	return r.query(ctx, `SELECT `+contentPackColumns+` FROM content_packs ORDER BY created_at DESC, id`)
}

// ListByBrand returns the content packs of one brand pack, newest first.
func (r *ContentPackRepository) ListByBrand(ctx context.Context, brandPackID string) ([]*models.ContentPack, error) {
	return r.query(ctx, `
		SELECT `+contentPackColumns+` FROM content_packs
		WHERE brand_pack_id = ?
		ORDER BY created_at DESC, id
	`, brandPackID)
}

// Delete removes a content pack.
func (r *ContentPackRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_packs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content pack: %w", err)
	}
	return requireAffected(result, ErrContentPackNotFound)
}

func (r *ContentPackRepository) query(ctx context.Context, query string, args ...any) ([]*models.ContentPack, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content packs: %w", err)
	}
	defer rows.Close()

	var packs []*models.ContentPack
	for rows.Next() {
		pack, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content packs: %w", err)
	}
	return packs, nil
}

func (r *ContentPackRepository) scan(row rowScanner) (*models.ContentPack, error) {
	var pack models.ContentPack
	var channel, createdAt, updatedAt string
	var itemsJSON sql.NullString

	if err := row.Scan(
		&pack.ID,
		&pack.BrandPackID,
		&pack.Name,
		&channel,
		&itemsJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentPackNotFound
		}
		return nil, fmt.Errorf("failed to scan content pack: %w", err)
	}

	pack.Channel = models.Channel(channel)
	pack.CreatedAt = parseTime(createdAt)
	pack.UpdatedAt = parseTime(updatedAt)
	if itemsJSON.Valid {
		if err := json.Unmarshal([]byte(itemsJSON.String), &pack.Items); err != nil {
			r.db.logger.Warn().Err(err).Str("content_pack_id", pack.ID).Msg("failed to parse content items")
		}
	}
	return &pack, nil
}
