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

// Brand pack repository errors.
var (
	ErrBrandPackNotFound      = errors.New("brand pack not found")
	ErrBrandPackAlreadyExists = errors.New("brand pack already exists")
	ErrInvalidBrandPack       = errors.New("invalid brand pack")
)

const brandPackColumns = `id, name, industry, description, status, source,
	core_json, voice_json, audience_json, visual_json, created_at, updated_at`

// BrandPackRepository handles brand pack persistence.
type BrandPackRepository struct {
	db *DB
}

// NewBrandPackRepository creates a new BrandPackRepository.
func NewBrandPackRepository(db *DB) *BrandPackRepository {
	return &BrandPackRepository{db: db}
}

// Create validates and inserts a brand pack.
func (r *BrandPackRepository) Create(ctx context.Context, pack *models.BrandPack) error {
	if pack.Status == "" {
		pack.Status = models.BrandPackStatusDraft
	}
	if pack.Source == "" {
		pack.Source = models.BrandPackSourceManual
	}
	if err := pack.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBrandPack, err)
	}

	if pack.ID == "" {
		pack.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	pack.CreatedAt = now
	pack.UpdatedAt = now

	sections, err := marshalSections(pack)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO brand_packs (`+brandPackColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		pack.ID,
		strings.TrimSpace(pack.Name),
		nullString(pack.Industry),
		nullString(pack.Description),
		string(pack.Status),
		string(pack.Source),
		sections[0], sections[1], sections[2], sections[3],
		formatTime(pack.CreatedAt),
		formatTime(pack.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrBrandPackAlreadyExists
		}
		return fmt.Errorf("failed to insert brand pack: %w", err)
	}
	return nil
}

// Get retrieves a brand pack by ID.
func (r *BrandPackRepository) Get(ctx context.Context, id string) (*models.BrandPack, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+brandPackColumns+` FROM brand_packs WHERE id = ?`, id)
	return r.scan(row)
}

// GetByName retrieves a brand pack by case-insensitive name.
func (r *BrandPackRepository) GetByName(ctx context.Context, name string) (*models.BrandPack, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+brandPackColumns+` FROM brand_packs WHERE name = ?`, strings.TrimSpace(name))
	return r.scan(row)
}

// Resolve looks a brand pack up by ID first, then by name.
func (r *BrandPackRepository) Resolve(ctx context.Context, ref string) (*models.BrandPack, error) {
	pack, err := r.Get(ctx, ref)
	if err == nil || !errors.Is(err, ErrBrandPackNotFound) {
		return pack, err
	}
	return r.GetByName(ctx, ref)
}

// List returns brand packs ordered by name, optionally filtered by status.
func (r *BrandPackRepository) List(ctx context.Context, status *models.BrandPackStatus) ([]*models.BrandPack, error) {
	query := `SELECT ` + brandPackColumns + ` FROM brand_packs`
	args := []any{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query brand packs: %w", err)
	}
	defer rows.Close()

	var packs []*models.BrandPack
	for rows.Next() {
		pack, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brand packs: %w", err)
	}
	return packs, nil
}

// Update replaces every mutable field of an existing brand pack.
func (r *BrandPackRepository) Update(ctx context.Context, pack *models.BrandPack) error {
	if err := pack.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBrandPack, err)
	}
	pack.UpdatedAt = time.Now().UTC()

	sections, err := marshalSections(pack)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE brand_packs SET
			name = ?, industry = ?, description = ?, status = ?, source = ?,
			core_json = ?, voice_json = ?, audience_json = ?, visual_json = ?,
			updated_at = ?
		WHERE id = ?
	`,
		strings.TrimSpace(pack.Name),
		nullString(pack.Industry),
		nullString(pack.Description),
		string(pack.Status),
		string(pack.Source),
		sections[0], sections[1], sections[2], sections[3],
		formatTime(pack.UpdatedAt),
		pack.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrBrandPackAlreadyExists
		}
		return fmt.Errorf("failed to update brand pack: %w", err)
	}
	return requireAffected(result, ErrBrandPackNotFound)
}

// Delete removes a brand pack and, by cascade, its content packs.
func (r *BrandPackRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM brand_packs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand pack: %w", err)
	}
	return requireAffected(result, ErrBrandPackNotFound)
}

func marshalSections(pack *models.BrandPack) ([4]string, error) {
	var out [4]string
	for i, section := range []any{pack.Core, pack.Voice, pack.Audience, pack.Visual} {
		data, err := json.Marshal(section)
		if err != nil {
			return out, fmt.Errorf("failed to marshal %s: %w", models.Sections[i], err)
		}
		out[i] = string(data)
	}
	return out, nil
}

func (r *BrandPackRepository) scan(row rowScanner) (*models.BrandPack, error) {
	var pack models.BrandPack
	var industry, description sql.NullString
	var status, source string
	var coreJSON, voiceJSON, audienceJSON, visualJSON string
	var createdAt, updatedAt string

	err := row.Scan(
		&pack.ID,
		&pack.Name,
		&industry,
		&description,
		&status,
		&source,
		&coreJSON,
		&voiceJSON,
		&audienceJSON,
		&visualJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandPackNotFound
		}
		return nil, fmt.Errorf("failed to scan brand pack: %w", err)
	}

	pack.Industry = industry.String
	pack.Description = description.String
	pack.Status = models.BrandPackStatus(status)
	pack.Source = models.BrandPackSource(source)
	pack.CreatedAt = parseTime(createdAt)
	pack.UpdatedAt = parseTime(updatedAt)

	targets := []struct {
		raw  string
		dest any
	}{
		{coreJSON, &pack.Core},
		{voiceJSON, &pack.Voice},
		{audienceJSON, &pack.Audience},
		{visualJSON, &pack.Visual},
	}
	for i, target := range targets {
		if err := json.Unmarshal([]byte(target.raw), target.dest); err != nil {
			return nil, fmt.Errorf("failed to parse %s for brand pack %s: %w", models.Sections[i], pack.ID, err)
		}
	}

	return &pack, nil
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
