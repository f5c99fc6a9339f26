package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opencode-ai/brandkit/internal/models"
)

// Knowledge repository errors.
var (
	ErrKnowledgeFileNotFound      = errors.New("knowledge file not found")
	ErrKnowledgeFileAlreadyExists = errors.New("knowledge file already registered")
	ErrInvalidKnowledgeFile       = errors.New("invalid knowledge file")
)

const knowledgeColumns = `id, name, path, size_bytes, media_type, sha256, added_at`

// KnowledgeRepository handles knowledge base file records.
type KnowledgeRepository struct {
	db *DB
}

// NewKnowledgeRepository creates a new KnowledgeRepository.
func NewKnowledgeRepository(db *DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// Create registers a file.
func (r *KnowledgeRepository) Create(ctx context.Context, file *models.KnowledgeFile) error {
	if err := file.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKnowledgeFile, err)
	}
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if file.AddedAt.IsZero() {
		file.AddedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO knowledge_files (`+knowledgeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		file.ID,
		file.Name,
		file.Path,
		file.SizeBytes,
		nullString(file.MediaType),
		file.SHA256,
		formatTime(file.AddedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrKnowledgeFileAlreadyExists
		}
		return fmt.Errorf("failed to insert knowledge file: %w", err)
	}
	return nil
}

// Get retrieves a file record by ID.
func (r *KnowledgeRepository) Get(ctx context.Context, id string) (*models.KnowledgeFile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+knowledgeColumns+` FROM knowledge_files WHERE id = ?`, id)
	return r.scan(row)
}

// List returns every file ordered by name.
func (r *KnowledgeRepository) List(ctx context.Context) ([]*models.KnowledgeFile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+knowledgeColumns+` FROM knowledge_files ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge files: %w", err)
	}
	defer rows.Close()

	var files []*models.KnowledgeFile
	for rows.Next() {
		file, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge files: %w", err)
	}
	return files, nil
}

// Delete unregisters a file. The file on disk is untouched.
func (r *KnowledgeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM knowledge_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete knowledge file: %w", err)
	}
	return requireAffected(result, ErrKnowledgeFileNotFound)
}

func (r *KnowledgeRepository) scan(row rowScanner) (*models.KnowledgeFile, error) {
	var file models.KnowledgeFile
	var mediaType sql.NullString
	var addedAt string

	if err := row.Scan(
		&file.ID,
		&file.Name,
		&file.Path,
		&file.SizeBytes,
		&mediaType,
		&file.SHA256,
		&addedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKnowledgeFileNotFound
		}
		return nil, fmt.Errorf("failed to scan knowledge file: %w", err)
	}

	file.MediaType = mediaType.String
	file.AddedAt = parseTime(addedAt)
	return &file, nil
}
