package models

import (
	"strings"
	"time"
)

// KnowledgeFile is a reference document registered in the knowledge base.
type KnowledgeFile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	MediaType string    `json:"media_type"`
	SHA256    string    `json:"sha256"`
	AddedAt   time.Time `json:"added_at"`
}

// Validate checks required fields.
func (k *KnowledgeFile) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(k.Name) == "" {
		validation.AddMessage("name", "name is required")
	}
	if strings.TrimSpace(k.Path) == "" {
		validation.AddMessage("path", "path is required")
	}
	if k.SizeBytes < 0 {
		validation.AddMessage("size_bytes", "size must not be negative")
	}
	if len(k.SHA256) != 64 {
		validation.AddMessage("sha256", "sha256 must be 64 hex characters")
	}
	return validation.Err()
}
