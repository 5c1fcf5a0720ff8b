// Package storage provides object storage for uploaded documents.
//
// Documents (rate confirmations, receipts, invoice PDFs) are addressed
// by opaque storage keys. Clients never see bucket URLs; the API serves
// documents through a proxy path and only hands out presigned URLs for
// short-lived redirects.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrObjectNotFound is returned when a storage key resolves to nothing.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrPresignUnsupported is returned by backends that cannot mint
	// presigned URLs; callers should stream the object instead.
	ErrPresignUnsupported = errors.New("storage: presigned URLs not supported")
)

// Object is a stored document fetched for streaming.
type Object struct {
	Data        []byte
	ContentType string
}

// ObjectStorage abstracts the document store.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// PresignDownload returns a short-lived direct download URL, or
	// ErrPresignUnsupported when the backend has no such notion.
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// NewDocumentKey builds a storage key for a company document. Keys are
// namespaced by company so cross-tenant guessing yields nothing useful.
func NewDocumentKey(companyID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("companies/%s/documents/%s%s", companyID, uuid.New(), ext)
}

// ValidKey reports whether a client-supplied key is shaped like one of
// ours. Rejects traversal attempts before the key reaches a backend.
func ValidKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return false
	}
	return strings.HasPrefix(key, "companies/")
}
