// Package document handles uploaded files: rate confirmations, fuel
// receipts, and other PDFs attached to records.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/storage"
)

// maxUploadSize caps uploads at 10 MB, matching the HTTP body limit.
const maxUploadSize = 10 << 20

var pdfMagic = []byte("%PDF-")

// UploadResult reports where an uploaded document landed
type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// DownloadResult carries either a presigned redirect or the object
// itself for streaming
type DownloadResult struct {
	RedirectURL string
	Data        []byte
	ContentType string
}

// Service stores and serves company documents
type Service struct {
	store  storage.ObjectStorage
	logger *zap.Logger
}

// NewService creates a new document service
func NewService(store storage.ObjectStorage, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Upload validates and stores a PDF for the company. Only PDFs are
// accepted; the magic bytes are checked, not just the extension.
func (s *Service) Upload(ctx context.Context, companyID uuid.UUID, filename string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is empty")
	}
	if len(data) > maxUploadSize {
		return nil, shared.NewDomainError("INVALID_INPUT", "File exceeds the 10 MB limit")
	}
	if strings.ToLower(path.Ext(filename)) != ".pdf" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Only PDF files are accepted")
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is not a valid PDF")
	}

	key := storage.NewDocumentKey(companyID, filename)
	if err := s.store.Put(ctx, key, data, "application/pdf"); err != nil {
		s.logger.Error("Failed to store document", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to store document")
	}

	return &UploadResult{
		Key:         key,
		URL:         fmt.Sprintf("/api/v1/uploads/files/%s", key),
		ContentType: "application/pdf",
		Size:        len(data),
	}, nil
}

// Download resolves a document for serving. Backends that can mint
// presigned URLs get a redirect; the rest are streamed through the API.
func (s *Service) Download(ctx context.Context, companyID uuid.UUID, key string) (*DownloadResult, error) {
	if !storage.ValidKey(key) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document key")
	}
	if !strings.HasPrefix(key, fmt.Sprintf("companies/%s/", companyID)) {
		return nil, shared.NewDomainError("FORBIDDEN", "Document belongs to another company")
	}

	url, _, err := s.store.PresignDownload(ctx, key, 15*time.Minute)
	if err == nil {
		return &DownloadResult{RedirectURL: url}, nil
	}
	if !errors.Is(err, storage.ErrPresignUnsupported) {
		s.logger.Error("Failed to presign document", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to fetch document")
	}

	obj, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to fetch document", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to fetch document")
	}
	return &DownloadResult{Data: obj.Data, ContentType: obj.ContentType}, nil
}

// Delete removes a stored document
func (s *Service) Delete(ctx context.Context, companyID uuid.UUID, key string) error {
	if !storage.ValidKey(key) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid document key")
	}
	if !strings.HasPrefix(key, fmt.Sprintf("companies/%s/", companyID)) {
		return shared.NewDomainError("FORBIDDEN", "Document belongs to another company")
	}
	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete document", zap.String("key", key), zap.Error(err))
		return shared.NewDomainError("UPSTREAM_FAILURE", "Failed to delete document")
	}
	return nil
}
