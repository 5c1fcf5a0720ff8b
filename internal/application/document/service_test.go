package document

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewService(store, zap.NewNop())
}

func TestService_Upload_And_Download(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	svc := newTestService(t)

	data := []byte("%PDF-1.7 ratecon body")
	result, err := svc.Upload(ctx, companyID, "ratecon.pdf", data)

	require.NoError(t, err)
	assert.Contains(t, result.Key, fmt.Sprintf("companies/%s/documents/", companyID))
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, len(data), result.Size)

	// Local storage has no presigning, so the object streams back.
	dl, err := svc.Download(ctx, companyID, result.Key)
	require.NoError(t, err)
	assert.Empty(t, dl.RedirectURL)
	assert.Equal(t, data, dl.Data)
	assert.Equal(t, "application/pdf", dl.ContentType)
}

func TestService_Upload_RejectsNonPDF(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Upload(ctx, uuid.New(), "notes.txt", []byte("plain text"))
	require.Error(t, err)

	// Right extension, wrong bytes.
	_, err = svc.Upload(ctx, uuid.New(), "fake.pdf", []byte("<html>"))
	require.Error(t, err)
}

func TestService_Upload_RejectsEmptyFile(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), uuid.New(), "empty.pdf", nil)
	require.Error(t, err)
}

func TestService_Download_CrossCompanyForbidden(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	svc := newTestService(t)

	result, err := svc.Upload(ctx, owner, "ratecon.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)

	_, err = svc.Download(ctx, uuid.New(), result.Key)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_Download_RejectsTraversal(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Download(context.Background(), uuid.New(), "companies/../etc/passwd")
	require.Error(t, err)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	svc := newTestService(t)

	result, err := svc.Upload(ctx, companyID, "receipt.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, companyID, result.Key))

	_, err = svc.Download(ctx, companyID, result.Key)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
