package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"legal-docs-service/internal/domain/document"
	"legal-docs-service/internal/repository/memory"
	"legal-docs-service/internal/storage/local"
	"legal-docs-service/internal/upload"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMaxUpload = 1024 * 1024

type documentFixture struct {
	store     *memory.Store
	uploadDir string
	service   *DocumentService
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()

	dir := t.TempDir()
	objects, err := local.New(dir)
	require.NoError(t, err)

	store := memory.NewStore()
	validator := upload.NewValidator(testMaxUpload,
		[]string{"pdf", "doc", "docx", "txt"},
		[]string{"application/pdf", "text/plain"})

	return &documentFixture{
		store:     store,
		uploadDir: dir,
		service:   NewDocumentService(store.Documents(), objects, validator, zap.NewNop()),
	}
}

func (f *documentFixture) upload(t *testing.T, content string) *document.Document {
	t.Helper()
	doc, err := f.service.Upload(context.Background(), UploadInput{
		Content:      strings.NewReader(content),
		OriginalName: "contract.pdf",
		MimeType:     "application/pdf",
		DeclaredSize: int64(len(content)),
		Category:     document.CategoryContracts,
	})
	require.NoError(t, err)
	return doc
}

func (f *documentFixture) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(f.uploadDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestUpload_PersistsBytesAndRecord(t *testing.T) {
	f := newDocumentFixture(t)

	doc := f.upload(t, "pdf bytes")

	assert.Equal(t, "contract.pdf", doc.Name)
	assert.Equal(t, "contract.pdf", doc.OriginalName)
	assert.Equal(t, document.StatusUploaded, doc.Status)
	assert.Equal(t, int64(len("pdf bytes")), doc.SizeBytes)
	assert.NotEqual(t, "contract.pdf", doc.StorageKey)

	data, err := os.ReadFile(filepath.Join(f.uploadDir, doc.StorageKey))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestUpload_ActualSizeOverridesDeclared(t *testing.T) {
	f := newDocumentFixture(t)

	// Client claims 10 bytes but streams more; what was written wins.
	doc, err := f.service.Upload(context.Background(), UploadInput{
		Content:      strings.NewReader("twenty bytes exactly"),
		OriginalName: "contract.pdf",
		MimeType:     "application/pdf",
		DeclaredSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), doc.SizeBytes)
}

func TestUpload_OversizedStreamLeavesNoFile(t *testing.T) {
	f := newDocumentFixture(t)

	// Declared size passes validation, the stream does not.
	_, err := f.service.Upload(context.Background(), UploadInput{
		Content:      strings.NewReader(strings.Repeat("a", testMaxUpload+10)),
		OriginalName: "contract.pdf",
		MimeType:     "application/pdf",
		DeclaredSize: 100,
	})
	assert.True(t, errors.Is(err, apperrors.ErrFileTooLarge))
	assert.Empty(t, f.storedFiles(t))

	docs, err := f.service.List(context.Background(), document.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestUpload_RejectsUnknownCategory(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.service.Upload(context.Background(), UploadInput{
		Content:      strings.NewReader("x"),
		OriginalName: "contract.pdf",
		MimeType:     "application/pdf",
		DeclaredSize: 1,
		Category:     document.Category("finance"),
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, f.storedFiles(t))
}

func TestUpload_CustomNameFallsBackToOriginal(t *testing.T) {
	f := newDocumentFixture(t)

	doc, err := f.service.Upload(context.Background(), UploadInput{
		Content:      strings.NewReader("x"),
		OriginalName: "contract.pdf",
		MimeType:     "application/pdf",
		DeclaredSize: 1,
		Name:         "Master Services Agreement",
	})
	require.NoError(t, err)
	assert.Equal(t, "Master Services Agreement", doc.Name)
}

func TestList_RejectsUnknownFilterValues(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.service.List(context.Background(), document.ListFilter{Category: "finance"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = f.service.List(context.Background(), document.ListFilter{Status: "deleted"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestDelete_RemovesRecordAndBytes(t *testing.T) {
	f := newDocumentFixture(t)
	doc := f.upload(t, "pdf bytes")

	require.NoError(t, f.service.Delete(context.Background(), doc.ID))

	_, err := f.service.Get(context.Background(), doc.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, f.storedFiles(t))
}

func TestDelete_ToleratesMissingFile(t *testing.T) {
	f := newDocumentFixture(t)
	doc := f.upload(t, "pdf bytes")

	require.NoError(t, os.Remove(filepath.Join(f.uploadDir, doc.StorageKey)))

	// Metadata still goes away even though the bytes were already gone.
	require.NoError(t, f.service.Delete(context.Background(), doc.ID))

	_, err := f.service.Get(context.Background(), doc.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDelete_UnknownDocument(t *testing.T) {
	f := newDocumentFixture(t)

	err := f.service.Delete(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateStatus_EnforcesTransitions(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	doc := f.upload(t, "pdf bytes")

	// uploaded -> analyzed skips processing.
	_, err := f.service.UpdateStatus(ctx, doc.ID, document.StatusAnalyzed)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	updated, err := f.service.UpdateStatus(ctx, doc.ID, document.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, document.StatusProcessing, updated.Status)

	updated, err = f.service.UpdateStatus(ctx, doc.ID, document.StatusAnalyzed)
	require.NoError(t, err)
	assert.Equal(t, document.StatusAnalyzed, updated.Status)
}

func TestArchive_IsTerminal(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	doc := f.upload(t, "pdf bytes")

	archived, err := f.service.Archive(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusArchived, archived.Status)

	_, err = f.service.UpdateStatus(ctx, doc.ID, document.StatusProcessing)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = f.service.Archive(ctx, doc.ID)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
