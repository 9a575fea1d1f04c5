package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"legal-docs-service/internal/domain/document"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentUpload(t *testing.T) {
	f := newFixture(t)

	c, rec := f.multipartUpload(t, "contract.pdf", "%PDF-1.4 bytes", map[string]string{
		formKeyCategory:    string(document.CategoryContracts),
		formKeyDescription: "master services agreement",
		formKeyTags:        "msa, vendor",
	})

	require.NoError(t, f.documentHandler.Upload(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	doc, ok := body[jsonKeyDocument].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "contract.pdf", doc["original_name"])
	assert.Equal(t, "contracts", doc["category"])
	assert.Equal(t, "uploaded", doc["status"])
	assert.ElementsMatch(t, []any{"msa", "vendor"}, doc["tags"])
	assert.NotEmpty(t, doc["id"])
}

func TestDocumentUpload_NoFile(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)

	require.NoError(t, f.documentHandler.Upload(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentUpload_UnsupportedType(t *testing.T) {
	f := newFixture(t)

	c, rec := f.multipartUpload(t, "movie.mp4", "not a document", nil)
	require.NoError(t, f.documentHandler.Upload(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentUpload_UnknownCategory(t *testing.T) {
	f := newFixture(t)

	c, rec := f.multipartUpload(t, "contract.pdf", "bytes", map[string]string{
		formKeyCategory: "finance",
	})
	require.NoError(t, f.documentHandler.Upload(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentList_WithFilters(t *testing.T) {
	f := newFixture(t)
	f.uploadDocument(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents?category=contracts", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)

	require.NoError(t, f.documentHandler.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body[jsonKeyCount])

	req = httptest.NewRequest(http.MethodGet, "/api/documents?category=litigation", nil)
	rec = httptest.NewRecorder()
	c = f.echo.NewContext(req, rec)

	require.NoError(t, f.documentHandler.List(c))
	body = decodeBody(t, rec)
	assert.Equal(t, float64(0), body[jsonKeyCount])
}

func TestDocumentList_RejectsUnknownFilter(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents?status=deleted", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)

	require.NoError(t, f.documentHandler.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentGet(t *testing.T) {
	f := newFixture(t)
	doc := f.uploadDocument(t)

	c, rec := f.pathContext(http.MethodGet, "/api/documents/:id", doc.ID)
	require.NoError(t, f.documentHandler.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	got, ok := body[jsonKeyDocument].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, doc.ID.String(), got["id"])
}

func TestDocumentGet_InvalidID(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/:id", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames(paramID)
	c.SetParamValues("not-a-uuid")

	require.NoError(t, f.documentHandler.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentGet_NotFound(t *testing.T) {
	f := newFixture(t)

	c, rec := f.pathContext(http.MethodGet, "/api/documents/:id", uuid.New())
	require.NoError(t, f.documentHandler.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentDelete(t *testing.T) {
	f := newFixture(t)
	doc := f.uploadDocument(t)

	c, rec := f.pathContext(http.MethodDelete, "/api/documents/:id", doc.ID)
	require.NoError(t, f.documentHandler.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = f.pathContext(http.MethodGet, "/api/documents/:id", doc.ID)
	require.NoError(t, f.documentHandler.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentArchive(t *testing.T) {
	f := newFixture(t)
	doc := f.uploadDocument(t)

	c, rec := f.pathContext(http.MethodPost, "/api/documents/:id/archive", doc.ID)
	require.NoError(t, f.documentHandler.Archive(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	got, ok := body[jsonKeyDocument].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "archived", got["status"])

	// Archiving twice fails: archived is terminal.
	c, rec = f.pathContext(http.MethodPost, "/api/documents/:id/archive", doc.ID)
	require.NoError(t, f.documentHandler.Archive(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
