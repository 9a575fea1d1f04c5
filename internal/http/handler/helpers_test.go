package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"legal-docs-service/internal/analyzer"
	"legal-docs-service/internal/audit"
	"legal-docs-service/internal/auth"
	"legal-docs-service/internal/domain/document"
	"legal-docs-service/internal/repository/memory"
	"legal-docs-service/internal/service"
	"legal-docs-service/internal/storage/local"
	"legal-docs-service/internal/upload"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const handlerTestMaxUpload = 1024 * 1024

type fixture struct {
	echo       *echo.Echo
	store      *memory.Store
	documents  *service.DocumentService
	analyses   *service.AnalysisService
	signatures *service.SignatureService

	authHandler      *AuthHandler
	documentHandler  *DocumentHandler
	analysisHandler  *AnalysisHandler
	signatureHandler *SignatureHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	objects, err := local.New(t.TempDir())
	require.NoError(t, err)

	store := memory.NewStore()
	log := zap.NewNop()
	validator := upload.NewValidator(handlerTestMaxUpload,
		[]string{"pdf", "doc", "docx", "txt"},
		[]string{"application/pdf", "text/plain"})
	auditor := audit.NewLogRecorder(log)

	documents := service.NewDocumentService(store.Documents(), objects, validator, log)
	analyses := service.NewAnalysisService(store.Documents(), store.Analyses(), objects, analyzer.NewStub(0), log)
	signatures := service.NewSignatureService(store.Documents(), store.Signatures(), log)
	jwtService := auth.NewJWTService("0123456789abcdef0123456789abcdef", time.Hour)

	return &fixture{
		echo:             echo.New(),
		store:            store,
		documents:        documents,
		analyses:         analyses,
		signatures:       signatures,
		authHandler:      NewAuthHandler(store.Users(), jwtService, auditor),
		documentHandler:  NewDocumentHandler(documents, auditor),
		analysisHandler:  NewAnalysisHandler(analyses, auditor),
		signatureHandler: NewSignatureHandler(signatures, auditor),
	}
}

func (f *fixture) jsonRequest(method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return f.echo.NewContext(req, rec), rec
}

func (f *fixture) multipartUpload(t *testing.T, fileName, content string, fields map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(formKeyFile, fileName)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return f.echo.NewContext(req, rec), rec
}

// uploadDocument creates a document through the service layer so
// handler tests can focus on the HTTP surface.
func (f *fixture) uploadDocument(t *testing.T) *document.Document {
	t.Helper()
	doc, err := f.documents.Upload(context.Background(), service.UploadInput{
		Content:      strings.NewReader("pdf bytes"),
		OriginalName: "contract.pdf",
		MimeType:     "application/pdf",
		DeclaredSize: 9,
		Category:     document.CategoryContracts,
	})
	require.NoError(t, err)
	return doc
}

func (f *fixture) pathContext(method, target string, id uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames(paramID)
	c.SetParamValues(id.String())
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
