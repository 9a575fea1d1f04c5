package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"legal-docs-service/internal/domain/signature"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) signatureRequest(t *testing.T, id uuid.UUID, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/:id/signatures", bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames(paramID)
	c.SetParamValues(id.String())
	return c, rec
}

func TestSignatureSave(t *testing.T) {
	f := newFixture(t)
	doc := f.uploadDocument(t)

	c, rec := f.signatureRequest(t, doc.ID, SaveSignatureRequest{
		Type: signature.TypeDrawn,
		Data: "data:image/png;base64,iVBORw0KGgo=",
	})
	require.NoError(t, f.signatureHandler.Save(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	sig, ok := body[jsonKeySignature].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "drawn", sig["type"])
	assert.Equal(t, float64(signature.DefaultPage), sig["page"])
	assert.Equal(t, float64(signature.DefaultWidth), sig["width"])
	assert.Equal(t, float64(signature.DefaultHeight), sig["height"])

	// The raw signature image is never echoed back.
	assert.NotContains(t, rec.Body.String(), "iVBORw0KGgo=")

	// Saving a signature marks the document signed.
	c2, rec2 := f.pathContext(http.MethodGet, "/api/documents/:id", doc.ID)
	require.NoError(t, f.documentHandler.Get(c2))
	got := decodeBody(t, rec2)[jsonKeyDocument].(map[string]any)
	assert.Equal(t, "signed", got["status"])
}

func TestSignatureSave_InvalidInput(t *testing.T) {
	f := newFixture(t)
	doc := f.uploadDocument(t)

	tests := []struct {
		name string
		body SaveSignatureRequest
	}{
		{"missing data", SaveSignatureRequest{Type: signature.TypeDrawn}},
		{"unknown type", SaveSignatureRequest{Type: "stamped", Data: "x"}},
		{"negative position", SaveSignatureRequest{Type: signature.TypeDrawn, Data: "x", PositionX: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := f.signatureRequest(t, doc.ID, tt.body)
			require.NoError(t, f.signatureHandler.Save(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignatureSave_UnknownDocument(t *testing.T) {
	f := newFixture(t)

	c, rec := f.signatureRequest(t, uuid.New(), SaveSignatureRequest{
		Type: signature.TypeDrawn,
		Data: "x",
	})
	require.NoError(t, f.signatureHandler.Save(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignatureListByDocument(t *testing.T) {
	f := newFixture(t)
	doc := f.uploadDocument(t)

	c, rec := f.signatureRequest(t, doc.ID, SaveSignatureRequest{
		Type: signature.TypeTyped,
		Data: "Jordan Reyes",
	})
	require.NoError(t, f.signatureHandler.Save(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = f.pathContext(http.MethodGet, "/api/documents/:id/signatures", doc.ID)
	require.NoError(t, f.signatureHandler.ListByDocument(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body[jsonKeyCount])
}
