package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const contentTypeJSON = "application/json"

// maxStrictBodyBytes caps JSON request bodies. Document uploads go
// through multipart and are limited separately.
const maxStrictBodyBytes int64 = 1 << 20

// bindStrictJSON decodes a JSON body into dst, rejecting unknown fields
// and trailing content.
func bindStrictJSON(c echo.Context, dst any) error {
	contentType := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	if !strings.HasPrefix(contentType, contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	dec := json.NewDecoder(io.LimitReader(c.Request().Body, maxStrictBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}
	return nil
}
