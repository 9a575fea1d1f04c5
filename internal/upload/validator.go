// Package upload validates incoming files before any bytes reach
// permanent storage.
package upload

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
)

const (
	bytesPerMB = 1024 * 1024

	errNoFileMsg           = "no file was uploaded"
	errFileTooLargeFmt     = "file size exceeds the limit of %d MB"
	errUnsupportedTypeFmt  = "file type not allowed. Allowed types: %s"
	errInvalidFileNameMsg  = "file name cannot contain path separators or control characters"
	maxOriginalFileNameLen = 255
)

// Validator checks declared size and type against configured limits.
type Validator struct {
	maxSizeBytes int64
	// lowercase extensions without the dot, e.g. "pdf"
	allowedExtensions map[string]struct{}
	allowedMimeTypes  map[string]struct{}
	extensionList     string
}

func NewValidator(maxSizeBytes int64, extensions, mimeTypes []string) *Validator {
	v := &Validator{
		maxSizeBytes:      maxSizeBytes,
		allowedExtensions: make(map[string]struct{}, len(extensions)),
		allowedMimeTypes:  make(map[string]struct{}, len(mimeTypes)),
		extensionList:     strings.Join(extensions, ", "),
	}
	for _, ext := range extensions {
		v.allowedExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	for _, mt := range mimeTypes {
		v.allowedMimeTypes[strings.ToLower(mt)] = struct{}{}
	}
	return v
}

// Accepted describes a validated file ready for storage.
type Accepted struct {
	// StorageKey is the collision-resistant on-disk name; the original
	// filename survives only as metadata.
	StorageKey   string
	OriginalName string
	MimeType     string
	SizeBytes    int64
}

// Validate checks the declared size, filename and MIME type. Either a
// MIME match or an extension match is sufficient: browsers routinely
// misreport content types.
func (v *Validator) Validate(originalName, mimeType string, sizeBytes int64) (*Accepted, error) {
	if originalName == "" || sizeBytes == 0 {
		return nil, apperrors.Validation(errNoFileMsg)
	}
	if err := validateFileName(originalName); err != nil {
		return nil, err
	}
	if sizeBytes < 0 || sizeBytes > v.maxSizeBytes {
		return nil, apperrors.FileTooLarge(fmt.Sprintf(errFileTooLargeFmt, v.maxSizeBytes/bytesPerMB))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !v.extensionAllowed(ext) && !v.mimeAllowed(mimeType) {
		return nil, apperrors.UnsupportedFileType(fmt.Sprintf(errUnsupportedTypeFmt, v.extensionList))
	}

	key := uuid.New().String()
	if ext != "" {
		key += "." + ext
	}

	return &Accepted{
		StorageKey:   key,
		OriginalName: originalName,
		MimeType:     normalizeMimeType(mimeType),
		SizeBytes:    sizeBytes,
	}, nil
}

// MaxSizeBytes exposes the configured limit for request body bounds.
func (v *Validator) MaxSizeBytes() int64 {
	return v.maxSizeBytes
}

func (v *Validator) extensionAllowed(ext string) bool {
	_, ok := v.allowedExtensions[ext]
	return ok
}

func (v *Validator) mimeAllowed(mimeType string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	_, ok := v.allowedMimeTypes[strings.ToLower(mediaType)]
	return ok
}

func validateFileName(name string) error {
	if len(name) > maxOriginalFileNameLen ||
		strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return apperrors.Validation(errInvalidFileNameMsg)
	}
	for _, char := range name {
		if char < 32 || char == 127 {
			return apperrors.Validation(errInvalidFileNameMsg)
		}
	}
	return nil
}

func normalizeMimeType(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mediaType
}
