package signature

import (
	"time"

	"github.com/google/uuid"
)

// Type is the kind of signature artifact captured.
type Type string

const (
	TypeDrawn              Type = "drawn"
	TypeTyped              Type = "typed"
	TypeUploaded           Type = "uploaded"
	TypeDigitalCertificate Type = "digital_certificate"
)

// Position defaults applied when the client omits placement.
const (
	DefaultPage   = 1
	DefaultWidth  = 200
	DefaultHeight = 100
)

// ValidType reports whether t is a known signature type.
func ValidType(t Type) bool {
	switch t {
	case TypeDrawn, TypeTyped, TypeUploaded, TypeDigitalCertificate:
		return true
	}
	return false
}

type Signature struct {
	ID                 uuid.UUID
	DocumentID         uuid.UUID
	UserID             *uuid.UUID
	Type               Type
	Data               string
	Page               int
	PositionX          int
	PositionY          int
	Width              int
	Height             int
	IPAddress          string
	UserAgent          string
	Verified           bool
	VerificationMethod string
	Metadata           map[string]any
	CreatedAt          time.Time
}

type CreateSignatureInput struct {
	DocumentID uuid.UUID
	UserID     *uuid.UUID
	Type       Type
	Data       string
	Page       int
	PositionX  int
	PositionY  int
	Width      int
	Height     int
	IPAddress  string
	UserAgent  string
	Metadata   map[string]any
}
