// backend/src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/chindiferencia/backend/src/logger"
)

// sniffLen is how much of a ledger file is inspected for content type detection.
const sniffLen = 512

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // Excel on Windows declares CSV this way
	"text/plain":               true,
	"application/octet-stream": true, // some browsers send this for .csv
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": false,
}

// ValidateClientContentType checks the Content-Type header declared for an uploaded agent ledger.
// An empty declaration is accepted; the content check still applies.
func ValidateClientContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if allowed, exists := AllowedClientContentTypes[mediaType]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: file type '%s' is not allowed for ledger upload", ErrValidationFailed, contentType)
	}
	return nil
}

// ValidateLedgerContent inspects the head of a ledger file and rejects content that
// is not text. Invalid UTF-8 is accepted, since Windows-1252 exports are decoded later.
func ValidateLedgerContent(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}
	head := data[:min(len(data), sniffLen)]

	if bytes.IndexByte(head, 0) != -1 {
		logger.L.Warn("File rejected: binary content detected in ledger upload")
		return fmt.Errorf("%w: file appears to be binary, not a text export", ErrValidationFailed)
	}

	detected := strings.ToLower(strings.Split(http.DetectContentType(head), ";")[0])
	switch detected {
	case "text/plain", "text/csv", "application/csv":
		return nil
	default:
		logger.L.Warn("Disallowed detected file content type", "detectedContentType", detected)
		return fmt.Errorf("%w: detected content type '%s' is not allowed", ErrValidationFailed, detected)
	}
}
