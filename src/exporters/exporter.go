// backend/src/exporters/exporter.go
package exporters

import (
	"errors"
	"io"
	"time"

	"github.com/username/chindiferencia/backend/src/models"
)

// ErrNothingToExport is returned when the record set handed to an exporter is empty.
var ErrNothingToExport = errors.New("no hay datos activos para exportar")

// adminUserLabel replaces the agent username of administrative charges.
const adminUserLabel = "CARGA ADMIN"

// Exporter writes the active record set as a downloadable artifact.
type Exporter interface {
	Export(w io.Writer, records []models.PairedRecord) error
	ContentType() string
	Extension() string
}

// ExportFileName builds the download name, e.g. comparacion_2025-11-10-13-05-00.csv.
// The timestamp is taken in UTC.
func ExportFileName(ext string, now time.Time) string {
	return "comparacion_" + now.UTC().Format("2006-01-02-15-04-05") + "." + ext
}

func agentUser(a *models.AgentRecord) string {
	if a.IsAdminCharge {
		return adminUserLabel
	}
	return a.Username
}
