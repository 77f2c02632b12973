package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/staffeye/internal/models"
)

// utf8BOM makes spreadsheet tools detect the encoding of downloaded files.
const utf8BOM = "\ufeff"

// Column schemas are fixed per report kind. Order matters: consumers parse
// positionally.
var csvHeaders = map[models.ReportKind][]string{
	models.ReportGeneral: {
		"Employee Code", "Name", "Email", "Phone", "Department", "Position",
		"Status", "Join Date", "Birth Date", "Address", "National ID",
	},
	models.ReportMovement: {
		"Time", "Employee Code", "Name", "Movement Type", "Field",
		"Old Value", "New Value", "Note",
	},
	models.ReportClassification: {
		"Employee Code", "Name", "Department", "Position", "Tags", "Status",
	},
}

// EncodeCSV renders a table as a CSV payload: BOM, header line, one line per
// row. Every field is double-quoted with embedded quotes doubled, so values
// containing commas or newlines survive a round trip through any standard
// CSV reader.
func EncodeCSV(table *Table) ([]byte, error) {
	header, ok := csvHeaders[table.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown report kind: %s", table.Kind)
	}

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	writeCSVLine(&buf, header)
	for _, row := range table.Rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("malformed %s row: got %d fields, want %d", table.Kind, len(row), len(header))
		}
		writeCSVLine(&buf, row)
	}
	return buf.Bytes(), nil
}

func writeCSVLine(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// Filename builds the content-disposition filename for a report artifact.
func Filename(kind models.ReportKind, at time.Time) string {
	return fmt.Sprintf("report-%s-%d.csv", kind, at.UnixMilli())
}
