// Package export renders master-data lists as spreadsheets.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an xlsx workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName is the sheet-name limit of the xlsx format
const maxSheetName = 31

// FileName returns the download name for a list export of slug
func FileName(slug string, at time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", slug, at.Format("20060102"))
}

// Workbook writes one sheet titled after desc: a bold header row of field
// titles followed by one row per record, in field declaration order.
func Workbook(desc appmaster.Descriptor, records []master.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := desc.Title
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	titles := desc.Fields.Titles()
	header := make([]any, len(titles))
	for i, t := range titles {
		header[i] = t
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(max(len(titles), 1), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range records {
		row := make([]any, len(desc.Fields))
		for j, field := range desc.Fields {
			row[j] = cellValue(r[field.JSON])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any, []any:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return t
	}
}
