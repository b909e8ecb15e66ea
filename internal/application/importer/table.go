package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyFile is returned when the upload has no content
	ErrEmptyFile = errors.New("import file is empty")
	// ErrInvalidEncoding is returned for CSV files that are not UTF-8
	ErrInvalidEncoding = errors.New("import file is not valid UTF-8")
	// ErrMissingHeader is returned when the first row is missing or blank
	ErrMissingHeader = errors.New("import file has no header row")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data row keyed by header text. Line is the 1-based line of
// the row in the source file, counting the header.
type Row struct {
	Line   int
	Values map[string]string
}

// IsEmpty reports whether every cell of the row is blank
func (r Row) IsEmpty() bool {
	for _, v := range r.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// Table is a parsed sheet: the header row and the data rows under it.
type Table struct {
	Headers []string
	Rows    []Row
}

// ReadTable parses r as an xlsx workbook when name ends in .xlsx and as
// CSV otherwise. Only the first worksheet of a workbook is read.
func ReadTable(name string, r io.Reader, delimiter rune) (*Table, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return readXLSX(r)
	}
	return readCSV(r, delimiter)
}

func readCSV(r io.Reader, delimiter rune) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	sample, err := br.Peek(4096)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(sample)) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(br)
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return newTable(records, lines)
}

func readXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return newTable(records, nil)
}

// newTable keys records[1:] by the header in records[0]. lines holds the
// source line of each record; nil means one record per line.
func newTable(records [][]string, lines []int) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(records[0]))
	blank := true
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, ErrMissingHeader
	}

	t := &Table{Headers: headers, Rows: make([]Row, 0, len(records)-1)}
	for i, rec := range records[1:] {
		line := i + 2
		if lines != nil {
			line = lines[i+1]
		}
		row := Row{Line: line, Values: make(map[string]string, len(headers))}
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(rec) {
				row.Values[h] = strings.TrimSpace(rec[j])
			} else {
				row.Values[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// trimPartialRune drops a multi-byte sequence cut off at the end of a peek
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && i < len(b); i++ {
		end := len(b) - i
		if utf8.Valid(b[:end]) {
			return b[:end]
		}
	}
	return b
}
