package ingest

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The spreadsheet container is decoded by hand: unzip, load the shared-string
// table, then stream the first worksheet row by row. Memory stays bounded to
// one row plus the shared strings regardless of file size.

const (
	sheetEntry         = "xl/worksheets/sheet1.xml"
	sharedStringsEntry = "xl/sharedStrings.xml"
)

type xlsxCell struct {
	Ref  string `xml:"r,attr"`
	Type string `xml:"t,attr"`
	V    string `xml:"v"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxSharedString struct {
	Texts []string `xml:"t"`
}

// Spreadsheet streams dense rows from a zip-container spreadsheet. The first
// emitted row is the header.
type Spreadsheet struct {
	zr     *zip.ReadCloser
	sheet  io.ReadCloser
	dec    *xml.Decoder
	shared []string
	header *Header
}

// OpenSpreadsheet opens the container, loads shared strings if present, and
// positions the stream on the first worksheet. The header row is consumed
// immediately so callers can validate columns before iterating.
func OpenSpreadsheet(path string) (*Spreadsheet, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}

	s := &Spreadsheet{zr: zr}
	if err := s.loadSharedStrings(); err != nil {
		zr.Close()
		return nil, err
	}
	if err := s.openSheet(); err != nil {
		zr.Close()
		return nil, err
	}

	first, err := s.nextValues()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("read spreadsheet header %s: %w", path, err)
	}
	s.header = NewHeader(first)
	return s, nil
}

// Header returns the sheet's column header.
func (s *Spreadsheet) Header() *Header { return s.header }

// Next returns the next data row as a RawRow against the header. Rows with no
// cells or only empty cells, such as styling-only and trailing rows, are
// skipped the way blank lines are in the text exports. io.EOF signals the end
// of the sheet.
func (s *Spreadsheet) Next() (RawRow, error) {
	for {
		values, err := s.nextValues()
		if err != nil {
			return RawRow{}, err
		}
		if !anyValue(values) {
			continue
		}
		return s.header.Row(values), nil
	}
}

func anyValue(values []string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}

// Close releases the worksheet stream and the container.
func (s *Spreadsheet) Close() error {
	if s.sheet != nil {
		s.sheet.Close()
	}
	return s.zr.Close()
}

func (s *Spreadsheet) zipEntry(name string) (io.ReadCloser, bool, error) {
	for _, f := range s.zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, true, fmt.Errorf("open %s: %w", name, err)
			}
			return rc, true, nil
		}
	}
	return nil, false, nil
}

// loadSharedStrings reads xl/sharedStrings.xml into an ordered list. The
// table is optional; inline-only sheets simply have no "s" typed cells.
func (s *Spreadsheet) loadSharedStrings() error {
	rc, ok, err := s.zipEntry(sharedStringsEntry)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse shared strings: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "si" {
			continue
		}
		var si xlsxSharedString
		if err := dec.DecodeElement(&si, &start); err != nil {
			return fmt.Errorf("parse shared string item: %w", err)
		}
		s.shared = append(s.shared, strings.Join(si.Texts, ""))
	}
}

func (s *Spreadsheet) openSheet() error {
	rc, ok, err := s.zipEntry(sheetEntry)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("spreadsheet has no %s", sheetEntry)
	}
	s.sheet = rc
	s.dec = xml.NewDecoder(rc)
	return nil
}

// nextValues decodes the next <row> element into a dense value slice sized to
// the maximum column index seen in that row, with gaps left empty. The row's
// subtree is fully consumed by DecodeElement, so nothing accumulates.
func (s *Spreadsheet) nextValues() ([]string, error) {
	for {
		tok, err := s.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("parse worksheet: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}
		var row xlsxRow
		if err := s.dec.DecodeElement(&row, &start); err != nil {
			return nil, fmt.Errorf("parse worksheet row: %w", err)
		}
		return s.denseValues(row), nil
	}
}

func (s *Spreadsheet) denseValues(row xlsxRow) []string {
	byIdx := make(map[int]string, len(row.Cells))
	maxIdx := -1
	for _, c := range row.Cells {
		idx := columnIndex(c.Ref)
		if idx < 0 {
			continue
		}
		val := c.V
		// Cell type "s" means the value is an index into the shared-string
		// table; anything out of range resolves to empty.
		if c.Type == "s" {
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err == nil && n >= 0 && n < len(s.shared) {
				val = s.shared[n]
			} else {
				val = ""
			}
		}
		byIdx[idx] = val
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	values := make([]string, maxIdx+1)
	for i := range values {
		values[i] = byIdx[i]
	}
	return values
}

// columnIndex resolves an alphabetic cell reference like "BC12" to its
// zero-based column index ('A' = 0, base 26).
func columnIndex(ref string) int {
	idx := 0
	seen := false
	for _, ch := range ref {
		if ch >= 'A' && ch <= 'Z' {
			idx = idx*26 + int(ch-'A') + 1
			seen = true
		}
	}
	if !seen {
		return -1
	}
	return idx - 1
}
