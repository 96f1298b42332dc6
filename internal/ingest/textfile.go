package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Required header columns: an encoding candidate is only accepted when the
// decoded header carries both.
const (
	colRegNo    = "Trade Mark"
	colMarkText = "Mark Text"
)

// encodingCandidate is one step of the ordered fallback chain. The order is
// fixed and every intermediate failure is swallowed; only exhausting the
// whole chain fails the file.
type encodingCandidate struct {
	name string
	dec  *encoding.Decoder
}

func encodingChain() []encodingCandidate {
	return []encodingCandidate{
		{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()},
		{"utf-16-le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()},
		{"utf-16-be", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()},
		{"utf-8-sig", unicode.UTF8BOM.NewDecoder()},
	}
}

// TextExport is a decoded pipe-delimited trademark export: a header plus a
// lazy row sequence.
type TextExport struct {
	header   *Header
	reader   *csv.Reader
	encoding string
}

// Header returns the export's column header.
func (t *TextExport) Header() *Header { return t.header }

// Encoding names the fallback-chain step that decoded the file.
func (t *TextExport) Encoding() string { return t.encoding }

// Next returns the next data row, right-padded or truncated to the header
// width. io.EOF signals the end of the file.
func (t *TextExport) Next() (RawRow, error) {
	for {
		rec, err := t.reader.Read()
		if err != nil {
			return RawRow{}, err
		}
		if len(rec) == 0 || (len(rec) == 1 && rec[0] == "") {
			continue
		}
		return t.header.Row(rec), nil
	}
}

// OpenTextExport decodes a pipe-delimited trademark export, trying each
// encoding in the fixed fallback order. A candidate is accepted only when it
// decodes without error AND its header contains the registration-number and
// mark-text columns; a decodable-but-wrong-schema encoding falls through to
// the next candidate rather than short-circuiting the chain.
func OpenTextExport(path string) (*TextExport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var lastErr error
	for _, cand := range encodingChain() {
		export, err := tryEncoding(raw, cand)
		if err != nil {
			lastErr = err
			continue
		}
		return export, nil
	}
	return nil, fmt.Errorf("unsupported or invalid trademark text file %s: %w", path, lastErr)
}

func tryEncoding(raw []byte, cand encodingCandidate) (*TextExport, error) {
	decoded, err := decodeStrict(raw, cand)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cand.name, err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = '|'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rec, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", cand.name, err)
	}
	header := NewHeader(rec)
	if !header.Has(colRegNo) || !header.Has(colMarkText) {
		return nil, fmt.Errorf("%s: missing expected trademark headers", cand.name)
	}
	return &TextExport{header: header, reader: r, encoding: cand.name}, nil
}

// decodeStrict applies a decoder and rejects output the way a strict codec
// would: UTF-16 input must be an even number of bytes, and any replacement
// rune in the result means the bytes were not valid in this encoding.
func decodeStrict(raw []byte, cand encodingCandidate) ([]byte, error) {
	if cand.name != "utf-8-sig" && len(raw)%2 != 0 {
		return nil, errors.New("odd byte length for utf-16 input")
	}
	decoded, _, err := transform.Bytes(cand.dec, raw)
	if err != nil {
		return nil, err
	}
	if cand.name == "utf-8-sig" {
		if !utf8.Valid(decoded) {
			return nil, errors.New("invalid utf-8 bytes")
		}
		return decoded, nil
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return nil, errors.New("undecodable utf-16 sequence")
	}
	return decoded, nil
}

// ReadAllRows drains a TextExport; used by tests and small files.
func (t *TextExport) ReadAllRows() ([]RawRow, error) {
	var rows []RawRow
	for {
		row, err := t.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
