package ingest

import "strings"

// RawRow is one data row from a source file, keyed by that file's own header
// vocabulary. Each parser emits RawRows against a single shared Header, and
// only that format's record-builder adapter reads them; loosely-typed maps
// never leave this package.
type RawRow struct {
	header *Header
	fields []string
}

// Header is a source file's column list plus a name→position index.
type Header struct {
	Names []string
	pos   map[string]int
}

// NewHeader builds a Header from raw column names, trimming whitespace and
// stray byte-order marks. The first occurrence wins on duplicate names.
func NewHeader(names []string) *Header {
	h := &Header{
		Names: make([]string, len(names)),
		pos:   make(map[string]int, len(names)),
	}
	for i, n := range names {
		n = strings.TrimSpace(strings.ReplaceAll(n, "\ufeff", ""))
		h.Names[i] = n
		if _, dup := h.pos[n]; !dup {
			h.pos[n] = i
		}
	}
	return h
}

// Has reports whether the header contains a column.
func (h *Header) Has(name string) bool {
	_, ok := h.pos[name]
	return ok
}

// Row wraps fields into a RawRow, right-padding short rows with empty fields
// and truncating long rows to the header width. Ragged exports are tolerated,
// never rejected.
func (h *Header) Row(fields []string) RawRow {
	n := len(h.Names)
	if len(fields) < n {
		padded := make([]string, n)
		copy(padded, fields)
		fields = padded
	} else if len(fields) > n {
		fields = fields[:n]
	}
	return RawRow{header: h, fields: fields}
}

// Get returns the trimmed value under a header name, or empty when the
// column is absent.
func (r RawRow) Get(name string) string {
	i, ok := r.header.pos[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// Fields returns the row's dense field slice, aligned to the header.
func (r RawRow) Fields() []string {
	return r.fields
}

// Header returns the shared header the row was parsed against.
func (r RawRow) Header() *Header {
	return r.header
}
