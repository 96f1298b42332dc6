package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

// encodeUTF16LE renders s as UTF-16 little-endian bytes, optionally with a
// byte-order mark.
func encodeUTF16LE(s string, bom bool) []byte {
	units := utf16.Encode([]rune(s))
	var buf bytes.Buffer
	if bom {
		buf.Write([]byte{0xFF, 0xFE})
	}
	for _, u := range units {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], u)
		buf.Write(b[:])
	}
	return buf.Bytes()
}

// encodeUTF16BE renders s as UTF-16 big-endian bytes without a BOM.
func encodeUTF16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	var buf bytes.Buffer
	for _, u := range units {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], u)
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func writeFixture(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeXLSX builds a minimal zip-container spreadsheet at path. Cells that
// parse as numbers are written inline; everything else goes through the
// shared-string table so both cell kinds get exercised.
func writeXLSX(t *testing.T, path string, rows [][]string) {
	t.Helper()

	var shared []string
	sharedIdx := make(map[string]int)
	internString := func(s string) int {
		if i, ok := sharedIdx[s]; ok {
			return i
		}
		shared = append(shared, s)
		sharedIdx[s] = len(shared) - 1
		return len(shared) - 1
	}

	var sheet strings.Builder
	sheet.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sheet.WriteString(`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` + "\n")
	for ri, row := range rows {
		fmt.Fprintf(&sheet, `<row r="%d">`, ri+1)
		for ci, val := range row {
			if val == "" {
				continue
			}
			ref := colRef(ci) + strconv.Itoa(ri+1)
			if _, err := strconv.ParseFloat(val, 64); err == nil {
				fmt.Fprintf(&sheet, `<c r="%s"><v>%s</v></c>`, ref, val)
			} else {
				fmt.Fprintf(&sheet, `<c r="%s" t="s"><v>%d</v></c>`, ref, internString(val))
			}
		}
		sheet.WriteString("</row>\n")
	}
	sheet.WriteString(`</sheetData></worksheet>` + "\n")

	var sst strings.Builder
	sst.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sst.WriteString(`<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` + "\n")
	for _, s := range shared {
		fmt.Fprintf(&sst, "<si><t>%s</t></si>\n", xmlEscape(s))
	}
	sst.WriteString("</sst>\n")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"xl/worksheets/sheet1.xml": sheet.String(),
		"xl/sharedStrings.xml":     sst.String(),
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// colRef converts a zero-based column index to its alphabetic reference.
func colRef(i int) string {
	ref := ""
	for {
		ref = string(rune('A'+i%26)) + ref
		i = i/26 - 1
		if i < 0 {
			return ref
		}
	}
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
