// Package ingest turns heterogeneous government export files into canonical
// Mark and Patent records and feeds them to the index builder in batches.
package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies which parser a source file belongs to.
type Format int

const (
	FormatUnknown Format = iota
	FormatText           // pipe-delimited trademark export (.txt, dual-encoding)
	FormatSpreadsheet    // zip-container spreadsheet of patent rows (.xlsx)
	FormatJournal        // streamed XML trademark journal (.xml)
)

const sniffWindow = 4096

// Header token "Trade Mark" in the byte shapes the exports actually use:
// UTF-16LE, UTF-16BE, and raw UTF-8 with the pipe delimiter attached.
var (
	headerUTF16LE = []byte("T\x00r\x00a\x00d\x00e\x00 \x00M\x00a\x00r\x00k\x00")
	headerUTF16BE = []byte("\x00T\x00r\x00a\x00d\x00e\x00 \x00M\x00a\x00r\x00k")
	headerUTF8    = []byte("Trade Mark|")
)

// DetectFormat classifies a file by content for text exports and by extension
// for the container formats, whose structure is validated inside their
// parsers. Unreadable files and .txt files without a recognizable header are
// FormatUnknown: not an error, the batch just skips them.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatSpreadsheet
	case ".xml":
		return FormatJournal
	case ".txt":
		if sniffTrademarkExport(path) {
			return FormatText
		}
	}
	return FormatUnknown
}

func sniffTrademarkExport(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffWindow)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return false
	}
	raw := buf[:n]
	return bytes.Contains(raw, headerUTF16LE) ||
		bytes.Contains(raw, headerUTF16BE) ||
		bytes.Contains(raw, headerUTF8)
}
