package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const exportHeader = "Trade Mark|Mark Text|Name|Country|Status\n"

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()

	le := writeFixture(t, dir, "le.txt", encodeUTF16LE(exportHeader+"UK001|Acme|Acme Ltd|United Kingdom|Registered\n", true))
	be := writeFixture(t, dir, "be.txt", encodeUTF16BE(exportHeader))
	plain := writeFixture(t, dir, "plain.txt", []byte(exportHeader))
	other := writeFixture(t, dir, "notes.txt", []byte("just some notes, not an export\n"))
	xlsx := writeFixture(t, dir, "patents.xlsx", []byte("not even a real zip"))
	xml := writeFixture(t, dir, "journal.xml", []byte("<Transaction/>"))
	missing := dir + "/does-not-exist.txt"

	assert.Equal(t, FormatText, DetectFormat(le))
	assert.Equal(t, FormatText, DetectFormat(be))
	assert.Equal(t, FormatText, DetectFormat(plain))
	assert.Equal(t, FormatUnknown, DetectFormat(other))
	// Container formats classify by extension; their parsers validate content.
	assert.Equal(t, FormatSpreadsheet, DetectFormat(xlsx))
	assert.Equal(t, FormatJournal, DetectFormat(xml))
	assert.Equal(t, FormatUnknown, DetectFormat(missing))
	assert.Equal(t, FormatUnknown, DetectFormat(dir+"/file.csv"))
}
