package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/markcheck/internal/model"
)

func TestText(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"Acme-Co., Ltd!!", "acme co ltd"},
		{"  HELLO   world  ", "hello world"},
		{"Café+Bar", "caf bar"},
		{"ABC123", "abc123"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Text(tc.in), "Text(%q)", tc.in)
	}
}

func TestText_Idempotent(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"Acme-Co., Ltd!!", "already clean", "  A--B  ", ""} {
		once := Text(s)
		assert.Equal(t, once, Text(once), "Text not idempotent for %q", s)
	}
}

func TestInferOwnerType(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.OwnerCompany, InferOwnerType("Acme Robotics Ltd"))
	assert.Equal(t, model.OwnerCompany, InferOwnerType("Widgets LLC"))
	assert.Equal(t, model.OwnerCompany, InferOwnerType("Smith & Jones"))
	assert.Equal(t, model.OwnerCompany, InferOwnerType("Bell and Howell"))
	assert.Equal(t, model.OwnerIndividualOrOther, InferOwnerType("Jane Smith"))
	assert.Equal(t, model.OwnerUnknown, InferOwnerType(""))
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2021-06-30", ParseDate("2021-06-30"))
	// Malformed dates pass through verbatim; they are never fabricated.
	assert.Equal(t, "30/06/2021", ParseDate("30/06/2021"))
	assert.Equal(t, "not a date", ParseDate("not a date"))
	assert.Equal(t, "", ParseDate("   "))
}

func TestExcelSerial(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "2023-01-01", ExcelSerial("44927"))
	assert.Equal(t, "1899-12-31", ExcelSerial("1"))
	assert.Equal(t, "", ExcelSerial("0"))
	assert.Equal(t, "", ExcelSerial("-12"))
	assert.Equal(t, "", ExcelSerial("not-a-number"))
	assert.Equal(t, "", ExcelSerial("NULL"))
	assert.Equal(t, "", ExcelSerial(""))
}

func TestClassCodesFromColumns(t *testing.T) {
	t.Parallel()
	headers := []string{"Trade Mark", "Class1", "Class2", "Class09", "Class10", "ClassX"}
	values := []string{"UK001", "Yes", "0", "1", "", "whatever"}
	assert.Equal(t, "1,9", ClassCodesFromColumns(headers, values))

	// Falsy tokens never count as class-present.
	for _, falsy := range []string{"", "0", "No", "N", "False"} {
		got := ClassCodesFromColumns([]string{"Class5"}, []string{falsy})
		assert.Empty(t, got, "token %q should be falsy", falsy)
	}
}

func TestParseClassList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"9", "35", "42"}, ParseClassList("9, 35 & 42"))
	assert.Equal(t, []string{"3"}, ParseClassList("class 3"))
	assert.Nil(t, ParseClassList(""))
	assert.Nil(t, ParseClassList("no digits here"))
}

func TestCountryFromOffice(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.CountryUK, CountryFromOffice("UK00003456789", ""))
	assert.Equal(t, model.CountryUK, CountryFromOffice("", "GB"))
	assert.Equal(t, model.CountryUS, CountryFromOffice("US987", ""))
	assert.Equal(t, model.CountryEU, CountryFromOffice("", "EM"))
	assert.Equal(t, model.CountryEU, CountryFromOffice("EU0101", ""))
	assert.Equal(t, model.CountryRoW, CountryFromOffice("WO2020123", ""))
	assert.Equal(t, model.CountryRoW, CountryFromOffice("", "JP"))
	assert.Equal(t, model.CountryRoW, CountryFromOffice("", ""))
}

func TestResolveCountries(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		[]string{model.CountryUK, model.CountryEU},
		ResolveCountries("UK and EU"))
	assert.Equal(t,
		[]string{model.CountryUK, model.CountryEU, model.CountryUS, model.CountryRoW},
		ResolveCountries("All"))
	assert.Equal(t, []string{model.CountryUS}, ResolveCountries("us"))
	assert.Equal(t, []string{model.CountryRoW}, ResolveCountries("row"))
	// Unknown literals pass through unchanged as a single-country filter.
	assert.Equal(t, []string{"made-up-string"}, ResolveCountries("made-up-string"))
}

func TestYearsSince(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	years, ok := YearsSince("2020-08-29", now)
	require.True(t, ok)
	assert.Equal(t, 6, years)

	// Future dates clamp to zero rather than going negative.
	years, ok = YearsSince("2030-01-01", now)
	require.True(t, ok)
	assert.Equal(t, 0, years)

	_, ok = YearsSince("not-a-date", now)
	assert.False(t, ok)
	_, ok = YearsSince("", now)
	assert.False(t, ok)
}
