// Package normalize holds the pure canonicalization functions shared by the
// record builders and the query engine. Nothing here performs I/O.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/joelkehle/markcheck/internal/model"
)

// nullTokens are cell values treated as empty across all source formats.
var nullTokens = map[string]struct{}{
	"": {}, "NULL": {}, "null": {}, "N/A": {}, "n/a": {},
}

// falsyClassTokens mark a per-class boolean column as "class absent".
var falsyClassTokens = map[string]struct{}{
	"": {}, "0": {}, "No": {}, "N": {}, "False": {},
}

var companyMarkers = []string{
	" ltd", " limited", " llc", " inc", " corp", " gmbh", " plc", " llp",
}

// Text lowercases s, collapses every run of non-[a-z0-9] to a single space,
// and trims. It is idempotent: Text(Text(s)) == Text(s).
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InferOwnerType guesses whether a mark owner is a company from suffixes and
// connectors in the name. The dataset does not carry owner business type, so
// this is a heuristic, surfaced as such in the response notes.
func InferOwnerType(name string) model.OwnerType {
	if name == "" {
		return model.OwnerUnknown
	}
	n := strings.ToLower(name)
	for _, m := range companyMarkers {
		if strings.Contains(n, m) {
			return model.OwnerCompany
		}
	}
	if strings.Contains(n, " and ") || strings.Contains(n, " & ") {
		return model.OwnerCompany
	}
	return model.OwnerIndividualOrOther
}

// ParseDate accepts strict YYYY-MM-DD and returns it unchanged; anything else
// is passed through verbatim rather than rejected, so the original value is
// preserved when a source ships a nonstandard date.
func ParseDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s
	}
	return s
}

// ParseStrictDate returns the parsed date and true only for strict
// YYYY-MM-DD input.
func ParseStrictDate(s string) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ExcelSerial converts a spreadsheet numeric date serial to ISO YYYY-MM-DD.
// The epoch is 1899-12-30, the conventional spreadsheet epoch carrying the
// 1900 leap-year artifact. Null tokens, non-numeric and non-positive inputs
// all map to empty.
func ExcelSerial(s string) string {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return ""
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	if val <= 0 {
		return ""
	}
	base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(val)).Format("2006-01-02")
}

// IsNull reports whether a cell value is one of the source formats'
// null tokens.
func IsNull(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

// CleanCell trims a cell and folds null tokens to empty.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return ""
	}
	return s
}

// ClassCodesFromColumns scans header names for "Class<N>" columns and
// collects N for every column whose value is not one of the falsy tokens.
// The result is comma-joined in header order.
func ClassCodesFromColumns(headers, values []string) string {
	var classes []string
	for i, h := range headers {
		num, ok := strings.CutPrefix(h, "Class")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		v := ""
		if i < len(values) {
			v = strings.TrimSpace(values[i])
		}
		if _, falsy := falsyClassTokens[v]; falsy {
			continue
		}
		classes = append(classes, strconv.Itoa(n))
	}
	return strings.Join(classes, ",")
}

// ParseClassList splits free text on any non-digit runs into a list of
// numeric class strings. "9, 35 & 42" yields ["9" "35" "42"].
func ParseClassList(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// CountryFromOffice maps a registration number prefix or office code to the
// region taxonomy. Precedence follows the journal convention: GB/UK wins,
// then US, then the EU offices, then any other non-empty code is
// Rest of World; no code at all is also Rest of World.
func CountryFromOffice(regNo, officeCode string) string {
	regNo = strings.ToUpper(strings.TrimSpace(regNo))
	officeCode = strings.ToUpper(strings.TrimSpace(officeCode))
	switch {
	case strings.HasPrefix(regNo, "UK") || officeCode == "GB" || officeCode == "UK":
		return model.CountryUK
	case strings.HasPrefix(regNo, "US") || officeCode == "US":
		return model.CountryUS
	case officeCode == "EM" || officeCode == "EU" || officeCode == "EP" || strings.HasPrefix(regNo, "EU"):
		return model.CountryEU
	default:
		return model.CountryRoW
	}
}

// ResolveCountries expands a query country selector to the set of regions it
// covers. Unknown literals pass through unchanged as a single-country filter.
func ResolveCountries(country string) []string {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "all", "all countries", "any":
		return []string{model.CountryUK, model.CountryEU, model.CountryUS, model.CountryRoW}
	case "uk", "united kingdom", "uk only":
		return []string{model.CountryUK}
	case "eu", "european union", "eu only":
		return []string{model.CountryEU}
	case "us", "united states", "us only":
		return []string{model.CountryUS}
	case "uk & eu", "uk and eu", "uk+eu":
		return []string{model.CountryUK, model.CountryEU}
	case "rest of world", "row", "world":
		return []string{model.CountryRoW}
	default:
		return []string{country}
	}
}

// YearsSince returns whole years elapsed since a strict YYYY-MM-DD date as of
// now, clamped at zero for future dates. Absent or unparseable input yields
// (0, false).
func YearsSince(dateStr string, now time.Time) (int, bool) {
	d, ok := ParseStrictDate(dateStr)
	if !ok {
		return 0, false
	}
	days := int(now.Sub(d).Hours() / 24)
	if days < 0 {
		return 0, true
	}
	return days / 365, true
}
