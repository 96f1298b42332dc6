package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/markcheck/internal/model"
)

var fixedNow = time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

func TestMarkActive(t *testing.T) {
	t.Parallel()

	// Terminal statuses win regardless of dates.
	for _, s := range []string{"Dead", "Expired", "Withdrawn", "Revoked", "Cancelled", "Removed"} {
		assert.False(t, MarkActive(s, "", fixedNow), "status %q", s)
	}
	assert.True(t, MarkActive("Registered", "", fixedNow))
	assert.True(t, MarkActive("", "", fixedNow))

	// Expiry strictly before today makes the mark inactive; today and later
	// do not.
	assert.False(t, MarkActive("Registered", "2026-08-28", fixedNow))
	assert.True(t, MarkActive("Registered", "2026-08-29", fixedNow))
	assert.True(t, MarkActive("Registered", "2026-08-30", fixedNow))

	// Unparseable expiry dates are ignored.
	assert.True(t, MarkActive("Registered", "28/08/2026", fixedNow))
}

func TestPatentActive(t *testing.T) {
	t.Parallel()

	assert.True(t, PatentActive("Granted", ""))
	assert.True(t, PatentActive("", ""))
	// Any recorded not-in-force date ends the patent.
	assert.False(t, PatentActive("Granted", "2024-01-01"))
	for _, s := range []string{"Lapsed", "Ceased before grant", "Withdrawn", "Revoked"} {
		assert.False(t, PatentActive(s, ""), "status %q", s)
	}
}

func scoredMark(sim float64, active bool, classes []string) MarkSummary {
	return MarkSummary{Similarity: sim, Active: active, ClassCodes: classes}
}

func TestClassifyRisk(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RiskLow, ClassifyRisk(nil, nil))
	assert.Equal(t, RiskLow, ClassifyRisk([]MarkSummary{
		scoredMark(0.80, true, nil),
	}, nil))
	assert.Equal(t, RiskMedium, ClassifyRisk([]MarkSummary{
		scoredMark(0.86, true, nil),
	}, nil))
	assert.Equal(t, RiskHigh, ClassifyRisk([]MarkSummary{
		scoredMark(0.92, true, nil),
	}, nil))

	// One strong match outranks any number of medium matches.
	assert.Equal(t, RiskHigh, ClassifyRisk([]MarkSummary{
		scoredMark(0.86, true, nil),
		scoredMark(0.87, true, nil),
		scoredMark(0.93, true, nil),
	}, nil))

	// Inactive marks never raise the tier.
	assert.Equal(t, RiskLow, ClassifyRisk([]MarkSummary{
		scoredMark(0.99, false, nil),
	}, nil))

	// With a class filter, only overlapping marks participate.
	matches := []MarkSummary{
		scoredMark(0.95, true, []string{"9", "42"}),
		scoredMark(0.88, true, []string{"25"}),
	}
	assert.Equal(t, RiskHigh, ClassifyRisk(matches, []string{"9"}))
	assert.Equal(t, RiskMedium, ClassifyRisk(matches, []string{"25"}))
	assert.Equal(t, RiskLow, ClassifyRisk(matches, []string{"33"}))
}

func TestRankMarks(t *testing.T) {
	t.Parallel()

	ranked := rankMarks([]MarkSummary{
		{RegNo: "A", Similarity: 0.99, Active: false},
		{RegNo: "B", Similarity: 0.50, Active: true},
		{RegNo: "C", Similarity: 0.70, Active: true},
	})
	// Active records rank above inactive regardless of similarity.
	require.Len(t, ranked, 3)
	assert.Equal(t, "C", ranked[0].RegNo)
	assert.Equal(t, "B", ranked[1].RegNo)
	assert.Equal(t, "A", ranked[2].RegNo)
}

func TestRankMarks_DisplayCap(t *testing.T) {
	t.Parallel()

	matches := make([]MarkSummary, DisplayCap+10)
	for i := range matches {
		matches[i] = MarkSummary{Active: true, Similarity: float64(i) / 100}
	}
	assert.Len(t, rankMarks(matches), DisplayCap)
}

func TestSummarizeMark(t *testing.T) {
	t.Parallel()

	m := model.Mark{
		RegNo:      "UK0001",
		MarkText:   "Zephyr",
		OwnerName:  "Acme Robotics Ltd",
		OwnerType:  model.OwnerCompany,
		Country:    model.CountryUK,
		Status:     "Registered",
		Filed:      "2020-08-29",
		ClassCodes: "9,42",
	}
	sum := summarizeMark(m, "zephyr", fixedNow)
	assert.Equal(t, 1.0, sum.Similarity)
	assert.True(t, sum.Active)
	assert.Equal(t, []string{"9", "42"}, sum.ClassCodes)
	require.NotNil(t, sum.AgeYears)
	assert.Equal(t, 6, *sum.AgeYears)
	assert.Equal(t, "company", sum.OwnerType)

	// No filed date means no age, not a zero age.
	sum = summarizeMark(model.Mark{MarkText: "Zephyr"}, "zephyr", fixedNow)
	assert.Nil(t, sum.AgeYears)
}

func TestSummarizePatent(t *testing.T) {
	t.Parallel()

	p := model.Patent{
		ApplicationNumber:    "GB2100001.1",
		ApplicantName:        "Acme Robotics Ltd",
		ApplicantCountryCode: "GB",
		FilingDate:           "2023-01-01",
		Status:               "Granted",
	}
	sum := summarizePatent(p, "acme robotics", fixedNow)
	assert.Equal(t, 1.0, sum.Similarity)
	assert.True(t, sum.Active)
	// Country falls back to the code when the full name is absent.
	assert.Equal(t, "GB", sum.ApplicantCountry)
	require.NotNil(t, sum.AgeYears)
	assert.Equal(t, 3, *sum.AgeYears)

	p.DateNotInForce = "2024-06-01"
	sum = summarizePatent(p, "acme robotics", fixedNow)
	assert.False(t, sum.Active)
}
